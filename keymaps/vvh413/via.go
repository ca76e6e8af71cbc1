package vvh413

import "kbhooks/core"

// Custom value ids on the custom channel.
const (
	IDLayerColor       uint8 = 1
	IDResetLayerColors uint8 = 2
	IDTest             uint8 = 3
	IDMicState         uint8 = 4
	IDBuffer           uint8 = 5
	IDBufferDelay      uint8 = 6
)

// ViaCustomValueCommand handles [command, channel, value id, data...] in
// place. Requests that fail a range check are left untouched.
func (k *Keymap) ViaCustomValueCommand(data []byte) {
	if len(data) < core.ViaCustomHeaderLength {
		if len(data) > 0 {
			data[0] = core.ViaUnhandled
		}
		return
	}
	if data[1] != core.ViaChannelCustom {
		data[0] = core.ViaUnhandled
		return
	}

	valueID := data[2]
	valueData := data[3:]
	switch data[0] {
	case core.ViaCustomSetValue:
		k.setValue(valueID, valueData)
		if k.opts.SaveOnSet {
			k.save()
		}
	case core.ViaCustomGetValue:
		k.getValue(valueID, valueData)
	case core.ViaCustomSave:
		k.save()
	default:
		data[0] = core.ViaUnhandled
	}
}

// bufferRange validates a buffer request header and returns its offset and size.
func (k *Keymap) bufferRange(d []byte, maxChunk int) (offset, size int, ok bool) {
	if len(d) < 3 {
		return 0, 0, false
	}
	offset = int(d[0])<<8 | int(d[1])
	size = int(d[2])
	if size > maxChunk || offset+size > len(k.buffer) || len(d) < 3+size {
		return 0, 0, false
	}
	return offset, size, true
}

func (k *Keymap) setValue(id uint8, d []byte) {
	switch id {
	case IDLayerColor:
		if len(d) >= 3 && int(d[0]) < len(k.config.LayerColors) {
			k.config.LayerColors[d[0]].H = d[1]
			k.config.LayerColors[d[0]].S = d[2]
		}
	case IDResetLayerColors:
		k.config.LayerColors = DefaultConfig().LayerColors
	case IDTest:
		if len(d) >= 1 {
			k.testTurnOn(d[0])
		}
	case IDMicState:
		if len(d) >= 1 {
			k.micIndicator = d[0] != 0
		}
	case IDBuffer:
		if offset, size, ok := k.bufferRange(d, MaxWriteChunk); ok {
			copy(k.buffer[offset:offset+size], d[3:3+size])
		}
	case IDBufferDelay:
		if k.opts.WithBufferDelay && len(d) >= 1 {
			k.config.BufferDelay = d[0]
		}
	}
}

func (k *Keymap) getValue(id uint8, d []byte) {
	switch id {
	case IDLayerColor:
		if len(d) >= 3 && int(d[0]) < len(k.config.LayerColors) {
			d[1] = k.config.LayerColors[d[0]].H
			d[2] = k.config.LayerColors[d[0]].S
		}
	case IDMicState:
		if len(d) >= 1 {
			d[0] = 0
			if k.micIndicator {
				d[0] = 1
			}
		}
	case IDBuffer:
		if offset, size, ok := k.bufferRange(d, MaxReadChunk); ok {
			copy(d[3:3+size], k.buffer[offset:offset+size])
		}
	case IDBufferDelay:
		if k.opts.WithBufferDelay && len(d) >= 1 {
			d[0] = k.config.BufferDelay
		}
	}
}
