package vvh413

import "kbhooks/core"

const (
	// BufSize is the size of one text buffer slot.
	BufSize = 1024
	// MaxWriteChunk and MaxReadChunk bound the payload of one buffer
	// request; a read must leave room for the echoed header in a 32-byte
	// report.
	MaxWriteChunk = 27
	MaxReadChunk  = 26
	// IndicatorTimeoutMs is how long the brightness and test overlays stay lit.
	IndicatorTimeoutMs = 1000
	// MicLEDIndex is the LED lit while the microphone is muted.
	MicLEDIndex uint8 = 15
	// DefaultBufferDelay is the playback delay between characters in ms.
	DefaultBufferDelay uint8 = 10
)

// Options select between the build variants of this keymap.
type Options struct {
	// BufferSlots is the number of text buffers (and BUF_P_n keys).
	BufferSlots int
	// WithBufferDelay stores a configurable playback delay in the
	// settings record. Without it playback uses DefaultBufferDelay.
	WithBufferDelay bool
	// SaveOnSet persists the record after every set request instead of
	// waiting for an explicit save.
	SaveOnSet bool
}

// DefaultOptions returns the variant with two buffers and a stored delay.
func DefaultOptions() Options {
	return Options{BufferSlots: 2, WithBufferDelay: true}
}

// Config is the persisted settings record.
type Config struct {
	Init        bool
	LayerColors [LayerCount]core.HSV
	BufferDelay uint8
}

// DefaultConfig returns the factory settings.
func DefaultConfig() Config {
	return Config{
		Init: true,
		LayerColors: [LayerCount]core.HSV{
			WIN_BASE: core.HSVMagenta,
			WIN_FN:   core.HSVGreen,
			MAC_BASE: core.HSVCyan,
			MAC_FN:   core.HSVCoral,
		},
		BufferDelay: DefaultBufferDelay,
	}
}

// RecordSize returns the encoded record size for the options.
func RecordSize(withDelay bool) int {
	n := 1 + 3*int(LayerCount)
	if withDelay {
		n++
	}
	return n
}

// Encode serializes the record as init, then h/s/v per layer, then the
// optional delay byte.
func (c Config) Encode(withDelay bool) []byte {
	buf := make([]byte, 0, RecordSize(withDelay))
	if c.Init {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, hsv := range c.LayerColors {
		buf = append(buf, hsv.H, hsv.S, hsv.V)
	}
	if withDelay {
		buf = append(buf, c.BufferDelay)
	}
	return buf
}

// DecodeConfig parses a record produced by Encode. Missing trailing bytes
// read as zero.
func DecodeConfig(data []byte, withDelay bool) Config {
	buf := make([]byte, RecordSize(withDelay))
	copy(buf, data)

	c := Config{Init: buf[0] != 0}
	for i := range c.LayerColors {
		o := 1 + 3*i
		c.LayerColors[i] = core.HSV{H: buf[o], S: buf[o+1], V: buf[o+2]}
	}
	if withDelay {
		c.BufferDelay = buf[len(buf)-1]
	} else {
		c.BufferDelay = DefaultBufferDelay
	}
	return c
}
