package core

// LayerState is a bitmask of active layers.
type LayerState uint32

// MaxLayers is the number of layers a LayerState can address.
const MaxLayers = 32

// Layers holds the keymap tables: Keys[layer][row][col] and
// Encoders[layer][encoder] = {counter-clockwise, clockwise}. Rows may be
// shorter than the matrix width; missing positions read as KC_NO.
type Layers struct {
	Keys     [][][]Keycode
	Encoders [][][2]Keycode
}

// KeyAt returns the keycode at a position on one layer.
func (l *Layers) KeyAt(layer uint8, row, col int) Keycode {
	if int(layer) >= len(l.Keys) {
		return KC_NO
	}
	rows := l.Keys[layer]
	if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
		return KC_NO
	}
	return rows[row][col]
}

// EncoderAt returns the encoder keycode on one layer.
func (l *Layers) EncoderAt(layer uint8, index uint8, clockwise bool) Keycode {
	if int(layer) >= len(l.Encoders) || int(index) >= len(l.Encoders[layer]) {
		return KC_NO
	}
	if clockwise {
		return l.Encoders[layer][index][1]
	}
	return l.Encoders[layer][index][0]
}

// HighestLayer returns the index of the highest set bit, or 0 when empty.
func HighestLayer(state LayerState) uint8 {
	for i := int(MaxLayers - 1); i > 0; i-- {
		if state&(1<<uint(i)) != 0 {
			return uint8(i)
		}
	}
	return 0
}

// resolve walks active layers from the top, skipping KC_TRNS.
func resolve(active LayerState, lookup func(layer uint8) Keycode) Keycode {
	if active == 0 {
		active = 1
	}
	for i := int(HighestLayer(active)); i >= 0; i-- {
		if active&(1<<uint(i)) == 0 {
			continue
		}
		if kc := lookup(uint8(i)); kc != KC_TRNS {
			return kc
		}
	}
	return KC_NO
}
