package core

// Keycode is a 16-bit firmware keycode. Values below 0x0100 are HID
// keyboard usages; the ranges above encode layer, lighting and
// board-specific actions.
type Keycode uint16

// Basic keycodes
const (
	KC_NO   Keycode = 0x0000
	KC_TRNS Keycode = 0x0001

	KC_A Keycode = 0x0004 + iota - 2
	KC_B
	KC_C
	KC_D
	KC_E
	KC_F
	KC_G
	KC_H
	KC_I
	KC_J
	KC_K
	KC_L
	KC_M
	KC_N
	KC_O
	KC_P
	KC_Q
	KC_R
	KC_S
	KC_T
	KC_U
	KC_V
	KC_W
	KC_X
	KC_Y
	KC_Z
	KC_1
	KC_2
	KC_3
	KC_4
	KC_5
	KC_6
	KC_7
	KC_8
	KC_9
	KC_0
	KC_ENT
	KC_ESC
	KC_BSPC
	KC_TAB
	KC_SPC
	KC_MINS
	KC_EQL
	KC_LBRC
	KC_RBRC
	KC_BSLS
	KC_NUHS
	KC_SCLN
	KC_QUOT
	KC_GRV
	KC_COMM
	KC_DOT
	KC_SLSH
	KC_CAPS
	KC_F1
	KC_F2
	KC_F3
	KC_F4
	KC_F5
	KC_F6
	KC_F7
	KC_F8
	KC_F9
	KC_F10
	KC_F11
	KC_F12
	KC_PSCR
	KC_SCRL
	KC_PAUS
	KC_INS
	KC_HOME
	KC_PGUP
	KC_DEL
	KC_END
	KC_PGDN
	KC_RGHT
	KC_LEFT
	KC_DOWN
	KC_UP
	KC_NUM
	KC_PSLS
	KC_PAST
	KC_PMNS
	KC_PPLS
	KC_PENT
	KC_P1
	KC_P2
	KC_P3
	KC_P4
	KC_P5
	KC_P6
	KC_P7
	KC_P8
	KC_P9
	KC_P0
	KC_PDOT
	KC_NUBS
	KC_APP
)

const (
	KC_F13 Keycode = 0x0068 + iota
	KC_F14
	KC_F15
	KC_F16
	KC_F17
	KC_F18
	KC_F19
	KC_F20
	KC_F21
	KC_F22
	KC_F23
	KC_F24
)

// System and consumer keycodes
const (
	KC_PWR Keycode = 0x00A5 + iota
	KC_SLEP
	KC_WAKE
	KC_MUTE
	KC_VOLU
	KC_VOLD
	KC_MNXT
	KC_MPRV
	KC_MSTP
	KC_MPLY
	KC_MSEL
	KC_EJCT
	KC_MAIL
	KC_CALC
	KC_MYCM
	KC_WSCH
	KC_WHOM
	KC_WBAK
	KC_WFWD
	KC_WSTP
	KC_WREF
	KC_WFAV
	KC_MFFD
	KC_MRWD
	KC_BRIU
	KC_BRID
)

// Modifiers
const (
	KC_LCTL Keycode = 0x00E0 + iota
	KC_LSFT
	KC_LALT
	KC_LGUI
	KC_RCTL
	KC_RSFT
	KC_RALT
	KC_RGUI

	KC_LWIN = KC_LGUI
	KC_RWIN = KC_RGUI
	KC_LCMD = KC_LGUI
	KC_RCMD = KC_RGUI
	KC_LOPT = KC_LALT
	KC_ROPT = KC_RALT
)

// Range bases
const (
	QK_BASIC_MAX      Keycode = 0x00FF
	QK_MOMENTARY      Keycode = 0x5220
	QK_TOGGLE_LAYER   Keycode = 0x5260
	QK_MACRO          Keycode = 0x7700
	QK_KB             Keycode = 0x7E00
	QK_USER           Keycode = 0x7E40
	SAFE_RANGE                = QK_USER
	layerKeycodeMask  Keycode = 0x001F
	layerKeycodeRange Keycode = 0x0020
)

// Magic, lighting and dynamic macro keycodes
const (
	NK_TOGG Keycode = 0x7013

	RGB_TOG  Keycode = 0x7820
	RGB_MOD  Keycode = 0x7821
	RGB_RMOD Keycode = 0x7822
	RGB_HUI  Keycode = 0x7823
	RGB_HUD  Keycode = 0x7824
	RGB_SAI  Keycode = 0x7825
	RGB_SAD  Keycode = 0x7826
	RGB_VAI  Keycode = 0x7827
	RGB_VAD  Keycode = 0x7828
	RGB_SPI  Keycode = 0x7829
	RGB_SPD  Keycode = 0x782A

	DM_REC1 Keycode = 0x7C53
	DM_REC2 Keycode = 0x7C54
	DM_RSTP Keycode = 0x7C55
	DM_PLY1 Keycode = 0x7C56
	DM_PLY2 Keycode = 0x7C57
)

// MO returns the momentary layer keycode for layer.
func MO(layer uint8) Keycode {
	return QK_MOMENTARY | (Keycode(layer) & layerKeycodeMask)
}

// TG returns the toggle layer keycode for layer.
func TG(layer uint8) Keycode {
	return QK_TOGGLE_LAYER | (Keycode(layer) & layerKeycodeMask)
}

// MC returns the n-th macro keycode (MC_0..MC_31).
func MC(n uint8) Keycode {
	return QK_MACRO | Keycode(n&0x1F)
}

// IsBasic reports whether kc is a plain HID keyboard usage.
func (kc Keycode) IsBasic() bool {
	return kc >= KC_A && kc <= KC_APP || kc >= KC_F13 && kc <= KC_F24
}

// IsModifier reports whether kc is one of the eight modifier usages.
func (kc Keycode) IsModifier() bool {
	return kc >= KC_LCTL && kc <= KC_RGUI
}

// IsConsumer reports whether kc is a system or consumer control key.
func (kc Keycode) IsConsumer() bool {
	return kc >= KC_PWR && kc <= KC_BRID
}

// IsMomentary reports whether kc is MO(n).
func (kc Keycode) IsMomentary() bool {
	return kc >= QK_MOMENTARY && kc < QK_MOMENTARY+layerKeycodeRange
}

// IsToggleLayer reports whether kc is TG(n).
func (kc Keycode) IsToggleLayer() bool {
	return kc >= QK_TOGGLE_LAYER && kc < QK_TOGGLE_LAYER+layerKeycodeRange
}

// Layer returns the layer argument of MO/TG keycodes.
func (kc Keycode) Layer() uint8 {
	return uint8(kc & layerKeycodeMask)
}

// ModifierBit returns the HID modifier byte bit for a modifier keycode.
func (kc Keycode) ModifierBit() uint8 {
	if !kc.IsModifier() {
		return 0
	}
	return 1 << (kc - KC_LCTL)
}

// asciiToKeycode maps a printable byte to its US-layout keycode and
// whether shift must be held. Returns KC_NO for bytes with no key.
func asciiToKeycode(c byte) (Keycode, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return KC_A + Keycode(c-'a'), false
	case c >= 'A' && c <= 'Z':
		return KC_A + Keycode(c-'A'), true
	case c >= '1' && c <= '9':
		return KC_1 + Keycode(c-'1'), false
	}
	switch c {
	case '0':
		return KC_0, false
	case '\b':
		return KC_BSPC, false
	case '\t':
		return KC_TAB, false
	case '\n':
		return KC_ENT, false
	case 0x1B:
		return KC_ESC, false
	case ' ':
		return KC_SPC, false
	case '!':
		return KC_1, true
	case '"':
		return KC_QUOT, true
	case '#':
		return KC_3, true
	case '$':
		return KC_4, true
	case '%':
		return KC_5, true
	case '&':
		return KC_7, true
	case '\'':
		return KC_QUOT, false
	case '(':
		return KC_9, true
	case ')':
		return KC_0, true
	case '*':
		return KC_8, true
	case '+':
		return KC_EQL, true
	case ',':
		return KC_COMM, false
	case '-':
		return KC_MINS, false
	case '.':
		return KC_DOT, false
	case '/':
		return KC_SLSH, false
	case ':':
		return KC_SCLN, true
	case ';':
		return KC_SCLN, false
	case '<':
		return KC_COMM, true
	case '=':
		return KC_EQL, false
	case '>':
		return KC_DOT, true
	case '?':
		return KC_SLSH, true
	case '@':
		return KC_2, true
	case '[':
		return KC_LBRC, false
	case '\\':
		return KC_BSLS, false
	case ']':
		return KC_RBRC, false
	case '^':
		return KC_6, true
	case '_':
		return KC_MINS, true
	case '`':
		return KC_GRV, false
	case '{':
		return KC_LBRC, true
	case '|':
		return KC_BSLS, true
	case '}':
		return KC_RBRC, true
	case '~':
		return KC_GRV, true
	case 0x7F:
		return KC_DEL, false
	}
	return KC_NO, false
}
