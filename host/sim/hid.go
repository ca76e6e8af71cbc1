package sim

import (
	"strings"

	"kbhooks/core"
	"kbhooks/host/logging"
)

var unshifted = map[core.Keycode]byte{
	core.KC_ENT: '\n', core.KC_ESC: 0x1B, core.KC_BSPC: '\b', core.KC_TAB: '\t',
	core.KC_SPC: ' ', core.KC_MINS: '-', core.KC_EQL: '=', core.KC_LBRC: '[',
	core.KC_RBRC: ']', core.KC_BSLS: '\\', core.KC_SCLN: ';', core.KC_QUOT: '\'',
	core.KC_GRV: '`', core.KC_COMM: ',', core.KC_DOT: '.', core.KC_SLSH: '/',
	core.KC_DEL: 0x7F, core.KC_0: '0',
}

var shifted = map[core.Keycode]byte{
	core.KC_1: '!', core.KC_2: '@', core.KC_3: '#', core.KC_4: '$', core.KC_5: '%',
	core.KC_6: '^', core.KC_7: '&', core.KC_8: '*', core.KC_9: '(', core.KC_0: ')',
	core.KC_MINS: '_', core.KC_EQL: '+', core.KC_LBRC: '{', core.KC_RBRC: '}',
	core.KC_BSLS: '|', core.KC_SCLN: ':', core.KC_QUOT: '"', core.KC_GRV: '~',
	core.KC_COMM: '<', core.KC_DOT: '>', core.KC_SLSH: '?',
}

// recorder is the simulator's HID reporter. It turns key presses back
// into US-layout text.
type recorder struct {
	mods  uint8
	typed strings.Builder
}

func (r *recorder) KeyDown(kc core.Keycode) error {
	logging.GetLogger("sim").Debug("key down", "keycode", uint16(kc))
	if kc.IsModifier() {
		r.mods |= kc.ModifierBit()
		return nil
	}
	if c, ok := r.char(kc); ok {
		r.typed.WriteByte(c)
	}
	return nil
}

func (r *recorder) KeyUp(kc core.Keycode) error {
	if kc.IsModifier() {
		r.mods &^= kc.ModifierBit()
	}
	return nil
}

func (r *recorder) char(kc core.Keycode) (byte, bool) {
	shift := r.mods&(core.KC_LSFT.ModifierBit()|core.KC_RSFT.ModifierBit()) != 0
	switch {
	case kc >= core.KC_A && kc <= core.KC_Z:
		c := byte('a' + (kc - core.KC_A))
		if shift {
			c -= 'a' - 'A'
		}
		return c, true
	case shift:
		c, ok := shifted[kc]
		return c, ok
	case kc >= core.KC_1 && kc <= core.KC_9:
		return byte('1' + (kc - core.KC_1)), true
	}
	c, ok := unshifted[kc]
	return c, ok
}

func (r *recorder) take() string {
	s := r.typed.String()
	r.typed.Reset()
	return s
}
