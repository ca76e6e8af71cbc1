package vvh413

import (
	"kbhooks/core"
	"kbhooks/keychron"
)

// Layers
const (
	WIN_BASE uint8 = iota
	WIN_FN
	MAC_BASE
	MAC_FN
	LayerCount
)

// Matrix geometry of the 109-key ANSI board with knob.
const (
	MatrixRows = 6
	MatrixCols = 21
)

// Custom keycodes: BUF_P_0 plays text buffer 0, BUF_P_1 buffer 1, and so on.
const (
	BUF_P_0 = core.SAFE_RANGE + iota
	BUF_P_1
)

// BufP returns the playback keycode for buffer slot n.
func BufP(n int) core.Keycode {
	return BUF_P_0 + core.Keycode(n)
}

const _______ = core.KC_TRNS

// Shorter local names for the keycodes the tables use most.
const (
	KC_TASK = keychron.KC_TASK
	KC_FILE = keychron.KC_FILE
	BT_HST1 = keychron.BT_HST1
	BT_HST2 = keychron.BT_HST2
	BT_HST3 = keychron.BT_HST3
	P2P4G   = keychron.P2P4G
	BAT_LVL = keychron.BAT_LVL
)

func mc(n uint8) core.Keycode { return core.MC(n) }

// Keymaps returns the key and encoder tables.
func Keymaps() *core.Layers {
	k := func(rows ...[]core.Keycode) [][]core.Keycode { return rows }
	type r = []core.Keycode

	return &core.Layers{
		Keys: [][][]core.Keycode{
			WIN_BASE: k(
				r{core.KC_ESC, core.KC_F1, core.KC_F2, core.KC_F3, core.KC_F4, core.KC_F5, core.KC_F6, core.KC_F7, core.KC_F8, core.KC_F9, core.KC_F10, core.KC_F11, core.KC_F12, core.KC_WSTP, core.KC_PSCR, core.RGB_TOG, core.KC_F20, mc(0), mc(1), mc(2), mc(3)},
				r{core.KC_GRV, core.KC_1, core.KC_2, core.KC_3, core.KC_4, core.KC_5, core.KC_6, core.KC_7, core.KC_8, core.KC_9, core.KC_0, core.KC_MINS, core.KC_EQL, core.KC_BSPC, core.KC_INS, core.KC_HOME, core.KC_PGUP, core.KC_NUM, core.KC_PSLS, core.KC_PAST, core.KC_PMNS},
				r{core.KC_TAB, core.KC_Q, core.KC_W, core.KC_E, core.KC_R, core.KC_T, core.KC_Y, core.KC_U, core.KC_I, core.KC_O, core.KC_P, core.KC_LBRC, core.KC_RBRC, core.KC_BSLS, core.KC_DEL, core.KC_END, core.KC_PGDN, core.KC_P7, core.KC_P8, core.KC_P9},
				r{core.KC_CAPS, core.KC_A, core.KC_S, core.KC_D, core.KC_F, core.KC_G, core.KC_H, core.KC_J, core.KC_K, core.KC_L, core.KC_SCLN, core.KC_QUOT, core.KC_ENT, core.KC_P4, core.KC_P5, core.KC_P6, core.KC_PPLS},
				r{core.KC_LSFT, core.KC_Z, core.KC_X, core.KC_C, core.KC_V, core.KC_B, core.KC_N, core.KC_M, core.KC_COMM, core.KC_DOT, core.KC_SLSH, core.KC_RSFT, core.KC_UP, core.KC_P1, core.KC_P2, core.KC_P3},
				r{core.KC_LCTL, core.KC_LWIN, core.KC_LALT, core.KC_SPC, core.KC_RALT, core.KC_RWIN, core.MO(WIN_FN), core.KC_RCTL, core.KC_LEFT, core.KC_DOWN, core.KC_RGHT, core.KC_P0, core.KC_PDOT, core.KC_PENT},
			),
			WIN_FN: k(
				r{_______, core.KC_BRID, core.KC_BRIU, KC_TASK, KC_FILE, core.RGB_VAD, core.RGB_VAI, core.KC_MPRV, core.KC_MPLY, core.KC_MNXT, core.KC_MUTE, core.KC_VOLD, core.KC_VOLU, core.KC_MUTE, _______, _______, _______, mc(4), mc(5), mc(6), mc(7)},
				r{_______, BT_HST1, BT_HST2, BT_HST3, P2P4G, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______},
				r{core.RGB_TOG, core.RGB_MOD, core.RGB_VAI, core.RGB_HUI, core.RGB_SAI, core.RGB_SPI, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______},
				r{_______, core.RGB_RMOD, core.RGB_VAD, core.RGB_HUD, core.RGB_SAD, core.RGB_SPD, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______},
				r{_______, _______, _______, _______, _______, BAT_LVL, core.NK_TOGG, _______, _______, _______, _______, _______, _______, _______, _______, _______},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______},
			),
			MAC_BASE: k(
				r{core.KC_ESC, core.KC_BRID, core.KC_BRIU, KC_TASK, KC_FILE, core.RGB_VAD, core.RGB_VAI, core.KC_MPRV, core.KC_MPLY, core.KC_MNXT, core.KC_MUTE, core.KC_VOLD, core.KC_VOLU, core.KC_MUTE, core.KC_PSCR, core.RGB_TOG, core.KC_F20, mc(8), mc(9), BUF_P_0, BUF_P_1},
				r{core.KC_GRV, core.KC_1, core.KC_2, core.KC_3, core.KC_4, core.KC_5, core.KC_6, core.KC_7, core.KC_8, core.KC_9, core.KC_0, core.KC_MINS, core.KC_EQL, core.KC_BSPC, core.KC_INS, core.KC_HOME, core.KC_PGUP, core.KC_NUM, core.KC_PSLS, core.KC_PAST, core.KC_PMNS},
				r{core.KC_TAB, core.KC_Q, core.KC_W, core.KC_E, core.KC_R, core.KC_T, core.KC_Y, core.KC_U, core.KC_I, core.KC_O, core.KC_P, core.KC_LBRC, core.KC_RBRC, core.KC_BSLS, core.KC_DEL, core.KC_END, core.KC_PGDN, mc(17), mc(18), mc(19)},
				r{core.KC_CAPS, core.KC_A, core.KC_S, core.KC_D, core.KC_F, core.KC_G, core.KC_H, core.KC_J, core.KC_K, core.KC_L, core.KC_SCLN, core.KC_QUOT, core.KC_ENT, mc(14), mc(15), mc(16), core.KC_PPLS},
				r{core.KC_LSFT, core.KC_Z, core.KC_X, core.KC_C, core.KC_V, core.KC_B, core.KC_N, core.KC_M, core.KC_COMM, core.KC_DOT, core.KC_SLSH, core.KC_RSFT, core.KC_UP, mc(11), mc(12), mc(13)},
				r{core.KC_LCTL, core.KC_LWIN, core.KC_LALT, core.KC_SPC, core.KC_RALT, core.KC_RWIN, core.TG(MAC_FN), core.KC_RCTL, core.KC_LEFT, core.KC_DOWN, core.KC_RGHT, mc(10), core.KC_PDOT, core.KC_PENT},
			),
			MAC_FN: k(
				r{core.DM_RSTP, core.KC_F1, core.KC_F2, core.KC_F3, core.KC_F4, core.KC_F5, core.KC_F6, core.KC_F7, core.KC_F8, core.KC_F9, core.KC_F10, core.KC_F11, core.KC_F12, core.RGB_TOG, _______, _______, _______, core.DM_REC1, core.DM_REC2, core.DM_PLY1, core.DM_PLY2},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, core.KC_P7, core.KC_P8, core.KC_P9},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, core.KC_P4, core.KC_P5, core.KC_P6, _______},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, core.KC_P1, core.KC_P2, core.KC_P3},
				r{_______, _______, _______, _______, _______, _______, _______, _______, _______, _______, _______, core.KC_P0, _______, _______},
			),
		},
		Encoders: [][][2]core.Keycode{
			WIN_BASE: {{core.KC_WBAK, core.KC_WFWD}},
			WIN_FN:   {{core.KC_VOLD, core.KC_VOLU}},
			MAC_BASE: {{core.KC_VOLD, core.KC_VOLU}},
			MAC_FN:   {{core.RGB_VAD, core.RGB_VAI}},
		},
	}
}

// LEDFlags returns one flag byte per LED. LEDs follow the key order of the
// base layer; modifier and layer keys carry LEDFlagModifier.
func LEDFlags() []uint8 {
	base := Keymaps().Keys[WIN_BASE]
	var flags []uint8
	for _, row := range base {
		for _, kc := range row {
			f := core.LEDFlagKeylight
			if isModifierKey(kc) {
				f |= core.LEDFlagModifier
			}
			flags = append(flags, f)
		}
	}
	return flags
}

func isModifierKey(kc core.Keycode) bool {
	switch kc {
	case core.KC_ESC, core.KC_TAB, core.KC_CAPS, core.KC_ENT, core.KC_BSPC:
		return true
	}
	return kc.IsModifier() || kc.IsMomentary() || kc.IsToggleLayer()
}
