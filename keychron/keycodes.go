// Package keychron holds the keycodes and key handling shared by Keychron
// boards.
package keychron

import "kbhooks/core"

// Keychron keycodes occupy the keyboard-specific range.
const (
	KC_LOPTN core.Keycode = core.QK_KB + iota
	KC_ROPTN
	KC_LCMMD
	KC_RCMMD
	KC_TASK_VIEW
	KC_FILE_EXPLORER
	KC_SCREEN_SHOT
	KC_CORTANA
	BT_HST1
	BT_HST2
	BT_HST3
	P2P4G
	BAT_LVL

	KC_TASK = KC_TASK_VIEW
	KC_FILE = KC_FILE_EXPLORER
	KC_SNAP = KC_SCREEN_SHOT
	KC_CRTA = KC_CORTANA
)

// shortcut is a key combination sent while a Keychron key is held.
type shortcut struct {
	mods []core.Keycode
	key  core.Keycode
}

var shortcuts = map[core.Keycode]shortcut{
	KC_LOPTN:         {key: core.KC_LALT},
	KC_ROPTN:         {key: core.KC_RALT},
	KC_LCMMD:         {key: core.KC_LGUI},
	KC_RCMMD:         {key: core.KC_RGUI},
	KC_TASK_VIEW:     {mods: []core.Keycode{core.KC_LGUI}, key: core.KC_TAB},
	KC_FILE_EXPLORER: {mods: []core.Keycode{core.KC_LGUI}, key: core.KC_E},
	KC_SCREEN_SHOT:   {mods: []core.Keycode{core.KC_LGUI, core.KC_LSFT}, key: core.KC_S},
	KC_CORTANA:       {mods: []core.Keycode{core.KC_LGUI}, key: core.KC_C},
}

// IsWireless reports whether kc belongs to the wireless module keys.
func IsWireless(kc core.Keycode) bool {
	return kc >= BT_HST1 && kc <= BAT_LVL
}
