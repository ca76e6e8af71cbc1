package keychron

import "kbhooks/core"

// ProcessRecordCommon handles the Keychron keycodes. It returns false for
// keys it consumed; keymaps call it first and stop when it does.
func ProcessRecordCommon(kc core.Keycode, rec *core.KeyRecord) bool {
	if sc, ok := shortcuts[kc]; ok {
		if rec.Pressed {
			for _, m := range sc.mods {
				core.RegisterCode(m)
			}
			core.RegisterCode(sc.key)
		} else {
			core.UnregisterCode(sc.key)
			for i := len(sc.mods) - 1; i >= 0; i-- {
				core.UnregisterCode(sc.mods[i])
			}
		}
		return false
	}

	// Wired-only builds have no wireless module to hand these to.
	if IsWireless(kc) {
		return false
	}
	return true
}
