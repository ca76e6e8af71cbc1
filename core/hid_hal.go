package core

// HIDReporter sends key state changes to the host. Implementations accept
// basic, modifier and consumer keycodes and ignore anything else.
type HIDReporter interface {
	KeyDown(kc Keycode) error
	KeyUp(kc Keycode) error
}

var hidReporter HIDReporter

// SetHIDReporter is called by target-specific code to register its driver.
func SetHIDReporter(r HIDReporter) {
	hidReporter = r
}

// MustHID returns the configured reporter or panics if missing.
func MustHID() HIDReporter {
	if hidReporter == nil {
		panic("HID reporter not configured")
	}
	return hidReporter
}

// RegisterCode reports kc as held.
func RegisterCode(kc Keycode) {
	if err := MustHID().KeyDown(kc); err != nil {
		DebugPrintln("[HID] down " + hex16(uint16(kc)) + ": " + err.Error())
	}
}

// UnregisterCode reports kc as released.
func UnregisterCode(kc Keycode) {
	if err := MustHID().KeyUp(kc); err != nil {
		DebugPrintln("[HID] up " + hex16(uint16(kc)) + ": " + err.Error())
	}
}

// TapCode presses and releases kc.
func TapCode(kc Keycode) {
	RegisterCode(kc)
	UnregisterCode(kc)
}

// TapWithMods taps kc while holding mods, releasing in reverse order.
func TapWithMods(kc Keycode, mods ...Keycode) {
	for _, m := range mods {
		RegisterCode(m)
	}
	TapCode(kc)
	for i := len(mods) - 1; i >= 0; i-- {
		UnregisterCode(mods[i])
	}
}
