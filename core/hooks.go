package core

// KeyPos is a switch position. Encoder taps use row EncoderRowCW or
// EncoderRowCCW with the encoder index as column.
type KeyPos struct {
	Row, Col uint8
}

const (
	EncoderRowCW  uint8 = 254
	EncoderRowCCW uint8 = 255
)

// KeyRecord describes one key transition.
type KeyRecord struct {
	Key     KeyPos
	Pressed bool
	Time    uint16
}

// IsEncoder reports whether the record came from an encoder detent.
func (r *KeyRecord) IsEncoder() bool {
	return r.Key.Row == EncoderRowCW || r.Key.Row == EncoderRowCCW
}

// Hooks are the customization points the runtime calls from its scan loop.
// All methods run synchronously on the main loop and must not block.
type Hooks interface {
	// PostInit runs once after the runtime and drivers are initialized.
	PostInit()
	// ProcessRecord sees every key transition first. Returning false
	// stops default handling of the key.
	ProcessRecord(kc Keycode, rec *KeyRecord) bool
	// ScanTick runs once per scan loop iteration.
	ScanTick()
	// IndicatorsAdvanced draws overlays onto the frame for LEDs in
	// [ledMin, ledMax).
	IndicatorsAdvanced(ledMin, ledMax uint8) bool
	// DipSwitchUpdate is called when a DIP switch changes state.
	DipSwitchUpdate(index uint8, active bool) bool
	// ViaCustomValueCommand handles custom get/set/save reports in place.
	ViaCustomValueCommand(data []byte)
}

// BaseHooks implements Hooks with the default behavior. Embed it to
// override only some hooks.
type BaseHooks struct{}

func (BaseHooks) PostInit()                                     {}
func (BaseHooks) ProcessRecord(kc Keycode, rec *KeyRecord) bool { return true }
func (BaseHooks) ScanTick()                                     {}
func (BaseHooks) IndicatorsAdvanced(ledMin, ledMax uint8) bool  { return true }
func (BaseHooks) DipSwitchUpdate(index uint8, active bool) bool { return true }

// ViaCustomValueCommand marks the report unhandled.
func (BaseHooks) ViaCustomValueCommand(data []byte) {
	if len(data) > 0 {
		data[0] = ViaUnhandled
	}
}
