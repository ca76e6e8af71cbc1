// Package q11 is the board support for the Keychron Q11 split keyboard:
// matrix mask, default layer DIP switch, variant sensing and encoder
// interrupts.
package q11

import "kbhooks/core"

// MatrixMask clears the handedness diode position, which would otherwise
// keep the keyboard awake.
var MatrixMask = []core.MatrixRow{
	0b011111111, 0b011111111, 0b011111111, 0b001111111, 0b011111101, 0b001011111,
	0b111111111, 0b101111111, 0b111111111, 0b110111111, 0b010111111, 0b111011110,
}

const (
	MatrixRows = 12
	MatrixCols = 9
	// VariantThreshold is the 10-bit ADC reading above which a sense pin
	// counts as pulled high.
	VariantThreshold = 1000
)

// Pins is the board's pin assignment.
type Pins struct {
	// Handshake is driven high by the left half.
	Handshake core.GPIOPin
	// Sense are sampled by the right half to detect the hardware variant.
	Sense [2]core.GPIOPin
	// Variant are released to inputs on the variant with pulled-up sense pins.
	Variant [2]core.GPIOPin

	EncodersLeft  []core.EncoderPads
	EncodersRight []core.EncoderPads
	// EncoderInterrupts reads encoders from pin-change interrupts instead
	// of polling them every scan.
	EncoderInterrupts bool
}

// Host is what the board needs from the firmware runtime.
type Host interface {
	DefaultLayerSet(state core.LayerState)
}

// Board wraps the keymap hooks with the board-level behavior. Hooks it
// does not override go straight to the keymap.
type Board struct {
	core.Hooks
	host Host
	pins Pins
}

// New creates the board hooks around the keymap's hooks.
func New(host Host, pins Pins, keymap core.Hooks) *Board {
	if keymap == nil {
		keymap = core.BaseHooks{}
	}
	return &Board{Hooks: keymap, host: host, pins: pins}
}

// LocalEncoders returns the encoder pads of the half this firmware runs on.
func (b *Board) LocalEncoders() []core.EncoderPads {
	if core.IsKeyboardLeft() {
		return b.pins.EncodersLeft
	}
	return b.pins.EncodersRight
}

// PostInit brings up the half-specific hardware, then runs the keymap's
// PostInit.
func (b *Board) PostInit() {
	if core.IsKeyboardLeft() {
		core.SetPinOutputHigh(b.pins.Handshake)
	} else if b.variantSensed() {
		core.DebugPrintln("[Q11] sense pins high, releasing variant pins")
		core.SetPinInput(b.pins.Variant[0])
		core.SetPinInput(b.pins.Variant[1])
	}

	b.initEncoders()
	b.Hooks.PostInit()
}

func (b *Board) variantSensed() bool {
	for _, pin := range b.pins.Sense {
		if core.AnalogReadPin(pin) > VariantThreshold {
			return true
		}
	}
	return false
}

func (b *Board) initEncoders() {
	pads := b.LocalEncoders()
	core.ConfigureEncoders(pads)
	if !b.pins.EncoderInterrupts {
		return
	}

	gpio := core.MustGPIO()
	for i, p := range pads {
		index := uint8(i)
		handler := func(core.GPIOPin) { core.EncoderInterruptRead(index) }
		for _, pin := range []core.GPIOPin{p.A, p.B} {
			if err := gpio.SetInterrupt(pin, core.EdgeBoth, handler); err != nil {
				core.DebugPrintln("[Q11] encoder irq: " + err.Error())
			}
		}
	}
}

// ScanTick polls the encoders when they are not interrupt driven.
func (b *Board) ScanTick() {
	if !b.pins.EncoderInterrupts {
		for i := range b.LocalEncoders() {
			core.EncoderInterruptRead(uint8(i))
		}
	}
	b.Hooks.ScanTick()
}

// DipSwitchUpdate selects the default layer from switch 0: layer 0 when
// active, layer 2 otherwise. The keymap sees the change first and can
// veto it by returning false.
func (b *Board) DipSwitchUpdate(index uint8, active bool) bool {
	if !b.Hooks.DipSwitchUpdate(index, active) {
		return false
	}
	if index == 0 {
		layer := uint8(2)
		if active {
			layer = 0
		}
		b.host.DefaultLayerSet(core.LayerState(1) << layer)
	}
	return true
}
