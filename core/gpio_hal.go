package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// PinEdge selects which transitions fire a pin-change interrupt
type PinEdge uint8

const (
	EdgeRising PinEdge = 1 << iota
	EdgeFalling
	EdgeBoth = EdgeRising | EdgeFalling
)

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a floating digital input
	ConfigureInput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)

	// ReadPin reads the current pin state (alias for GetPin for convenience)
	ReadPin(pin GPIOPin) bool

	// SetInterrupt installs handler for the given edges on pin.
	// The handler runs in interrupt context.
	SetInterrupt(pin GPIOPin, edge PinEdge, handler func(pin GPIOPin)) error
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// SetPinOutputHigh configures pin as an output and drives it high.
func SetPinOutputHigh(pin GPIOPin) {
	gpio := MustGPIO()
	if err := gpio.ConfigureOutput(pin); err != nil {
		DebugPrintln("[GPIO] output pin " + utoa(uint32(pin)) + ": " + err.Error())
		return
	}
	if err := gpio.SetPin(pin, true); err != nil {
		DebugPrintln("[GPIO] set pin " + utoa(uint32(pin)) + ": " + err.Error())
	}
}

// SetPinInput configures pin as a floating input.
func SetPinInput(pin GPIOPin) {
	if err := MustGPIO().ConfigureInput(pin); err != nil {
		DebugPrintln("[GPIO] input pin " + utoa(uint32(pin)) + ": " + err.Error())
	}
}
