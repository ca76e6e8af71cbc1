package core

import "errors"

// ADCValue is a raw conversion result in the board's configured resolution
// (10 bits on the supported boards).
type ADCValue uint16

// ErrUnsupportedChannel is returned by drivers for pins without an ADC channel.
var ErrUnsupportedChannel = errors.New("adc: pin has no analog channel")

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init powers up and configures the ADC peripheral.
	Init() error

	// ConfigureChannel prepares the pin for analog input.
	// Returns ErrUnsupportedChannel for pins that cannot be sampled.
	ConfigureChannel(pin GPIOPin) error

	// ReadRaw performs a blocking one-shot conversion.
	ReadRaw(pin GPIOPin) (ADCValue, error)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}

// AnalogReadPin samples pin once. Unsupported pins, a missing driver and
// conversion errors all read as 0, which callers treat as "nothing attached".
func AnalogReadPin(pin GPIOPin) ADCValue {
	if adcDriver == nil {
		return 0
	}
	if err := adcDriver.ConfigureChannel(pin); err != nil {
		DebugPrintln("[ADC] pin " + utoa(uint32(pin)) + ": " + err.Error())
		return 0
	}
	v, err := adcDriver.ReadRaw(pin)
	if err != nil {
		DebugPrintln("[ADC] read " + utoa(uint32(pin)) + ": " + err.Error())
		return 0
	}
	return v
}
