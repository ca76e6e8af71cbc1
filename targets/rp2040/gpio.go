//go:build rp2040 || rp2350

package main

import (
	"kbhooks/core"
	"machine"
)

// RPGPIODriver implements core.GPIODriver over machine.Pin. Pins map
// directly to GPIO numbers.
type RPGPIODriver struct {
	// Track configured pins and their mode
	configuredPins map[core.GPIOPin]machine.PinMode
}

// NewRPGPIODriver creates a new GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.PinMode),
	}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if cur, exists := d.configuredPins[pin]; exists && cur == mode {
		return nil
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	d.configuredPins[pin] = mode
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

// ConfigureInput configures a pin as a floating input. Reconfiguring an
// output pin releases it.
func (d *RPGPIODriver) ConfigureInput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInput)
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

func (d *RPGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPulldown)
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if mode, ok := d.configuredPins[pin]; !ok || mode != machine.PinOutput {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if _, exists := d.configuredPins[pin]; !exists {
		return false, nil
	}
	return machine.Pin(pin).Get(), nil
}

func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	value, _ := d.GetPin(pin)
	return value
}

// SetInterrupt routes pin change interrupts to handler.
func (d *RPGPIODriver) SetInterrupt(pin core.GPIOPin, edge core.PinEdge, handler func(core.GPIOPin)) error {
	var change machine.PinChange
	switch edge {
	case core.EdgeRising:
		change = machine.PinRising
	case core.EdgeFalling:
		change = machine.PinFalling
	default:
		change = machine.PinToggle
	}
	return machine.Pin(pin).SetInterrupt(change, func(p machine.Pin) {
		handler(core.GPIOPin(p))
	})
}
