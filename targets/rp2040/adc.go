//go:build rp2040 || rp2350

package main

import (
	"kbhooks/core"
	"machine"
	"sync"
)

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC.
// Readings are scaled to 10 bits to match the thresholds boards use.
type RpAdcDriver struct {
	mu       sync.Mutex
	channels map[core.GPIOPin]*machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		channels: make(map[core.GPIOPin]*machine.ADC),
	}
}

func (d *RpAdcDriver) Init() error {
	machine.InitADC()
	return nil
}

// ConfigureChannel muxes an analog-capable pin (GPIO26-29) to the ADC.
func (d *RpAdcDriver) ConfigureChannel(pin core.GPIOPin) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.channels[pin]; ok {
		return nil
	}
	if pin < 26 || pin > 29 {
		return core.ErrUnsupportedChannel
	}

	adc := machine.ADC{Pin: machine.Pin(pin)}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[pin] = &adc
	return nil
}

// ReadRaw returns a 10-bit sample (0-1023).
func (d *RpAdcDriver) ReadRaw(pin core.GPIOPin) (core.ADCValue, error) {
	d.mu.Lock()
	adc, ok := d.channels[pin]
	d.mu.Unlock()
	if !ok {
		if err := d.ConfigureChannel(pin); err != nil {
			return 0, err
		}
		d.mu.Lock()
		adc = d.channels[pin]
		d.mu.Unlock()
	}

	// machine.ADC.Get is left-justified to 16 bits
	return core.ADCValue(adc.Get() >> 6), nil
}
