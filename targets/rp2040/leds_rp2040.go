//go:build rp2040

package main

import (
	"kbhooks/core"
	"kbhooks/targets/pio"
	"machine"
)

// InitLEDs starts the PIO WS2812 driver on the LED data pin.
func InitLEDs(pin machine.Pin) {
	strip, err := pio.NewWS2812(pin)
	if err != nil {
		core.DebugPrintln("[LED] init: " + err.Error())
		return
	}
	core.SetLEDStrip(strip)
}
