//go:build rp2350

package main

import (
	"image/color"
	"kbhooks/core"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// bitbangStrip adapts the bit-banged ws2812 driver to core.LEDStrip.
type bitbangStrip struct {
	dev ws2812.Device
	buf []color.RGBA
}

func (s *bitbangStrip) WriteColors(frame []core.RGB) error {
	if cap(s.buf) < len(frame) {
		s.buf = make([]color.RGBA, len(frame))
	}
	s.buf = s.buf[:len(frame)]
	for i, c := range frame {
		s.buf[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return s.dev.WriteColors(s.buf)
}

// InitLEDs drives the chain with the tinygo ws2812 driver.
func InitLEDs(pin machine.Pin) {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	core.SetLEDStrip(&bitbangStrip{dev: ws2812.New(pin)})
}
