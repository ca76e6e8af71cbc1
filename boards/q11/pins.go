package q11

import "kbhooks/core"

// DefaultPins is the pin assignment of the RP2040 controller board.
// Sense pins are on GPIO26/27 (ADC0/ADC1); every other ADC-less pin reads 0.
func DefaultPins() Pins {
	return Pins{
		Handshake: 22,
		Sense:     [2]core.GPIOPin{26, 27},
		Variant:   [2]core.GPIOPin{20, 21},
		EncodersLeft: []core.EncoderPads{
			{A: 14, B: 15},
		},
		EncodersRight: []core.EncoderPads{
			{A: 16, B: 17},
		},
		EncoderInterrupts: true,
	}
}
