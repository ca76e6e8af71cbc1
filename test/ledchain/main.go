//go:build rp2040

package main

// LED chain bring-up: sweeps the hue across every LED of the keyboard,
// then walks a single white LED down the chain so a dead pixel shows up
// as the point where the walk stops.

import (
	"machine"
	"time"

	"kbhooks/core"
	"kbhooks/keymaps/vvh413"
	"kbhooks/targets/pio"
)

const dataPin = machine.GPIO11

func main() {
	time.Sleep(3 * time.Second)

	println("=== LED chain test ===")
	println("Data: GP11")

	strip, err := pio.NewWS2812(dataPin)
	if err != nil {
		println("Init error:", err.Error())
		for {
			time.Sleep(time.Second)
		}
	}
	status := pio.GetPIOAllocationStatus()
	for block := range status {
		for sm, used := range status[block] {
			if used {
				println("Using PIO", block, "SM", sm)
			}
		}
	}

	frame := make([]core.RGB, len(vvh413.LEDFlags()))
	println("LEDs:", len(frame))

	cycle := 0
	for {
		cycle++
		println("\n=== Cycle", cycle, "===")

		println("Hue sweep")
		for hue := 0; hue < 256; hue += 4 {
			c := core.HSVToRGB(core.HSV{H: uint8(hue), S: 255, V: 64})
			for i := range frame {
				frame[i] = c
			}
			strip.WriteColors(frame)
			time.Sleep(20 * time.Millisecond)
		}

		println("Walk")
		for i := range frame {
			for j := range frame {
				frame[j] = core.RGBBlack
			}
			frame[i] = core.RGB{R: 64, G: 64, B: 64}
			strip.WriteColors(frame)
			time.Sleep(50 * time.Millisecond)
		}

		// Modifier LEDs carry the layer colors; light them to check the flags table.
		println("Modifier LEDs")
		for i := range frame {
			frame[i] = core.RGBBlack
			if vvh413.LEDFlags()[i]&core.LEDFlagModifier != 0 {
				frame[i] = core.HSVToRGB(core.HSVMagenta)
			}
		}
		strip.WriteColors(frame)
		time.Sleep(2 * time.Second)
	}
}
