package vvh413

import "kbhooks/core"

// setIndicator colors LED index if it is in the range being drawn.
func (k *Keymap) setIndicator(index int, ledMin, ledMax uint8, c core.RGB) {
	if index >= int(ledMin) && index < int(ledMax) {
		k.host.SetLEDColor(uint8(index), c)
	}
}

func (k *Keymap) setLayerColor(layer uint8, ledMin, ledMax uint8) {
	if int(layer) >= len(k.config.LayerColors) {
		return
	}
	hsv := k.config.LayerColors[layer]
	if v := k.host.RGBVal(); hsv.V > v {
		hsv.V = v
	}
	rgb := core.HSVToRGB(hsv)
	for i := int(ledMin); i < int(ledMax); i++ {
		if k.host.LEDFlags(uint8(i))&core.LEDFlagModifier != 0 {
			k.host.SetLEDColor(uint8(i), rgb)
		}
	}
}

// IndicatorsAdvanced draws the layer color and the overlays.
func (k *Keymap) IndicatorsAdvanced(ledMin, ledMax uint8) bool {
	k.setLayerColor(k.host.HighestLayer(), ledMin, ledMax)

	if k.showBrightness {
		// Division truncates toward zero, so low brightness still lights LED 0.
		idx := (int(k.host.RGBVal()) - 31) / 16
		k.setIndicator(idx, ledMin, ledMax, core.RGBRed)
	}
	if k.showTest {
		k.setIndicator(int(k.testIdx), ledMin, ledMax, core.RGBBlue)
	}
	if k.micIndicator {
		k.setIndicator(int(MicLEDIndex), ledMin, ledMax, core.RGBRed)
	}
	return false
}
