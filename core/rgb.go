package core

// HSV is a color in the firmware's 8-bit hue/saturation/value space.
type HSV struct {
	H, S, V uint8
}

// RGB is an 8-bit per channel LED color.
type RGB struct {
	R, G, B uint8
}

// Named colors
var (
	HSVRed     = HSV{0, 255, 255}
	HSVCoral   = HSV{11, 176, 255}
	HSVGreen   = HSV{85, 255, 255}
	HSVCyan    = HSV{128, 255, 255}
	HSVBlue    = HSV{170, 255, 255}
	HSVMagenta = HSV{213, 255, 255}
	HSVWhite   = HSV{0, 0, 255}

	RGBRed   = RGB{255, 0, 0}
	RGBBlue  = RGB{0, 0, 255}
	RGBBlack = RGB{}
)

// HSVToRGB converts with the six-region integer algorithm used by the
// keyboard firmware, so colors match what users see on stock firmware.
func HSVToRGB(hsv HSV) RGB {
	if hsv.S == 0 {
		return RGB{hsv.V, hsv.V, hsv.V}
	}

	h := uint16(hsv.H)
	s := uint16(hsv.S)
	v := uint16(hsv.V)

	region := h * 6 / 255
	remainder := (h*2 - region*85) * 3

	p := uint8((v * (255 - s)) >> 8)
	q := uint8((v * (255 - ((s * remainder) >> 8))) >> 8)
	t := uint8((v * (255 - ((s * (255 - remainder)) >> 8))) >> 8)
	vv := uint8(v)

	switch region {
	case 6, 0:
		return RGB{vv, t, p}
	case 1:
		return RGB{q, vv, p}
	case 2:
		return RGB{p, vv, t}
	case 3:
		return RGB{p, q, vv}
	case 4:
		return RGB{t, p, vv}
	default:
		return RGB{vv, p, q}
	}
}

// LED flags
const (
	LEDFlagNone      uint8 = 0x00
	LEDFlagModifier  uint8 = 0x01
	LEDFlagUnderglow uint8 = 0x02
	LEDFlagKeylight  uint8 = 0x04
	LEDFlagIndicator uint8 = 0x08
	LEDFlagAll       uint8 = 0xFF
)

// LEDStrip pushes a full frame to the LED chain.
type LEDStrip interface {
	WriteColors(frame []RGB) error
}

var ledStrip LEDStrip

// SetLEDStrip is called by target-specific code to register its driver.
func SetLEDStrip(s LEDStrip) {
	ledStrip = s
}

const (
	RGBMatrixValStep      = 16
	RGBMatrixHueStep      = 8
	RGBMatrixSatStep      = 16
	RGBMatrixMaxVal       = 255
	RGBMatrixFlushLimitMs = 16
)

// IndicatorFunc is called once per rendered frame with the LED index range
// being drawn. Returning false suppresses the default indicators.
type IndicatorFunc func(ledMin, ledMax uint8) bool

// RGBMatrix renders a solid base color with per-frame indicator overlays.
type RGBMatrix struct {
	enabled   bool
	hsv       HSV
	flags     []uint8
	frame     []RGB
	lastFlush uint32
	dirty     bool
}

// NewRGBMatrix creates a matrix with one LED per entry in flags.
func NewRGBMatrix(flags []uint8) *RGBMatrix {
	return &RGBMatrix{
		enabled: true,
		hsv:     HSV{0, 255, RGBMatrixMaxVal},
		flags:   flags,
		frame:   make([]RGB, len(flags)),
		dirty:   true,
	}
}

func (m *RGBMatrix) IsEnabled() bool { return m.enabled }

func (m *RGBMatrix) Toggle() {
	m.enabled = !m.enabled
	m.dirty = true
}

// HSV returns the base effect color.
func (m *RGBMatrix) HSV() HSV { return m.hsv }

// Val returns the global brightness.
func (m *RGBMatrix) Val() uint8 { return m.hsv.V }

func (m *RGBMatrix) SetHSV(hsv HSV) {
	m.hsv = hsv
	m.dirty = true
}

func (m *RGBMatrix) IncreaseVal() { m.SetHSV(HSV{m.hsv.H, m.hsv.S, qadd8(m.hsv.V, RGBMatrixValStep)}) }
func (m *RGBMatrix) DecreaseVal() { m.SetHSV(HSV{m.hsv.H, m.hsv.S, qsub8(m.hsv.V, RGBMatrixValStep)}) }
func (m *RGBMatrix) IncreaseHue() { m.SetHSV(HSV{m.hsv.H + RGBMatrixHueStep, m.hsv.S, m.hsv.V}) }
func (m *RGBMatrix) DecreaseHue() { m.SetHSV(HSV{m.hsv.H - RGBMatrixHueStep, m.hsv.S, m.hsv.V}) }
func (m *RGBMatrix) IncreaseSat() { m.SetHSV(HSV{m.hsv.H, qadd8(m.hsv.S, RGBMatrixSatStep), m.hsv.V}) }
func (m *RGBMatrix) DecreaseSat() { m.SetHSV(HSV{m.hsv.H, qsub8(m.hsv.S, RGBMatrixSatStep), m.hsv.V}) }

// Flags returns the flags of LED index, or LEDFlagNone if out of range.
func (m *RGBMatrix) Flags(index uint8) uint8 {
	if int(index) >= len(m.flags) {
		return LEDFlagNone
	}
	return m.flags[index]
}

// SetColor writes one LED of the frame being rendered.
func (m *RGBMatrix) SetColor(index uint8, c RGB) {
	if int(index) < len(m.frame) {
		m.frame[index] = c
	}
}

// Color returns the last rendered color of LED index.
func (m *RGBMatrix) Color(index uint8) RGB {
	if int(index) >= len(m.frame) {
		return RGBBlack
	}
	return m.frame[index]
}

// Render draws a frame and pushes it to the strip, at most once per
// flush interval. Indicators only run while the matrix is enabled.
func (m *RGBMatrix) Render(now uint32, indicators IndicatorFunc) {
	if !m.dirty && now-m.lastFlush < RGBMatrixFlushLimitMs {
		return
	}
	m.lastFlush = now
	m.dirty = false

	if !m.enabled {
		for i := range m.frame {
			m.frame[i] = RGBBlack
		}
	} else {
		base := HSVToRGB(m.hsv)
		for i := range m.frame {
			m.frame[i] = base
		}
		if indicators != nil {
			n := len(m.frame)
			if n > 255 {
				n = 255
			}
			indicators(0, uint8(n))
		}
	}

	if ledStrip == nil {
		return
	}
	if err := ledStrip.WriteColors(m.frame); err != nil {
		DebugPrintln("[RGB] flush: " + err.Error())
	}
}

func qadd8(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 255 {
		return uint8(s)
	}
	return 255
}

func qsub8(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}
