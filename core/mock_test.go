package core

import "errors"

// mockGPIO is a test implementation of GPIODriver
type mockGPIO struct {
	levels     map[GPIOPin]bool
	modes      map[GPIOPin]string
	interrupts map[GPIOPin]func(GPIOPin)
	edges      map[GPIOPin]PinEdge
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		levels:     make(map[GPIOPin]bool),
		modes:      make(map[GPIOPin]string),
		interrupts: make(map[GPIOPin]func(GPIOPin)),
		edges:      make(map[GPIOPin]PinEdge),
	}
}

func (m *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	m.modes[pin] = "output"
	return nil
}

func (m *mockGPIO) ConfigureInput(pin GPIOPin) error {
	m.modes[pin] = "input"
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	m.modes[pin] = "input_pullup"
	return nil
}

func (m *mockGPIO) ConfigureInputPullDown(pin GPIOPin) error {
	m.modes[pin] = "input_pulldown"
	return nil
}

func (m *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	m.levels[pin] = value
	return nil
}

func (m *mockGPIO) GetPin(pin GPIOPin) (bool, error) {
	return m.levels[pin], nil
}

func (m *mockGPIO) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

func (m *mockGPIO) SetInterrupt(pin GPIOPin, edge PinEdge, handler func(GPIOPin)) error {
	m.interrupts[pin] = handler
	m.edges[pin] = edge
	return nil
}

// drive sets a pin level and fires its interrupt handler, if any.
func (m *mockGPIO) drive(pin GPIOPin, level bool) {
	m.levels[pin] = level
	if h := m.interrupts[pin]; h != nil {
		h(pin)
	}
}

type hidEvent struct {
	kc   Keycode
	down bool
}

// mockHID records key reports
type mockHID struct {
	events []hidEvent
}

func (m *mockHID) KeyDown(kc Keycode) error {
	m.events = append(m.events, hidEvent{kc, true})
	return nil
}

func (m *mockHID) KeyUp(kc Keycode) error {
	m.events = append(m.events, hidEvent{kc, false})
	return nil
}

// taps returns the keycodes that were pressed, in order.
func (m *mockHID) taps() []Keycode {
	var out []Keycode
	for _, e := range m.events {
		if e.down {
			out = append(out, e.kc)
		}
	}
	return out
}

type mockADC struct {
	values map[GPIOPin]ADCValue
	failOn map[GPIOPin]bool
}

func (m *mockADC) Init() error { return nil }

func (m *mockADC) ConfigureChannel(pin GPIOPin) error {
	if _, ok := m.values[pin]; !ok {
		return ErrUnsupportedChannel
	}
	return nil
}

func (m *mockADC) ReadRaw(pin GPIOPin) (ADCValue, error) {
	if m.failOn[pin] {
		return 0, errors.New("conversion timeout")
	}
	return m.values[pin], nil
}

type mockStrip struct {
	frames int
	last   []RGB
}

func (m *mockStrip) WriteColors(frame []RGB) error {
	m.frames++
	m.last = append(m.last[:0], frame...)
	return nil
}

// resetCoreState clears package globals between tests.
func resetCoreState() {
	timerList = nil
	player = stringPlayer{}
	encoders = nil
	SetTime(0)
	ClearEvents()
}
