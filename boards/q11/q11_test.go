package q11

import (
	"testing"

	"kbhooks/core"
)

// mockGPIO is a test implementation of core.GPIODriver
type mockGPIO struct {
	levels     map[core.GPIOPin]bool
	modes      map[core.GPIOPin]string
	interrupts map[core.GPIOPin]func(core.GPIOPin)
	edges      map[core.GPIOPin]core.PinEdge
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		levels:     make(map[core.GPIOPin]bool),
		modes:      make(map[core.GPIOPin]string),
		interrupts: make(map[core.GPIOPin]func(core.GPIOPin)),
		edges:      make(map[core.GPIOPin]core.PinEdge),
	}
}

func (m *mockGPIO) ConfigureOutput(pin core.GPIOPin) error {
	m.modes[pin] = "output"
	return nil
}

func (m *mockGPIO) ConfigureInput(pin core.GPIOPin) error {
	m.modes[pin] = "input"
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	m.modes[pin] = "input_pullup"
	return nil
}

func (m *mockGPIO) ConfigureInputPullDown(pin core.GPIOPin) error {
	m.modes[pin] = "input_pulldown"
	return nil
}

func (m *mockGPIO) SetPin(pin core.GPIOPin, value bool) error {
	m.levels[pin] = value
	return nil
}

func (m *mockGPIO) GetPin(pin core.GPIOPin) (bool, error) { return m.levels[pin], nil }
func (m *mockGPIO) ReadPin(pin core.GPIOPin) bool         { return m.levels[pin] }

func (m *mockGPIO) SetInterrupt(pin core.GPIOPin, edge core.PinEdge, handler func(core.GPIOPin)) error {
	m.interrupts[pin] = handler
	m.edges[pin] = edge
	return nil
}

func (m *mockGPIO) drive(pin core.GPIOPin, level bool) {
	m.levels[pin] = level
	if h := m.interrupts[pin]; h != nil {
		h(pin)
	}
}

// mockADC only supports the pins it has readings for
type mockADC struct {
	values map[core.GPIOPin]core.ADCValue
	reads  []core.GPIOPin
}

func (m *mockADC) Init() error { return nil }

func (m *mockADC) ConfigureChannel(pin core.GPIOPin) error {
	if _, ok := m.values[pin]; !ok {
		return core.ErrUnsupportedChannel
	}
	return nil
}

func (m *mockADC) ReadRaw(pin core.GPIOPin) (core.ADCValue, error) {
	m.reads = append(m.reads, pin)
	return m.values[pin], nil
}

type layerHost struct {
	states []core.LayerState
}

func (h *layerHost) DefaultLayerSet(state core.LayerState) {
	h.states = append(h.states, state)
}

// userHooks records keymap-level calls.
type userHooks struct {
	core.BaseHooks
	postInit int
	ticks    int
	vetoDip  bool
}

func (u *userHooks) PostInit() { u.postInit++ }
func (u *userHooks) ScanTick() { u.ticks++ }
func (u *userHooks) DipSwitchUpdate(index uint8, active bool) bool {
	return !u.vetoDip
}

func setupBoard(t *testing.T, left bool, sense map[core.GPIOPin]core.ADCValue) (*Board, *mockGPIO, *mockADC, *userHooks, *layerHost) {
	t.Helper()
	core.SetTime(0)
	core.SetKeyboardLeft(left)
	t.Cleanup(func() { core.SetKeyboardLeft(true) })

	gpio := newMockGPIO()
	for _, p := range []core.GPIOPin{14, 15, 16, 17} {
		gpio.levels[p] = true
	}
	core.SetGPIODriver(gpio)
	adc := &mockADC{values: sense}
	core.SetADCDriver(adc)
	t.Cleanup(func() { core.SetADCDriver(nil) })

	user := &userHooks{}
	host := &layerHost{}
	return New(host, DefaultPins(), user), gpio, adc, user, host
}

func TestPostInitLeftHalf(t *testing.T) {
	b, gpio, adc, user, _ := setupBoard(t, true, map[core.GPIOPin]core.ADCValue{26: 1023, 27: 1023})
	b.PostInit()

	if gpio.modes[22] != "output" || !gpio.levels[22] {
		t.Errorf("Handshake pin not driven high: mode=%q level=%v", gpio.modes[22], gpio.levels[22])
	}
	if len(adc.reads) != 0 {
		t.Errorf("Left half must not sample the sense pins, read %v", adc.reads)
	}
	if _, ok := gpio.modes[20]; ok {
		t.Error("Left half touched the variant pins")
	}
	for _, p := range []core.GPIOPin{14, 15} {
		if gpio.edges[p] != core.EdgeBoth {
			t.Errorf("Left encoder pad %d has no both-edge interrupt", p)
		}
	}
	if _, ok := gpio.interrupts[16]; ok {
		t.Error("Right half encoder pads configured on the left half")
	}
	if user.postInit != 1 {
		t.Errorf("Keymap PostInit called %d times", user.postInit)
	}
}

func TestPostInitRightHalfVariant(t *testing.T) {
	tests := []struct {
		name     string
		sense    map[core.GPIOPin]core.ADCValue
		released bool
	}{
		{"both low", map[core.GPIOPin]core.ADCValue{26: 10, 27: 999}, false},
		{"threshold is exclusive", map[core.GPIOPin]core.ADCValue{26: 1000, 27: 1000}, false},
		{"first high", map[core.GPIOPin]core.ADCValue{26: 1001, 27: 0}, true},
		{"second high", map[core.GPIOPin]core.ADCValue{26: 0, 27: 1023}, true},
		{"adc unsupported reads zero", map[core.GPIOPin]core.ADCValue{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, gpio, _, user, _ := setupBoard(t, false, tt.sense)
			b.PostInit()

			got := gpio.modes[20] == "input" && gpio.modes[21] == "input"
			if got != tt.released {
				t.Errorf("Variant pins released=%v, want %v (modes %v)", got, tt.released, gpio.modes)
			}
			if _, ok := gpio.modes[22]; ok {
				t.Error("Right half drove the handshake pin")
			}
			if gpio.edges[16] != core.EdgeBoth || gpio.edges[17] != core.EdgeBoth {
				t.Error("Right encoder A and B pads need both-edge interrupts")
			}
			if user.postInit != 1 {
				t.Errorf("Keymap PostInit called %d times", user.postInit)
			}
		})
	}
}

func TestEncoderInterruptsFeedRuntime(t *testing.T) {
	b, gpio, _, _, _ := setupBoard(t, true, nil)
	b.PostInit()

	// One clockwise detent through the interrupt handlers
	gpio.drive(14, false)
	gpio.drive(15, false)
	gpio.drive(14, true)
	gpio.drive(15, true)

	hid := &recordHID{}
	core.SetHIDReporter(hid)
	rt := core.NewRuntime(core.RuntimeConfig{
		Rows:   1,
		Cols:   1,
		Layers: &core.Layers{Encoders: [][][2]core.Keycode{{{core.KC_VOLD, core.KC_VOLU}}}},
	})
	rt.Task()

	if len(hid.down) != 1 || hid.down[0] != core.KC_VOLU {
		t.Errorf("Expected VOLU from the encoder, got %v", hid.down)
	}
}

func TestPolledEncoders(t *testing.T) {
	core.SetKeyboardLeft(true)
	gpio := newMockGPIO()
	gpio.levels[14] = true
	gpio.levels[15] = true
	core.SetGPIODriver(gpio)

	pins := DefaultPins()
	pins.EncoderInterrupts = false
	user := &userHooks{}
	b := New(&layerHost{}, pins, user)
	b.PostInit()

	if len(gpio.interrupts) != 0 {
		t.Error("Polled encoders must not install interrupts")
	}
	b.ScanTick()
	if user.ticks != 1 {
		t.Errorf("Keymap ScanTick called %d times", user.ticks)
	}
}

func TestDipSwitch(t *testing.T) {
	tests := []struct {
		name   string
		index  uint8
		active bool
		veto   bool
		want   []core.LayerState
		ret    bool
	}{
		{"active selects layer 0", 0, true, false, []core.LayerState{1 << 0}, true},
		{"inactive selects layer 2", 0, false, false, []core.LayerState{1 << 2}, true},
		{"other switch ignored", 1, true, false, nil, true},
		{"keymap veto", 0, true, true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &layerHost{}
			b := New(host, DefaultPins(), &userHooks{vetoDip: tt.veto})
			if got := b.DipSwitchUpdate(tt.index, tt.active); got != tt.ret {
				t.Errorf("Expected %v, got %v", tt.ret, got)
			}
			if len(host.states) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, host.states)
			}
			for i := range tt.want {
				if host.states[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, host.states)
				}
			}
		})
	}
}

func TestMatrixMaskHidesHandednessDiode(t *testing.T) {
	if len(MatrixMask) != MatrixRows {
		t.Fatalf("Expected %d mask rows, got %d", MatrixRows, len(MatrixMask))
	}

	hid := &recordHID{}
	core.SetHIDReporter(hid)
	keys := make([][]core.Keycode, MatrixRows)
	for r := range keys {
		keys[r] = make([]core.Keycode, MatrixCols)
		for c := range keys[r] {
			keys[r][c] = core.KC_A
		}
	}
	rt := core.NewRuntime(core.RuntimeConfig{
		Rows:       MatrixRows,
		Cols:       MatrixCols,
		Layers:     &core.Layers{Keys: [][][]core.Keycode{keys}},
		MatrixMask: MatrixMask,
	})

	// Row 11 col 0 is the handedness diode
	rows := make([]core.MatrixRow, MatrixRows)
	rows[11] = 0b000000001
	rt.ScanMatrix(rows)
	if len(hid.down) != 0 {
		t.Errorf("Masked diode produced key events: %v", hid.down)
	}

	rows[11] = 0b000000010
	rt.ScanMatrix(rows)
	if len(hid.down) != 1 {
		t.Errorf("Populated position did not register")
	}
}

type recordHID struct {
	down []core.Keycode
}

func (h *recordHID) KeyDown(kc core.Keycode) error {
	h.down = append(h.down, kc)
	return nil
}

func (h *recordHID) KeyUp(core.Keycode) error { return nil }
