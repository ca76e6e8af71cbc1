package vvh413

import (
	"bytes"
	"reflect"
	"testing"

	"kbhooks/core"
)

type fakeHost struct {
	layer  uint8
	val    uint8
	flags  map[uint8]uint8
	colors map[uint8]core.RGB
	sent   [][]byte
	delays []uint8
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		val:    255,
		flags:  map[uint8]uint8{0: core.LEDFlagModifier, 3: core.LEDFlagModifier},
		colors: make(map[uint8]core.RGB),
	}
}

func (h *fakeHost) HighestLayer() uint8             { return h.layer }
func (h *fakeHost) RGBVal() uint8                   { return h.val }
func (h *fakeHost) LEDFlags(index uint8) uint8      { return h.flags[index] }
func (h *fakeHost) SetLEDColor(i uint8, c core.RGB) { h.colors[i] = c }

func (h *fakeHost) SendStringDelay(s []byte, interval uint8) {
	h.sent = append(h.sent, append([]byte(nil), s...))
	h.delays = append(h.delays, interval)
}

type nopHID struct{}

func (nopHID) KeyDown(core.Keycode) error { return nil }
func (nopHID) KeyUp(core.Keycode) error   { return nil }

func setupKeymap(t *testing.T, opts Options) (*Keymap, *fakeHost, *core.MemStore) {
	t.Helper()
	core.SetTime(0)
	core.SetHIDReporter(nopHID{})
	store := core.NewMemStore()
	core.SetStore(store)
	host := newFakeHost()
	k := New(host, opts)
	k.PostInit()
	return k, host, store
}

// report builds a 32-byte custom channel report.
func report(cmd, valueID uint8, payload ...byte) []byte {
	data := make([]byte, 32)
	data[0] = cmd
	data[1] = core.ViaChannelCustom
	data[2] = valueID
	copy(data[3:], payload)
	return data
}

func TestLayerColorRoundTrip(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	for i := uint8(0); i < LayerCount; i++ {
		k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDLayerColor, i, 10+i, 200-i))

		get := report(core.ViaCustomGetValue, IDLayerColor, i)
		k.ViaCustomValueCommand(get)
		if get[0] != core.ViaCustomGetValue {
			t.Errorf("Layer %d: command byte changed to %02x", i, get[0])
		}
		if get[4] != 10+i || get[5] != 200-i {
			t.Errorf("Layer %d: got h=%d s=%d, want h=%d s=%d", i, get[4], get[5], 10+i, 200-i)
		}
	}
}

func TestLayerColorOutOfRange(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())
	before := k.Config()

	for _, idx := range []uint8{4, 5, 255} {
		k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDLayerColor, idx, 1, 2))
	}

	if k.Config() != before {
		t.Errorf("Record changed: %+v -> %+v", before, k.Config())
	}

	get := report(core.ViaCustomGetValue, IDLayerColor, 4)
	want := append([]byte(nil), get...)
	k.ViaCustomValueCommand(get)
	if !bytes.Equal(get, want) {
		t.Errorf("Out of range get modified the report: % x", get)
	}
}

func TestResetLayerColors(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDLayerColor, 2, 1, 1))
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDResetLayerColors))

	if k.Config().LayerColors != DefaultConfig().LayerColors {
		t.Errorf("Colors not reset: %v", k.Config().LayerColors)
	}
}

func TestBufferWriteRead(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	payload := []byte("abcdefghijklmnopqrstuvwxyz!")
	if len(payload) != MaxWriteChunk {
		t.Fatalf("Payload should be %d bytes", MaxWriteChunk)
	}
	// 27 data bytes after the 6-byte header need a 33-byte frame
	set := make([]byte, 6+MaxWriteChunk)
	copy(set, report(core.ViaCustomSetValue, IDBuffer, 0, 0, MaxWriteChunk))
	copy(set[6:], payload)
	k.ViaCustomValueCommand(set)

	get := report(core.ViaCustomGetValue, IDBuffer, 0, 0, MaxReadChunk)
	k.ViaCustomValueCommand(get)
	if !bytes.Equal(get[6:6+MaxReadChunk], payload[:MaxReadChunk]) {
		t.Errorf("Read back %q, want %q", get[6:6+MaxReadChunk], payload[:MaxReadChunk])
	}
}

func TestBufferBounds(t *testing.T) {
	tests := []struct {
		name   string
		cmd    uint8
		offset uint16
		size   uint8
	}{
		{"write past end", core.ViaCustomSetValue, 2040, 9},
		{"write far past end", core.ViaCustomSetValue, 0xFFFF, 1},
		{"write too large", core.ViaCustomSetValue, 0, MaxWriteChunk + 1},
		{"read past end", core.ViaCustomGetValue, 2047, 2},
		{"read too large", core.ViaCustomGetValue, 0, MaxReadChunk + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, _, _ := setupKeymap(t, DefaultOptions())
			before := k.Config()

			data := make([]byte, 64)
			copy(data, report(tt.cmd, IDBuffer, byte(tt.offset>>8), byte(tt.offset), tt.size))
			for i := 6; i < len(data); i++ {
				data[i] = 'x'
			}
			want := append([]byte(nil), data...)

			k.ViaCustomValueCommand(data)

			if !bytes.Equal(data, want) {
				t.Errorf("Rejected request modified the report")
			}
			if k.Config() != before {
				t.Errorf("Record changed")
			}
			for i := 0; i < k.opts.BufferSlots; i++ {
				if len(k.Buffer(i)) != 0 {
					t.Errorf("Buffer %d written: %q", i, k.Buffer(i))
				}
			}
		})
	}
}

func TestBufferLastBytes(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	// offset+size == capacity is allowed
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBuffer, 0x07, 0xFE, 2, 'o', 'k'))
	get := report(core.ViaCustomGetValue, IDBuffer, 0x07, 0xFE, 2)
	k.ViaCustomValueCommand(get)
	if string(get[6:8]) != "ok" {
		t.Errorf("Expected \"ok\" at the end of slot 1, got %q", get[6:8])
	}
}

func TestBufferShortFrameRejected(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	// Claims 20 bytes but carries 4
	k.ViaCustomValueCommand([]byte{core.ViaCustomSetValue, core.ViaChannelCustom, IDBuffer, 0, 0, 20, 'a', 'b', 'c', 'd'})
	if len(k.Buffer(0)) != 0 {
		t.Errorf("Short frame was written: %q", k.Buffer(0))
	}
}

func TestDefaultsOnFirstBoot(t *testing.T) {
	k, _, store := setupKeymap(t, DefaultOptions())

	if k.Config() != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", k.Config())
	}
	saved, err := store.Load(core.StoreKeyKeymapConfig)
	if err != nil {
		t.Fatalf("Defaults not persisted: %v", err)
	}
	if DecodeConfig(saved, true) != DefaultConfig() {
		t.Errorf("Stored record differs from defaults: % x", saved)
	}
	if !DecodeConfig(saved, true).Init {
		t.Error("Stored record must be marked initialized")
	}
}

func TestStoredSettingsLoaded(t *testing.T) {
	core.SetHIDReporter(nopHID{})
	store := core.NewMemStore()
	core.SetStore(store)

	cfg := DefaultConfig()
	cfg.LayerColors[MAC_FN] = core.HSV{H: 1, S: 2, V: 3}
	cfg.BufferDelay = 42
	store.Save(core.StoreKeyKeymapConfig, cfg.Encode(true))
	writes := store.Writes

	k := New(newFakeHost(), DefaultOptions())
	k.PostInit()

	if k.Config() != cfg {
		t.Errorf("Expected %+v, got %+v", cfg, k.Config())
	}
	if store.Writes != writes {
		t.Error("Initialized record must not be rewritten at boot")
	}
}

func TestSaveAndSaveOnSet(t *testing.T) {
	k, _, store := setupKeymap(t, DefaultOptions())
	writes := store.Writes

	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBufferDelay, 33))
	if store.Writes != writes {
		t.Error("Set must not persist without save")
	}
	k.ViaCustomValueCommand(report(core.ViaCustomSave, 0))
	saved, _ := store.Load(core.StoreKeyKeymapConfig)
	if DecodeConfig(saved, true).BufferDelay != 33 {
		t.Errorf("Save did not persist the delay: % x", saved)
	}

	opts := DefaultOptions()
	opts.SaveOnSet = true
	k, _, store = setupKeymap(t, opts)
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDLayerColor, 1, 7, 8))
	saved, _ = store.Load(core.StoreKeyKeymapConfig)
	if c := DecodeConfig(saved, true).LayerColors[1]; c.H != 7 || c.S != 8 {
		t.Errorf("SaveOnSet did not persist, got %+v", c)
	}
}

func TestForeignChannelUnhandled(t *testing.T) {
	k, host, store := setupKeymap(t, DefaultOptions())
	before := k.Config()
	writes := store.Writes

	for _, cmd := range []uint8{core.ViaCustomSetValue, core.ViaCustomGetValue, core.ViaCustomSave} {
		data := report(cmd, IDMicState, 1)
		data[1] = core.ViaChannelRGBMatrix
		want := append([]byte(nil), data...)
		want[0] = core.ViaUnhandled

		k.ViaCustomValueCommand(data)
		if !bytes.Equal(data, want) {
			t.Errorf("cmd %02x: got % x, want % x", cmd, data[:6], want[:6])
		}
	}

	if k.Config() != before || k.MicMuted() || store.Writes != writes || len(host.sent) != 0 {
		t.Error("Foreign channel request mutated state")
	}
}

func TestUnknownCommandUnhandled(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())

	data := report(0x0C, IDMicState, 1)
	k.ViaCustomValueCommand(data)
	if data[0] != core.ViaUnhandled || k.MicMuted() {
		t.Errorf("Expected unhandled without effect, got %02x mic=%v", data[0], k.MicMuted())
	}

	// Unknown value ids are ignored
	data = report(core.ViaCustomSetValue, 99, 1)
	k.ViaCustomValueCommand(data)
	if data[0] != core.ViaCustomSetValue {
		t.Errorf("Unknown value id should not flag the command, got %02x", data[0])
	}
}

func TestBrightnessIndicatorTimeout(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())
	core.SetTime(5000)

	k.ProcessRecord(core.RGB_VAI, &core.KeyRecord{Pressed: true})
	if !k.showBrightness {
		t.Fatal("Brightness indicator not shown")
	}

	core.SetTime(5999)
	k.ScanTick()
	if !k.showBrightness {
		t.Error("Indicator expired before 1000ms")
	}

	// Re-trigger restarts the window
	k.ProcessRecord(core.RGB_TOG, &core.KeyRecord{Pressed: true})
	core.SetTime(6998)
	k.ScanTick()
	if !k.showBrightness {
		t.Error("Re-trigger did not extend the indicator")
	}

	core.SetTime(6999)
	k.ScanTick()
	if k.showBrightness {
		t.Error("Indicator still active after exactly 1000ms")
	}
}

func TestBrightnessIndicatorAcrossTimerWrap(t *testing.T) {
	k, _, _ := setupKeymap(t, DefaultOptions())
	core.SetTime(0xFFFF - 100)

	k.ProcessRecord(core.RGB_VAD, &core.KeyRecord{Pressed: true})
	core.SetTime(0xFFFF - 100 + 999)
	k.ScanTick()
	if !k.showBrightness {
		t.Error("Indicator expired early across the 16-bit wrap")
	}
	core.SetTime(0xFFFF - 100 + 1000)
	k.ScanTick()
	if k.showBrightness {
		t.Error("Indicator did not expire across the 16-bit wrap")
	}
}

func TestTestIndicator(t *testing.T) {
	k, host, _ := setupKeymap(t, DefaultOptions())
	host.val = 0

	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDTest, 7))
	k.IndicatorsAdvanced(0, 10)
	if host.colors[7] != core.RGBBlue {
		t.Errorf("Test LED not blue: %v", host.colors[7])
	}

	// Outside the drawn range nothing is written
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDTest, 20))
	host.colors = make(map[uint8]core.RGB)
	k.IndicatorsAdvanced(0, 10)
	if _, ok := host.colors[20]; ok {
		t.Error("LED outside [min,max) was written")
	}

	core.SetTime(1000)
	k.ScanTick()
	if k.showTest {
		t.Error("Test indicator did not expire")
	}
}

func TestIndicatorsLayerColor(t *testing.T) {
	k, host, _ := setupKeymap(t, DefaultOptions())
	host.layer = WIN_FN
	host.val = 128

	if k.IndicatorsAdvanced(0, 5) {
		t.Error("IndicatorsAdvanced must return false")
	}

	want := core.HSVToRGB(core.HSV{H: core.HSVGreen.H, S: core.HSVGreen.S, V: 128})
	if host.colors[0] != want || host.colors[3] != want {
		t.Errorf("Modifier LEDs = %v %v, want %v", host.colors[0], host.colors[3], want)
	}
	if _, ok := host.colors[1]; ok {
		t.Error("Non-modifier LED was tinted")
	}

	// Modifier LED outside the range is left alone
	host.colors = make(map[uint8]core.RGB)
	k.IndicatorsAdvanced(1, 3)
	if len(host.colors) != 0 {
		t.Errorf("LEDs outside range written: %v", host.colors)
	}
}

func TestBrightnessMeterIndex(t *testing.T) {
	tests := []struct {
		val  uint8
		want int
	}{
		{255, 14},
		{47, 1},
		{31, 0},
		{20, 0},
		{0, -1},
	}

	for _, tt := range tests {
		k, host, _ := setupKeymap(t, DefaultOptions())
		host.flags = map[uint8]uint8{}
		host.val = tt.val
		k.brightnessTurnOn()
		k.IndicatorsAdvanced(0, 255)

		var lit []uint8
		for i, c := range host.colors {
			if c == core.RGBRed {
				lit = append(lit, i)
			}
		}
		if tt.want < 0 {
			if len(lit) != 0 {
				t.Errorf("val=%d: expected no meter LED, got %v", tt.val, lit)
			}
			continue
		}
		if !reflect.DeepEqual(lit, []uint8{uint8(tt.want)}) {
			t.Errorf("val=%d: expected LED %d, got %v", tt.val, tt.want, lit)
		}
	}
}

func TestMicToggle(t *testing.T) {
	k, host, _ := setupKeymap(t, DefaultOptions())
	host.flags = map[uint8]uint8{}

	k.ProcessRecord(core.KC_F20, &core.KeyRecord{Pressed: true})
	k.ProcessRecord(core.KC_F20, &core.KeyRecord{Pressed: false})
	if !k.MicMuted() {
		t.Fatal("F20 press did not toggle mic")
	}

	k.IndicatorsAdvanced(0, 20)
	if host.colors[MicLEDIndex] != core.RGBRed {
		t.Errorf("Mic LED = %v, want red", host.colors[MicLEDIndex])
	}

	get := report(core.ViaCustomGetValue, IDMicState)
	k.ViaCustomValueCommand(get)
	if get[3] != 1 {
		t.Errorf("Expected mic state 1, got %d", get[3])
	}

	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDMicState, 0))
	if k.MicMuted() {
		t.Error("Set mic state 0 did not clear")
	}
}

func TestBufferPlayback(t *testing.T) {
	k, host, _ := setupKeymap(t, DefaultOptions())

	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBuffer, 0x04, 0x00, 5, 'h', 'e', 'l', 'l', 'o'))
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBufferDelay, 25))

	if !k.ProcessRecord(BUF_P_1, &core.KeyRecord{Pressed: true}) {
		t.Error("ProcessRecord must let default handling continue")
	}
	k.ProcessRecord(BUF_P_1, &core.KeyRecord{Pressed: false})

	if len(host.sent) != 1 {
		t.Fatalf("Expected one playback, got %d", len(host.sent))
	}
	if !bytes.HasPrefix(host.sent[0], []byte("hello\x00")) || len(host.sent[0]) != BufSize {
		t.Errorf("Unexpected playback text %q", host.sent[0][:8])
	}
	if host.delays[0] != 25 {
		t.Errorf("Expected delay 25, got %d", host.delays[0])
	}
}

func TestVariantWithoutDelay(t *testing.T) {
	opts := Options{BufferSlots: 1}
	k, host, store := setupKeymap(t, opts)

	saved, _ := store.Load(core.StoreKeyKeymapConfig)
	if len(saved) != RecordSize(false) {
		t.Errorf("Expected %d byte record, got %d", RecordSize(false), len(saved))
	}
	if k.BufferCapacity() != BufSize {
		t.Errorf("Expected one slot, capacity %d", k.BufferCapacity())
	}

	get := report(core.ViaCustomGetValue, IDBufferDelay)
	k.ViaCustomValueCommand(get)
	if get[3] != 0 {
		t.Error("Delay value must not be served without the delay field")
	}

	// BUF_P_1 does not exist in the one-slot variant
	k.ProcessRecord(BUF_P_1, &core.KeyRecord{Pressed: true})
	k.ProcessRecord(BUF_P_0, &core.KeyRecord{Pressed: true})
	if len(host.sent) != 1 || host.delays[0] != DefaultBufferDelay {
		t.Errorf("Unexpected playbacks %d delays %v", len(host.sent), host.delays)
	}

	// Writes beyond the single slot are rejected
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBuffer, 0x00, 0x00, 2, 'o', 'k'))
	k.ViaCustomValueCommand(report(core.ViaCustomSetValue, IDBuffer, 0x04, 0x00, 1, 'x'))
	if got := k.Buffer(0); string(got) != "ok" {
		t.Errorf("Slot 0 changed by out of range write: %q", got)
	}
	if k.BufferCapacity() != BufSize {
		t.Errorf("Out of range write grew capacity to %d", k.BufferCapacity())
	}
}

func TestLayoutGeometry(t *testing.T) {
	layers := Keymaps()
	if len(layers.Keys) != int(LayerCount) || len(layers.Encoders) != int(LayerCount) {
		t.Fatalf("Expected %d layers", LayerCount)
	}
	for l, rows := range layers.Keys {
		if len(rows) != MatrixRows {
			t.Errorf("Layer %d has %d rows", l, len(rows))
		}
		for r, row := range rows {
			if len(row) > MatrixCols {
				t.Errorf("Layer %d row %d has %d columns", l, r, len(row))
			}
		}
	}
	if n := len(LEDFlags()); n != 109 {
		t.Errorf("Expected 109 LEDs, got %d", n)
	}
	if LEDFlags()[0]&core.LEDFlagModifier == 0 {
		t.Error("Escape LED should carry the modifier flag")
	}
}
