package device_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kbhooks/core"
	"kbhooks/host/device"
	"kbhooks/host/sim"
	"kbhooks/keymaps/vvh413"
)

func newClient(t *testing.T) (*device.Client, *sim.Keyboard, *core.MemStore) {
	t.Helper()
	store := core.NewMemStore()
	kb := sim.New(store, vvh413.DefaultOptions())
	return device.NewClient(kb, 2), kb, store
}

// hidSized limits a link to 32-byte reports and records each request.
type hidSized struct {
	device.Link
	sizes []int
}

func (h *hidSized) MaxReport() int { return 32 }

func (h *hidSized) Exchange(ctx context.Context, report []byte) ([]byte, error) {
	h.sizes = append(h.sizes, len(report))
	return h.Link.Exchange(ctx, report)
}

// unhandledLink answers every request as unknown.
type unhandledLink struct{}

func (unhandledLink) Exchange(_ context.Context, report []byte) ([]byte, error) {
	resp := append([]byte(nil), report...)
	resp[0] = core.ViaUnhandled
	return resp, nil
}
func (unhandledLink) MaxReport() int { return 32 }
func (unhandledLink) Close() error   { return nil }

func TestClientProtocolVersion(t *testing.T) {
	c, _, _ := newClient(t)
	v, err := c.ProtocolVersion(context.Background())
	if err != nil {
		t.Fatalf("ProtocolVersion: %v", err)
	}
	if v != core.ViaProtocolVersion {
		t.Errorf("version = 0x%04X, want 0x%04X", v, core.ViaProtocolVersion)
	}
}

func TestClientLayerColors(t *testing.T) {
	ctx := context.Background()
	c, kb, _ := newClient(t)

	if err := c.SetLayerColor(ctx, vvh413.MAC_FN, device.Color{Hue: 42, Sat: 200}); err != nil {
		t.Fatalf("SetLayerColor: %v", err)
	}
	got, err := c.LayerColor(ctx, vvh413.MAC_FN)
	if err != nil {
		t.Fatalf("LayerColor: %v", err)
	}
	if got != (device.Color{Hue: 42, Sat: 200}) {
		t.Errorf("LayerColor = %+v", got)
	}
	if hsv := kb.Keymap().Config().LayerColors[vvh413.MAC_FN]; hsv.H != 42 || hsv.S != 200 {
		t.Errorf("keymap color = %+v", hsv)
	}

	if err := c.ResetLayerColors(ctx); err != nil {
		t.Fatalf("ResetLayerColors: %v", err)
	}
	colors, err := c.LayerColors(ctx)
	if err != nil {
		t.Fatalf("LayerColors: %v", err)
	}
	want := vvh413.DefaultConfig().LayerColors
	for i, col := range colors {
		if col.Hue != want[i].H || col.Sat != want[i].S {
			t.Errorf("layer %d = %+v, want %+v", i, col, want[i])
		}
	}
}

func TestClientLayerOutOfRange(t *testing.T) {
	c, _, _ := newClient(t)
	if _, err := c.LayerColor(context.Background(), vvh413.LayerCount); !errors.Is(err, device.ErrOutOfRange) {
		t.Errorf("LayerColor(%d) err = %v, want ErrOutOfRange", vvh413.LayerCount, err)
	}
}

func TestClientMicAndDelay(t *testing.T) {
	ctx := context.Background()
	c, kb, _ := newClient(t)

	if err := c.SetMicState(ctx, true); err != nil {
		t.Fatalf("SetMicState: %v", err)
	}
	muted, err := c.MicState(ctx)
	if err != nil || !muted {
		t.Errorf("MicState = %v, %v; want true", muted, err)
	}
	if !kb.Keymap().MicMuted() {
		t.Error("keymap mic indicator not set")
	}

	if err := c.SetBufferDelay(ctx, 25); err != nil {
		t.Fatalf("SetBufferDelay: %v", err)
	}
	delay, err := c.BufferDelay(ctx)
	if err != nil || delay != 25 {
		t.Errorf("BufferDelay = %d, %v; want 25", delay, err)
	}
}

func TestClientSave(t *testing.T) {
	ctx := context.Background()
	c, _, store := newClient(t)
	before := store.Writes

	if err := c.SetBufferDelay(ctx, 40); err != nil {
		t.Fatal(err)
	}
	if store.Writes != before {
		t.Errorf("set wrote the store")
	}
	if err := c.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.Writes != before+1 {
		t.Errorf("Writes = %d, want %d", store.Writes, before+1)
	}
	rec, err := store.Load(core.StoreKeyKeymapConfig)
	if err != nil {
		t.Fatal(err)
	}
	if cfg := vvh413.DecodeConfig(rec, true); cfg.BufferDelay != 40 {
		t.Errorf("stored delay = %d, want 40", cfg.BufferDelay)
	}
}

func TestClientBufferChunking(t *testing.T) {
	ctx := context.Background()
	c, kb, _ := newClient(t)
	link := &hidSized{Link: kb}
	hid := device.NewClient(link, 2)

	data := []byte(strings.Repeat("0123456789", 10))
	if err := hid.WriteBuffer(ctx, 1000, data); err != nil {
		t.Fatalf("WriteBuffer: %v", err)
	}
	if len(link.sizes) != 4 {
		t.Errorf("write took %d reports, want 4", len(link.sizes))
	}
	for i, n := range link.sizes {
		if n > 32 {
			t.Errorf("report %d is %d bytes", i, n)
		}
	}

	// Read back over the full-size link, which crosses the slot boundary.
	got, err := c.ReadBuffer(ctx, 1000, len(data))
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadBuffer = %q", got)
	}
}

func TestClientBufferRange(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newClient(t)

	tests := []struct {
		name   string
		offset int
		size   int
	}{
		{"past end", c.Capacity() - 1, 2},
		{"negative", -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.ReadBuffer(ctx, tt.offset, tt.size); !errors.Is(err, device.ErrOutOfRange) {
				t.Errorf("ReadBuffer err = %v, want ErrOutOfRange", err)
			}
			if err := c.WriteBuffer(ctx, tt.offset, make([]byte, tt.size)); !errors.Is(err, device.ErrOutOfRange) {
				t.Errorf("WriteBuffer err = %v, want ErrOutOfRange", err)
			}
		})
	}

	if _, err := c.ReadBuffer(ctx, c.Capacity()-2, 2); err != nil {
		t.Errorf("last two bytes: %v", err)
	}
}

func TestClientSlotPlayback(t *testing.T) {
	ctx := context.Background()
	c, kb, _ := newClient(t)

	if err := c.WriteSlot(ctx, 1, "Hi there!"); err != nil {
		t.Fatalf("WriteSlot: %v", err)
	}
	text, err := c.ReadSlot(ctx, 1)
	if err != nil {
		t.Fatalf("ReadSlot: %v", err)
	}
	if text != "Hi there!" {
		t.Errorf("ReadSlot = %q", text)
	}
	if got := string(kb.Keymap().Buffer(1)); got != "Hi there!" {
		t.Errorf("keymap buffer = %q", got)
	}

	kb.Press(vvh413.BUF_P_1)
	kb.Advance(time.Second)
	if got := kb.Typed(); got != "Hi there!" {
		t.Errorf("typed %q", got)
	}
}

func TestClientSlotErrors(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newClient(t)

	if err := c.WriteSlot(ctx, 2, "x"); !errors.Is(err, device.ErrOutOfRange) {
		t.Errorf("slot 2 err = %v", err)
	}
	if err := c.WriteSlot(ctx, 0, strings.Repeat("a", vvh413.BufSize+1)); !errors.Is(err, device.ErrOutOfRange) {
		t.Errorf("oversized text err = %v", err)
	}
	if err := c.WriteSlot(ctx, 0, "a\x00b"); !errors.Is(err, device.ErrOutOfRange) {
		t.Errorf("NUL text err = %v", err)
	}
}

func TestClientUnhandled(t *testing.T) {
	c := device.NewClient(unhandledLink{}, 2)
	if err := c.Save(context.Background()); !errors.Is(err, device.ErrUnhandled) {
		t.Errorf("Save err = %v, want ErrUnhandled", err)
	}
}

func TestClientWriteSlotFillsSlot(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newClient(t)

	if err := c.WriteSlot(ctx, 1, "tail"); err != nil {
		t.Fatal(err)
	}
	full := strings.Repeat("z", vvh413.BufSize)
	if err := c.WriteSlot(ctx, 0, full); err != nil {
		t.Fatalf("full slot: %v", err)
	}
	if got, err := c.ReadSlot(ctx, 0); err != nil || got != full {
		t.Errorf("slot 0 = %d bytes, %v; want %d bytes", len(got), err, vvh413.BufSize)
	}
	if got, err := c.ReadSlot(ctx, 1); err != nil || got != "tail" {
		t.Errorf("slot 1 = %q, %v; want %q", got, err, "tail")
	}
}
