// Package sim runs the keyboard firmware in-process, so the configurator
// can be exercised without hardware.
package sim

import (
	"context"
	"sync"
	"time"

	"kbhooks/core"
	"kbhooks/host/device"
	"kbhooks/host/logging"
	"kbhooks/keymaps/vvh413"
	"kbhooks/protocol"
)

// Keyboard is a simulated keyboard. The firmware core keeps its drivers
// in package globals, so only one Keyboard should be live at a time.
type Keyboard struct {
	mu     sync.Mutex
	rt     *core.Runtime
	keymap *vvh413.Keymap
	hid    *recorder
	start  time.Time
	// clock overrides wall time when set by Advance.
	clock  uint32
	manual bool
}

var _ device.Link = (*Keyboard)(nil)

// New boots a simulated keyboard on store.
func New(store core.Store, opts vvh413.Options) *Keyboard {
	core.SetDebugWriter(func(s string) { logging.GetLogger("sim").Debug(s) })
	core.SetDebugEnabled(true)
	core.SetStore(store)

	k := &Keyboard{hid: &recorder{}, start: time.Now()}
	core.SetHIDReporter(k.hid)
	core.SetTime(0)
	core.CancelSendString()

	k.rt = core.NewRuntime(core.RuntimeConfig{
		Rows:     vvh413.MatrixRows,
		Cols:     vvh413.MatrixCols,
		Layers:   vvh413.Keymaps(),
		LEDFlags: vvh413.LEDFlags(),
	})
	k.keymap = vvh413.New(k.rt, opts)
	k.rt.SetHooks(k.keymap)
	k.rt.Init()
	return k
}

// Keymap returns the running keymap.
func (k *Keyboard) Keymap() *vvh413.Keymap { return k.keymap }

// Runtime returns the running firmware runtime.
func (k *Keyboard) Runtime() *core.Runtime { return k.rt }

// Exchange handles one raw report the way the firmware does, padding it to
// a full HID report first.
func (k *Keyboard) Exchange(ctx context.Context, report []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(report) > protocol.MaxReportSize {
		return nil, protocol.ErrReportTooLong
	}
	buf := make([]byte, max(len(report), protocol.ReportSize))
	copy(buf, report)

	k.mu.Lock()
	defer k.mu.Unlock()
	k.tick()
	if err := k.rt.HandleRawReport(buf); err != nil {
		return nil, err
	}
	k.rt.Task()
	return buf, nil
}

func (k *Keyboard) MaxReport() int { return protocol.MaxReportSize }

func (k *Keyboard) Close() error { return nil }

// Tap presses and releases the key at row, col.
func (k *Keyboard) Tap(row, col int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tick()
	k.rt.ProcessKey(row, col, true)
	k.rt.Task()
	k.rt.ProcessKey(row, col, false)
	k.rt.Task()
}

// Press sends kc through the key hooks as if a key mapped to it was tapped.
func (k *Keyboard) Press(kc core.Keycode) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tick()
	k.rt.TapKeycode(kc, core.KeyPos{})
	k.rt.Task()
}

// Advance steps the simulated clock by d and runs the scan loop once per
// millisecond. After the first call the clock no longer follows wall time.
func (k *Keyboard) Advance(d time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.manual {
		k.clock = k.wallMillis()
		k.manual = true
		core.SetTime(k.clock)
	}
	for end := k.clock + uint32(d/time.Millisecond); k.clock != end; {
		k.clock++
		core.SetTime(k.clock)
		k.rt.Task()
	}
}

// Typed returns the text typed so far and clears it.
func (k *Keyboard) Typed() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.hid.take()
}

func (k *Keyboard) tick() {
	if k.manual {
		core.SetTime(k.clock)
		return
	}
	core.SetTime(k.wallMillis())
}

func (k *Keyboard) wallMillis() uint32 {
	return uint32(time.Since(k.start) / time.Millisecond)
}
