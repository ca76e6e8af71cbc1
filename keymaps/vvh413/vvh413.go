// Package vvh413 is a keymap for the Keychron 109-key ANSI board with knob:
// per-layer colors on the modifier LEDs, a brightness meter, a mic-mute
// indicator and text buffers that a configurator can fill and a key can
// type out.
package vvh413

import (
	"kbhooks/core"
	"kbhooks/keychron"
)

// Host is what the keymap needs from the firmware runtime.
type Host interface {
	HighestLayer() uint8
	RGBVal() uint8
	LEDFlags(index uint8) uint8
	SetLEDColor(index uint8, c core.RGB)
	SendStringDelay(s []byte, interval uint8)
}

// Keymap holds the keymap's settings and UI state.
type Keymap struct {
	host Host
	opts Options

	config Config
	buffer []byte

	showBrightness  bool
	brightnessTimer uint16

	showTest  bool
	testIdx   uint8
	testTimer uint16

	micIndicator bool
}

var _ core.Hooks = (*Keymap)(nil)

// New creates the keymap. Settings are loaded in PostInit.
func New(host Host, opts Options) *Keymap {
	if opts.BufferSlots <= 0 {
		opts.BufferSlots = DefaultOptions().BufferSlots
	}
	return &Keymap{
		host:   host,
		opts:   opts,
		config: DefaultConfig(),
		buffer: make([]byte, opts.BufferSlots*BufSize),
	}
}

// Config returns a copy of the in-memory settings.
func (k *Keymap) Config() Config { return k.config }

// BufferCapacity is the size of the contiguous buffer space.
func (k *Keymap) BufferCapacity() int { return len(k.buffer) }

// Buffer returns the contents of slot n up to the first NUL.
func (k *Keymap) Buffer(n int) []byte {
	if n < 0 || n >= k.opts.BufferSlots {
		return nil
	}
	slot := k.buffer[n*BufSize : (n+1)*BufSize]
	for i, b := range slot {
		if b == 0 {
			return slot[:i]
		}
	}
	return slot
}

// MicMuted reports the mic indicator state.
func (k *Keymap) MicMuted() bool { return k.micIndicator }

// PostInit loads the settings record, writing defaults on first boot.
func (k *Keymap) PostInit() {
	size := RecordSize(k.opts.WithBufferDelay)
	k.config = DecodeConfig(core.LoadBlock(core.StoreKeyKeymapConfig, size), k.opts.WithBufferDelay)
	if !k.config.Init {
		core.DebugPrintln("[KEYMAP] no settings, writing defaults")
		k.config = DefaultConfig()
		k.save()
	}
}

func (k *Keymap) save() {
	if err := core.MustStore().Save(core.StoreKeyKeymapConfig, k.config.Encode(k.opts.WithBufferDelay)); err != nil {
		core.DebugPrintln("[KEYMAP] save: " + err.Error())
	}
}

func (k *Keymap) brightnessTurnOn() {
	k.showBrightness = true
	k.brightnessTimer = core.TimerRead()
}

func (k *Keymap) brightnessTurnOff() {
	if k.showBrightness && core.TimerElapsed(k.brightnessTimer) >= IndicatorTimeoutMs {
		k.showBrightness = false
	}
}

func (k *Keymap) testTurnOn(index uint8) {
	k.showTest = true
	k.testIdx = index
	k.testTimer = core.TimerRead()
}

func (k *Keymap) testTurnOff() {
	if k.showTest && core.TimerElapsed(k.testTimer) >= IndicatorTimeoutMs {
		k.showTest = false
	}
}

// ProcessRecord handles the keymap's own keys after the Keychron keys.
func (k *Keymap) ProcessRecord(kc core.Keycode, rec *core.KeyRecord) bool {
	if !keychron.ProcessRecordCommon(kc, rec) {
		return false
	}
	if !rec.Pressed {
		return true
	}

	switch {
	case kc == core.RGB_TOG, kc == core.RGB_VAD, kc == core.RGB_VAI:
		k.brightnessTurnOn()
	case kc == core.KC_F20:
		k.micIndicator = !k.micIndicator
	case kc >= BUF_P_0 && kc < BufP(k.opts.BufferSlots):
		n := int(kc - BUF_P_0)
		k.host.SendStringDelay(k.buffer[n*BufSize:(n+1)*BufSize], k.config.BufferDelay)
	}
	return true
}

// ScanTick expires the timed overlays.
func (k *Keymap) ScanTick() {
	k.brightnessTurnOff()
	k.testTurnOff()
}

// DipSwitchUpdate has no keymap-level behavior.
func (k *Keymap) DipSwitchUpdate(index uint8, active bool) bool { return true }
