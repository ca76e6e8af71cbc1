package core

// RuntimeConfig describes the keyboard the runtime drives.
type RuntimeConfig struct {
	Rows, Cols int
	Layers     *Layers
	// LEDFlags has one entry per LED, in chain order.
	LEDFlags []uint8
	// MatrixMask, if set, filters scanned rows.
	MatrixMask []MatrixRow
}

// Runtime owns the keyboard state and calls Hooks from its scan loop.
// It is not safe for concurrent use; everything runs on the main loop
// except EncoderInterruptRead.
type Runtime struct {
	cfg    RuntimeConfig
	hooks  Hooks
	layers *Layers

	layerState        LayerState
	defaultLayerState LayerState

	rgb *RGBMatrix
	via *ViaRouter

	matrix []MatrixRow
	// held remembers the keycode a position resolved to on press, so the
	// release goes to the same action after layer changes.
	held [][]Keycode
}

// NewRuntime creates a runtime with default hooks.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	if cfg.Layers == nil {
		cfg.Layers = &Layers{}
	}
	if cfg.Cols > MaxMatrixCols {
		cfg.Cols = MaxMatrixCols
	}
	r := &Runtime{
		cfg:               cfg,
		hooks:             BaseHooks{},
		layers:            cfg.Layers,
		defaultLayerState: 1,
		rgb:               NewRGBMatrix(cfg.LEDFlags),
		via:               NewViaRouter(),
		matrix:            make([]MatrixRow, cfg.Rows),
		held:              make([][]Keycode, cfg.Rows),
	}
	for i := range r.held {
		r.held[i] = make([]Keycode, cfg.Cols)
	}
	r.registerViaCommands()
	return r
}

// SetHooks installs the keyboard-level hooks.
func (r *Runtime) SetHooks(h Hooks) {
	if h == nil {
		h = BaseHooks{}
	}
	r.hooks = h
}

// Init runs the post-init hook. Call once after drivers are registered.
func (r *Runtime) Init() {
	DebugPrintln("[RT] post init")
	r.hooks.PostInit()
}

// Task runs one scan loop iteration after the matrix has been scanned.
func (r *Runtime) Task() {
	r.encoderTask()
	r.hooks.ScanTick()
	ProcessTimers()
	r.rgb.Render(TimerRead32(), r.hooks.IndicatorsAdvanced)
}

// ScanMatrix feeds a full matrix scan. Changed positions become key events.
func (r *Runtime) ScanMatrix(rows []MatrixRow) {
	for row := 0; row < len(rows) && row < len(r.matrix); row++ {
		cur := ApplyMatrixMask(r.cfg.MatrixMask, row, rows[row])
		changed := cur ^ r.matrix[row]
		if changed == 0 {
			continue
		}
		for col := 0; col < r.cfg.Cols; col++ {
			bit := MatrixRow(1) << uint(col)
			if changed&bit != 0 {
				r.ProcessKey(row, col, cur&bit != 0)
			}
		}
		r.matrix[row] = cur
	}
}

// ProcessKey handles one switch transition.
func (r *Runtime) ProcessKey(row, col int, pressed bool) {
	if row < 0 || row >= r.cfg.Rows || col < 0 || col >= r.cfg.Cols {
		return
	}
	var kc Keycode
	if pressed {
		kc = r.keycodeAt(row, col)
		r.held[row][col] = kc
		RecordEvent(EvtKeyDown, uint8(row), uint8(col))
	} else {
		kc = r.held[row][col]
		r.held[row][col] = KC_NO
		RecordEvent(EvtKeyUp, uint8(row), uint8(col))
	}
	rec := &KeyRecord{
		Key:     KeyPos{Row: uint8(row), Col: uint8(col)},
		Pressed: pressed,
		Time:    TimerRead(),
	}
	r.processRecord(kc, rec)
}

func (r *Runtime) keycodeAt(row, col int) Keycode {
	return resolve(r.layerState|r.defaultLayerState, func(layer uint8) Keycode {
		return r.layers.KeyAt(layer, row, col)
	})
}

func (r *Runtime) processRecord(kc Keycode, rec *KeyRecord) {
	if kc == KC_NO {
		return
	}
	if !r.hooks.ProcessRecord(kc, rec) {
		return
	}

	switch {
	case kc.IsBasic(), kc.IsModifier(), kc.IsConsumer():
		if rec.Pressed {
			RegisterCode(kc)
		} else {
			UnregisterCode(kc)
		}
	case kc.IsMomentary():
		if rec.Pressed {
			r.LayerOn(kc.Layer())
		} else {
			r.LayerOff(kc.Layer())
		}
	case kc.IsToggleLayer():
		if rec.Pressed {
			r.LayerInvert(kc.Layer())
		}
	default:
		if rec.Pressed {
			r.processLighting(kc)
		}
	}
}

func (r *Runtime) processLighting(kc Keycode) {
	switch kc {
	case RGB_TOG:
		r.rgb.Toggle()
	case RGB_VAI:
		r.rgb.IncreaseVal()
	case RGB_VAD:
		r.rgb.DecreaseVal()
	case RGB_HUI:
		r.rgb.IncreaseHue()
	case RGB_HUD:
		r.rgb.DecreaseHue()
	case RGB_SAI:
		r.rgb.IncreaseSat()
	case RGB_SAD:
		r.rgb.DecreaseSat()
	default:
		DebugPrintln("[RT] no action for keycode " + hex16(uint16(kc)))
	}
}

// TapKeycode sends a press and release of kc through the hooks.
func (r *Runtime) TapKeycode(kc Keycode, pos KeyPos) {
	now := TimerRead()
	r.processRecord(kc, &KeyRecord{Key: pos, Pressed: true, Time: now})
	r.processRecord(kc, &KeyRecord{Key: pos, Pressed: false, Time: now})
}

func (r *Runtime) encoderTask() {
	for i := 0; i < EncoderCount(); i++ {
		d := takeEncoderDetents(i)
		for ; d > 0; d-- {
			r.encoderTap(uint8(i), true)
		}
		for ; d < 0; d++ {
			r.encoderTap(uint8(i), false)
		}
	}
}

func (r *Runtime) encoderTap(index uint8, clockwise bool) {
	kc := resolve(r.layerState|r.defaultLayerState, func(layer uint8) Keycode {
		return r.layers.EncoderAt(layer, index, clockwise)
	})
	row := EncoderRowCCW
	if clockwise {
		row = EncoderRowCW
	}
	RecordEvent(EvtEncoder, index, row)
	r.TapKeycode(kc, KeyPos{Row: row, Col: index})
}

// DipSwitchUpdate forwards a DIP switch change to the hooks.
func (r *Runtime) DipSwitchUpdate(index uint8, active bool) {
	r.hooks.DipSwitchUpdate(index, active)
}

// HandleRawReport processes one raw report in place.
func (r *Runtime) HandleRawReport(data []byte) error {
	return r.via.Dispatch(data)
}

// Via returns the report router, for registering extra commands.
func (r *Runtime) Via() *ViaRouter { return r.via }

func (r *Runtime) registerViaCommands() {
	r.via.Register(ViaGetProtocolVersion, "get_protocol_version", func(data []byte) {
		if len(data) >= 3 {
			data[1] = uint8(ViaProtocolVersion >> 8)
			data[2] = uint8(ViaProtocolVersion & 0xFF)
		}
	})
	r.via.Register(ViaGetKeyboardValue, "get_keyboard_value", func(data []byte) {
		if len(data) < 6 || data[1] != ViaKeyboardValueUptime {
			data[0] = ViaUnhandled
			return
		}
		up := TimerRead32()
		data[2] = uint8(up >> 24)
		data[3] = uint8(up >> 16)
		data[4] = uint8(up >> 8)
		data[5] = uint8(up)
	})
	custom := func(data []byte) { r.hooks.ViaCustomValueCommand(data) }
	r.via.Register(ViaCustomSetValue, "custom_set_value", custom)
	r.via.Register(ViaCustomGetValue, "custom_get_value", custom)
	r.via.Register(ViaCustomSave, "custom_save", custom)
}

// Layer state

func (r *Runtime) LayerState() LayerState        { return r.layerState }
func (r *Runtime) DefaultLayerState() LayerState { return r.defaultLayerState }

// HighestLayer returns the highest layer active in either state.
func (r *Runtime) HighestLayer() uint8 {
	return HighestLayer(r.layerState | r.defaultLayerState)
}

// DefaultLayerSet replaces the default layer state.
func (r *Runtime) DefaultLayerSet(state LayerState) {
	r.defaultLayerState = state
	RecordEvent(EvtLayerSet, HighestLayer(state), 1)
	DebugPrintln("[RT] default layer " + itoa(int(HighestLayer(state))))
}

func (r *Runtime) LayerOn(layer uint8) {
	if layer < MaxLayers {
		r.layerState |= 1 << layer
		RecordEvent(EvtLayerSet, layer, 0)
	}
}

func (r *Runtime) LayerOff(layer uint8) {
	if layer < MaxLayers {
		r.layerState &^= 1 << layer
	}
}

func (r *Runtime) LayerInvert(layer uint8) {
	if layer < MaxLayers {
		r.layerState ^= 1 << layer
	}
}

// Lighting

// RGB returns the LED matrix.
func (r *Runtime) RGB() *RGBMatrix { return r.rgb }

// RGBVal returns the global LED brightness.
func (r *Runtime) RGBVal() uint8 { return r.rgb.Val() }

// LEDFlags returns the flags of LED index.
func (r *Runtime) LEDFlags(index uint8) uint8 { return r.rgb.Flags(index) }

// SetLEDColor writes LED index of the frame being rendered.
func (r *Runtime) SetLEDColor(index uint8, c RGB) { r.rgb.SetColor(index, c) }

// SendStringDelay queues text for typing.
func (r *Runtime) SendStringDelay(s []byte, interval uint8) { SendStringDelay(s, interval) }
