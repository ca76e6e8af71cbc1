package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

const (
	// EventRingSize is the number of key/VIA events kept for post-mortem dumps.
	EventRingSize = 16
)

// Event type codes
const (
	EvtKeyDown  = 1
	EvtKeyUp    = 2
	EvtVia      = 3
	EvtEncoder  = 4
	EvtLayerSet = 5
)

// Event is one entry of the event ring.
type Event struct {
	Type  uint8
	A     uint8
	B     uint8
	Clock uint32
}

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// Disabled by default; the scan loop should not pay for string building.
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent appends to the event ring. Never blocks.
func RecordEvent(typ, a, b uint8) {
	idx := eventRingHead
	eventRing[idx] = Event{Type: typ, A: a, B: b, Clock: TimerRead32()}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the ring contents, oldest first.
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(eventRingHead+i)%EventRingSize]
		if evt.Type != 0 {
			out = append(out, evt)
		}
	}
	return out
}

// DumpEvents writes the event ring through the debug writer, regardless
// of the enabled flag.
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVT] === event ring ===")
	for _, evt := range Events() {
		var name string
		switch evt.Type {
		case EvtKeyDown:
			name = "KEY_DOWN"
		case EvtKeyUp:
			name = "KEY_UP"
		case EvtVia:
			name = "VIA"
		case EvtEncoder:
			name = "ENCODER"
		case EvtLayerSet:
			name = "LAYER"
		default:
			name = "UNKNOWN"
		}
		debugPrintln("[EVT] " + name +
			" a=" + itoa(int(evt.A)) +
			" b=" + itoa(int(evt.B)) +
			" t=" + utoa(evt.Clock))
	}
}

// ClearEvents empties the event ring.
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
