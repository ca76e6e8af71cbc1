package core

// EncoderPads are the two quadrature inputs of one rotary encoder.
type EncoderPads struct {
	A, B GPIOPin
}

// EncoderResolution is the number of quadrature transitions per detent.
const EncoderResolution = 4

// Transition table indexed by (previous AB << 2 | current AB).
var encoderLUT = [16]int8{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

type encoderState struct {
	pads   EncoderPads
	state  uint8
	pulses int8
	// pending is the net number of detents not yet consumed by the scan
	// loop; positive is clockwise. It saturates at +/-maxPendingDetents.
	pending int8
}

const maxPendingDetents = 127

var encoders []encoderState

// ConfigureEncoders sets the pads of the local half's encoders, configures
// them as pulled-up inputs and latches their current state.
func ConfigureEncoders(pads []EncoderPads) {
	state := disableInterrupts()
	encoders = make([]encoderState, len(pads))
	for i, p := range pads {
		encoders[i].pads = p
	}
	restoreInterrupts(state)

	gpio := MustGPIO()
	for i, p := range pads {
		if err := gpio.ConfigureInputPullUp(p.A); err != nil {
			DebugPrintln("[ENC] pad A " + utoa(uint32(p.A)) + ": " + err.Error())
		}
		if err := gpio.ConfigureInputPullUp(p.B); err != nil {
			DebugPrintln("[ENC] pad B " + utoa(uint32(p.B)) + ": " + err.Error())
		}
		encoders[i].state = readEncoderPads(p)
	}
}

// EncoderCount returns the number of configured encoders.
func EncoderCount() int {
	return len(encoders)
}

func readEncoderPads(p EncoderPads) uint8 {
	gpio := MustGPIO()
	var s uint8
	if gpio.ReadPin(p.A) {
		s |= 1
	}
	if gpio.ReadPin(p.B) {
		s |= 2
	}
	return s
}

// EncoderInterruptRead samples encoder index and accumulates detents.
// Safe to call from a pin-change interrupt.
func EncoderInterruptRead(index uint8) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if int(index) >= len(encoders) {
		return
	}
	e := &encoders[index]
	e.state = (e.state<<2 | readEncoderPads(e.pads)) & 0x0F
	e.pulses += encoderLUT[e.state]
	if e.pulses >= EncoderResolution {
		if e.pending > -maxPendingDetents {
			e.pending--
		}
		e.pulses %= EncoderResolution
	}
	if e.pulses <= -EncoderResolution {
		if e.pending < maxPendingDetents {
			e.pending++
		}
		e.pulses %= EncoderResolution
	}
}

// takeEncoderDetents returns and clears the pending detents of index.
func takeEncoderDetents(index int) int8 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	d := encoders[index].pending
	encoders[index].pending = 0
	return d
}
