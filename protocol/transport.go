package protocol

import "sync/atomic"

// ReportHandler processes one raw report in place. The report is answered
// with whatever the handler leaves in the slice.
type ReportHandler func(report []byte)

// Transport is the device side of the framed report link.
type Transport struct {
	scanner FrameScanner
	output  OutputBuffer
	handler ReportHandler

	report [MaxReportSize]byte

	frames   uint32 // atomic
	dropped  uint32 // atomic
	panicked uint32 // atomic

	resetCallback func() // Called when the link is reset
	flushCallback func() // Called to flush a response to USB
}

// NewTransport creates a new Transport instance
func NewTransport(output OutputBuffer, handler ReportHandler) *Transport {
	t := &Transport{
		output:  output,
		handler: handler,
	}
	t.scanner.Seq = func(seq uint8) bool { return seq&^MessageSeqMask == MessageDest }
	t.scanner.Resync = func() { atomic.AddUint32(&t.dropped, 1) }
	return t
}

// Receive processes incoming data from the input buffer and pops what it
// consumed. Each complete request frame produces one response frame.
func (t *Transport) Receive(input InputBuffer) {
	consumed := t.scanner.Scan(input.Data(), t.handleFrame)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (t *Transport) handleFrame(msg Message) {
	atomic.AddUint32(&t.frames, 1)

	report := t.report[:len(msg.Payload)]
	copy(report, msg.Payload)

	if !t.dispatch(report) {
		return
	}
	if err := EncodeFrame(t.output, msg.Sequence, report); err != nil {
		return
	}
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// dispatch runs the handler, recovering from panics so a bad report cannot
// take the firmware down. A panic drops the response; the host times out.
func (t *Transport) dispatch(report []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddUint32(&t.panicked, 1)
			ok = false
		}
	}()
	if t.handler != nil && len(report) > 0 {
		t.handler(report)
	}
	return true
}

// Stats returns the number of frames handled, resyncs and handler panics.
func (t *Transport) Stats() (frames, resyncs, panics uint32) {
	return atomic.LoadUint32(&t.frames), atomic.LoadUint32(&t.dropped), atomic.LoadUint32(&t.panicked)
}

// Synchronized reports whether the receiver is aligned to frame boundaries.
func (t *Transport) Synchronized() bool { return t.scanner.Synchronized() }

// Reset resets the transport state (useful after USB disconnect/reconnect)
func (t *Transport) Reset() {
	t.scanner.Reset()
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// SetResetCallback sets a callback to be called on Reset
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback sets a callback to flush each response to USB
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}
