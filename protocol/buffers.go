package protocol

// InputBuffer is what Transport.Receive reads frames from.
type InputBuffer interface {
	// Data returns the unconsumed bytes.
	Data() []byte
	// Pop discards n bytes from the front.
	Pop(n int)
}

// OutputBuffer receives encoded frames.
type OutputBuffer interface {
	Output(data []byte)
}

// ScratchOutput queues encoded frames until they are flushed. Frames that
// do not fit in MessageMax bytes are dropped whole.
type ScratchOutput struct {
	buf [MessageMax]byte
	n   int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	if s.n+len(data) > len(s.buf) {
		return
	}
	s.n += copy(s.buf[s.n:], data)
}

// Result returns the queued bytes. The slice aliases the buffer.
func (s *ScratchOutput) Result() []byte { return s.buf[:s.n] }

func (s *ScratchOutput) Reset() { s.n = 0 }

// FifoBuffer queues bytes between the USB reader and the frame parser.
// Unread bytes are kept at the front of the backing array so Data never
// needs to copy.
type FifoBuffer struct {
	buf []byte
	n   int
}

// NewFifoBuffer returns a queue holding up to capacity bytes.
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write queues as much of data as fits and returns how much that was.
func (f *FifoBuffer) Write(data []byte) int {
	w := copy(f.buf[f.n:], data)
	f.n += w
	return w
}

func (f *FifoBuffer) Available() int { return f.n }

// Data returns the queued bytes. The slice is valid until the next Write
// or Pop.
func (f *FifoBuffer) Data() []byte { return f.buf[:f.n] }

func (f *FifoBuffer) Pop(n int) {
	if n >= f.n {
		f.n = 0
		return
	}
	if n <= 0 {
		return
	}
	f.n = copy(f.buf, f.buf[n:f.n])
}

func (f *FifoBuffer) Reset() { f.n = 0 }
