package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout is how long Exchange waits for a response by default.
const DefaultTimeout = 2 * time.Second

var (
	ErrClosed  = errors.New("protocol: transport closed")
	ErrTimeout = errors.New("protocol: response timeout")
)

// HostTransport is the configurator side of the framed report link. It sends
// one request at a time and matches the response by sequence byte.
type HostTransport struct {
	// Serial I/O
	port io.ReadWriteCloser

	// Sequence tracking (0x10-0x1F)
	currentSeq uint32 // atomic uint8 stored as uint32

	scanner     FrameScanner
	inputBuffer *FifoBuffer

	responseChan chan *Message

	// exchangeMutex serializes request/response pairs
	exchangeMutex sync.Mutex
	readMutex     sync.Mutex

	// Stop channel for graceful shutdown
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

// NewHostTransport creates a new host-side transport and starts its reader.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:         port,
		currentSeq:   MessageDest, // Start at 0x10
		inputBuffer:  NewFifoBuffer(512),
		responseChan: make(chan *Message, 16),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}

	go t.readLoop()

	return t
}

// Exchange sends report and returns the device's answer to it.
func (t *HostTransport) Exchange(report []byte, timeout time.Duration) ([]byte, error) {
	t.exchangeMutex.Lock()
	defer t.exchangeMutex.Unlock()

	seq := uint8(atomic.LoadUint32(&t.currentSeq))
	out := NewScratchOutput()
	if err := EncodeFrame(out, seq, report); err != nil {
		return nil, err
	}

	t.drainResponses()
	if err := t.writeMessage(out.Result()); err != nil {
		return nil, fmt.Errorf("failed to write message: %w", err)
	}
	atomic.StoreUint32(&t.currentSeq, uint32(NextSequence(seq)))

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case resp := <-t.responseChan:
			if resp.Sequence != seq {
				// Late answer to an earlier, timed out request
				continue
			}
			return resp.Payload, nil

		case <-deadline.C:
			return nil, fmt.Errorf("after %v: %w", timeout, ErrTimeout)

		case <-t.stopChan:
			return nil, ErrClosed
		}
	}
}

func (t *HostTransport) drainResponses() {
	for {
		select {
		case <-t.responseChan:
		default:
			return
		}
	}
}

// writeMessage sends a message to the serial port
func (t *HostTransport) writeMessage(msg []byte) error {
	n, err := t.port.Write(msg)
	if err != nil {
		return err
	}
	if n != len(msg) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(msg))
	}
	return nil
}

// readLoop continuously reads from serial port and processes messages
func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buffer)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if n > 0 {
			t.inputBuffer.Write(buffer[:n])
			t.processMessages()
		}
	}
}

// processMessages parses and dispatches messages from the input buffer
func (t *HostTransport) processMessages() {
	t.readMutex.Lock()
	defer t.readMutex.Unlock()

	consumed := t.scanner.Scan(t.inputBuffer.Data(), func(msg Message) {
		payload := make([]byte, len(msg.Payload))
		copy(payload, msg.Payload)
		msg.Payload = payload
		t.dispatchMessage(&msg)
	})
	if consumed > 0 {
		t.inputBuffer.Pop(consumed)
	}
}

// dispatchMessage queues a response, dropping the oldest when full
func (t *HostTransport) dispatchMessage(msg *Message) {
	select {
	case t.responseChan <- msg:
	default:
		select {
		case <-t.responseChan:
		default:
		}
		t.responseChan <- msg
	}
}

// Close stops the transport and closes the serial port
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stopChan)
		if t.port != nil {
			// Closing the port unblocks a pending Read
			err = t.port.Close()
		}
		<-t.doneChan
	})
	return err
}

// GetCurrentSequence returns the current sequence number (for debugging)
func (t *HostTransport) GetCurrentSequence() uint8 {
	return uint8(atomic.LoadUint32(&t.currentSeq))
}
