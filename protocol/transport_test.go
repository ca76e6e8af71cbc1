package protocol

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"
)

func TestTransportRespondsWithSameSequence(t *testing.T) {
	out := NewScratchOutput()
	tr := NewTransport(out, func(report []byte) {
		report[1] = 0x42
	})
	flushes := 0
	tr.SetFlushCallback(func() { flushes++ })

	request := []byte{0x08, 0x00, 0x01}
	tr.Receive(queued(encode(t, 0x17, request)))

	if flushes != 1 {
		t.Fatalf("flushes = %d, want 1", flushes)
	}
	var s FrameScanner
	var got Message
	s.Scan(out.Result(), func(msg Message) { got = msg })
	if got.Sequence != 0x17 {
		t.Errorf("response seq = %02X, want 17", got.Sequence)
	}
	if !bytes.Equal(got.Payload, []byte{0x08, 0x42, 0x01}) {
		t.Errorf("response = % X", got.Payload)
	}
}

func TestTransportKeepsPartialFrame(t *testing.T) {
	out := NewScratchOutput()
	calls := 0
	tr := NewTransport(out, func([]byte) { calls++ })

	frame := encode(t, MessageDest, []byte{1, 2, 3})
	fifo := NewFifoBuffer(128)
	fifo.Write(frame[:4])
	tr.Receive(fifo)
	if calls != 0 || fifo.Available() != 4 {
		t.Fatalf("partial frame: calls=%d available=%d", calls, fifo.Available())
	}
	fifo.Write(frame[4:])
	tr.Receive(fifo)
	if calls != 1 || fifo.Available() != 0 {
		t.Errorf("complete frame: calls=%d available=%d", calls, fifo.Available())
	}
}

func TestTransportRecoversHandlerPanic(t *testing.T) {
	out := NewScratchOutput()
	tr := NewTransport(out, func(report []byte) {
		if report[0] == 0xEE {
			panic("bad report")
		}
	})

	stream := append(encode(t, 0x10, []byte{0xEE}), encode(t, 0x11, []byte{0x01})...)
	tr.Receive(queued(stream))

	frames, _, panics := tr.Stats()
	if panics != 1 {
		t.Errorf("panics = %d, want 1", panics)
	}
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
	var responses []uint8
	var s FrameScanner
	s.Scan(out.Result(), func(msg Message) { responses = append(responses, msg.Sequence) })
	if len(responses) != 1 || responses[0] != 0x11 {
		t.Errorf("responses = %v, want [0x11]", responses)
	}
}

// serveDevice runs a device-side transport on conn until it is closed.
func serveDevice(conn net.Conn, handler ReportHandler) {
	out := NewScratchOutput()
	tr := NewTransport(out, handler)
	tr.SetFlushCallback(func() {
		_, _ = conn.Write(out.Result())
		out.Reset()
	})
	fifo := NewFifoBuffer(256)
	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		fifo.Write(buf[:n])
		tr.Receive(fifo)
	}
}

func TestHostTransportExchange(t *testing.T) {
	hostSide, deviceSide := net.Pipe()
	go serveDevice(deviceSide, func(report []byte) {
		for i := range report {
			report[i] = ^report[i]
		}
	})
	defer deviceSide.Close()

	host := NewHostTransport(hostSide)
	defer host.Close()

	for i := 0; i < 20; i++ {
		request := []byte{byte(i), 0x0F}
		resp, err := host.Exchange(request, time.Second)
		if err != nil {
			t.Fatalf("exchange %d: %v", i, err)
		}
		if !bytes.Equal(resp, []byte{^byte(i), 0xF0}) {
			t.Fatalf("exchange %d: response % X", i, resp)
		}
	}
	// 20 exchanges wrap the 16-value sequence space once
	if seq := host.GetCurrentSequence(); seq != 0x14 {
		t.Errorf("sequence = %02X, want 14", seq)
	}
}

func TestHostTransportTimeout(t *testing.T) {
	hostSide, deviceSide := net.Pipe()
	defer deviceSide.Close()
	go func() {
		// Swallow requests without answering
		buf := make([]byte, 64)
		for {
			if _, err := deviceSide.Read(buf); err != nil {
				return
			}
		}
	}()

	host := NewHostTransport(hostSide)
	defer host.Close()

	if _, err := host.Exchange([]byte{1}, 20*time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}
