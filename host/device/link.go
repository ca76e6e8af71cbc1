// Package device talks to a keyboard running the vvh413 keymap through its
// raw report channel.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kbhooks/host/logging"
	"kbhooks/host/serial"
	"kbhooks/protocol"
)

// Link exchanges one raw report with the keyboard.
type Link interface {
	// Exchange sends report and returns the device's answer.
	Exchange(ctx context.Context, report []byte) ([]byte, error)
	// MaxReport is the largest request the link can carry.
	MaxReport() int
	Close() error
}

var (
	ErrUnhandled  = errors.New("device: command not handled")
	ErrShortReply = errors.New("device: short reply")
	ErrOutOfRange = errors.New("device: value out of range")
)

// SerialLink carries reports in frames over the USB CDC port.
type SerialLink struct {
	port      serial.Port
	transport *protocol.HostTransport
	timeout   time.Duration
}

// OpenSerial opens the CDC port described by cfg.
func OpenSerial(cfg *serial.Config, timeout time.Duration) (*SerialLink, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		logging.GetLogger("device").Debug("flush failed", "error", err)
	}
	return NewSerialLink(port, timeout), nil
}

// NewSerialLink starts a framed transport on an open port.
func NewSerialLink(port serial.Port, timeout time.Duration) *SerialLink {
	if timeout <= 0 {
		timeout = protocol.DefaultTimeout
	}
	return &SerialLink{
		port:      port,
		transport: protocol.NewHostTransport(port),
		timeout:   timeout,
	}
}

func (l *SerialLink) Exchange(ctx context.Context, report []byte) ([]byte, error) {
	timeout := l.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := l.transport.Exchange(report, timeout)
	if err != nil {
		return nil, fmt.Errorf("serial exchange: %w", err)
	}
	return resp, nil
}

// MaxReport allows reports longer than a HID report.
func (l *SerialLink) MaxReport() int { return protocol.MaxReportSize }

func (l *SerialLink) Close() error { return l.transport.Close() }
