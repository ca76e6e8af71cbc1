//go:build !wasm

// Package rawhid talks to the keyboard's raw HID interface, the channel
// stock configurators use.
package rawhid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sstallion/go-hid"

	"kbhooks/host/device"
	"kbhooks/host/logging"
	"kbhooks/protocol"
)

// Raw HID interface identifiers.
const (
	UsagePage uint16 = 0xFF60
	Usage     uint16 = 0x61
)

var ErrNotFound = errors.New("rawhid: no raw HID interface found")

var initOnce sync.Once
var initErr error

func initHID() error {
	initOnce.Do(func() { initErr = hid.Init() })
	return initErr
}

// Info describes one raw HID interface.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Find lists raw HID interfaces of devices matching vid and pid. Zero
// matches any.
func Find(vid, pid uint16) ([]Info, error) {
	if err := initHID(); err != nil {
		return nil, fmt.Errorf("hid init: %w", err)
	}
	var found []Info
	err := hid.Enumerate(vid, pid, func(info *hid.DeviceInfo) error {
		if info.UsagePage != UsagePage || info.Usage != Usage {
			return nil
		}
		found = append(found, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.ProductStr,
			Manufacturer: info.MfrStr,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	return found, nil
}

// Link exchanges 32-byte reports with one device.
type Link struct {
	mu      sync.Mutex
	dev     *hid.Device
	timeout time.Duration
}

var _ device.Link = (*Link)(nil)

// Open opens the first raw HID interface matching vid and pid.
func Open(vid, pid uint16, timeout time.Duration) (*Link, error) {
	infos, err := Find(vid, pid)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%04x:%04x: %w", vid, pid, ErrNotFound)
	}
	if len(infos) > 1 {
		logging.GetLogger("rawhid").Warn("several keyboards match, using the first",
			"count", len(infos), "path", infos[0].Path)
	}
	return OpenPath(infos[0].Path, timeout)
}

// OpenPath opens the interface at path.
func OpenPath(path string, timeout time.Duration) (*Link, error) {
	if err := initHID(); err != nil {
		return nil, fmt.Errorf("hid init: %w", err)
	}
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if timeout <= 0 {
		timeout = protocol.DefaultTimeout
	}
	logging.GetLogger("rawhid").Debug("opened", "path", path)
	return &Link{dev: dev, timeout: timeout}, nil
}

// Exchange writes report, zero padded to a full report, and returns the
// first input report that answers it.
func (l *Link) Exchange(ctx context.Context, report []byte) ([]byte, error) {
	if len(report) > protocol.ReportSize {
		return nil, protocol.ErrReportTooLong
	}
	deadline := time.Now().Add(l.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Leading byte is the report id; the interface has none.
	out := make([]byte, protocol.ReportSize+1)
	copy(out[1:], report)
	if _, err := l.dev.Write(out); err != nil {
		return nil, fmt.Errorf("hid write: %w", err)
	}

	in := make([]byte, protocol.ReportSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("hid read: %w", protocol.ErrTimeout)
		}
		n, err := l.dev.ReadWithTimeout(in, min(remaining, 100*time.Millisecond))
		if errors.Is(err, hid.ErrTimeout) || (err == nil && n == 0) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("hid read: %w", err)
		}
		if !answers(report, in[:n]) {
			logging.GetLogger("rawhid").Debug("dropping stale report", "cmd", in[0])
			continue
		}
		return in[:n], nil
	}
}

func (l *Link) MaxReport() int { return protocol.ReportSize }

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev.Close()
}
