package main

import (
	"fmt"
	"time"

	"kbhooks/core"
	"kbhooks/host/config"
	"kbhooks/host/device"
	"kbhooks/host/logging"
	"kbhooks/host/rawhid"
	"kbhooks/host/serial"
	"kbhooks/host/sim"
	"kbhooks/host/store"
	"kbhooks/keymaps/vvh413"
)

// app holds what outlives a single command: the options and the open
// device, which shell lines reuse.
type app struct {
	opts    config.Options
	loaded  bool
	inShell bool
	client  *device.Client
	sim     *sim.Keyboard
}

func newApp() *app {
	return &app{opts: config.Defaults()}
}

func (a *app) timeout() time.Duration {
	return time.Duration(a.opts.TimeoutMs) * time.Millisecond
}

func (a *app) openLink() (device.Link, error) {
	switch a.opts.Transport {
	case "serial":
		cfg := serial.DefaultConfig(a.opts.Device)
		cfg.Baud = a.opts.Baud
		return device.OpenSerial(cfg, a.timeout())
	case "hid":
		return rawhid.Open(uint16(a.opts.VendorID), uint16(a.opts.ProductID), a.timeout())
	case "sim":
		var st core.Store = core.NewMemStore()
		if a.opts.SimState != "" {
			fs, err := store.Open(a.opts.SimState)
			if err != nil {
				return nil, err
			}
			st = fs
		}
		a.sim = sim.New(st, vvh413.Options{
			BufferSlots:     a.opts.BufferSlots,
			WithBufferDelay: true,
		})
		return a.sim, nil
	}
	return nil, fmt.Errorf("unknown transport %q (want serial, hid or sim)", a.opts.Transport)
}

// connect returns the client, opening the link on first use.
func (a *app) connect() (*device.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	link, err := a.openLink()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.opts.Transport, err)
	}
	a.client = device.NewClient(link, a.opts.BufferSlots)
	logging.GetLogger("kbcfg").Debug("connected", "transport", a.opts.Transport)
	return a.client, nil
}

func (a *app) close() {
	if a.client == nil {
		return
	}
	if err := a.client.Close(); err != nil {
		logging.GetLogger("kbcfg").Warn("close failed", "error", err)
	}
	a.client = nil
	a.sim = nil
}
