package core

import (
	"errors"
	"sync"
)

// VIA command ids
const (
	ViaGetProtocolVersion  uint8 = 0x01
	ViaGetKeyboardValue    uint8 = 0x02
	ViaCustomSetValue      uint8 = 0x07
	ViaCustomGetValue      uint8 = 0x08
	ViaCustomSave          uint8 = 0x09
	ViaUnhandled           uint8 = 0xFF
	ViaProtocolVersion           = 0x000C
	ViaKeyboardValueUptime uint8 = 0x01
)

// VIA custom channel ids
const (
	ViaChannelCustom      uint8 = 0
	ViaChannelBacklight   uint8 = 1
	ViaChannelRGBLight    uint8 = 2
	ViaChannelRGBMatrix   uint8 = 3
	ViaChannelAudio       uint8 = 4
	ViaChannelLEDMatrix   uint8 = 5
	ViaCustomHeaderLength       = 3
)

// ViaHandler processes one raw report in place; the same buffer is sent
// back to the host as the response.
type ViaHandler func(data []byte)

// ViaCommand is a registered report handler.
type ViaCommand struct {
	ID      uint8
	Name    string
	Handler ViaHandler
}

// ViaRouter maps the first byte of a raw report to a handler.
type ViaRouter struct {
	mu       sync.RWMutex
	commands map[uint8]*ViaCommand
}

// NewViaRouter creates an empty router.
func NewViaRouter() *ViaRouter {
	return &ViaRouter{commands: make(map[uint8]*ViaCommand)}
}

// Register installs handler for id, replacing any previous one.
func (r *ViaRouter) Register(id uint8, name string, handler ViaHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[id] = &ViaCommand{ID: id, Name: name, Handler: handler}
}

// GetCommand retrieves a command by ID
func (r *ViaRouter) GetCommand(id uint8) (*ViaCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

var errEmptyReport = errors.New("via: empty report")

// Dispatch runs the handler for data[0]. Unknown commands are answered by
// overwriting the command byte with ViaUnhandled.
func (r *ViaRouter) Dispatch(data []byte) error {
	if len(data) == 0 {
		return errEmptyReport
	}
	cmd, ok := r.GetCommand(data[0])
	if !ok {
		DebugPrintln("[VIA] unhandled command " + hex8(data[0]))
		data[0] = ViaUnhandled
		return nil
	}
	RecordEvent(EvtVia, data[0], viaByte(data, 1))
	cmd.Handler(data)
	return nil
}

func viaByte(data []byte, i int) uint8 {
	if i < len(data) {
		return data[i]
	}
	return 0
}
