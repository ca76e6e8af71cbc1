//go:build rp2040

package pio

import (
	"errors"
	"kbhooks/core"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// WS2812 bit timing: 10 PIO cycles per bit at 8 MHz (800 kHz data rate).
//
//	'0': 3 cycles high, 7 low
//	'1': 7 cycles high, 3 low
const (
	ws2812CyclesPerBit = 10
	ws2812BitRate      = 800000
	ws2812Origin       = 0 // Jump targets below are absolute
)

var ErrNoStateMachine = errors.New("pio: no free state machine")

// buildWS2812Program shifts one bit per pass out of the OSR, MSB first.
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestX, 1).Encode(),             // 0: out x, 1        (low 1)
		asm.Set(rp2pio.SetDestPins, 1).Delay(1).Encode(), // 1: set pins, 1 [1] (high 2)
		asm.Jmp(4, rp2pio.JmpXZero).Encode(),             // 2: jmp !x, 4       (high 1)
		asm.Jmp(5, rp2pio.JmpAlways).Delay(3).Encode(),   // 3: jmp 5 [3]       (high 4)
		asm.Set(rp2pio.SetDestPins, 0).Delay(3).Encode(), // 4: set pins, 0 [3] (low 4)
		asm.Set(rp2pio.SetDestPins, 0).Delay(1).Encode(), // 5: set pins, 0 [1] (low 2)
		// .wrap
	}
}

// WS2812 implements core.LEDStrip on one PIO state machine.
type WS2812 struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewWS2812 claims a state machine and starts the bit program on pin.
func NewWS2812(pin machine.Pin) (*WS2812, error) {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil, ErrNoStateMachine
	}
	pioHW := rp2pio.PIO0
	if pioNum == 1 {
		pioHW = rp2pio.PIO1
	}
	s := &WS2812{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		pin: pin,
	}

	// Claim the state machine first
	s.sm.TryClaim()

	program := buildWS2812Program()
	offset, err := s.pio.AddProgram(program, ws2812Origin)
	if err != nil {
		return nil, err
	}
	s.offset = offset

	s.pin.Configure(machine.PinConfig{Mode: s.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(s.pin, 1)
	// Shift left, autopull at 24 bits (one GRB pixel per FIFO word)
	cfg.SetOutShift(false, true, 24)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// 8 MHz state machine clock, as 8.8 fixed point
	div := uint64(machine.CPUFrequency()) * 256 / (ws2812BitRate * ws2812CyclesPerBit)
	cfg.SetClkDivIntFrac(uint16(div>>8), uint8(div&0xFF))

	s.sm.Init(offset, cfg)
	// Pin direction must be set after Init
	s.sm.SetPindirsConsecutive(s.pin, 1, true)
	s.sm.SetPinsConsecutive(s.pin, 1, false)
	s.sm.SetEnabled(true)

	core.DebugPrintln("[LED] ws2812 on pio state machine")
	return s, nil
}

// WriteColors pushes one frame. The chain latches once the FIFO drains and
// the line idles low.
func (s *WS2812) WriteColors(frame []core.RGB) error {
	for _, c := range frame {
		grb := uint32(c.G)<<16 | uint32(c.R)<<8 | uint32(c.B)
		for s.sm.IsTxFIFOFull() {
		}
		s.sm.TxPut(grb << 8)
	}
	return nil
}
