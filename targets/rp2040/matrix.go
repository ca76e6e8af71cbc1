//go:build rp2040 || rp2350

package main

import (
	"kbhooks/core"
	"kbhooks/keymaps/vvh413"
	"machine"
	"time"
)

// Board wiring. Columns are selected through three chained 74HC595 shift
// registers; rows are read directly, active low.
var (
	rowPins = [...]machine.Pin{
		machine.GPIO2, machine.GPIO3, machine.GPIO4,
		machine.GPIO5, machine.GPIO6, machine.GPIO7,
	}

	shiftData  = machine.GPIO8
	shiftClock = machine.GPIO9
	shiftLatch = machine.GPIO10

	ledDataPin   = machine.GPIO11
	dipSwitchPin = machine.GPIO12
)

const (
	shiftRegBits   = 24
	columnSettleUs = 2
)

// Matrix scans the key switch matrix column by column.
type Matrix struct {
	rows []core.MatrixRow
}

func NewMatrix() *Matrix {
	for _, p := range rowPins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	for _, p := range []machine.Pin{shiftData, shiftClock, shiftLatch} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	m := &Matrix{rows: make([]core.MatrixRow, len(rowPins))}
	m.selectColumn(-1)
	return m
}

// selectColumn drives column col low and all others high. col < 0
// deselects every column.
func (m *Matrix) selectColumn(col int) {
	shiftLatch.Low()
	for bit := shiftRegBits - 1; bit >= 0; bit-- {
		shiftData.Set(bit != col)
		shiftClock.High()
		shiftClock.Low()
	}
	shiftLatch.High()
}

// Scan returns the pressed state of every key, one bit per column.
func (m *Matrix) Scan() []core.MatrixRow {
	for i := range m.rows {
		m.rows[i] = 0
	}
	for col := 0; col < vvh413.MatrixCols; col++ {
		m.selectColumn(col)
		time.Sleep(columnSettleUs * time.Microsecond)
		for r, p := range rowPins {
			if !p.Get() {
				m.rows[r] |= 1 << uint(col)
			}
		}
	}
	m.selectColumn(-1)
	return m.rows
}

// DipSwitch polls the mode switch and reports changes.
type DipSwitch struct {
	known  bool
	active bool
}

func NewDipSwitch() *DipSwitch {
	dipSwitchPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &DipSwitch{}
}

// Poll calls update when the switch position changes, and once at boot.
func (d *DipSwitch) Poll(update func(index uint8, active bool)) {
	active := !dipSwitchPin.Get()
	if d.known && active == d.active {
		return
	}
	d.known = true
	d.active = active
	update(0, active)
}
