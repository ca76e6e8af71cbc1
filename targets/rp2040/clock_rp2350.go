//go:build rp2350

package main

import (
	"kbhooks/core"
	"runtime/volatile"
	"unsafe"
)

// RP2350 TIMER0 lives at a different address than the RP2040 timer.
const (
	timerBase     = 0x400B0000
	timerTimeRawH = timerBase + 0x24 // Raw timer high (no latching)
	timerTimeRawL = timerBase + 0x28 // Raw timer low (no latching)
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawL)))
)

// InitClock latches the boot time so the millisecond clock starts at zero.
func InitClock() {
	// Read and discard a few values so the tick generator has settled
	_ = timerRawL.Get()
	_ = timerRawL.Get()

	bootMicros = GetHardwareUptime()
	core.DebugPrintln("[CLK] rp2350 1MHz timer")
}

// GetHardwareUptime reads the full 64-bit microsecond timer
func GetHardwareUptime() uint64 {
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}
