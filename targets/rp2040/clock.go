//go:build rp2040 || rp2350

package main

import "kbhooks/core"

var bootMicros uint64

// UpdateSystemTime feeds the core millisecond clock from the hardware timer.
// Called once per main loop iteration.
func UpdateSystemTime() {
	core.SetTime(uint32((GetHardwareUptime() - bootMicros) / 1000))
}
