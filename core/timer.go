package core

// Time is kept as a free-running millisecond counter. The 16-bit readers
// wrap every ~65 s and must only be used for intervals shorter than that.

// TimerRead returns the low 16 bits of the millisecond clock.
func TimerRead() uint16 {
	return uint16(getSystemMillis())
}

// TimerRead32 returns the full millisecond clock.
func TimerRead32() uint32 {
	return getSystemMillis()
}

// TimerElapsed returns milliseconds since last, correct across one wrap.
func TimerElapsed(last uint16) uint16 {
	return TimerRead() - last
}

// TimerElapsed32 is TimerElapsed for 32-bit timestamps.
func TimerElapsed32(last uint32) uint32 {
	return TimerRead32() - last
}

// SetTime sets the millisecond clock. Targets call it from their tick
// source; tests use it to step time.
func SetTime(ms uint32) {
	setSystemMillis(ms)
}

// ProcessTimers runs every scheduled timer that is due.
func ProcessTimers() {
	TimerDispatch(TimerRead32())
}
