//go:build !tinygo

package core

import "sync"

// irqState stands in for the saved interrupt mask on regular Go.
type irqState struct{}

// irqLock serializes "interrupt" callbacks with the main loop when the
// runtime is hosted (tests, simulator), where callbacks may come from
// other goroutines.
var irqLock sync.Mutex

func disableInterrupts() irqState {
	irqLock.Lock()
	return irqState{}
}

func restoreInterrupts(irqState) {
	irqLock.Unlock()
}
