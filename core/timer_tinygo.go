//go:build tinygo

package core

import "sync/atomic"

var systemMillisValue uint32

// getSystemMillis is read from both the scan loop and interrupt handlers.
func getSystemMillis() uint32 {
	return atomic.LoadUint32(&systemMillisValue)
}

func setSystemMillis(ms uint32) {
	atomic.StoreUint32(&systemMillisValue, ms)
}
