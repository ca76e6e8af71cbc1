//go:build !tinygo

package core

import "sync/atomic"

var systemMillis atomic.Uint32

func getSystemMillis() uint32 {
	return systemMillis.Load()
}

func setSystemMillis(ms uint32) {
	systemMillis.Store(ms)
}
