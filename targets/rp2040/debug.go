//go:build rp2040 || rp2350

package main

import (
	"kbhooks/core"
	"machine"
)

// debugBuild enables the UART debug log. USB CDC carries the configurator
// link, so debug output goes to UART0 (GPIO0 TX, GPIO1 RX).
const debugBuild = false

var debugUART *machine.UART

// InitDebugUART routes core debug output to UART0 at 115200 baud.
func InitDebugUART() {
	if !debugBuild {
		return
	}
	debugUART = machine.UART0
	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		return
	}
	core.SetDebugWriter(func(s string) {
		debugUART.Write([]byte(s))
		debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.DebugPrintln("=== kbhooks debug UART ===")
}
