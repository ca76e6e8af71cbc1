// Command kbcfg reads and changes the keyboard's layer colors, mic
// indicator and text buffers over the serial link, raw HID or an
// in-process simulator.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp()
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
