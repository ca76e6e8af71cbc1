//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB configures the USB CDC port used by the configurator link.
// The HID keyboard interface is added by importing machine/usb/hid.
func InitUSB() {
	// On RP2040/RP2350 machine.Serial is USB CDC, not UART
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte from USB
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes multiple bytes to USB
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
