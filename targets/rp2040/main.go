//go:build rp2040 || rp2350

package main

import (
	"kbhooks/boards/q11"
	"kbhooks/core"
	"kbhooks/keymaps/vvh413"
	"kbhooks/protocol"
	"machine"
	"time"
)

var (
	// Buffers for the configurator link
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	transport    *protocol.Transport

	rt *core.Runtime

	// Debug counters
	reportsHandled uint32
	msgerrors      uint32

	// USB connection state tracking
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitDebugUART()
	InitClock()

	// Register platform drivers
	core.SetGPIODriver(NewRPGPIODriver())
	adcDriver := NewRPAdcDriver()
	if err := adcDriver.Init(); err != nil {
		core.DebugPrintln("[ADC] init: " + err.Error())
	}
	core.SetADCDriver(adcDriver)
	core.SetHIDReporter(NewUSBKeyboard())
	core.SetStore(NewFlashStore())
	InitLEDs(ledDataPin)

	rt = core.NewRuntime(core.RuntimeConfig{
		Rows:     vvh413.MatrixRows,
		Cols:     vvh413.MatrixCols,
		Layers:   vvh413.Keymaps(),
		LEDFlags: vvh413.LEDFlags(),
	})
	keymap := vvh413.New(rt, vvh413.DefaultOptions())
	board := q11.New(rt, q11.DefaultPins(), keymap)
	rt.SetHooks(board)
	rt.Init()

	matrix := NewMatrix()
	dip := NewDipSwitch()

	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()

	transport = protocol.NewTransport(outputBuffer, handleReport)
	transport.SetResetCallback(func() {
		inputBuffer.Reset()
		outputBuffer.Reset()
	})
	transport.SetFlushCallback(writeUSB)

	go usbReaderLoop()

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			UpdateSystemTime()

			if inputBuffer.Available() > 0 {
				transport.Receive(inputBuffer)
			}

			if len(outputBuffer.Result()) > 0 {
				writeUSB()
			}

			dip.Poll(rt.DipSwitchUpdate)
			rt.ScanMatrix(matrix.Scan())
			rt.Task()
		}()

		// Yield to the USB reader
		time.Sleep(10 * time.Microsecond)
	}
}

// handleReport runs one configurator report through the runtime.
func handleReport(report []byte) {
	reportsHandled++
	if err := rt.HandleRawReport(report); err != nil {
		core.DebugPrintln("[VIA] " + err.Error())
	}
}

// usbReaderLoop runs in a goroutine to continuously read USB data
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}

			// Fresh connection after a disconnect
			if usbWasDisconnected {
				usbWasDisconnected = false
				transport.Reset()
				consecutiveWriteFailures = 0
			}

			if inputBuffer.Write([]byte{data}) == 0 {
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeUSB writes the pending output buffer to USB
func writeUSB() {
	result := outputBuffer.Result()
	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			// Likely disconnect; drop stale data after repeated failures
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
