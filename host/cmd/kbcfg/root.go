package main

import (
	"github.com/spf13/cobra"

	"kbhooks/host/config"
	"kbhooks/host/logging"
	"kbhooks/protocol"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kbcfg",
		Short:         "Configure layer colors and text buffers on the keyboard",
		Version:       protocol.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Shell lines reuse the settings the shell started with.
			if a.loaded {
				return nil
			}
			if err := config.LoadConfig(&a.opts, cmd); err != nil {
				return err
			}
			logging.Initialize(a.opts.Logging())
			a.loaded = true
			return nil
		},
	}

	// Flag defaults are the current options so rebuilding the tree for a
	// shell line does not reset them.
	o := &a.opts
	pf := root.PersistentFlags()
	pf.StringVarP(&o.Config, "config", "c", o.Config, "Path to configuration file")
	pf.StringVarP(&o.Transport, "transport", "t", o.Transport, "Link to the keyboard: serial, hid or sim")
	pf.StringVarP(&o.Device, "device", "d", o.Device, "Serial device path")
	pf.IntVar(&o.Baud, "baud", o.Baud, "Serial baud rate")
	pf.IntVar(&o.TimeoutMs, "timeout-ms", o.TimeoutMs, "Response timeout in milliseconds")
	pf.IntVar(&o.VendorID, "vid", o.VendorID, "USB vendor id for raw HID")
	pf.IntVar(&o.ProductID, "pid", o.ProductID, "USB product id for raw HID (0 matches any)")
	pf.IntVar(&o.BufferSlots, "buffer-slots", o.BufferSlots, "Number of text buffers in the firmware")
	pf.StringVar(&o.SimState, "sim-state", o.SimState, "File that keeps the simulator's saved settings")
	pf.StringVar(&o.LoggingLevel, "logging-level", o.LoggingLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&o.LoggingFormat, "logging-format", o.LoggingFormat, "Log format (text, json)")

	root.AddCommand(
		newColorCmd(a),
		newMicCmd(a),
		newTestCmd(a),
		newBufferCmd(a),
		newDelayCmd(a),
		newSaveCmd(a),
		newInfoCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	if !a.inShell {
		root.AddCommand(newShellCmd(a))
	}
	return root
}
