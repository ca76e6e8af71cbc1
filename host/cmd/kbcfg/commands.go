package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kbhooks/core"
	"kbhooks/host/backup"
	"kbhooks/host/device"
	"kbhooks/host/watch"
	"kbhooks/keymaps/vvh413"
	"kbhooks/protocol"
)

func parseU8(name, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%s %q: want 0-255", name, s)
	}
	return uint8(v), nil
}

func parseSlot(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("slot %q: not a number", s)
	}
	return v, nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("state %q: want on or off", s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func newColorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Layer indicator colors",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get [layer]",
		Short: "Show the color of one layer, or all layers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				layer, err := parseU8("layer", args[0])
				if err != nil {
					return err
				}
				color, err := c.LayerColor(cmd.Context(), layer)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "layer %d: hue %d sat %d\n", layer, color.Hue, color.Sat)
				return nil
			}
			colors, err := c.LayerColors(cmd.Context())
			if err != nil {
				return err
			}
			for layer, color := range colors {
				fmt.Fprintf(out, "layer %d: hue %d sat %d\n", layer, color.Hue, color.Sat)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "set <layer> <hue> <sat>",
		Short: "Set the color of a layer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [3]uint8
			for i, name := range []string{"layer", "hue", "sat"} {
				n, err := parseU8(name, args[i])
				if err != nil {
					return err
				}
				v[i] = n
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.SetLayerColor(cmd.Context(), v[0], device.Color{Hue: v[1], Sat: v[2]})
		},
	}, &cobra.Command{
		Use:   "reset",
		Short: "Restore the factory layer colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.ResetLayerColors(cmd.Context())
		},
	})
	return cmd
}

func newMicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mic",
		Short: "Mic-muted indicator",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the indicator state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			muted, err := c.MicState(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), onOff(muted))
			return nil
		},
	}, &cobra.Command{
		Use:   "set <on|off>",
		Short: "Turn the indicator on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			muted, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.SetMicState(cmd.Context(), muted)
		},
	})
	return cmd
}

func newTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test <led>",
		Short: "Light one LED blue for a second",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseU8("led", args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.Test(cmd.Context(), index)
		},
	}
}

func newBufferCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Text buffers typed by the BUF_P keys",
	}

	var file string
	write := &cobra.Command{
		Use:   "write <slot> [text]",
		Short: "Store text in a buffer slot",
		Long:  "Store text in a buffer slot. Without text the content comes from --file, or stdin when the file is -.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			var text string
			switch {
			case len(args) == 2:
				text = args[1]
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(data)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			default:
				return fmt.Errorf("no text: pass it as an argument or use --file")
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.WriteSlot(cmd.Context(), slot, text)
		},
	}
	write.Flags().StringVarP(&file, "file", "f", "", "Read the text from a file (- for stdin)")

	cmd.AddCommand(&cobra.Command{
		Use:   "read <slot>",
		Short: "Print the text in a buffer slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			text, err := c.ReadSlot(cmd.Context(), slot)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}, write, &cobra.Command{
		Use:   "clear <slot>",
		Short: "Empty a buffer slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.WriteSlot(cmd.Context(), slot, "")
		},
	})
	return cmd
}

func newDelayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delay",
		Short: "Delay between typed characters",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the delay in milliseconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			ms, err := c.BufferDelay(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ms\n", ms)
			return nil
		},
	}, &cobra.Command{
		Use:   "set <ms>",
		Short: "Set the delay in milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := parseU8("delay", args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.SetBufferDelay(cmd.Context(), ms)
		},
	})
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist colors and delay on the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			return c.Save(cmd.Context())
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show protocol version and uptime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			version, err := c.ProtocolVersion(cmd.Context())
			if err != nil {
				return err
			}
			uptime, err := c.Uptime(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "protocol: 0x%04X\n", version)
			fmt.Fprintf(out, "uptime:   %s\n", uptime.Truncate(time.Millisecond))
			fmt.Fprintf(out, "buffers:  %d x %d bytes\n", c.Slots(), vvh413.BufSize)
			return nil
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Save colors, delay, mic state and buffers to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			b, err := backup.Take(cmd.Context(), c)
			if err != nil {
				return err
			}
			return backup.Write(args[0], b)
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Write a backup file to the keyboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backup.Read(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			return b.Restore(cmd.Context(), c, !noSave)
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Leave the restored settings unsaved")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch <slot> <file>",
		Short: "Copy a file into a buffer slot every time it changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			c, err := a.connect()
			if err != nil {
				return err
			}
			w := watch.New(args[1], func(ctx context.Context, text string) error {
				return c.WriteSlot(ctx, slot, text)
			}, watch.WithDebounce(debounce), watch.WithInitialSync())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet time before syncing")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kbcfg version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kbcfg %s (raw report protocol 0x%04X)\n", protocol.Version, core.ViaProtocolVersion)
		},
	}
}
