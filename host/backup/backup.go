// Package backup snapshots keyboard settings and text buffers to YAML.
package backup

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kbhooks/host/device"
	"kbhooks/host/logging"
	"kbhooks/keymaps/vvh413"
)

// FormatVersion is written to every backup file.
const FormatVersion = 1

// Backup is everything a configurator can read back from the keyboard.
type Backup struct {
	Version     int            `yaml:"version"`
	LayerColors []device.Color `yaml:"layer_colors"`
	BufferDelay uint8          `yaml:"buffer_delay"`
	MicMuted    bool           `yaml:"mic_muted"`
	Buffers     []string       `yaml:"buffers"`
}

// Take reads the current state from the keyboard.
func Take(ctx context.Context, c *device.Client) (*Backup, error) {
	b := &Backup{Version: FormatVersion}

	var err error
	if b.LayerColors, err = c.LayerColors(ctx); err != nil {
		return nil, fmt.Errorf("layer colors: %w", err)
	}
	if b.BufferDelay, err = c.BufferDelay(ctx); err != nil {
		return nil, fmt.Errorf("buffer delay: %w", err)
	}
	if b.MicMuted, err = c.MicState(ctx); err != nil {
		return nil, fmt.Errorf("mic state: %w", err)
	}
	for slot := 0; slot < c.Slots(); slot++ {
		text, err := c.ReadSlot(ctx, slot)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", slot, err)
		}
		b.Buffers = append(b.Buffers, text)
	}
	return b, nil
}

// Validate checks that every value in b can be written to a keyboard.
func (b *Backup) Validate() error {
	if len(b.LayerColors) > int(vvh413.LayerCount) {
		return fmt.Errorf("%d layer colors, keyboard has %d layers: %w", len(b.LayerColors), vvh413.LayerCount, device.ErrOutOfRange)
	}
	for slot, text := range b.Buffers {
		if err := device.CheckSlotText(text); err != nil {
			return fmt.Errorf("buffer %d: %w", slot, err)
		}
	}
	return nil
}

// Restore writes b to the keyboard and, if save is set, persists the
// settings record. Buffers beyond the keyboard's slot count are skipped.
// Nothing is written unless b passes Validate.
func (b *Backup) Restore(ctx context.Context, c *device.Client, save bool) error {
	log := logging.GetLogger("backup")

	if err := b.Validate(); err != nil {
		return err
	}
	for layer, color := range b.LayerColors {
		if err := c.SetLayerColor(ctx, uint8(layer), color); err != nil {
			return fmt.Errorf("layer %d color: %w", layer, err)
		}
	}
	if err := c.SetBufferDelay(ctx, b.BufferDelay); err != nil {
		return fmt.Errorf("buffer delay: %w", err)
	}
	if err := c.SetMicState(ctx, b.MicMuted); err != nil {
		return fmt.Errorf("mic state: %w", err)
	}
	for slot, text := range b.Buffers {
		if slot >= c.Slots() {
			log.Warn("backup has more buffers than the keyboard", "buffers", len(b.Buffers), "slots", c.Slots())
			break
		}
		if err := c.WriteSlot(ctx, slot, text); err != nil {
			return fmt.Errorf("buffer %d: %w", slot, err)
		}
	}
	if save {
		if err := c.Save(ctx); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	log.Info("restored", "layers", len(b.LayerColors), "buffers", len(b.Buffers), "saved", save)
	return nil
}

// Write stores b as YAML at path.
func Write(path string, b *Backup) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Read loads a backup written by Write.
func Read(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	var b Backup
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse backup %s: %w", path, err)
	}
	if b.Version != FormatVersion {
		return nil, fmt.Errorf("backup %s: unsupported version %d", path, b.Version)
	}
	return &b, nil
}
