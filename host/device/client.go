package device

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kbhooks/core"
	"kbhooks/host/logging"
	"kbhooks/keymaps/vvh413"
	"kbhooks/protocol"
)

// bufferHeader is offset hi, offset lo and size ahead of buffer bytes.
const bufferHeader = 3

// Color is a layer indicator color. Brightness follows the global LED value.
type Color struct {
	Hue uint8 `yaml:"hue"`
	Sat uint8 `yaml:"sat"`
}

// Client issues typed custom value commands over a Link.
type Client struct {
	link   Link
	slots  int
	logger *slog.Logger
}

// NewClient wraps link. slots is the number of text buffers the firmware
// was built with.
func NewClient(link Link, slots int) *Client {
	if slots <= 0 {
		slots = vvh413.DefaultOptions().BufferSlots
	}
	return &Client{
		link:   link,
		slots:  slots,
		logger: logging.GetLogger("device"),
	}
}

// Slots returns the number of text buffers.
func (c *Client) Slots() int { return c.slots }

// Close closes the underlying link.
func (c *Client) Close() error { return c.link.Close() }

func (c *Client) exchange(ctx context.Context, report []byte) ([]byte, error) {
	resp, err := c.link.Exchange(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, ErrShortReply
	}
	if resp[0] == core.ViaUnhandled {
		return nil, fmt.Errorf("command 0x%02x: %w", report[0], ErrUnhandled)
	}
	return resp, nil
}

// custom sends [command, custom channel, value id, data...] and returns the
// value data of the reply.
func (c *Client) custom(ctx context.Context, command, valueID uint8, data ...byte) ([]byte, error) {
	n := core.ViaCustomHeaderLength + len(data)
	if n > c.link.MaxReport() {
		return nil, fmt.Errorf("%d byte request: %w", n, ErrOutOfRange)
	}
	size := protocol.ReportSize
	if n > size {
		size = n
	}
	report := make([]byte, size)
	report[0] = command
	report[1] = core.ViaChannelCustom
	report[2] = valueID
	copy(report[core.ViaCustomHeaderLength:], data)

	c.logger.Debug("custom command", "command", command, "value", valueID, "len", n)
	resp, err := c.exchange(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(resp) < n {
		return nil, ErrShortReply
	}
	return resp[core.ViaCustomHeaderLength:], nil
}

// ProtocolVersion returns the raw report protocol version.
func (c *Client) ProtocolVersion(ctx context.Context) (uint16, error) {
	report := make([]byte, protocol.ReportSize)
	report[0] = core.ViaGetProtocolVersion
	resp, err := c.exchange(ctx, report)
	if err != nil {
		return 0, err
	}
	if len(resp) < 3 {
		return 0, ErrShortReply
	}
	return uint16(resp[1])<<8 | uint16(resp[2]), nil
}

// Uptime returns the time since the keyboard booted.
func (c *Client) Uptime(ctx context.Context) (time.Duration, error) {
	report := make([]byte, protocol.ReportSize)
	report[0] = core.ViaGetKeyboardValue
	report[1] = core.ViaKeyboardValueUptime
	resp, err := c.exchange(ctx, report)
	if err != nil {
		return 0, err
	}
	if len(resp) < 6 {
		return 0, ErrShortReply
	}
	ms := uint32(resp[2])<<24 | uint32(resp[3])<<16 | uint32(resp[4])<<8 | uint32(resp[5])
	return time.Duration(ms) * time.Millisecond, nil
}

func checkLayer(layer uint8) error {
	if layer >= vvh413.LayerCount {
		return fmt.Errorf("layer %d: %w", layer, ErrOutOfRange)
	}
	return nil
}

// LayerColor returns the indicator color of layer.
func (c *Client) LayerColor(ctx context.Context, layer uint8) (Color, error) {
	if err := checkLayer(layer); err != nil {
		return Color{}, err
	}
	d, err := c.custom(ctx, core.ViaCustomGetValue, vvh413.IDLayerColor, layer, 0, 0)
	if err != nil {
		return Color{}, err
	}
	return Color{Hue: d[1], Sat: d[2]}, nil
}

// SetLayerColor sets the indicator color of layer in RAM.
func (c *Client) SetLayerColor(ctx context.Context, layer uint8, color Color) error {
	if err := checkLayer(layer); err != nil {
		return err
	}
	_, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDLayerColor, layer, color.Hue, color.Sat)
	return err
}

// LayerColors returns the colors of all layers.
func (c *Client) LayerColors(ctx context.Context) ([]Color, error) {
	colors := make([]Color, vvh413.LayerCount)
	for layer := range colors {
		color, err := c.LayerColor(ctx, uint8(layer))
		if err != nil {
			return nil, err
		}
		colors[layer] = color
	}
	return colors, nil
}

// ResetLayerColors restores the factory layer colors.
func (c *Client) ResetLayerColors(ctx context.Context) error {
	_, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDResetLayerColors)
	return err
}

// Test lights LED index blue for about a second.
func (c *Client) Test(ctx context.Context, index uint8) error {
	_, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDTest, index)
	return err
}

// MicState reports whether the mic-muted indicator is on.
func (c *Client) MicState(ctx context.Context) (bool, error) {
	d, err := c.custom(ctx, core.ViaCustomGetValue, vvh413.IDMicState, 0)
	if err != nil {
		return false, err
	}
	return d[0] != 0, nil
}

// SetMicState turns the mic-muted indicator on or off.
func (c *Client) SetMicState(ctx context.Context, muted bool) error {
	var v uint8
	if muted {
		v = 1
	}
	_, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDMicState, v)
	return err
}

// BufferDelay returns the playback delay between characters in ms.
func (c *Client) BufferDelay(ctx context.Context) (uint8, error) {
	d, err := c.custom(ctx, core.ViaCustomGetValue, vvh413.IDBufferDelay, 0)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

// SetBufferDelay sets the playback delay between characters in ms.
func (c *Client) SetBufferDelay(ctx context.Context, ms uint8) error {
	_, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDBufferDelay, ms)
	return err
}

// Save persists the settings record.
func (c *Client) Save(ctx context.Context) error {
	_, err := c.custom(ctx, core.ViaCustomSave, 0)
	return err
}

// Capacity is the size of the firmware's contiguous buffer space.
func (c *Client) Capacity() int { return c.slots * vvh413.BufSize }

func (c *Client) checkRange(offset, size int) error {
	if offset < 0 || size < 0 || offset+size > c.Capacity() {
		return fmt.Errorf("buffer range %d+%d: %w", offset, size, ErrOutOfRange)
	}
	return nil
}

func (c *Client) chunk(limit int) int {
	if room := c.link.MaxReport() - core.ViaCustomHeaderLength - bufferHeader; room < limit {
		return room
	}
	return limit
}

// ReadBuffer reads size bytes of buffer space starting at offset.
func (c *Client) ReadBuffer(ctx context.Context, offset, size int) ([]byte, error) {
	if err := c.checkRange(offset, size); err != nil {
		return nil, err
	}
	step := c.chunk(vvh413.MaxReadChunk)
	out := make([]byte, 0, size)
	for size > 0 {
		n := min(step, size)
		req := make([]byte, bufferHeader+n)
		req[0], req[1], req[2] = byte(offset>>8), byte(offset), byte(n)
		d, err := c.custom(ctx, core.ViaCustomGetValue, vvh413.IDBuffer, req...)
		if err != nil {
			return nil, fmt.Errorf("read buffer at %d: %w", offset, err)
		}
		out = append(out, d[bufferHeader:bufferHeader+n]...)
		offset += n
		size -= n
	}
	return out, nil
}

// WriteBuffer writes data into buffer space starting at offset.
func (c *Client) WriteBuffer(ctx context.Context, offset int, data []byte) error {
	if err := c.checkRange(offset, len(data)); err != nil {
		return err
	}
	step := c.chunk(vvh413.MaxWriteChunk)
	for len(data) > 0 {
		n := min(step, len(data))
		req := make([]byte, bufferHeader+n)
		req[0], req[1], req[2] = byte(offset>>8), byte(offset), byte(n)
		copy(req[bufferHeader:], data[:n])
		if _, err := c.custom(ctx, core.ViaCustomSetValue, vvh413.IDBuffer, req...); err != nil {
			return fmt.Errorf("write buffer at %d: %w", offset, err)
		}
		offset += n
		data = data[n:]
	}
	return nil
}

func (c *Client) checkSlot(slot int) error {
	if slot < 0 || slot >= c.slots {
		return fmt.Errorf("slot %d: %w", slot, ErrOutOfRange)
	}
	return nil
}

// ReadSlot returns the text stored in a buffer slot, up to its first NUL.
func (c *Client) ReadSlot(ctx context.Context, slot int) (string, error) {
	if err := c.checkSlot(slot); err != nil {
		return "", err
	}
	base := slot * vvh413.BufSize
	step := c.chunk(vvh413.MaxReadChunk)
	var text []byte
	for off := 0; off < vvh413.BufSize; off += step {
		n := min(step, vvh413.BufSize-off)
		part, err := c.ReadBuffer(ctx, base+off, n)
		if err != nil {
			return "", err
		}
		if i := bytes.IndexByte(part, 0); i >= 0 {
			return string(append(text, part[:i]...)), nil
		}
		text = append(text, part...)
	}
	return string(text), nil
}

// CheckSlotText reports whether text can be stored in one buffer slot.
func CheckSlotText(text string) error {
	if len(text) > vvh413.BufSize {
		return fmt.Errorf("%d bytes of text: %w", len(text), ErrOutOfRange)
	}
	if strings.IndexByte(text, 0) >= 0 {
		return fmt.Errorf("text contains NUL: %w", ErrOutOfRange)
	}
	return nil
}

// WriteSlot stores text in a buffer slot, NUL terminated unless it fills
// the whole slot.
func (c *Client) WriteSlot(ctx context.Context, slot int, text string) error {
	if err := c.checkSlot(slot); err != nil {
		return err
	}
	if err := CheckSlotText(text); err != nil {
		return err
	}
	data := []byte(text)
	if len(data) < vvh413.BufSize {
		data = append(data, 0)
	}
	return c.WriteBuffer(ctx, slot*vvh413.BufSize, data)
}
