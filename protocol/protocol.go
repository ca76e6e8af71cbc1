// Package protocol carries raw configurator reports over byte-stream links
// (USB CDC serial). Each report travels in one frame:
//
//	[len][seq][report...][crc16 hi][crc16 lo][0x7E]
//
// The device answers every request frame with one response frame carrying
// the processed report and the same sequence byte.
package protocol

// Version represents the firmware/protocol version
const Version = "0.1.0"

// Protocol constants
const (
	MessageMax = 512 // Scratch output size, enough for several queued frames

	// ReportSize is the size of a raw HID report. Serial frames may carry
	// longer reports, up to MaxReportSize.
	ReportSize = 32

	// Message sequence masks
	MessageSeqMask  = 0x0F
	MessageSeqShift = 4
)

// Message represents one parsed frame
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // Frame data without header/trailer
	CRC      uint16
}
