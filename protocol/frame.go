package protocol

import "errors"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// MaxReportSize is the largest report one frame can carry.
	MaxReportSize = MessageLengthMax - MessageLengthMin
)

var ErrReportTooLong = errors.New("protocol: report exceeds frame size")

// NextSequence advances a sequence byte within the 0x10-0x1F range.
func NextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}

// EncodeFrame writes payload as one frame to output.
func EncodeFrame(output OutputBuffer, seq uint8, payload []byte) error {
	if len(payload) > MaxReportSize {
		return ErrReportTooLong
	}
	var frame [MessageLengthMax]byte
	n := MessageHeaderSize + len(payload) + MessageTrailerSize
	frame[MessagePositionLen] = uint8(n)
	frame[MessagePositionSeq] = seq
	copy(frame[MessageHeaderSize:], payload)

	crc := CRC16(frame[:n-MessageTrailerSize])
	frame[n-MessageTrailerCRC] = uint8(crc >> 8)
	frame[n-MessageTrailerCRC+1] = uint8(crc)
	frame[n-MessageTrailerSync] = MessageValueSync
	output.Output(frame[:n])
	return nil
}

// FrameScanner splits a byte stream into frames, dropping bytes until the
// next sync byte whenever a frame fails validation.
type FrameScanner struct {
	lost bool
	// Seq, when non-nil, rejects frames whose sequence byte fails it.
	Seq func(seq uint8) bool
	// Resync is called after the scanner recovers from lost sync.
	Resync func()
}

// Synchronized reports whether the scanner is aligned to frame boundaries.
func (s *FrameScanner) Synchronized() bool { return !s.lost }

// Reset returns the scanner to the synchronized state.
func (s *FrameScanner) Reset() { s.lost = false }

// Scan calls fn for each complete valid frame in data and returns the
// number of bytes consumed. Incomplete trailing frames are left unconsumed.
// The payload passed to fn aliases data.
func (s *FrameScanner) Scan(data []byte, fn func(msg Message)) int {
	total := len(data)

	for len(data) > 0 {
		if s.lost {
			// Look for sync byte to resynchronize
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			s.lost = false
			if s.Resync != nil {
				s.Resync()
			}
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			s.lost = true
			continue
		}

		seq := data[MessagePositionSeq]
		if s.Seq != nil && !s.Seq(seq) {
			s.lost = true
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			s.lost = true
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			s.lost = true
			continue
		}

		msg := Message{
			Length:   uint8(msgLen),
			Sequence: seq,
			Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
			CRC:      frameCRC,
		}
		data = data[msgLen:]
		fn(msg)
	}

	return total - len(data)
}
