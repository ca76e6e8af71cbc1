//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/hex"
	"syscall/js"

	"kbhooks/core"
	"kbhooks/protocol"
)

// scanner keeps partial frames between decodeFrames calls, since Web
// Serial delivers the stream in arbitrary chunks.
var (
	scanner protocol.FrameScanner
	pending []byte
)

func main() {
	js.Global().Set("kbhooksWasm", js.ValueOf(map[string]interface{}{
		"crc16":        js.FuncOf(crc16Wrapper),
		"encodeFrame":  js.FuncOf(encodeFrameWrapper),
		"decodeFrames": js.FuncOf(decodeFramesWrapper),
		"resetDecoder": js.FuncOf(resetDecoderWrapper),
		"customReport": js.FuncOf(customReportWrapper),
		"nextSequence": js.FuncOf(nextSequenceWrapper),
		"version":      protocol.Version,
	}))

	select {}
}

// crc16Wrapper returns the frame checksum of a hex string.
func crc16Wrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(protocol.CRC16(data)))
}

// encodeFrameWrapper wraps a report in a frame.
// Args: seq (number), reportHex (string)
// Returns: {frame: string (hex), error: string}
func encodeFrameWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeFrameResult("", "missing arguments")
	}
	report, err := hex.DecodeString(args[1].String())
	if err != nil {
		return makeFrameResult("", "invalid report hex: "+err.Error())
	}
	out := protocol.NewScratchOutput()
	if err := protocol.EncodeFrame(out, uint8(args[0].Int()), report); err != nil {
		return makeFrameResult("", err.Error())
	}
	return makeFrameResult(hex.EncodeToString(out.Result()), "")
}

// decodeFramesWrapper feeds received bytes to the decoder.
// Args: hexString (string)
// Returns: {frames: [{sequence, report}], synchronized: bool, error: string}
func decodeFramesWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeDecodeResult(nil, "missing hex string argument")
	}
	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeDecodeResult(nil, "invalid hex string: "+err.Error())
	}

	pending = append(pending, data...)
	var frames []interface{}
	n := scanner.Scan(pending, func(msg protocol.Message) {
		frames = append(frames, map[string]interface{}{
			"sequence": int(msg.Sequence),
			"report":   hex.EncodeToString(msg.Payload),
		})
	})
	pending = append(pending[:0], pending[n:]...)
	return makeDecodeResult(frames, "")
}

func resetDecoderWrapper(this js.Value, args []js.Value) interface{} {
	scanner.Reset()
	pending = pending[:0]
	return js.Undefined()
}

// customReportWrapper builds a custom channel report.
// Args: command (number), valueID (number), dataHex (string, optional)
// Returns: hex string of a 32-byte report, or "error: ..." on bad input
func customReportWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: missing arguments")
	}
	var data []byte
	if len(args) > 2 && args[2].String() != "" {
		var err error
		if data, err = hex.DecodeString(args[2].String()); err != nil {
			return js.ValueOf("error: invalid data hex: " + err.Error())
		}
	}
	if core.ViaCustomHeaderLength+len(data) > protocol.ReportSize {
		return js.ValueOf("error: data does not fit in one report")
	}

	report := make([]byte, protocol.ReportSize)
	report[0] = uint8(args[0].Int())
	report[1] = core.ViaChannelCustom
	report[2] = uint8(args[1].Int())
	copy(report[core.ViaCustomHeaderLength:], data)
	return js.ValueOf(hex.EncodeToString(report))
}

func nextSequenceWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(int(protocol.MessageDest))
	}
	return js.ValueOf(int(protocol.NextSequence(uint8(args[0].Int()))))
}

func makeFrameResult(frameHex string, errMsg string) js.Value {
	result := make(map[string]interface{})
	result["frame"] = frameHex
	if errMsg != "" {
		result["error"] = errMsg
	}
	return js.ValueOf(result)
}

func makeDecodeResult(frames []interface{}, errMsg string) js.Value {
	result := make(map[string]interface{})
	if frames == nil {
		frames = []interface{}{}
	}
	result["frames"] = frames
	result["synchronized"] = scanner.Synchronized()
	if errMsg != "" {
		result["error"] = errMsg
	}
	return js.ValueOf(result)
}
