package wire

import (
	"encoding/binary"
	"fmt"
)

// Frame is a decoded response: a header id plus its typed payload. Body
// carries the specific Rx* struct for the header id; Unknown is set on a
// header byte outside the known set.
type Frame struct {
	Header  HeaderId
	Unknown bool
	Body    any
}

// --- Request encoders (Tx) ---

// EncodeSetODR encodes a request to configure the output data rate.
func EncodeSetODR(odr OutputDataRate) []byte {
	return []byte{byte(TxSetODR), byte(odr)}
}

// EncodeGetODR encodes a request to read back the configured output data rate.
func EncodeGetODR() []byte { return []byte{byte(TxGetODR)} }

// EncodeSetRange encodes a request to configure the sensor range.
func EncodeSetRange(r Range) []byte { return []byte{byte(TxSetRange), byte(r)} }

// EncodeGetRange encodes a request to read back the configured sensor range.
func EncodeGetRange() []byte { return []byte{byte(TxGetRange)} }

// EncodeSetScale encodes a request to configure the sensor scale.
func EncodeSetScale(s Scale) []byte { return []byte{byte(TxSetScale), byte(s)} }

// EncodeGetScale encodes a request to read back the configured sensor scale.
func EncodeGetScale() []byte { return []byte{byte(TxGetScale)} }

// EncodeGetDeviceSetup encodes a request for the packed {odr,range,scale} byte.
func EncodeGetDeviceSetup() []byte { return []byte{byte(TxGetDeviceSetup)} }

// EncodeGetFirmwareVersion encodes a request for the firmware version.
func EncodeGetFirmwareVersion() []byte { return []byte{byte(TxGetFirmwareVersion)} }

// EncodeGetUptime encodes a request for the device uptime.
func EncodeGetUptime() []byte { return []byte{byte(TxGetUptime)} }

// EncodeReboot encodes a request to reboot the controller. No reply follows.
func EncodeReboot() []byte { return []byte{byte(TxReboot)} }

// EncodeSamplingStart encodes a request to start the sample stream. n=0
// means "stream until stop".
func EncodeSamplingStart(n uint16) []byte {
	buf := make([]byte, 3)
	buf[0] = byte(TxSamplingStart)
	binary.LittleEndian.PutUint16(buf[1:], n)
	return buf
}

// EncodeSamplingStop encodes a request to stop a running stream.
func EncodeSamplingStop() []byte { return []byte{byte(TxSamplingStop)} }

// EncodeGetBufferStatus encodes a request for the device ring-buffer status.
func EncodeGetBufferStatus() []byte { return []byte{byte(TxGetBufferStatus)} }

// --- Response payload types (Rx) ---

// FirmwareVersion identifies the controller firmware.
type FirmwareVersion struct {
	Major, Minor, Patch uint8
}

func (v FirmwareVersion) String() string { return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch) }

// RxOutputDataRate carries the device's currently configured ODR.
type RxOutputDataRate struct{ ODR OutputDataRate }

// RxRange carries the device's currently configured range.
type RxRange struct{ Range Range }

// RxScale carries the device's currently configured scale.
type RxScale struct{ Scale Scale }

// RxDeviceSetup carries the packed {odr,range,scale} configuration.
//
// Open Question (spec.md §9.1): the device packs range into a single bit
// (bit 4) though Range has four values. This is implemented exactly as
// spec.md's wire table states; treat as a compatibility contract and
// verify against a real capture before relying on G8/G16 surviving this
// round-trip.
type RxDeviceSetup struct {
	ODR   OutputDataRate
	Range Range
	Scale Scale
}

// RxSamplingStarted marks the start of a sampling session.
type RxSamplingStarted struct{ MaxSamples uint16 }

// RxSamplingStopped marks the end of a sampling session.
type RxSamplingStopped struct{}

// RxSamplingFinished marks successful completion, just ahead of Stopped.
type RxSamplingFinished struct{}

// RxSamplingAborted marks a user-requested abort, just ahead of Stopped.
type RxSamplingAborted struct{}

// RxAcceleration carries one decoded sample.
type RxAcceleration struct {
	Index      uint16
	X, Y, Z    float64
}

// RxUptime carries milliseconds elapsed since boot.
//
// Open Question (spec.md §9.2): LEN=5 reserves 4 payload bytes for a
// 32-bit counter; this decodes the full 32 bits at payload[1:5] per
// spec.md's recommendation, rather than only the first 3 bytes.
type RxUptime struct{ ElapsedMs uint32 }

// RxBufferStatus carries ring-buffer telemetry since the last sampling start.
type RxBufferStatus struct {
	SizeBytes            uint16
	CapacityTotal        uint16
	CapacityUsedMax      uint16
	PutCount             uint16
	TakeCount            uint16
	LargestTxChunkBytes  uint16
}

// RxFault carries a controller fault code.
type RxFault struct{ Code FaultCode }

// RxFifoOverflow signals the sensor FIFO overran.
type RxFifoOverflow struct{}

// RxBufferOverflow signals the device ring buffer overran.
type RxBufferOverflow struct{}

// RxTransmissionError signals a device-reported USB transmit failure.
type RxTransmissionError struct{}

// Decode consumes at most one frame from the front of buf.
//
// Returns (frame, consumed, nil) on a parsed frame — consumed bytes must be
// dropped from the caller's buffer regardless of frame.Unknown. Returns
// (Frame{}, 0, nil) to signal "need more bytes" (buf too short to decide).
// The error result is always nil: unknown headers are reported via
// Frame.Unknown with consumed == 1, not an error, per spec.md §4.2
// step 2 ("the caller MUST consume one byte to re-synchronize").
func Decode(buf []byte) (Frame, int, error) {
	if len(buf) == 0 {
		return Frame{}, 0, nil
	}

	header := HeaderId(buf[0])
	length, known := frameLen[header]
	if !known {
		// Header id 0 is unassigned and falls here too, per spec.md §4.2.
		return Frame{Header: header, Unknown: true}, 1, nil
	}
	if len(buf) < length {
		return Frame{}, 0, nil
	}

	payload := buf[:length]
	var body any

	switch header {
	case RxODR:
		body = RxOutputDataRate{ODR: OutputDataRate(payload[1])}
	case RxRange:
		body = RxRange{Range: Range(payload[1])}
	case RxScale:
		body = RxScale{Scale: Scale(payload[1])}
	case RxDeviceSetup:
		b := payload[1]
		body = RxDeviceSetup{
			ODR:   OutputDataRate(b & 0b0001111),
			Range: Range((b & 0b010000) >> 4),
			Scale: Scale((b & 0b100000) >> 5),
		}
	case RxFirmwareVersion:
		body = FirmwareVersion{Major: payload[1], Minor: payload[2], Patch: payload[3]}
	case RxUptime:
		body = RxUptime{ElapsedMs: binary.LittleEndian.Uint32(payload[1:5])}
	case RxBufferStatus:
		body = RxBufferStatus{
			SizeBytes:           binary.LittleEndian.Uint16(payload[1:3]),
			CapacityTotal:       binary.LittleEndian.Uint16(payload[3:5]),
			CapacityUsedMax:     binary.LittleEndian.Uint16(payload[5:7]),
			PutCount:            binary.LittleEndian.Uint16(payload[7:9]),
			TakeCount:           binary.LittleEndian.Uint16(payload[9:11]),
			LargestTxChunkBytes: binary.LittleEndian.Uint16(payload[11:13]),
		}
	case RxBufferOverflow:
		body = RxBufferOverflow{}
	case RxFifoOverflow:
		body = RxFifoOverflow{}
	case RxSamplingStarted:
		body = RxSamplingStarted{MaxSamples: binary.LittleEndian.Uint16(payload[1:3])}
	case RxSamplingFinished:
		body = RxSamplingFinished{}
	case RxSamplingStopped:
		body = RxSamplingStopped{}
	case RxSamplingAborted:
		body = RxSamplingAborted{}
	case RxAcceleration:
		x := int16(binary.LittleEndian.Uint16(payload[3:5]))
		y := int16(binary.LittleEndian.Uint16(payload[5:7]))
		z := int16(binary.LittleEndian.Uint16(payload[7:9]))
		body = RxAcceleration{
			Index: binary.LittleEndian.Uint16(payload[1:3]),
			X:     float64(x) * FullResLSBmg,
			Y:     float64(y) * FullResLSBmg,
			Z:     float64(z) * FullResLSBmg,
		}
	case RxFault:
		body = RxFault{Code: FaultCode(payload[1])}
	case RxTransmissionError:
		body = RxTransmissionError{}
	}

	return Frame{Header: header, Body: body}, length, nil
}
