// Package wire implements the byte-exact request/response protocol spoken
// with the accelerometer controller over its USB-CDC serial endpoint.
package wire

import "fmt"

// OutputDataRate is the accelerometer's output data rate, encoded in the
// low nibble of a config byte.
type OutputDataRate uint8

const (
	ODR3200 OutputDataRate = 0b1111
	ODR1600 OutputDataRate = 0b1110
	ODR800  OutputDataRate = 0b1101
	ODR400  OutputDataRate = 0b1100
	ODR200  OutputDataRate = 0b1011
	ODR100  OutputDataRate = 0b1010
	ODR50   OutputDataRate = 0b1001
	ODR25   OutputDataRate = 0b1000
	ODR12_5 OutputDataRate = 0b0111
	ODR6_25 OutputDataRate = 0b0110
	ODR3_13 OutputDataRate = 0b0101
	ODR1_56 OutputDataRate = 0b0100
	ODR0_78 OutputDataRate = 0b0011
	ODR0_39 OutputDataRate = 0b0010
	ODR0_20 OutputDataRate = 0b0001
	ODR0_10 OutputDataRate = 0b0000
)

// odrHz maps each ODR to its nominal rate in Hz.
var odrHz = map[OutputDataRate]float64{
	ODR3200: 3200, ODR1600: 1600, ODR800: 800, ODR400: 400,
	ODR200: 200, ODR100: 100, ODR50: 50, ODR25: 25,
	ODR12_5: 12.5, ODR6_25: 6.25, ODR3_13: 3.13, ODR1_56: 1.56,
	ODR0_78: 0.78, ODR0_39: 0.39, ODR0_20: 0.20, ODR0_10: 0.10,
}

var odrNames = map[OutputDataRate]string{
	ODR3200: "ODR3200", ODR1600: "ODR1600", ODR800: "ODR800", ODR400: "ODR400",
	ODR200: "ODR200", ODR100: "ODR100", ODR50: "ODR50", ODR25: "ODR25",
	ODR12_5: "ODR12_5", ODR6_25: "ODR6_25", ODR3_13: "ODR3_13", ODR1_56: "ODR1_56",
	ODR0_78: "ODR0_78", ODR0_39: "ODR0_39", ODR0_20: "ODR0_20", ODR0_10: "ODR0_10",
}

// Hz returns the nominal sample rate for odr.
func (odr OutputDataRate) Hz() float64 { return odrHz[odr] }

// Period returns the nominal sample period (1/rate) in seconds.
func (odr OutputDataRate) Period() float64 { return 1.0 / odrHz[odr] }

func (odr OutputDataRate) String() string {
	if name, ok := odrNames[odr]; ok {
		return name
	}
	return fmt.Sprintf("ODR(0x%02x)", uint8(odr))
}

// ODRFromHz returns the ODR whose nominal rate equals hz exactly; ok is
// false when no defined ODR has that rate.
func ODRFromHz(hz float64) (OutputDataRate, bool) {
	for odr, v := range odrHz {
		if v == hz {
			return odr, true
		}
	}
	return 0, false
}

// Range is the accelerometer's full-scale range, in g.
type Range uint8

const (
	RangeG2  Range = 0
	RangeG4  Range = 1
	RangeG8  Range = 2
	RangeG16 Range = 3
)

var rangeNames = map[Range]string{RangeG2: "G2", RangeG4: "G4", RangeG8: "G8", RangeG16: "G16"}

func (r Range) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Range(0x%02x)", uint8(r))
}

// Scale selects the sensor's reporting resolution.
type Scale uint8

const (
	ScaleScaled10Bit  Scale = 0
	ScaleFullRes4mgLSB Scale = 1
)

// FullResLSBmg is the nominal milli-g value of one LSB at FULL_RES_4MG_LSB,
// per ADXL345 datasheet rev. G table 1 (typ 3.9, range 3.5..4.3).
const FullResLSBmg = 3.9

var scaleNames = map[Scale]string{ScaleScaled10Bit: "SCALED_10BIT", ScaleFullRes4mgLSB: "FULL_RES_4MG_LSB"}

func (s Scale) String() string {
	if name, ok := scaleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scale(0x%02x)", uint8(s))
}

// FaultCode identifies the handler that reported a controller fault.
type FaultCode uint8

const (
	FaultUndefined     FaultCode = 0
	FaultUSBError      FaultCode = 1
	FaultUsageFault    FaultCode = 2
	FaultBusFault      FaultCode = 3
	FaultHardFault     FaultCode = 4
	FaultErrorHandler  FaultCode = 5
)

var faultNames = map[FaultCode]string{
	FaultUndefined: "UNDEFINED", FaultUSBError: "USB_ERROR", FaultUsageFault: "USAGE_FAULT",
	FaultBusFault: "BUS_FAULT", FaultHardFault: "HARD_FAULT", FaultErrorHandler: "ERROR_HANDLER",
}

func (f FaultCode) String() string {
	if name, ok := faultNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Fault(0x%02x)", uint8(f))
}

// HeaderId tags every request and response frame.
type HeaderId uint8

const (
	TxSetODR             HeaderId = 1
	TxGetODR             HeaderId = 2
	TxSetRange           HeaderId = 3
	TxGetRange           HeaderId = 4
	TxSetScale           HeaderId = 5
	TxGetScale           HeaderId = 6
	TxGetDeviceSetup     HeaderId = 7
	TxGetFirmwareVersion HeaderId = 8
	TxGetUptime          HeaderId = 9
	// TxGetBufferStatus has no assigned id in spec.md's wire table
	// (§6 lists Tx ids only up to 9, then jumps to 17) though §4.4
	// names get_buffer_status() as a DeviceClient operation. Assigned
	// the next free Tx id in the gap, mirroring the Rx-side gap fill
	// documented below.
	TxGetBufferStatus   HeaderId = 10
	TxReboot             HeaderId = 17
	TxSamplingStart      HeaderId = 18
	TxSamplingStop       HeaderId = 19

	RxODR              HeaderId = 25
	RxRange            HeaderId = 26
	RxScale            HeaderId = 27
	RxDeviceSetup      HeaderId = 28
	RxFirmwareVersion  HeaderId = 29
	RxUptime           HeaderId = 30
	// RxBufferStatus, RxBufferOverflow and RxTransmissionError have no
	// assigned id in spec.md's wire table though the narrative requires
	// them (see SPEC_FULL.md §1). 31 and 32 fill the gap after RxUptime
	// and 40 follows RxFault, without colliding with any id spec.md defines.
	RxBufferStatus     HeaderId = 31
	RxBufferOverflow   HeaderId = 32
	RxFifoOverflow     HeaderId = 33
	RxSamplingStarted  HeaderId = 34
	RxSamplingFinished HeaderId = 35
	RxSamplingStopped  HeaderId = 36
	RxSamplingAborted  HeaderId = 37
	RxAcceleration     HeaderId = 38
	RxFault            HeaderId = 39
	RxTransmissionError HeaderId = 40
)

// frameLen holds the fixed total byte length (header + payload) per
// response HeaderId.
var frameLen = map[HeaderId]int{
	RxODR:               2,
	RxRange:             2,
	RxScale:             2,
	RxDeviceSetup:       2,
	RxFirmwareVersion:   4,
	RxUptime:            5,
	RxBufferStatus:      13,
	RxBufferOverflow:    1,
	RxFifoOverflow:      1,
	RxSamplingStarted:   3,
	RxSamplingFinished:  1,
	RxSamplingStopped:   1,
	RxSamplingAborted:   1,
	RxAcceleration:      9,
	RxFault:             2,
	RxTransmissionError: 1,
}
