package wire

import "testing"

func TestDecodeNeedsMoreBytes(t *testing.T) {
	f, n, err := Decode(nil)
	if err != nil || n != 0 || f.Header != 0 {
		t.Fatalf("empty buffer should need more bytes, got %+v %d %v", f, n, err)
	}

	f, n, err = Decode([]byte{byte(RxAcceleration), 0, 0})
	if err != nil || n != 0 {
		t.Fatalf("short acceleration frame should need more bytes, got %+v %d %v", f, n, err)
	}
}

func TestDecodeUnknownHeaderResyncs(t *testing.T) {
	// S5: [0, 25, 15] -> UnknownHeader(0), then ODR frame with value 15.
	buf := []byte{0, 25, 15}

	f, n, err := Decode(buf)
	if err != nil || !f.Unknown || f.Header != 0 || n != 1 {
		t.Fatalf("expected UnknownHeader(0) consuming 1 byte, got %+v %d %v", f, n, err)
	}
	buf = buf[n:]

	f, n, err = Decode(buf)
	if err != nil || f.Unknown || f.Header != RxODR || n != 2 {
		t.Fatalf("expected RxODR frame, got %+v %d %v", f, n, err)
	}
	odr := f.Body.(RxOutputDataRate)
	if odr.ODR != ODR3200 {
		t.Fatalf("expected ODR3200 (15), got %v", odr.ODR)
	}
}

func TestDecodeAccelerationS1FirstSample(t *testing.T) {
	// S1 first sample: index=0, x=100(raw)->390mg, y=0, z=200(raw)->780mg
	buf := []byte{byte(RxAcceleration), 0, 0, 100, 0, 0, 0, 200, 0}

	f, n, err := Decode(buf)
	if err != nil || f.Unknown || n != 9 {
		t.Fatalf("unexpected decode result: %+v %d %v", f, n, err)
	}
	a := f.Body.(RxAcceleration)
	if a.Index != 0 || a.X != 390.0 || a.Y != 0.0 || a.Z != 780.0 {
		t.Fatalf("unexpected sample: %+v", a)
	}
}

func TestDecodeDeviceSetup(t *testing.T) {
	// S1: 0b00101111 -> odr=0b1111 (ODR3200), range bit4=0 (G2), scale bit5=1 (FULL_RES)
	buf := []byte{byte(RxDeviceSetup), 0b00101111}
	f, n, err := Decode(buf)
	if err != nil || n != 2 {
		t.Fatalf("unexpected decode result: %+v %d %v", f, n, err)
	}
	setup := f.Body.(RxDeviceSetup)
	if setup.ODR != ODR3200 || setup.Range != RangeG2 || setup.Scale != ScaleFullRes4mgLSB {
		t.Fatalf("unexpected device setup: %+v", setup)
	}
}

func TestDecodeFault(t *testing.T) {
	buf := []byte{byte(RxFault), 4}
	f, n, err := Decode(buf)
	if err != nil || n != 2 {
		t.Fatalf("unexpected decode result: %+v %d %v", f, n, err)
	}
	fault := f.Body.(RxFault)
	if fault.Code != FaultHardFault {
		t.Fatalf("expected HARD_FAULT, got %v", fault.Code)
	}
}

func TestEncodeSamplingStartLittleEndian(t *testing.T) {
	buf := EncodeSamplingStart(2)
	want := []byte{byte(TxSamplingStart), 2, 0}
	if len(buf) != len(want) || buf[0] != want[0] || buf[1] != want[1] || buf[2] != want[2] {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestEncodeSetODR(t *testing.T) {
	buf := EncodeSetODR(ODR3200)
	if len(buf) != 2 || buf[0] != byte(TxSetODR) || buf[1] != byte(ODR3200) {
		t.Fatalf("unexpected encoding: %v", buf)
	}
}
