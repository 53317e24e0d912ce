package device

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// fakeLink captures writes and replays a fixed reply byte sequence.
type fakeLink struct {
	written []byte
	reply   []byte
	pos     int
}

func (f *fakeLink) Write(data []byte, _ ...time.Duration) (int, error) {
	f.written = append(f.written, data...)
	return len(data), nil
}

func (f *fakeLink) Read(buf []byte, _ ...time.Duration) (int, error) {
	if f.pos >= len(f.reply) {
		return 0, nil
	}
	buf[0] = f.reply[f.pos]
	f.pos++
	return 1, nil
}

func silentLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestGetOutputDataRate(t *testing.T) {
	link := &fakeLink{reply: []byte{byte(wire.RxODR), byte(wire.ODR3200)}}
	c := NewClient(link, silentLog())

	odr, err := c.GetOutputDataRate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odr != wire.ODR3200 {
		t.Fatalf("expected ODR3200, got %v", odr)
	}
	if len(link.written) != 1 || link.written[0] != byte(wire.TxGetODR) {
		t.Fatalf("unexpected request bytes: %v", link.written)
	}
}

func TestSetOutputDataRateSendsNoReply(t *testing.T) {
	link := &fakeLink{}
	c := NewClient(link, silentLog())

	if err := c.SetOutputDataRate(wire.ODR800); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{byte(wire.TxSetODR), byte(wire.ODR800)}
	if string(link.written) != string(want) {
		t.Fatalf("got %v want %v", link.written, want)
	}
}

func TestRequestRejectsMismatchedHeader(t *testing.T) {
	link := &fakeLink{reply: []byte{byte(wire.RxRange), byte(wire.RangeG2)}}
	c := NewClient(link, silentLog())

	if _, err := c.GetOutputDataRate(); err == nil {
		t.Fatal("expected an error for a mismatched reply header")
	}
}
