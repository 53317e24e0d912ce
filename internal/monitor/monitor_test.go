package monitor

import (
	"io"
	"testing"

	"github.com/cskr/pubsub"
	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/store"
)

func silentLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeSink struct {
	headerCalls int
	samples     []Sample
	metadata    []store.Metadata
}

func (f *fakeSink) WriteHeader() error { f.headerCalls++; return nil }
func (f *fakeSink) WriteSample(seq uint8, index uint16, x, y, z float64) error {
	f.samples = append(f.samples, Sample{Seq: seq, Index: index, X: x, Y: y, Z: z})
	return nil
}
func (f *fakeSink) WriteMetadata(m store.Metadata) error {
	f.metadata = append(f.metadata, m)
	return nil
}

func TestBroadcastingSinkForwardsAndPublishes(t *testing.T) {
	inner := &fakeSink{}
	broker := pubsub.New(4)
	defer broker.Shutdown()
	sub := broker.Sub(SampleTopic)

	sink := NewBroadcastingSink(inner, broker)
	if err := sink.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := sink.WriteSample(1, 2, 3.0, 4.0, 5.0); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	if inner.headerCalls != 1 || len(inner.samples) != 1 {
		t.Fatalf("expected inner sink to receive both calls, got %+v", inner)
	}

	published := (<-sub).(Sample)
	if published.Seq != 1 || published.Index != 2 || published.X != 3.0 {
		t.Fatalf("unexpected published sample: %+v", published)
	}
}

func TestMessageMarshalRequiresAPayload(t *testing.T) {
	var m Message
	if _, err := m.MarshalJSON(); err == nil {
		t.Fatalf("expected an error marshaling an empty message")
	}

	s := Sample{Seq: 1}
	m = Message{Sample: &s}
	raw, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) == "" {
		t.Fatalf("expected non-empty JSON")
	}
}
