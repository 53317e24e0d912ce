package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

func TestNewWriterDoesNotCloseUnderlyingWriter(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)
	if err := s.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := s.WriteSample(0, 0, 1, 2, 3); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected flushed output in the buffer")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	var m Metadata
	m.Rate = "ODR3200"
	m.Range = "G2"
	m.Scale = "FULL_RES_4MG_LSB"
	m.Firmware.Version = "1.2.3"
	m.Samples.Requested = "2"
	m.Samples.Received = "2"

	body, err := FormatMetadata(m)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `{"rate":"ODR3200","range":"G2","scale":"FULL_RES_4MG_LSB","firmware":{"version":"1.2.3"},"samples":{"requested":"2","received":"2"}}`
	if body != want {
		t.Fatalf("got %s want %s", body, want)
	}

	got, err := ParseMetadata(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
}

func TestSampleStoreWritesExpectedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	s, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.WriteHeader(); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := s.WriteSample(0, 0, 390.0, 0.0, 780.0); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	var m Metadata
	m.Rate, m.Range, m.Scale = "ODR3200", "G2", "FULL_RES_4MG_LSB"
	if err := s.WriteMetadata(m); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "seq sample x y z\n00 00000 +0390.000 +0000.000 +0780.000\n" +
		`# {"rate":"ODR3200","range":"G2","scale":"FULL_RES_4MG_LSB","firmware":{"version":""},"samples":{"requested":"","received":""}}` + "\n"
	if string(raw) != want {
		t.Fatalf("got %q want %q", raw, want)
	}
}

func TestLoaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.tsv")
	s, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.WriteHeader()
	s.WriteSample(0, 0, 390.0, 0.0, 780.0)
	s.WriteSample(0, 1, 390.0, 0.0, 780.0)
	var m Metadata
	m.Rate, m.Range, m.Scale = "ODR3200", "G2", "FULL_RES_4MG_LSB"
	m.Samples.Requested, m.Samples.Received = "2", "2"
	s.WriteMetadata(m)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	loaded, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Rate != wire.ODR3200 || loaded.Range != wire.RangeG2 || loaded.Scale != wire.ScaleFullRes4mgLSB {
		t.Fatalf("unexpected metadata: %+v", loaded)
	}
	if len(loaded.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(loaded.Samples))
	}
	if loaded.Samples[1].TimestampMs != 1*wire.ODR3200.Period()*1000 {
		t.Fatalf("unexpected reconstructed timestamp: %+v", loaded.Samples[1])
	}
}

func TestSelectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"run-001.tsv", "run-002.tsv", "other.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	matches, err := SelectFiles(dir, `^run-\d{3}\.tsv$`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
}
