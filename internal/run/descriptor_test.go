package run

import (
	"testing"
	"time"
)

func TestFormatStreamFilenameRoundTrips(t *testing.T) {
	s := Stamped{
		Descriptor: Descriptor{
			SequenceNr: 3, Axis: "y", FrequencyHz: 120, ZetaEm2: 25,
			RunHash: "a1b2c3d4", StreamHash: "deadbeef", Prefix: "accel",
		},
		Timestamp: time.Date(2026, 7, 30, 9, 5, 1, 250_000_000, time.UTC),
		Ext:       "tsv",
	}

	name := FormatStreamFilename(s)
	want := "accel-a1b2c3d4-deadbeef-20260730-090501250-s003-ay-f120-z025.tsv"
	if name != want {
		t.Fatalf("FormatStreamFilename = %q, want %q", name, want)
	}

	got, err := ParseStreamFilename(name)
	if err != nil {
		t.Fatalf("ParseStreamFilename: %v", err)
	}
	if got.Descriptor != s.Descriptor || !got.Timestamp.Equal(s.Timestamp) || got.Ext != s.Ext {
		t.Fatalf("ParseStreamFilename round-trip = %+v, want %+v", got, s)
	}
}

func TestParseStreamFilenameRejectsUnrelatedNames(t *testing.T) {
	if _, err := ParseStreamFilename("not-a-stream-file.txt"); err == nil {
		t.Fatal("expected an error for a non-matching filename")
	}
}

func TestFormatFFTFilenameInsertsAxisBeforeExtension(t *testing.T) {
	s := Stamped{
		Descriptor: Descriptor{
			SequenceNr: 0, Axis: "x", FrequencyHz: 50, ZetaEm2: 10,
			RunHash: "11112222", StreamHash: "33334444", Prefix: "accel",
		},
		Timestamp: time.Date(2026, 7, 30, 9, 5, 1, 0, time.UTC),
	}

	name := FormatFFTFilename(s, "z")
	want := "accel-11112222-33334444-20260730-090501000-s000-ax-f050-z010-z.tsv"
	if name != want {
		t.Fatalf("FormatFFTFilename = %q, want %q", name, want)
	}

	stamped, fftAxis, err := ParseFFTFilename(name)
	if err != nil {
		t.Fatalf("ParseFFTFilename: %v", err)
	}
	if fftAxis != "z" {
		t.Fatalf("ParseFFTFilename fftAxis = %q, want z", fftAxis)
	}
	if stamped.Descriptor != s.Descriptor {
		t.Fatalf("ParseFFTFilename descriptor = %+v, want %+v", stamped.Descriptor, s.Descriptor)
	}
}
