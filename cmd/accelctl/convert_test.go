package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func discardLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)
	return log.WithField("test", true)
}

func TestConvertCommandDerivesFFTFilenamesPerAxis(t *testing.T) {
	dir := t.TempDir()
	streamName := "accel-aabbccdd-11223344-20260730-090501250-s000-ax-f050-z010.tsv"
	if err := os.WriteFile(filepath.Join(dir, streamName), []byte("seq sample x y z\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rc := convertCommand([]string{"-dir", dir, "-fft-axes", "x,y"}, discardLog())
	if rc != exitSuccess {
		t.Fatalf("convertCommand rc = %d, want %d", rc, exitSuccess)
	}

	for _, axis := range []string{"x", "y"} {
		want := "accel-aabbccdd-11223344-20260730-090501250-s000-ax-f050-z010-" + axis + ".tsv"
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Errorf("expected derived file %s: %v", want, err)
		}
	}
}

func TestConvertCommandNothingToDoWhenNoFilesMatch(t *testing.T) {
	dir := t.TempDir()
	rc := convertCommand([]string{"-dir", dir}, discardLog())
	if rc != exitNothingToDo {
		t.Fatalf("convertCommand rc = %d, want %d", rc, exitNothingToDo)
	}
}

func TestConvertCommandCopiesDataWhenRequested(t *testing.T) {
	dir := t.TempDir()
	streamName := "accel-aabbccdd-11223344-20260730-090501250-s000-az-f050-z010.tsv"
	body := []byte("seq sample x y z\n00 00000 +000.100 +000.200 +000.300\n")
	if err := os.WriteFile(filepath.Join(dir, streamName), body, 0o644); err != nil {
		t.Fatal(err)
	}

	rc := convertCommand([]string{"-dir", dir, "-fft-axes", "z", "-copy"}, discardLog())
	if rc != exitSuccess {
		t.Fatalf("convertCommand rc = %d, want %d", rc, exitSuccess)
	}

	derived := "accel-aabbccdd-11223344-20260730-090501250-s000-az-f050-z010-z.tsv"
	got, err := os.ReadFile(filepath.Join(dir, derived))
	if err != nil {
		t.Fatalf("read derived file: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("derived file content = %q, want %q", got, body)
	}
}
