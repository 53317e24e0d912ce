package main

import (
	"testing"

	"github.com/axxeldrive/cdc-accel-driver/internal/config"
)

func TestStreamCommandRejectsSampleCountAboveUint16Max(t *testing.T) {
	rc := streamCommand([]string{"start", "-port", "/dev/not-a-real-port", "-n", "65536"}, config.Default(), discardLog())
	if rc != exitUsageError {
		t.Fatalf("streamCommand rc = %d, want %d", rc, exitUsageError)
	}
}

func TestStreamCommandStopIgnoresSampleCountBound(t *testing.T) {
	// -n only applies to start; stop must not be rejected for a value
	// that would be invalid on start.
	rc := streamCommand([]string{"stop", "-port", "/dev/not-a-real-port", "-n", "65536"}, config.Default(), discardLog())
	if rc != exitUsageError {
		t.Fatalf("streamCommand rc = %d, want %d (from the bad port, not -n)", rc, exitUsageError)
	}
}
