package main

import "testing"

func TestValidateSampleCount(t *testing.T) {
	if err := validateSampleCount(65535); err != nil {
		t.Fatalf("65535 should be accepted: %v", err)
	}
	if err := validateSampleCount(65536); err == nil {
		t.Fatal("65536 should be rejected")
	}
}

func TestDecodeCommandRejectsSampleCountAboveUint16Max(t *testing.T) {
	rc := decodeCommand([]string{"stdout", "-port", "/dev/not-a-real-port", "-n", "65536"}, discardLog())
	if rc != exitUsageError {
		t.Fatalf("decodeCommand rc = %d, want %d", rc, exitUsageError)
	}
}
