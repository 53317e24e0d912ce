package bytelink

import "testing"

func TestOpenUnknownPortFails(t *testing.T) {
	_, err := Open("/dev/does-not-exist-accelctl-test", Config{})
	if err == nil {
		t.Fatal("expected error opening a nonexistent serial port")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := &ByteLink{name: "fake"}
	if err := b.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
}
