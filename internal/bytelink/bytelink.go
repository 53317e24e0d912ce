// Package bytelink provides a thin, synchronous byte-pipe over a named
// serial endpoint. All concurrency and protocol concerns are pushed to
// callers; ByteLink only opens, reads, writes, and closes.
package bytelink

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Config configures the serial endpoint. The device always speaks 8-N-1
// with no flow control and Open fixes the baud rate, so only the read and
// write timeouts are exposed.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ByteLink owns a single serial handle exclusively. Close is idempotent
// and safe to call from a defer regardless of which exit path is taken.
type ByteLink struct {
	name string
	cfg  Config

	mu   sync.Mutex
	port serial.Port
}

// Open acquires the named serial endpoint configured 8-N-1, no software or
// hardware flow control.
func Open(name string, cfg Config) (*ByteLink, error) {
	mode := &serial.Mode{
		// USB-CDC ACM ignores the physical baud rate, but the OS driver
		// still requires a nonzero value to open the port.
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("bytelink: open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("bytelink: set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("bytelink: reset input buffer: %w", err)
	}

	return &ByteLink{name: name, cfg: cfg, port: port}, nil
}

// Name returns the serial endpoint name this link was opened with.
func (b *ByteLink) Name() string { return b.name }

// Read blocks up to the configured (or overridden) timeout and returns
// whatever bytes arrived, which may be fewer than len(buf) — a short read
// on timeout is normal, not an error.
func (b *ByteLink) Read(buf []byte, overrideTimeout ...time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(overrideTimeout) > 0 {
		if err := b.port.SetReadTimeout(overrideTimeout[0]); err != nil {
			return 0, fmt.Errorf("bytelink: set read timeout: %w", err)
		}
		defer b.port.SetReadTimeout(b.cfg.ReadTimeout)
	}

	n, err := b.port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("bytelink: read: %w", err)
	}
	return n, nil
}

// Write blocks until all of data has been written or the link fails. The
// underlying serial library has no write-timeout primitive, so an override
// is enforced with a supervising timer around the blocking write.
func (b *ByteLink) Write(data []byte, overrideTimeout ...time.Duration) (int, error) {
	timeout := b.cfg.WriteTimeout
	if len(overrideTimeout) > 0 {
		timeout = overrideTimeout[0]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if timeout <= 0 {
		n, err := b.port.Write(data)
		if err != nil {
			return n, fmt.Errorf("bytelink: write: %w", err)
		}
		return n, nil
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := b.port.Write(data)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.n, fmt.Errorf("bytelink: write: %w", r.err)
		}
		return r.n, nil
	case <-time.After(timeout):
		return 0, fmt.Errorf("bytelink: write timed out after %s", timeout)
	}
}

// Close releases the serial handle. Safe to call more than once.
func (b *ByteLink) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.port == nil {
		return nil
	}
	err := b.port.Close()
	b.port = nil
	if err != nil {
		return fmt.Errorf("bytelink: close: %w", err)
	}
	return nil
}
