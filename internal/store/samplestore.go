package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// SampleStore writes one sampling session's body text to an underlying
// file: a header line, one line per sample, and a trailing metadata
// comment. The zero value is not usable; construct with Create or
// NewWriter.
type SampleStore struct {
	f *os.File
	w *bufio.Writer
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*SampleStore, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", path, err)
	}
	return &SampleStore{f: f, w: bufio.NewWriter(f)}, nil
}

// NewWriter wraps an already-open io.Writer (stdout, a pipe) in the same
// text format Create's file gets. Close only flushes; the caller owns w
// and closes it itself.
func NewWriter(w io.Writer) *SampleStore {
	return &SampleStore{w: bufio.NewWriter(w)}
}

// WriteHeader writes the fixed column header line. Called once per
// sampling session start.
func (s *SampleStore) WriteHeader() error {
	_, err := s.w.WriteString("seq sample x y z\n")
	return err
}

// WriteSample appends one decoded acceleration sample. seq is the session
// sequence counter (increments once per completed sampling session,
// allowing several sessions to share one sink); index is the sample's
// position within its session.
func (s *SampleStore) WriteSample(seq uint8, index uint16, x, y, z float64) error {
	_, err := fmt.Fprintf(s.w, "%02d %05d %+09.3f %+09.3f %+09.3f\n", seq, index, x, y, z)
	return err
}

// WriteMetadata appends the trailing "# {...}" comment line.
func (s *SampleStore) WriteMetadata(m Metadata) error {
	body, err := FormatMetadata(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, "# %s\n", body)
	return err
}

// Close flushes buffered output and, for a store built with Create,
// releases the underlying file handle. A store built with NewWriter only
// flushes; its caller owns the underlying io.Writer.
func (s *SampleStore) Close() error {
	if err := s.w.Flush(); err != nil {
		if s.f != nil {
			s.f.Close()
		}
		return fmt.Errorf("store: flush: %w", err)
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}
