// Package run implements one sampling run end to end: naming it,
// planning a sweep of them, executing one against the device and
// printer, and driving a whole series.
package run

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Descriptor identifies one recording step. It is immutable once
// produced by a Planner.
type Descriptor struct {
	SequenceNr  uint16
	Axis        string // "x", "y", or "z"
	FrequencyHz uint16
	ZetaEm2     uint16 // zeta * 100
	RunHash     string
	StreamHash  string
	Prefix      string
}

// Stamped pairs a Descriptor with the wall-clock moment its file was
// written, since the filename bakes the timestamp in and conversion
// between stream and FFT names may need to preserve the source time.
type Stamped struct {
	Descriptor Descriptor
	Timestamp  time.Time
	Ext        string
}

const timestampLayout = "20060102-150405"

func formatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s%03d", t.Format(timestampLayout), t.Nanosecond()/1_000_000)
}

// Both patterns share capture groups 1..14: prefix, run_hash,
// stream_hash, year, month, day, hour, minute, second, millisecond,
// sequence_nr, axis, frequency_hz, zeta_em2. streamPattern's group 15 is
// the extension; fftPattern inserts the FFT axis as group 15 and moves
// the extension to group 16.
var streamPattern = regexp.MustCompile(
	`^([0-9A-Za-z_]+)-([0-9A-Za-z]+)-([0-9A-Za-z]+)-(\d{4})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})(\d{3})-s(\d{3})-a([xyz])-f(\d{3})-z(\d{3})\.(\w+)$`)

var fftPattern = regexp.MustCompile(
	`^([0-9A-Za-z_]+)-([0-9A-Za-z]+)-([0-9A-Za-z]+)-(\d{4})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})(\d{3})-s(\d{3})-a([xyz])-f(\d{3})-z(\d{3})-([xyz])\.(\w+)$`)

// FormatStreamFilename renders s per spec.md §4.5:
// <prefix>-<run_hash>-<stream_hash>-YYYYMMDD-hhmmssSSS-sNNN-a<axis>-fFFF-zZZZ.<ext>
func FormatStreamFilename(s Stamped) string {
	d := s.Descriptor
	ext := s.Ext
	if ext == "" {
		ext = "tsv"
	}
	return fmt.Sprintf("%s-%s-%s-%s-s%03d-a%s-f%03d-z%03d.%s",
		d.Prefix, d.RunHash, d.StreamHash, formatTimestamp(s.Timestamp),
		d.SequenceNr, d.Axis, d.FrequencyHz, d.ZetaEm2, ext)
}

// ParseStreamFilename is FormatStreamFilename's inverse.
func ParseStreamFilename(name string) (Stamped, error) {
	m := streamPattern.FindStringSubmatch(name)
	if m == nil {
		return Stamped{}, fmt.Errorf("run: %q does not match the stream filename schema", name)
	}
	d, ts, err := parseCommon(m)
	if err != nil {
		return Stamped{}, err
	}
	return Stamped{Descriptor: d, Timestamp: ts, Ext: m[15]}, nil
}

// FormatFFTFilename renders s with an extra trailing <fft_axis> component,
// as spec.md §4.5 describes for FFT outputs.
func FormatFFTFilename(s Stamped, fftAxis string) string {
	streamName := FormatStreamFilename(Stamped{Descriptor: s.Descriptor, Timestamp: s.Timestamp, Ext: "tsv"})
	ext := s.Ext
	if ext == "" {
		ext = "tsv"
	}
	base := streamName[:len(streamName)-len(".tsv")]
	return fmt.Sprintf("%s-%s.%s", base, fftAxis, ext)
}

// ParseFFTFilename is FormatFFTFilename's inverse, additionally returning
// the FFT axis component.
func ParseFFTFilename(name string) (Stamped, string, error) {
	m := fftPattern.FindStringSubmatch(name)
	if m == nil {
		return Stamped{}, "", fmt.Errorf("run: %q does not match the FFT filename schema", name)
	}
	d, ts, err := parseCommon(m)
	if err != nil {
		return Stamped{}, "", err
	}
	return Stamped{Descriptor: d, Timestamp: ts, Ext: m[16]}, m[15], nil
}

// parseCommon interprets the 14 capture groups (indices 1..14) shared by
// both filename schemas.
func parseCommon(m []string) (Descriptor, time.Time, error) {
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	year, month, day := atoi(m[4]), atoi(m[5]), atoi(m[6])
	hour, minute, sec, milli := atoi(m[7]), atoi(m[8]), atoi(m[9]), atoi(m[10])
	ts := time.Date(year, time.Month(month), day, hour, minute, sec, milli*1_000_000, time.UTC)

	seq, err := strconv.ParseUint(m[11], 10, 16)
	if err != nil {
		return Descriptor{}, time.Time{}, fmt.Errorf("run: parse sequence number: %w", err)
	}
	freq, err := strconv.ParseUint(m[13], 10, 16)
	if err != nil {
		return Descriptor{}, time.Time{}, fmt.Errorf("run: parse frequency: %w", err)
	}
	zeta, err := strconv.ParseUint(m[14], 10, 16)
	if err != nil {
		return Descriptor{}, time.Time{}, fmt.Errorf("run: parse zeta: %w", err)
	}

	return Descriptor{
		Prefix:      m[1],
		RunHash:     m[2],
		StreamHash:  m[3],
		SequenceNr:  uint16(seq),
		Axis:        m[12],
		FrequencyHz: uint16(freq),
		ZetaEm2:     uint16(zeta),
	}, ts, nil
}
