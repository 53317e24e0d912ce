package run

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/denisbrodbeck/machineid"
)

// PlanConfig describes one sweep invocation: the axes to cover and the
// inclusive, stepped frequency/zeta ranges to cross with them.
type PlanConfig struct {
	Axes                                   []string
	FreqStartHz, FreqStopHz, FreqStepHz     uint16
	ZetaStartEm2, ZetaStopEm2, ZetaStepEm2  uint16
	SequenceRepeatCount                     int
	Prefix                                  string
}

// NewDescriptor builds a single one-off Descriptor (a record-step
// invocation, not part of a planned sweep), with its own fresh run_hash
// and stream_hash.
func NewDescriptor(prefix, axis string, frequencyHz, zetaEm2 uint16) (Descriptor, error) {
	runHash, err := newRunHash()
	if err != nil {
		return Descriptor{}, err
	}
	streamHash, err := newStreamHash()
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Axis: axis, FrequencyHz: frequencyHz, ZetaEm2: zetaEm2,
		RunHash: runHash, StreamHash: streamHash, Prefix: prefix,
	}, nil
}

// Plan enumerates Descriptors in nested order (outer to inner): axis,
// frequency, zeta, sequence — per spec.md §4.6. Every descriptor in the
// result shares one run_hash; each gets a fresh stream_hash.
func Plan(cfg PlanConfig) ([]Descriptor, error) {
	runHash, err := newRunHash()
	if err != nil {
		return nil, err
	}

	freqs := inclusiveRange(cfg.FreqStartHz, cfg.FreqStopHz, cfg.FreqStepHz)
	zetas := inclusiveRange(cfg.ZetaStartEm2, cfg.ZetaStopEm2, cfg.ZetaStepEm2)

	var out []Descriptor
	for _, axis := range cfg.Axes {
		for _, fx := range freqs {
			for _, zeta := range zetas {
				for seq := 0; seq < cfg.SequenceRepeatCount; seq++ {
					streamHash, err := newStreamHash()
					if err != nil {
						return nil, err
					}
					out = append(out, Descriptor{
						SequenceNr:  uint16(seq),
						Axis:        axis,
						FrequencyHz: fx,
						ZetaEm2:     zeta,
						RunHash:     runHash,
						StreamHash:  streamHash,
						Prefix:      cfg.Prefix,
					})
				}
			}
		}
	}
	return out, nil
}

// inclusiveRange enumerates start..stop inclusive, stepping by step. A
// zero step yields the single value start (covers "sweep exactly one
// value" configurations without looping forever).
func inclusiveRange(start, stop, step uint16) []uint16 {
	if start > stop {
		return nil
	}
	if step == 0 {
		return []uint16{start}
	}
	var out []uint16
	for v := start; v <= stop; v += step {
		out = append(out, v)
		if v > stop-step {
			// about to overflow past stop on the next add; stop here.
			break
		}
	}
	return out
}

// newRunHash derives a short, host-stable identifier shared by every
// descriptor in one Plan call, mixing the per-host machine id with the
// invocation's start time so repeated sweeps on the same workstation
// don't collide.
func newRunHash() (string, error) {
	id, err := machineid.ID()
	if err != nil {
		return "", fmt.Errorf("run: machine id: %w", err)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", id, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:4]), nil
}

// newStreamHash generates a short random identifier unique to one
// descriptor, analogous to the original's uuid1().time_low suffix.
func newStreamHash() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("run: stream hash: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
