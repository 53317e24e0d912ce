package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// Sample is one decoded, persisted acceleration reading plus its
// reconstructed offset from the start of its session.
type Sample struct {
	Run         uint8
	Index       uint16
	TimestampMs float64
	X, Y, Z     float64
}

// Samples is a whole loaded .tsv file: the session configuration
// recovered from the trailing metadata comment, plus every sample row.
type Samples struct {
	Rate    wire.OutputDataRate
	Range   wire.Range
	Scale   wire.Scale
	Samples []Sample
}

// Loader reads back a file written by SampleStore.
type Loader struct {
	path string
}

// NewLoader constructs a Loader for path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

var odrByName = func() map[string]wire.OutputDataRate {
	m := map[string]wire.OutputDataRate{}
	for _, odr := range []wire.OutputDataRate{
		wire.ODR3200, wire.ODR1600, wire.ODR800, wire.ODR400, wire.ODR200,
		wire.ODR100, wire.ODR50, wire.ODR25, wire.ODR12_5, wire.ODR6_25,
		wire.ODR3_13, wire.ODR1_56, wire.ODR0_78, wire.ODR0_39, wire.ODR0_20, wire.ODR0_10,
	} {
		m[odr.String()] = odr
	}
	return m
}()

var rangeByName = map[string]wire.Range{"G2": wire.RangeG2, "G4": wire.RangeG4, "G8": wire.RangeG8, "G16": wire.RangeG16}

var scaleByName = map[string]wire.Scale{"SCALED_10BIT": wire.ScaleScaled10Bit, "FULL_RES_4MG_LSB": wire.ScaleFullRes4mgLSB}

// Load reads the whole file, recovering metadata from the trailing
// comment (if present) before parsing the sample body, since timestamp
// reconstruction needs the sample rate up front.
func (l *Loader) Load() (Samples, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return Samples{}, fmt.Errorf("store: load %s: %w", l.path, err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	var out Samples
	var meta Metadata
	haveMeta := false
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "#") {
			body := strings.TrimSpace(strings.TrimPrefix(lines[i], "#"))
			m, err := ParseMetadata(body)
			if err != nil {
				return Samples{}, fmt.Errorf("store: parse metadata in %s: %w", l.path, err)
			}
			meta = m
			haveMeta = true
			break
		}
	}
	if haveMeta {
		out.Rate = odrByName[meta.Rate]
		out.Range = rangeByName[meta.Range]
		out.Scale = scaleByName[meta.Scale]
	}
	periodS := out.Rate.Period()

	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "seq ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			continue
		}
		run, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil {
			return Samples{}, fmt.Errorf("store: parse run in %s: %w", l.path, err)
		}
		index, err := strconv.ParseUint(fields[1], 10, 16)
		if err != nil {
			return Samples{}, fmt.Errorf("store: parse sample index in %s: %w", l.path, err)
		}
		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Samples{}, fmt.Errorf("store: parse x in %s: %w", l.path, err)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return Samples{}, fmt.Errorf("store: parse y in %s: %w", l.path, err)
		}
		z, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return Samples{}, fmt.Errorf("store: parse z in %s: %w", l.path, err)
		}

		out.Samples = append(out.Samples, Sample{
			Run:         uint8(run),
			Index:       uint16(index),
			TimestampMs: float64(index) * periodS * 1000,
			X:           x, Y: y, Z: z,
		})
	}

	return out, nil
}
