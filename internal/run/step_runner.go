package run

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/decoder"
	"github.com/axxeldrive/cdc-accel-driver/internal/store"
	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// settleDelay is how long the decoder goroutine is given to reach its
// read loop before the sampling start request goes out, mirroring the
// original's fixed 0.1s head start.
const settleDelay = 100 * time.Millisecond

// Printer is the minimal surface StepRunner needs from an OctoPrint-like
// command sink. internal/printer's implementations satisfy it
// structurally.
type Printer interface {
	SendCommands(commands []string) error
}

// Device is the subset of device.Client StepRunner drives directly.
type Device interface {
	StartSampling(n uint16) error
	StopSampling() error
}

// Decoder is the subset of decoder.StreamDecoder StepRunner drives
// directly, letting tests substitute a fake.
type Decoder interface {
	Decode(ctx context.Context, returnOnStop bool, messageTimeoutS float64, sink decoder.Sink) error
}

// StepConfig parameterizes one recording step: a trajectory move on the
// printer coinciding with one sampling stream from the controller.
type StepConfig struct {
	Descriptor      Descriptor
	ODR             wire.OutputDataRate
	RecordTimelapseS float64
	DecodeTimeoutS  float64
	OutputDir       string // empty means dry run: no file is written
	StartPointMm    Point
	DistanceMm      int
	StepRepeatCount int
	GoToStart       bool
	ReturnToStart   bool
	AutoHome        bool
}

// RunStep executes one recording step: it starts a StreamDecoder against
// dec/device, waits for it to settle, triggers the device's sampling
// start, sends the step's G-code (input shaping preamble plus the
// coplanar trajectory) to printer, and waits for decoding to finish. A
// StartSampling or printer-send failure is returned in preference to the
// decoder's result; otherwise the decoder's error (or a failure to close
// the output file) is returned. ctx cancellation unwinds the decoder
// cleanly and is not itself reported as an error.
func RunStep(ctx context.Context, cfg StepConfig, dev Device, dec Decoder, printer Printer, log *logrus.Entry) error {
	var sink decoder.Sink
	var closer interface{ Close() error }
	if cfg.OutputDir != "" {
		stamped := Stamped{Descriptor: cfg.Descriptor, Timestamp: time.Now(), Ext: "tsv"}
		path := filepath.Join(cfg.OutputDir, FormatStreamFilename(stamped))
		s, err := store.Create(path)
		if err != nil {
			return fmt.Errorf("run: create output file: %w", err)
		}
		sink, closer = s, s
	}

	samplesTotal := samplesForTimelapse(cfg.RecordTimelapseS, cfg.ODR)

	stepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- dec.Decode(stepCtx, true, cfg.DecodeTimeoutS, sink)
	}()

	time.Sleep(settleDelay)

	if err := dev.StartSampling(samplesTotal); err != nil {
		cancel()
		<-errCh
		if closer != nil {
			closer.Close()
		}
		return fmt.Errorf("run: start sampling: %w", err)
	}

	commands := []string{InputShapingCommand(cfg.Descriptor.Axis, cfg.Descriptor.FrequencyHz, cfg.Descriptor.ZetaEm2)}
	commands = append(commands, GenerateTrajectory(TrajectoryOptions{
		Axis:            cfg.Descriptor.Axis,
		Start:           cfg.StartPointMm,
		DistanceMm:      cfg.DistanceMm,
		StepRepeatCount: cfg.StepRepeatCount,
		GoToStart:       cfg.GoToStart,
		ReturnToStart:   cfg.ReturnToStart,
		AutoHome:        cfg.AutoHome,
	})...)

	sendErr := printer.SendCommands(commands)
	if sendErr != nil {
		// A failed send still propagates, but the decoder shouldn't be
		// left running against a trajectory that never happened.
		if err := dev.StopSampling(); err != nil {
			log.WithError(err).Warn("stop sampling after printer failure")
		}
		cancel()
	}

	log.Debug("waiting for decoding task to finish")
	decodeErr := <-errCh

	if closer != nil {
		if err := closer.Close(); err != nil && decodeErr == nil && sendErr == nil {
			decodeErr = fmt.Errorf("run: close output file: %w", err)
		}
	}

	if sendErr != nil {
		return fmt.Errorf("run: send gcode: %w", sendErr)
	}
	return decodeErr
}

// samplesForTimelapse derives the sample count a record_timelapse_s
// window needs at the given output data rate, rounded up to the nearest
// even number (the controller's ring buffer accounting assumes pairs).
func samplesForTimelapse(timelapseS float64, odr wire.OutputDataRate) uint16 {
	n := int(math.Ceil(timelapseS / odr.Period()))
	if n%2 != 0 {
		n++
	}
	return uint16(n)
}
