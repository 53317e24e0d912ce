package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/bytelink"
	"github.com/axxeldrive/cdc-accel-driver/internal/config"
	"github.com/axxeldrive/cdc-accel-driver/internal/decoder"
	"github.com/axxeldrive/cdc-accel-driver/internal/device"
	"github.com/axxeldrive/cdc-accel-driver/internal/printer"
	"github.com/axxeldrive/cdc-accel-driver/internal/run"
	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// decoderFor builds a fresh StreamDecoder reading from link. It's a
// run.Decoder: each call a SeriesRunner makes gets its own instance, as
// run.NewSeriesRunner requires.
func decoderFor(link *bytelink.ByteLink, log *logrus.Entry) *decoder.StreamDecoder {
	return decoder.New(link, log)
}

// recordFlags are the settings shared by record-step and
// record-step-series beyond what's specific to a sweep range.
type recordFlags struct {
	port            string
	printerAddress  string
	printerPort     int
	printerAPIKey   string
	dryRun          bool
	odrHz           float64
	timelapseS      float64
	decodeTimeoutS  float64
	startX, startY, startZ int
	distanceMm      int
	stepRepeatCount int
	outputDir       string
}

func bindRecordFlags(fs *flag.FlagSet, cfg config.Config) *recordFlags {
	rf := &recordFlags{}
	fs.StringVar(&rf.port, "port", cfg.Serial.Device, "serial device path")
	fs.StringVar(&rf.printerAddress, "printer-address", cfg.Printer.Address, "OctoPrint address")
	fs.IntVar(&rf.printerPort, "printer-port", cfg.Printer.Port, "OctoPrint API port")
	fs.StringVar(&rf.printerAPIKey, "printer-key", cfg.Printer.APIKey, "OctoPrint API key")
	fs.BoolVar(&rf.dryRun, "dry-run", cfg.Printer.DryRun, "log gcode instead of sending it")
	fs.Float64Var(&rf.odrHz, "odr-hz", 3200, "sensor output data rate, in Hz")
	fs.Float64Var(&rf.timelapseS, "timelapse", 1.0, "recording duration, in seconds")
	fs.Float64Var(&rf.decodeTimeoutS, "decode-timeout", 5.0, "decoder message quiescence timeout, in seconds")
	fs.IntVar(&rf.startX, "start-x", 0, "trajectory start X, in mm")
	fs.IntVar(&rf.startY, "start-y", 0, "trajectory start Y, in mm")
	fs.IntVar(&rf.startZ, "start-z", 0, "trajectory start Z, in mm")
	fs.IntVar(&rf.distanceMm, "distance", 10, "trajectory move distance, in mm")
	fs.IntVar(&rf.stepRepeatCount, "step-repeat", 1, "trajectory back-and-forth repeat count")
	fs.StringVar(&rf.outputDir, "out", cfg.Output.Directory, "output directory (empty: dry run, no file written)")
	return rf
}

func openDeviceLink(port string, log *logrus.Entry) (*bytelink.ByteLink, *device.Client, error) {
	if port == "" {
		return nil, nil, fmt.Errorf("-port is required")
	}
	link, err := bytelink.Open(port, bytelink.Config{ReadTimeout: 2 * time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		return nil, nil, err
	}
	return link, device.NewClient(link, log), nil
}

func buildPrinter(rf *recordFlags, log *logrus.Entry) run.Printer {
	if rf.dryRun || rf.printerAddress == "" {
		return printer.NewDryRunPrinter(log)
	}
	return printer.NewHTTPPrinter(rf.printerAddress, rf.printerPort, rf.printerAPIKey, log)
}

func recordStepCommand(args []string, cfg config.Config, log *logrus.Entry) int {
	fs := flag.NewFlagSet("record-step", flag.ContinueOnError)
	rf := bindRecordFlags(fs, cfg)
	axis := fs.String("axis", "x", "trajectory axis: x, y, or z")
	frequencyHz := fs.Uint("frequency", 50, "input shaping test frequency, in Hz")
	zetaEm2 := fs.Uint("zeta", 10, "input shaping damping ratio * 100")
	prefix := fs.String("prefix", cfg.Output.Prefix, "output filename prefix")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	odr, ok := wire.ODRFromHz(rf.odrHz)
	if !ok {
		fmt.Fprintf(os.Stderr, "unsupported odr-hz %g\n", rf.odrHz)
		return exitUsageError
	}

	link, client, err := openDeviceLink(rf.port, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	defer link.Close()

	desc, err := run.NewDescriptor(*prefix, *axis, uint16(*frequencyHz), uint16(*zetaEm2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}

	stepCfg := run.StepConfig{
		Descriptor:       desc,
		ODR:              odr,
		RecordTimelapseS: rf.timelapseS,
		DecodeTimeoutS:   rf.decodeTimeoutS,
		OutputDir:        rf.outputDir,
		StartPointMm:     run.Point{X: rf.startX, Y: rf.startY, Z: rf.startZ},
		DistanceMm:       rf.distanceMm,
		StepRepeatCount:  rf.stepRepeatCount,
		GoToStart:        true,
		ReturnToStart:    true,
		AutoHome:         true,
	}

	err = run.RunStep(context.Background(), stepCfg, client, decoderFor(link, log), buildPrinter(rf, log), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	return exitSuccess
}

func recordStepSeriesCommand(args []string, cfg config.Config, log *logrus.Entry) int {
	fs := flag.NewFlagSet("record-step-series", flag.ContinueOnError)
	rf := bindRecordFlags(fs, cfg)
	axes := fs.String("axes", "x,y,z", "comma-separated axes to sweep")
	fxStart := fs.Uint("fx-start", 10, "sweep frequency start, in Hz")
	fxStop := fs.Uint("fx-stop", 200, "sweep frequency stop, in Hz")
	fxStep := fs.Uint("fx-step", 10, "sweep frequency step, in Hz")
	zetaStart := fs.Uint("zeta-start", 0, "sweep zeta*100 start")
	zetaStop := fs.Uint("zeta-stop", 0, "sweep zeta*100 stop")
	zetaStep := fs.Uint("zeta-step", 5, "sweep zeta*100 step")
	sequenceRepeat := fs.Int("sequence-repeat", 1, "repeats per (axis, frequency, zeta) combination")
	prefix := fs.String("prefix", cfg.Output.Prefix, "output filename prefix")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	if rf.outputDir == "" {
		fmt.Fprintln(os.Stderr, "-out is required for record-step-series")
		return exitUsageError
	}
	odr, ok := wire.ODRFromHz(rf.odrHz)
	if !ok {
		fmt.Fprintf(os.Stderr, "unsupported odr-hz %g\n", rf.odrHz)
		return exitUsageError
	}

	planCfg := run.PlanConfig{
		Axes:                splitAxes(*axes),
		FreqStartHz:         uint16(*fxStart),
		FreqStopHz:          uint16(*fxStop),
		FreqStepHz:          uint16(*fxStep),
		ZetaStartEm2:        uint16(*zetaStart),
		ZetaStopEm2:         uint16(*zetaStop),
		ZetaStepEm2:         uint16(*zetaStep),
		SequenceRepeatCount: *sequenceRepeat,
		Prefix:              *prefix,
	}
	plan, err := run.Plan(planCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	if len(plan) == 0 {
		fmt.Fprintln(os.Stderr, "planned runs=0, nothing to do")
		return exitNothingToDo
	}

	if err := runSweep(context.Background(), rf, plan, odr, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	return exitSuccess
}

// validateSampleCount rejects a sample count that would silently
// truncate on conversion to the wire protocol's uint16 field.
func validateSampleCount(n uint) error {
	if n > 65535 {
		return fmt.Errorf("-n must be <= 65535, got %d", n)
	}
	return nil
}

func splitAxes(csv string) []string {
	var axes []string
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if i > start {
				axes = append(axes, csv[start:i])
			}
			start = i + 1
		}
	}
	return axes
}
