package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/config"
	"github.com/axxeldrive/cdc-accel-driver/internal/daemon"
	"github.com/axxeldrive/cdc-accel-driver/internal/run"
	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// daemonCommand installs, controls, or runs the sweep daemon: a
// record-step-series configuration wrapped so the OS service manager can
// start it at boot and stop it cleanly on shutdown, for unattended
// overnight or multi-day sweeps.
func daemonCommand(args []string, cfg config.Config, log *logrus.Entry) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: accelctl daemon {install|uninstall|start|stop|run}")
		return exitUsageError
	}
	action, rest := args[0], args[1:]

	fs := flag.NewFlagSet("daemon "+action, flag.ContinueOnError)
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
	if err := fs.Parse(rest); err != nil {
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

	sweep := func(ctx context.Context) error {
		plan, err := run.Plan(planCfg)
		if err != nil {
			return err
		}
		return runSweep(ctx, rf, plan, odr, log)
	}

	svc, err := daemon.New(sweep, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}

	switch action {
	case "install", "uninstall", "start", "stop", "restart":
		if err := daemon.Control(svc, action); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		return exitSuccess
	case "run":
		if err := daemon.Run(svc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		return exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "unknown daemon action %q\n", action)
		return exitUsageError
	}
}

// runSweep opens the device fresh (the service manager may restart the
// daemon long after the owning CLI invocation exited) and drives one
// full plan through a SeriesRunner, honoring ctx cancellation between
// steps so Stop can interrupt an in-progress sweep.
func runSweep(ctx context.Context, rf *recordFlags, plan []run.Descriptor, odr wire.OutputDataRate, log *logrus.Entry) error {
	if len(plan) == 0 {
		log.Info("planned runs=0, nothing to do")
		return nil
	}

	link, client, err := openDeviceLink(rf.port, log)
	if err != nil {
		return err
	}
	defer link.Close()

	seriesRunner := run.NewSeriesRunner(client, func() run.Decoder { return decoderFor(link, log) }, buildPrinter(rf, log))
	seriesCfg := run.SeriesConfig{
		Plan: plan,
		StepConfig: run.StepConfig{
			ODR: odr, RecordTimelapseS: rf.timelapseS, DecodeTimeoutS: rf.decodeTimeoutS,
			OutputDir: rf.outputDir, StartPointMm: run.Point{X: rf.startX, Y: rf.startY, Z: rf.startZ},
			DistanceMm: rf.distanceMm, StepRepeatCount: rf.stepRepeatCount,
		},
		Log: log,
	}
	return seriesRunner.Run(ctx, seriesCfg)
}
