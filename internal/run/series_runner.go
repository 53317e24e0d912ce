package run

import (
	"context"
	"fmt"
	"time"

	"github.com/cskr/pubsub"
	"github.com/sirupsen/logrus"
)

// interStepDelay separates consecutive steps, mirroring the original's
// fixed 0.2s gap between runs.
const interStepDelay = 200 * time.Millisecond

// ProgressTopic is the pubsub topic SeriesRunner publishes Progress
// events on.
const ProgressTopic = "run.progress"

// Progress reports one series' advancement for a live-view subscriber.
type Progress struct {
	RunNr      int
	RunCount   int
	Percent    int
	Descriptor Descriptor
}

// SeriesConfig parameterizes one full sweep: the plan to walk plus the
// per-step settings RunStep needs, held constant across every step
// except the descriptor and the go-to-start/auto-home flags (only the
// first step homes and moves to start; every step returns to start).
type SeriesConfig struct {
	Plan            []Descriptor
	StepConfig      StepConfig // Descriptor field is overwritten per step
	Broker          *pubsub.PubSub
	Log             *logrus.Entry
}

// SeriesRunner drives a planned sweep end to end.
type SeriesRunner struct {
	dev     Device
	newDec  func() Decoder
	printer Printer
}

// NewSeriesRunner builds a SeriesRunner. newDecoder is called once per
// step so each gets a fresh StreamDecoder instance.
func NewSeriesRunner(dev Device, newDecoder func() Decoder, printer Printer) *SeriesRunner {
	return &SeriesRunner{dev: dev, newDec: newDecoder, printer: printer}
}

// Run walks cfg.Plan in order, running one step per descriptor. It
// returns early with ctx.Err() if ctx is canceled between steps — a
// "stopped ahead of time" outcome distinct from a step returning an
// error, which aborts the series immediately and is returned unwrapped
// save for descriptor context.
func (r *SeriesRunner) Run(ctx context.Context, cfg SeriesConfig) error {
	total := len(cfg.Plan)
	if total == 0 {
		cfg.Log.Info("planned runs=0, nothing to do")
		return nil
	}
	cfg.Log.WithField("count", total).Info("planned runs")

	for i, d := range cfg.Plan {
		select {
		case <-ctx.Done():
			cfg.Log.WithField("completed", i).Warn("series stopped ahead of time")
			return ctx.Err()
		default:
		}

		runNr := i + 1
		percent := int(float64(runNr)/float64(total)*100 + 0.5)
		cfg.Log.WithFields(logrus.Fields{"run_nr": runNr, "run_count": total, "percent": percent}).Info("starting run")
		if cfg.Broker != nil {
			cfg.Broker.TryPub(Progress{RunNr: runNr, RunCount: total, Percent: percent, Descriptor: d}, ProgressTopic)
		}

		stepCfg := cfg.StepConfig
		stepCfg.Descriptor = d
		stepCfg.GoToStart = runNr == 1
		stepCfg.AutoHome = runNr == 1
		stepCfg.ReturnToStart = true

		start := time.Now()
		if err := RunStep(ctx, stepCfg, r.dev, r.newDec(), r.printer, cfg.Log); err != nil {
			return fmt.Errorf("run: step %d/%d (%s): %w", runNr, total, d.Axis, err)
		}
		cfg.Log.WithField("elapsed", time.Since(start)).Debug("sampling job done")

		if runNr < total {
			time.Sleep(interStepDelay)
		}
	}
	return nil
}
