package run

import (
	"context"
	"errors"
	"testing"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

func TestSeriesRunnerRunsOneStepPerDescriptor(t *testing.T) {
	dev := &fakeDevice{}
	printer := &fakePrinter{}
	var decoders []*fakeDecoder

	newDec := func() Decoder {
		d := &fakeDecoder{}
		decoders = append(decoders, d)
		return d
	}

	r := NewSeriesRunner(dev, newDec, printer)

	plan, err := Plan(PlanConfig{Axes: []string{"x", "y"}, FreqStartHz: 10, FreqStopHz: 10, FreqStepHz: 10,
		ZetaStartEm2: 0, ZetaStopEm2: 0, ZetaStepEm2: 0, SequenceRepeatCount: 1})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	cfg := SeriesConfig{
		Plan: plan,
		StepConfig: StepConfig{
			ODR: wire.ODR3200, RecordTimelapseS: 0.001, DecodeTimeoutS: 1,
		},
		Log: silentLog(),
	}

	if err := r.Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(decoders) != 2 {
		t.Fatalf("expected one decoder per step, got %d", len(decoders))
	}
	if len(printer.commands) == 0 {
		t.Fatalf("expected gcode to be sent for each step")
	}
}

func TestSeriesRunnerStopsAheadOfTimeOnCancellation(t *testing.T) {
	dev := &fakeDevice{}
	printer := &fakePrinter{}
	newDec := func() Decoder { return &fakeDecoder{} }
	r := NewSeriesRunner(dev, newDec, printer)

	plan, _ := Plan(PlanConfig{Axes: []string{"x"}, FreqStartHz: 10, FreqStopHz: 10, FreqStepHz: 10,
		ZetaStartEm2: 0, ZetaStopEm2: 0, ZetaStepEm2: 0, SequenceRepeatCount: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := SeriesConfig{
		Plan:       plan,
		StepConfig: StepConfig{ODR: wire.ODR3200, RecordTimelapseS: 0.001, DecodeTimeoutS: 1},
		Log:        silentLog(),
	}

	err := r.Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSeriesRunnerAbortsOnStepError(t *testing.T) {
	dev := &fakeDevice{}
	printer := &fakePrinter{}
	wantErr := errors.New("boom")
	calls := 0
	newDec := func() Decoder {
		calls++
		if calls == 1 {
			return &fakeDecoder{err: wantErr}
		}
		return &fakeDecoder{}
	}
	r := NewSeriesRunner(dev, newDec, printer)

	plan, _ := Plan(PlanConfig{Axes: []string{"x"}, FreqStartHz: 10, FreqStopHz: 10, FreqStepHz: 10,
		ZetaStartEm2: 0, ZetaStopEm2: 0, ZetaStepEm2: 0, SequenceRepeatCount: 2})

	cfg := SeriesConfig{
		Plan:       plan,
		StepConfig: StepConfig{ODR: wire.ODR3200, RecordTimelapseS: 0.001, DecodeTimeoutS: 1},
		Log:        silentLog(),
	}

	err := r.Run(context.Background(), cfg)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped step error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected series to abort after first failing step, got %d decoder constructions", calls)
	}
}
