package run

import "testing"

func TestPlanNestedOrderAndSharedRunHash(t *testing.T) {
	cfg := PlanConfig{
		Axes:                 []string{"x", "y"},
		FreqStartHz:          10,
		FreqStopHz:           20,
		FreqStepHz:           10,
		ZetaStartEm2:         0,
		ZetaStopEm2:          5,
		ZetaStepEm2:          5,
		SequenceRepeatCount:  2,
		Prefix:               "test",
	}

	plan, err := Plan(cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan) != 2*2*2*2 {
		t.Fatalf("expected 16 descriptors, got %d", len(plan))
	}

	runHash := plan[0].RunHash
	seen := map[string]bool{}
	for _, d := range plan {
		if d.RunHash != runHash {
			t.Fatalf("expected shared run_hash, got %q and %q", runHash, d.RunHash)
		}
		if seen[d.StreamHash] {
			t.Fatalf("duplicate stream_hash %q", d.StreamHash)
		}
		seen[d.StreamHash] = true
	}

	// Nested order: axis outermost, then frequency, then zeta, then sequence.
	if plan[0].Axis != "x" || plan[8].Axis != "y" {
		t.Fatalf("expected axis to vary outermost, got %+v / %+v", plan[0], plan[8])
	}
	if plan[0].FrequencyHz != 10 || plan[4].FrequencyHz != 20 {
		t.Fatalf("expected frequency to vary within an axis block, got %+v / %+v", plan[0], plan[4])
	}
	if plan[0].ZetaEm2 != 0 || plan[2].ZetaEm2 != 5 {
		t.Fatalf("expected zeta to vary within a frequency block, got %+v / %+v", plan[0], plan[2])
	}
	if plan[0].SequenceNr != 0 || plan[1].SequenceNr != 1 {
		t.Fatalf("expected sequence to vary innermost, got %+v / %+v", plan[0], plan[1])
	}
}

func TestPlanEmptyWhenStartAfterStop(t *testing.T) {
	plan, err := Plan(PlanConfig{
		Axes: []string{"x"}, FreqStartHz: 20, FreqStopHz: 10, FreqStepHz: 10,
		ZetaStartEm2: 0, ZetaStopEm2: 0, ZetaStepEm2: 0, SequenceRepeatCount: 1,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan) != 0 {
		t.Fatalf("expected empty plan, got %d", len(plan))
	}
}
