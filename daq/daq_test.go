package daq

import (
	"math"
	"testing"

	"github.com/dfreese/gray/physics"
)

func mkHit(t float64, detID int32) physics.Interaction {
	return physics.Interaction{Time: t, DetID: detID, Energy: 0.1, CoincID: -1}
}

func TestDeadtimeNonParalyzableScenario(t *testing.T) {
	events := []physics.Interaction{
		mkHit(0, 1), mkHit(40e-9, 1), mkHit(90e-9, 1), mkHit(110e-9, 1), mkHit(250e-9, 1),
	}
	d := &Deadtime{TauSeconds: 100e-9, Paralyzable: false}
	stats := &Stats{}
	d.Process(events, 0, len(events), stats)

	var kept []float64
	for _, e := range events {
		if !e.Dropped {
			kept = append(kept, e.Time)
		}
	}
	want := []float64{0, 110e-9, 250e-9}
	if len(kept) != len(want) {
		t.Fatalf("kept = %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Fatalf("kept = %v, want %v", kept, want)
		}
	}
}

func TestDeadtimeParalyzableScenario(t *testing.T) {
	events := []physics.Interaction{
		mkHit(0, 1), mkHit(40e-9, 1), mkHit(90e-9, 1), mkHit(110e-9, 1), mkHit(250e-9, 1),
	}
	d := &Deadtime{TauSeconds: 100e-9, Paralyzable: true}
	stats := &Stats{}
	d.Process(events, 0, len(events), stats)

	var kept []float64
	for _, e := range events {
		if !e.Dropped {
			kept = append(kept, e.Time)
		}
	}
	want := []float64{0, 250e-9}
	if len(kept) != len(want) {
		t.Fatalf("kept = %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Fatalf("kept = %v, want %v", kept, want)
		}
	}
}

func TestSortCommitsOnlyPastMaxWait(t *testing.T) {
	events := []physics.Interaction{
		mkHit(5, 1), mkHit(1, 1), mkHit(3, 1), mkHit(9, 1),
	}
	s := Sort{MaxWaitSeconds: 2}
	stats := &Stats{}
	committed := s.Process(events, 0, len(events), stats)

	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("events not sorted: %v", events)
		}
	}
	// newest time is 9, so only events <= 7 should be committed.
	for i := 0; i < committed; i++ {
		if 9-events[i].Time < 2 {
			t.Fatalf("committed event at %v is within MaxWait of the newest event", events[i].Time)
		}
	}
	if committed < 0 || committed > len(events) {
		t.Fatalf("committed out of range: %d", committed)
	}
}

func TestSortCommitsBoundaryEqualToMaxWait(t *testing.T) {
	events := []physics.Interaction{mkHit(0, 1), mkHit(2, 1)}
	s := Sort{MaxWaitSeconds: 2}
	stats := &Stats{}
	committed := s.Process(events, 0, len(events), stats)
	// last - t == MaxWaitSeconds exactly for the first event: spec §8
	// property 6 commits events whose time is <= last - MaxWait, so
	// this boundary event must be included.
	if committed != 1 {
		t.Fatalf("committed = %d, want 1 (boundary event should commit)", committed)
	}
}

func TestFilterEnergyLowDropsBelowThreshold(t *testing.T) {
	events := []physics.Interaction{
		{Energy: 0.05}, {Energy: 0.2},
	}
	f := FilterEnergyLow{ThresholdMeV: 0.1}
	stats := &Stats{}
	f.Process(events, 0, len(events), stats)
	if !events[0].Dropped {
		t.Fatalf("expected low-energy event dropped")
	}
	if events[1].Dropped {
		t.Fatalf("expected high-energy event kept")
	}
}

func TestMergeFirstFoldsWithinWindow(t *testing.T) {
	events := []physics.Interaction{
		{Time: 0, DetID: 1, Energy: 0.2, SrcID: 1},
		{Time: 1e-9, DetID: 1, Energy: 0.1, SrcID: 1},
		{Time: 100e-9, DetID: 1, Energy: 0.3, SrcID: 1},
	}
	m := Merge{WindowSeconds: 10e-9, Fn: MergeFirst}
	stats := &Stats{}
	m.Process(events, 0, len(events), stats)

	if events[0].Dropped {
		t.Fatalf("expected first event kept as merge head")
	}
	if !events[1].Dropped {
		t.Fatalf("expected second event folded away")
	}
	if math.Abs(events[0].Energy-0.3) > 1e-12 {
		t.Fatalf("expected folded energy 0.2+0.1=0.3, got %v", events[0].Energy)
	}
	if events[0].MergedHits == nil {
		t.Fatalf("expected merge bookkeeping on the head event")
	}
	if events[2].Dropped {
		t.Fatalf("expected third event outside window to be its own head")
	}
}

func TestMergeMaxKeepsHighestEnergy(t *testing.T) {
	events := []physics.Interaction{
		{Time: 0, DetID: 1, Energy: 0.1, SrcID: 1},
		{Time: 1e-9, DetID: 1, Energy: 0.4, SrcID: 1},
	}
	m := Merge{WindowSeconds: 10e-9, Fn: MergeMax}
	stats := &Stats{}
	m.Process(events, 0, len(events), stats)
	if events[0].Dropped {
		t.Fatalf("MergeMax should keep the slot holding the surviving record")
	}
	if events[0].Energy != 0.5 {
		t.Fatalf("expected folded energy 0.5, got %v", events[0].Energy)
	}
}

func TestCoincidencePairsWithinWindow(t *testing.T) {
	events := []physics.Interaction{
		mkHit(0, 1), mkHit(1e-9, 2), mkHit(100e-9, 1), mkHit(100.5e-9, 3),
	}
	c := &Coincidence{WindowSeconds: 5e-9}
	stats := &Stats{}
	c.Stop(events, 0, len(events), stats)

	if events[0].CoincID < 0 || events[0].CoincID != events[1].CoincID {
		t.Fatalf("expected first pair coincident: %+v %+v", events[0], events[1])
	}
	if events[2].CoincID < 0 || events[2].CoincID != events[3].CoincID {
		t.Fatalf("expected second pair coincident: %+v %+v", events[2], events[3])
	}
	if events[0].CoincID == events[2].CoincID {
		t.Fatalf("expected distinct coincidence groups")
	}
}

func TestCoincidenceDropsSingles(t *testing.T) {
	events := []physics.Interaction{mkHit(0, 1), mkHit(1, 2)}
	c := &Coincidence{WindowSeconds: 5e-9}
	stats := &Stats{}
	c.Stop(events, 0, len(events), stats)
	if !events[0].Dropped || !events[1].Dropped {
		t.Fatalf("expected isolated singles dropped")
	}
}

func TestDaqModelTickPropagatesAcrossStages(t *testing.T) {
	model := NewDaqModel([]Process{
		FilterEnergyLow{ThresholdMeV: 0.1},
		Sort{MaxWaitSeconds: 0},
	})
	model.Append(
		physics.Interaction{Time: 0, Energy: 0.05},
		physics.Interaction{Time: 1, Energy: 0.5},
	)
	out := model.Tick()
	final := model.Stop()
	out = append(out, final...)
	if len(out) != 2 {
		t.Fatalf("expected both events to eventually drain, got %d", len(out))
	}
}
