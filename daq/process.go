// Package daq implements the streaming DAQ pipeline (spec §4.6): a
// composable sequence of deterministic event-transform stages
// operating on a shared, weakly time-ordered buffer, each committing
// events only once provably past its own timing horizon.
package daq

import "github.com/dfreese/gray/physics"

// Stats accumulates per-stage counters surfaced through telemetry
// (SPEC_FULL.md Part B).
type Stats struct {
	Kept    int64
	Dropped int64
	Merged  int64
}

// Process is one DAQ pipeline stage (spec §4.6). process may mutate
// events in place (mark Dropped, adjust fields) and returns the index
// of the first event in [begin,end) that is not yet provably
// finalized by this stage — the commit horizon past which the driver
// must not release events to the next stage yet. stop finalizes every
// remaining event at end-of-stream.
type Process interface {
	Name() string
	Process(events []physics.Interaction, begin, end int, stats *Stats) (committed int)
	Stop(events []physics.Interaction, begin, end int, stats *Stats)
}
