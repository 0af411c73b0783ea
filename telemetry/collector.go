// Package telemetry provides run-level statistics collection and
// performance timing for a Gray simulation run (SPEC_FULL.md Part C:
// ambient run statistics, marshaled to CSV via gocarina/gocsv).
package telemetry

import (
	"github.com/dfreese/gray/daq"
	"github.com/dfreese/gray/physics"
)

// Collector accumulates decay/photon/interaction counts within a
// simulated-time window and produces RunStats, mirroring the
// teacher's event-counting Collector but keyed on the transport and
// DAQ events this simulator actually produces rather than organism
// births/deaths.
type Collector struct {
	windowDurationS float64
	windowStart     float64

	decaysScheduled int64
	photonsEmitted  int64
	rejectExceeded  int64

	comptonCount       int64
	photoelectricCount int64
	rayleighCount      int64
	errorsEmpty        int64
	errorsTraceDepth   int64
	errorsMatch        int64

	deposits []float64

	daqKept    int64
	daqDropped int64
	daqMerged  int64

	singlesWritten      int64
	coincidencesWritten int64
}

// NewCollector creates a collector that flushes a RunStats roughly
// every windowDurationS of simulated time.
func NewCollector(windowDurationS float64) *Collector {
	if windowDurationS <= 0 {
		windowDurationS = 1.0
	}
	return &Collector{windowDurationS: windowDurationS}
}

// RecordDecay records one scheduled decay and the photons it produced.
func (c *Collector) RecordDecay(numPhotons int) {
	c.decaysScheduled++
	c.photonsEmitted += int64(numPhotons)
}

// RecordRejectExceeded records a decay attempt that exhausted
// sources.MaxRejectCounter against negative sources (spec §4.1).
func (c *Collector) RecordRejectExceeded() {
	c.rejectExceeded++
}

// RecordInteraction folds one transport-produced Interaction into the
// window's type counts and deposit distribution (spec §3/§7).
func (c *Collector) RecordInteraction(i physics.Interaction) {
	switch i.Type {
	case physics.InteractionCompton:
		c.comptonCount++
	case physics.InteractionPhotoelectric:
		c.photoelectricCount++
	case physics.InteractionRayleigh:
		c.rayleighCount++
	case physics.InteractionErrorEmpty:
		c.errorsEmpty++
	case physics.InteractionErrorTraceDepth:
		c.errorsTraceDepth++
	case physics.InteractionErrorMatch:
		c.errorsMatch++
	}
	if !i.Dropped && i.Type >= 0 {
		c.deposits = append(c.deposits, i.Energy)
	}
}

// RecordDaqStats folds a tick's worth of per-stage DAQ counters into
// the window totals (spec §4.6).
func (c *Collector) RecordDaqStats(stats map[string]daq.Stats) {
	for _, s := range stats {
		c.daqKept += s.Kept
		c.daqDropped += s.Dropped
		c.daqMerged += s.Merged
	}
}

// RecordSinglesWritten records n events written to the singles
// output stream.
func (c *Collector) RecordSinglesWritten(n int) {
	c.singlesWritten += int64(n)
}

// RecordCoincidencesWritten records n coincidence-pair events written
// to a terminal output stream.
func (c *Collector) RecordCoincidencesWritten(n int) {
	c.coincidencesWritten += int64(n)
}

// ShouldFlush reports whether enough simulated time has passed since
// the window started to flush a RunStats record.
func (c *Collector) ShouldFlush(simTimeS float64) bool {
	return simTimeS-c.windowStart >= c.windowDurationS
}

// Flush produces a RunStats snapshot for the window ending at
// simTimeS and resets the counters for the next window.
func (c *Collector) Flush(simTimeS float64) RunStats {
	mean, p10, p50, p90 := ComputeEnergyStats(c.deposits)

	stats := RunStats{
		WindowEndS:                int32(simTimeS),
		SimTimeSec:                simTimeS,
		DecaysScheduled:           c.decaysScheduled,
		PhotonsEmitted:            c.photonsEmitted,
		RejectExceeded:            c.rejectExceeded,
		InteractionsCompton:       c.comptonCount,
		InteractionsPhotoelectric: c.photoelectricCount,
		InteractionsRayleigh:      c.rayleighCount,
		ErrorsEmpty:               c.errorsEmpty,
		ErrorsTraceDepth:          c.errorsTraceDepth,
		ErrorsMatch:               c.errorsMatch,
		DepositMeanMeV:            mean,
		DepositP10MeV:             p10,
		DepositP50MeV:             p50,
		DepositP90MeV:             p90,
		DaqKept:                   c.daqKept,
		DaqDropped:                c.daqDropped,
		DaqMerged:                 c.daqMerged,
		SinglesWritten:            c.singlesWritten,
		CoincidencesWritten:       c.coincidencesWritten,
	}

	c.windowStart = simTimeS
	c.decaysScheduled = 0
	c.photonsEmitted = 0
	c.rejectExceeded = 0
	c.comptonCount = 0
	c.photoelectricCount = 0
	c.rayleighCount = 0
	c.errorsEmpty = 0
	c.errorsTraceDepth = 0
	c.errorsMatch = 0
	c.deposits = nil
	c.daqKept = 0
	c.daqDropped = 0
	c.daqMerged = 0
	c.singlesWritten = 0
	c.coincidencesWritten = 0

	return stats
}
