package simulation

import (
	"fmt"

	"github.com/dfreese/gray/config"
	"github.com/dfreese/gray/daq"
	"github.com/dfreese/gray/output"
	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/scene"
	"github.com/dfreese/gray/sources"
	"github.com/dfreese/gray/telemetry"
	"github.com/dfreese/gray/transport"
)

// Run holds everything one rank needs to drive a simulation to
// completion (spec §4.6 "Simulation::Run", spec §5 rank-splitting).
type Run struct {
	Sources   *sources.SourceList
	Scene     *scene.Scene
	Materials *physics.MaterialTable
	Default   *physics.Material
	Daq       *daq.DaqModel

	Rng *random.Generator

	MaxTraceDepth int
	TickDecays    int

	Stats *telemetry.Collector
	Perf  *telemetry.PerfCollector
	Out   *telemetry.OutputManager

	HitsWriter   func(physics.Interaction) error
	SinglesWriter func(physics.Interaction) error
	CoincWriters []func(physics.Interaction) error
}

// NewRun assembles a Run for one rank, given a sourceList already
// configured and narrowed to this rank's time slice (see
// PrepareSources) and the RNG stream that populated it.
func NewRun(cfg *config.Config, sourceList *sources.SourceList, sc *scene.Scene, materials *physics.MaterialTable, d *daq.DaqModel, g *random.Generator) *Run {
	tick := cfg.Run.DaqTickDecays
	if tick <= 0 {
		tick = 10000
	}

	return &Run{
		Sources:       sourceList,
		Scene:         sc,
		Materials:     materials,
		Daq:           d,
		Rng:           g,
		MaxTraceDepth: cfg.Physics.MaxTraceDepth,
		TickDecays:    tick,
		Stats:         telemetry.NewCollector(cfg.Run.SimTimeS / 10),
		Perf:          telemetry.NewPerfCollector(60),
	}
}

// SetDefaultMaterial sets the material a photon starts transport in
// before crossing any scene surface (spec §4.3).
func (r *Run) SetDefaultMaterial(m *physics.Material) { r.Default = m }

// Execute runs the scheduler/transport/DAQ loop to completion (spec
// §4.6): pull a decay, trace every photon it produces, feed the
// resulting interactions into the DAQ pipeline, and periodically sweep
// the pipeline so bounded memory is kept under the commit horizon.
// Returns the total number of decays processed.
func (r *Run) Execute() (int64, error) {
	var processed int64
	sinceTick := 0

	for {
		r.Perf.StartTick()
		r.Perf.StartPhase(telemetry.PhaseSchedule)

		src, decay, ok, err := r.Sources.NextDecay(r.Rng)
		if err != nil {
			r.Perf.EndTick()
			return processed, fmt.Errorf("simulation: scheduling decay: %w", err)
		}
		if !ok {
			break
		}
		processed++

		r.Perf.StartPhase(telemetry.PhaseTransport)
		numPhotons := decay.NumPhotons()
		r.Stats.RecordDecay(numPhotons)
		for {
			photon, ok := decay.PopPhoton()
			if !ok {
				break
			}
			photon.SrcID = src.SourceNum()
			interactions := transport.Trace(photon, r.Scene, r.Materials, r.Default, r.MaxTraceDepth, r.Rng)
			for _, i := range interactions {
				r.Stats.RecordInteraction(i)
				decay.RecordInteraction(i)
				if !i.Dropped {
					r.emitHit(i)
					r.Daq.Append(i)
				}
			}
		}

		sinceTick++
		if sinceTick >= r.TickDecays {
			r.Perf.StartPhase(telemetry.PhaseDaqTick)
			committed := r.Daq.Tick()
			r.Stats.RecordDaqStats(r.Daq.Stats())
			r.Perf.StartPhase(telemetry.PhaseOutput)
			if err := r.emitCommitted(committed); err != nil {
				r.Perf.EndTick()
				return processed, err
			}
			sinceTick = 0
		}

		r.Perf.EndTick()
	}

	final := r.Daq.Stop()
	r.Stats.RecordDaqStats(r.Daq.Stats())
	if err := r.emitCommitted(final); err != nil {
		return processed, err
	}

	return processed, nil
}

func (r *Run) emitHit(i physics.Interaction) {
	if r.HitsWriter == nil {
		return
	}
	_ = r.HitsWriter(i)
}

// emitCommitted routes a batch of DAQ-finalized events to the singles
// stream and, for events carrying a CoincID, every configured
// coincidence output stream.
func (r *Run) emitCommitted(events []physics.Interaction) error {
	kept := 0
	coinc := 0
	for _, e := range events {
		if e.Dropped {
			continue
		}
		kept++
		if r.SinglesWriter != nil {
			if err := r.SinglesWriter(e); err != nil {
				return fmt.Errorf("simulation: writing singles: %w", err)
			}
		}
		if e.CoincID != -1 {
			coinc++
			for _, w := range r.CoincWriters {
				if err := w(e); err != nil {
					return fmt.Errorf("simulation: writing coincidence: %w", err)
				}
			}
		}
	}
	r.Stats.RecordSinglesWritten(kept)
	r.Stats.RecordCoincidencesWritten(coinc)
	return nil
}

// parseFlags resolves a FileSpec's named write_flags (spec §6) into
// the output package's bitfield, defaulting to every optional field
// when the list is empty.
func parseFlags(names []string) output.WriteFlags {
	if len(names) == 0 {
		return output.FlagsAll
	}
	var flags output.WriteFlags
	table := map[string]output.WriteFlags{
		"time":            output.FlagTime,
		"energy":          output.FlagEnergy,
		"pos":             output.FlagPos,
		"log":             output.FlagLog,
		"decay_id":        output.FlagDecayID,
		"det_id":          output.FlagDetID,
		"scatter_counts":  output.FlagScatterCounts,
		"src_id":          output.FlagSrcID,
		"mat_id":          output.FlagMatID,
		"coinc_id":        output.FlagCoincID,
	}
	for _, n := range names {
		flags |= table[n]
	}
	return flags
}

// OpenOutputStream opens an output file per spec and returns a writer
// closure ready to hand to Run.HitsWriter/SinglesWriter/CoincWriters,
// plus a close function the caller must defer.
func OpenOutputStream(spec *config.FileSpec, open func(path string) (writeCloser, error)) (func(physics.Interaction) error, func() error, error) {
	f, err := open(spec.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("simulation: opening %s: %w", spec.Path, err)
	}
	flags := parseFlags(spec.WriteFlags)

	if spec.Format == "ascii" {
		return func(e physics.Interaction) error {
			return output.WriteInteractionASCII(f, flags, e)
		}, f.Close, nil
	}

	if err := output.WriteHeader(f, output.Header{Version: output.Version, Flags: flags}); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("simulation: writing header for %s: %w", spec.Path, err)
	}
	return func(e physics.Interaction) error {
		return output.WriteInteraction(f, flags, e)
	}, f.Close, nil
}

// writeCloser is the minimal file handle OpenOutputStream needs;
// *os.File satisfies it, letting callers substitute any writer for
// tests.
type writeCloser interface {
	Write(p []byte) (int, error)
	Close() error
}

// FlushTelemetry writes a RunStats and PerfStats snapshot for the
// current window if enough simulated time has elapsed, matching the
// teacher's windowed reporting cadence.
func (r *Run) FlushTelemetry(simTimeS float64) error {
	if r.Out == nil {
		return nil
	}
	if r.Stats.ShouldFlush(simTimeS) {
		stats := r.Stats.Flush(simTimeS)
		if err := r.Out.WriteStats(stats); err != nil {
			return err
		}
		// Execute times one perf tick per scheduled decay.
		perfStats := r.Perf.Stats(1)
		if err := r.Out.WritePerf(perfStats, stats.WindowEndS); err != nil {
			return err
		}
	}
	return nil
}
