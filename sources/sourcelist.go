package sources

import (
	"bufio"
	"container/heap"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
)

// MaxRejectCounter bounds consecutive negative-source rejections for
// a single decay attempt before the scheduler gives up and moves on
// (spec §4.1: "rejects inter-arrivals exceeding MAX_REJECT_COUNTER =
// 100 000 consecutive negative-source hits").
const MaxRejectCounter = 100000

// ErrNoSources is the scheduler's ErrorEmpty condition (spec §7):
// raised when NextDecay is called before any source (positive or
// negative) has been registered.
var ErrNoSources = errors.New("sources: no sources registered")

type scheduleEntry struct {
	time   float64
	seq    int64
	source int // index into SourceList.sources
}

type scheduleHeap []scheduleEntry

func (h scheduleHeap) Len() int { return len(h) }
func (h scheduleHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h scheduleHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeap) Push(x any)   { *h = append(*h, x.(scheduleEntry)) }
func (h *scheduleHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SourceList is the time-ordered, activity-weighted decay scheduler
// (spec §4.1).
type SourceList struct {
	sources  []Source
	negative []Source

	heap *scheduleHeap
	seq  int64

	simulateHalfLife bool
	startTime        float64
	simulationTime   float64

	decayNumber int64

	onRejectExceeded func(attempts int)
}

// NewSourceList builds an empty scheduler.
func NewSourceList() *SourceList {
	h := &scheduleHeap{}
	heap.Init(h)
	return &SourceList{heap: h}
}

// AddSource registers a positive or negative source and schedules its
// first decay (positive sources only occupy the time-ordered index;
// negative sources are consulted only as rejection tests).
func (sl *SourceList) AddSource(s Source, g *random.Generator) {
	idx := len(sl.sources)
	sl.sources = append(sl.sources, s)
	if s.IsNegative() {
		sl.negative = append(sl.negative, s)
		return
	}
	dt := sl.sampleInterArrival(s, sl.startTime, g)
	heap.Push(sl.heap, scheduleEntry{time: sl.startTime + dt, seq: sl.nextSeq(), source: idx})
}

func (sl *SourceList) nextSeq() int64 {
	sl.seq++
	return sl.seq
}

// SetSimulationTime sets the total run duration in seconds.
func (sl *SourceList) SetSimulationTime(s float64) { sl.simulationTime = s }

// SetStartTime sets the absolute start time in seconds.
func (sl *SourceList) SetStartTime(s float64) { sl.startTime = s }

// SetSimulateIsotopeHalfLife toggles whether activity decays over the
// run per the isotope's half life.
func (sl *SourceList) SetSimulateIsotopeHalfLife(on bool) { sl.simulateHalfLife = on }

// sampleInterArrival draws the next inter-arrival time for source s,
// currently scheduled at "now" (spec §4.1).
func (sl *SourceList) sampleInterArrival(s Source, now float64, g *random.Generator) float64 {
	if !sl.simulateHalfLife {
		return g.Exponential(s.Activity())
	}
	iso := s.Isotope()
	t0 := now - sl.startTime
	target := g.Exponential(1.0)
	return searchInterArrival(s.Activity(), iso, t0, target)
}

// searchInterArrival solves for dt such that
// activity * isotope.FractionIntegral(t0, dt) == target via
// bisection, implementing the decaying-Poisson inverse-CDF sampler
// (spec §4.1).
func searchInterArrival(activity float64, iso physics.Isotope, t0, target float64) float64 {
	if activity <= 0 {
		return 1e18
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 200; i++ {
		val := activity * iso.FractionIntegral(t0, hi)
		if val >= target {
			break
		}
		hi *= 2
		if hi > 1e30 {
			break
		}
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		val := activity * iso.FractionIntegral(t0, mid)
		if val < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// NextDecay pops the earliest-scheduled source, rejection-samples a
// position against all negative sources, and produces the resulting
// NuclearDecay (spec §4.1). ok is false once the scheduler runs past
// the configured simulation window.
func (sl *SourceList) NextDecay(g *random.Generator) (src Source, decay *physics.NuclearDecay, ok bool, err error) {
	if len(sl.sources) == 0 {
		return nil, nil, false, ErrNoSources
	}

	for sl.heap.Len() > 0 {
		entry := heap.Pop(sl.heap).(scheduleEntry)
		if entry.time > sl.startTime+sl.simulationTime {
			// Past the simulation window: do not reschedule.
			continue
		}
		s := sl.sources[entry.source]
		if entry.time < sl.startTime {
			// Scheduled before the window start (AdjustTimeForSplit moved
			// it later): redraw the first arrival from the window start.
			dt := sl.sampleInterArrival(s, sl.startTime, g)
			heap.Push(sl.heap, scheduleEntry{time: sl.startTime + dt, seq: sl.nextSeq(), source: entry.source})
			continue
		}

		dt := sl.sampleInterArrival(s, entry.time, g)
		heap.Push(sl.heap, scheduleEntry{time: entry.time + dt, seq: sl.nextSeq(), source: entry.source})

		for attempt := 0; attempt < MaxRejectCounter; attempt++ {
			sl.decayNumber++
			pos := s.Decay(g)
			rejected := false
			for _, neg := range sl.negative {
				if neg.Inside(pos) {
					rejected = true
					break
				}
			}
			if !rejected {
				d := s.Isotope().Decay(sl.decayNumber, entry.time, s.SourceNum(), pos, g)
				return s, d, true, nil
			}
			if attempt == MaxRejectCounter-1 && sl.onRejectExceeded != nil {
				sl.onRejectExceeded(attempt + 1)
			}
		}
		// Rejection counter exceeded: this event produces nothing;
		// move on to the next scheduled source.
	}
	return nil, nil, false, nil
}

// ExpectedPhotons sums activity_i * fraction_integral_i(start, dt) *
// isotope.expected_no_photons() across every positive source (spec
// §4.1's split-time formula).
func (sl *SourceList) ExpectedPhotons(start, dt float64) float64 {
	total := 0.0
	for _, s := range sl.sources {
		if s.IsNegative() {
			continue
		}
		iso := s.Isotope()
		total += s.Activity() * iso.FractionIntegral(start-sl.startTime, dt) * iso.ExpectedNoPhotons()
	}
	return total
}

// SearchSplitTime bisects for t_split in [start, start+total] such
// that ExpectedPhotons(start, t_split-start) equals target, within a
// relative tolerance (spec §4.1, default 1e-6).
func (sl *SourceList) SearchSplitTime(start, total, target, relTol float64) float64 {
	lo, hi := start, start+total
	full := sl.ExpectedPhotons(start, total)
	if full <= 0 {
		return hi
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		val := sl.ExpectedPhotons(start, mid-start)
		if val < target {
			lo = mid
		} else {
			hi = mid
		}
		if full > 0 && (hi-lo) < relTol*total {
			break
		}
	}
	return (lo + hi) / 2
}

// AdjustTimeForSplit divides the scheduler's configured
// [startTime, startTime+simulationTime] window into nRanks slices of
// equal expected photon count and narrows this scheduler to the
// rank'th slice (spec §4.1/§5).
func (sl *SourceList) AdjustTimeForSplit(rank, nRanks int) {
	if nRanks <= 1 {
		return
	}
	total := sl.simulationTime
	full := sl.ExpectedPhotons(sl.startTime, total)
	boundaries := make([]float64, nRanks+1)
	boundaries[0] = sl.startTime
	boundaries[nRanks] = sl.startTime + total
	for k := 1; k < nRanks; k++ {
		target := full * float64(k) / float64(nRanks)
		boundaries[k] = sl.SearchSplitTime(sl.startTime, total, target, 1e-6)
	}
	newStart := boundaries[rank]
	newEnd := boundaries[rank+1]
	sl.startTime = newStart
	sl.simulationTime = newEnd - newStart
}

// IsotopeTableEntry is one parsed row of the isotope table file (spec
// §6): "name half_life_s acolinearity_fwhm_deg positron_emission_prob
// gamma_decay_energy_mev range_model range_params...".
type IsotopeTableEntry struct {
	Name                string
	HalfLifeS           float64
	AcolinearityFWHMDeg float64
	EmissionProb        float64
	GammaDecayEnergyMeV float64
	RangeModel          string
	RangeParams         []float64
}

// LoadIsotopes parses the plain-text isotope table described in spec
// §6. Blank lines and lines starting with '#' are skipped.
func LoadIsotopes(r io.Reader) ([]IsotopeTableEntry, error) {
	sc := bufio.NewScanner(r)
	var entries []IsotopeTableEntry
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("sources: isotope table line %d: expected at least 6 fields, got %d", lineNo, len(fields))
		}
		halfLife, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("sources: isotope table line %d: half_life_s: %w", lineNo, err)
		}
		acol, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("sources: isotope table line %d: acolinearity_fwhm_deg: %w", lineNo, err)
		}
		prob, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("sources: isotope table line %d: positron_emission_prob: %w", lineNo, err)
		}
		gamma, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("sources: isotope table line %d: gamma_decay_energy_mev: %w", lineNo, err)
		}
		rangeModel := fields[5]
		params := make([]float64, 0, len(fields)-6)
		for i, f := range fields[6:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("sources: isotope table line %d: range param %d: %w", lineNo, i, err)
			}
			params = append(params, v)
		}
		entries = append(entries, IsotopeTableEntry{
			Name: fields[0], HalfLifeS: halfLife, AcolinearityFWHMDeg: acol,
			EmissionProb: prob, GammaDecayEnergyMeV: gamma,
			RangeModel: rangeModel, RangeParams: params,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sources: reading isotope table: %w", err)
	}
	return entries, nil
}

// ToPositron converts a parsed table row into a physics.Positron,
// building the configured range model.
func (e IsotopeTableEntry) ToPositron() (physics.Positron, error) {
	p := physics.Positron{
		Name:                 e.Name,
		HalfLife:             e.HalfLifeS,
		AcolinearityFWHMDeg:  e.AcolinearityFWHMDeg,
		PositronEmissionProb: e.EmissionProb,
		GammaDecayEnergyMeV:  e.GammaDecayEnergyMeV,
	}
	switch strings.ToLower(e.RangeModel) {
	case "none", "":
		p.Range = physics.NoRange{}
	case "doubleexp":
		if len(e.RangeParams) < 4 {
			return p, fmt.Errorf("sources: isotope %s: doubleexp range needs 4 params", e.Name)
		}
		p.Range = physics.DoubleExpRange{C: e.RangeParams[0], K1: e.RangeParams[1], K2: e.RangeParams[2], MaxCm: e.RangeParams[3]}
	case "gaussian":
		if len(e.RangeParams) < 2 {
			return p, fmt.Errorf("sources: isotope %s: gaussian range needs 2 params", e.Name)
		}
		p.Range = physics.NewGaussianRangeFromFWHM(e.RangeParams[0], e.RangeParams[1])
	default:
		return p, fmt.Errorf("sources: isotope %s: unknown range model %q", e.Name, e.RangeModel)
	}
	return p, nil
}
