package daq

import (
	"math"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
)

// gaussFWHMToSigma converts a FWHM fraction to a standard-deviation
// fraction, matching the constant used throughout spec §4.2/§4.6.
const gaussFWHMToSigma = 1.0 / 2.35482005

// BlurEnergy smears each kept event's energy by a Gaussian whose width
// scales with energy (spec §4.6 "Blur energy"): every event is
// independent of its neighbors, so the stage commits its whole input
// range on every tick.
type BlurEnergy struct {
	FWHMFraction float64
	Rng          *random.Generator
}

func (BlurEnergy) Name() string { return "blur_energy" }

func (b BlurEnergy) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		e.Energy *= 1 + b.FWHMFraction*gaussFWHMToSigma*b.Rng.Normal(0, 1)
		stats.Kept++
	}
	return end
}

func (b BlurEnergy) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	b.Process(events, begin, end, stats)
}

// BlurEnergyReferenced is BlurEnergy whose width scales as
// 1/sqrt(E/E_ref), matching detectors whose energy resolution
// improves relative to a reference energy (spec §4.6).
type BlurEnergyReferenced struct {
	FWHMFraction float64
	RefEnergyMeV float64
	Rng          *random.Generator
}

func (BlurEnergyReferenced) Name() string { return "blur_energy_referenced" }

func (b BlurEnergyReferenced) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		scale := b.FWHMFraction
		if e.Energy > 0 {
			scale *= math.Sqrt(b.RefEnergyMeV / e.Energy)
		}
		e.Energy *= 1 + scale*gaussFWHMToSigma*b.Rng.Normal(0, 1)
		stats.Kept++
	}
	return end
}

func (b BlurEnergyReferenced) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	b.Process(events, begin, end, stats)
}

// BlurTime jitters each event's timestamp by a rejection-sampled
// Gaussian truncated to +/- MaxSeconds (spec §4.6 "Blur time").
type BlurTime struct {
	FWHMSeconds float64
	MaxSeconds  float64
	Rng         *random.Generator
}

func (BlurTime) Name() string { return "blur_time" }

func (b BlurTime) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		var dt float64
		for {
			dt = b.FWHMSeconds * gaussFWHMToSigma * b.Rng.Normal(0, 1)
			if math.Abs(dt) <= b.MaxSeconds {
				break
			}
		}
		e.Time += dt
		stats.Kept++
	}
	return end
}

func (b BlurTime) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	b.Process(events, begin, end, stats)
}
