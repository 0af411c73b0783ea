package daq

import "github.com/dfreese/gray/physics"

// FilterEnergyLow drops events with energy below Threshold (spec §4.6
// "Filter energy low"). Independent per event, so it commits its
// entire input range every tick.
type FilterEnergyLow struct {
	ThresholdMeV float64
}

func (FilterEnergyLow) Name() string { return "filter_energy_low" }

func (f FilterEnergyLow) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		if e.Energy < f.ThresholdMeV {
			e.Dropped = true
			stats.Dropped++
		} else {
			stats.Kept++
		}
	}
	return end
}

func (f FilterEnergyLow) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	f.Process(events, begin, end, stats)
}

// FilterEnergyHigh drops events with energy above Threshold (spec
// §4.6 "Filter energy high").
type FilterEnergyHigh struct {
	ThresholdMeV float64
}

func (FilterEnergyHigh) Name() string { return "filter_energy_high" }

func (f FilterEnergyHigh) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		if e.Energy > f.ThresholdMeV {
			e.Dropped = true
			stats.Dropped++
		} else {
			stats.Kept++
		}
	}
	return end
}

func (f FilterEnergyHigh) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	f.Process(events, begin, end, stats)
}
