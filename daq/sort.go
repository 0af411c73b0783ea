package daq

import "github.com/dfreese/gray/physics"

// Sort restores time order over a bounded lookback (spec §4.6
// "Sort"): upstream blur/merge stages can jitter timestamps out of
// order by at most MaxWaitSeconds, so an insertion sort over the
// pending window is enough to fully re-order the stream.
//
// Commit horizon: only events at least MaxWaitSeconds behind the
// newest event seen are guaranteed to never be passed by a
// still-unprocessed later arrival, so only that prefix is released.
type Sort struct {
	MaxWaitSeconds float64
}

func (Sort) Name() string { return "sort" }

func (s Sort) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	insertionSort(events, begin, end)
	for i := begin; i < end; i++ {
		if !events[i].Dropped {
			stats.Kept++
		}
	}
	if end <= begin {
		return begin
	}
	last := events[end-1].Time
	cut := begin
	for cut < end && last-events[cut].Time >= s.MaxWaitSeconds {
		cut++
	}
	return cut
}

func (s Sort) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	insertionSort(events, begin, end)
	for i := begin; i < end; i++ {
		if !events[i].Dropped {
			stats.Kept++
		}
	}
}

func insertionSort(events []physics.Interaction, begin, end int) {
	for i := begin + 1; i < end; i++ {
		v := events[i]
		j := i - 1
		for j >= begin && events[j].Time > v.Time {
			events[j+1] = events[j]
			j--
		}
		events[j+1] = v
	}
}
