package daq

import (
	"sort"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/vecmath"
)

// MergeFn selects how colliding hits on the same detector component
// within a merge window are combined (spec §4.6 "Merge").
type MergeFn int

const (
	// MergeFirst keeps the earliest hit in the window and folds the
	// energy of every later hit into it.
	MergeFirst MergeFn = iota
	// MergeMax keeps the highest-energy hit in the window and folds
	// every other hit's energy into it.
	MergeMax
	// MergeAnger replaces the kept hit's position with the
	// energy-weighted centroid of every hit folded into it.
	MergeAnger
)

// Merge folds multiple hits on the same detector component arriving
// within WindowSeconds of each other into a single record, marking
// every other hit in the window Dropped (spec §4.6 "Merge"). Folded
// events stay in the buffer (bookkeeping via MergeInto) rather than
// being physically removed, matching every other stage's in-place
// contract; output encoding skips Dropped records.
//
// IDLookup maps a detector ID to its merge component; detectors
// absent from it merge independently by DetID.
//
// Commit horizon: an event can only be safely committed once no
// future arrival could still fall inside its merge window, i.e. once
// the newest event seen in this call is more than WindowSeconds past
// it.
type Merge struct {
	IDLookup      map[int32]int32
	WindowSeconds float64
	Fn            MergeFn
}

func (m Merge) Name() string { return "merge" }

func (m Merge) component(detID int32) int32 {
	if m.IDLookup != nil {
		if c, ok := m.IDLookup[detID]; ok {
			return c
		}
	}
	return detID
}

func (m Merge) runMerge(events []physics.Interaction, begin, end int, stats *Stats) {
	active := map[int32]int{} // component -> index of the open head event
	for i := begin; i < end; i++ {
		if events[i].Dropped {
			continue
		}
		comp := m.component(events[i].DetID)
		if headIdx, ok := active[comp]; ok {
			if events[i].Time-events[headIdx].Time <= m.WindowSeconds {
				m.fold(&events[headIdx], &events[i], comp)
				stats.Merged++
				continue
			}
		}
		active[comp] = i
		stats.Kept++
	}
}

// fold combines e into head. The merged record's energy is always the
// sum of every hit folded into the window; the three MergeFn variants
// differ only in which hit's identity (position, detector, source)
// the surviving record keeps.
func (m Merge) fold(head, e *physics.Interaction, comp int32) {
	key := physics.MergeKey{DetID: comp, SourceID: e.SrcID}
	prevEnergy, prevTime := head.Energy, head.Time
	total := prevEnergy + e.Energy

	switch m.Fn {
	case MergeMax:
		if e.Energy > prevEnergy {
			hits := head.MergedHits
			*head = *e
			head.MergedHits = hits
		}
	case MergeAnger:
		if total > 0 {
			head.Pos = vecCentroid(head.Pos, prevEnergy, e.Pos, e.Energy, total)
		}
	}
	head.Energy = total
	head.MergeInto(key, e.Energy, e.Time)
	if m.Fn == MergeMax && e.Energy > prevEnergy {
		// the swapped-in identity absorbed e's own contribution already
		// recorded above under e's own time; record the displaced head
		// separately so MergedHits reflects both sources.
		head.MergeInto(key, prevEnergy, prevTime)
	}
	e.Dropped = true
}

func vecCentroid(a vecmath.Vector3, wa float64, b vecmath.Vector3, wb float64, total float64) vecmath.Vector3 {
	return vecmath.Add(vecmath.Scale(wa/total, a), vecmath.Scale(wb/total, b))
}

// Process folds [begin,end) in place and returns a horizon index that
// only releases events more than WindowSeconds behind the newest event
// seen, leaving the tail open for further folding.
func (m Merge) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	if end <= begin {
		return begin
	}
	m.runMerge(events, begin, end, stats)

	lastTime := events[end-1].Time
	n := end - begin
	cut := sort.Search(n, func(i int) bool {
		return lastTime-events[begin+i].Time <= m.WindowSeconds
	})
	return begin + cut
}

func (m Merge) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	if end <= begin {
		return
	}
	m.runMerge(events, begin, end, stats)
}
