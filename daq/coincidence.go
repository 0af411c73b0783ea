package daq

import "github.com/dfreese/gray/physics"

// MultiplePolicy decides what happens when more than two events fall
// in the same coincidence window (spec §4.6 "Coincidence").
type MultiplePolicy int

const (
	// DropAllMultiples discards every event in a window with more
	// than two members.
	DropAllMultiples MultiplePolicy = iota
	// KeepFirstPair keeps only the earliest two events of the
	// window and drops the rest.
	KeepFirstPair
	// KeepAllPairs keeps every event in the window, tagging them
	// with a single shared CoincID. The Interaction record only
	// carries one CoincID field, so a >2 multiple is represented as
	// one shared group rather than as the full set of pairwise
	// combinations.
	KeepAllPairs
)

// Coincidence is the terminal DAQ stage (spec §4.6 "Coincidence"): it
// groups singles falling within WindowSeconds of each other (after an
// optional OffsetSeconds shift, for a delayed/randoms window) into a
// shared CoincID, applying Multiple to resolve groups bigger than a
// pair.
//
// Commit horizon: event i's window can only be finally resolved once
// the newest event seen is past OffsetSeconds+WindowSeconds beyond it,
// since an as-yet-unseen arrival could still join its group.
type Coincidence struct {
	WindowSeconds float64
	OffsetSeconds float64
	Multiple      MultiplePolicy

	nextCoincID int32
}

func (*Coincidence) Name() string { return "coincidence" }

func (c *Coincidence) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	return c.run(events, begin, end, stats, false)
}

func (c *Coincidence) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	c.run(events, begin, end, stats, true)
}

func (c *Coincidence) run(events []physics.Interaction, begin, end int, stats *Stats, final bool) int {
	span := c.OffsetSeconds + c.WindowSeconds
	cut := begin
	for i := begin; i < end; i++ {
		if events[i].Dropped || events[i].CoincID != -1 {
			cut = i + 1
			continue
		}
		if !final && end > begin && events[end-1].Time-events[i].Time <= span {
			break
		}
		group := []int{i}
		for j := i + 1; j < end; j++ {
			if events[j].Dropped || events[j].CoincID != -1 {
				continue
			}
			dt := events[j].Time - events[i].Time
			if dt > span {
				break
			}
			if dt >= c.OffsetSeconds {
				group = append(group, j)
			}
		}
		c.resolve(events, group, stats)
		cut = i + 1
	}
	return cut
}

func (c *Coincidence) resolve(events []physics.Interaction, group []int, stats *Stats) {
	if len(group) < 2 {
		events[group[0]].Dropped = true
		stats.Dropped++
		return
	}
	if len(group) == 2 {
		c.assign(events, group, stats)
		return
	}
	switch c.Multiple {
	case KeepFirstPair:
		c.assign(events, group[:2], stats)
		for _, k := range group[2:] {
			events[k].Dropped = true
			stats.Dropped++
		}
	case KeepAllPairs:
		c.assign(events, group, stats)
	default: // DropAllMultiples
		for _, k := range group {
			events[k].Dropped = true
			stats.Dropped++
		}
	}
}

func (c *Coincidence) assign(events []physics.Interaction, group []int, stats *Stats) {
	id := c.nextCoincID
	c.nextCoincID++
	for _, k := range group {
		events[k].CoincID = id
		stats.Kept++
	}
}
