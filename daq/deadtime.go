package daq

import "github.com/dfreese/gray/physics"

// Deadtime drops events arriving within TauSeconds of the last kept
// event on the same detector component (spec §4.6 "Deadtime", §8.6
// scenario). IDLookup maps a detector ID to the shared dead-time
// component it belongs to (e.g. a block or channel); events whose
// detector is absent from IDLookup are treated as their own component
// keyed by DetID.
//
// Non-paralyzable: the dead window starts at the last *kept* event and
// does not move while subsequent events are dropped.
// Paralyzable: every incoming event, kept or dropped, restarts the
// window from its own time.
//
// The stage withholds the very last event of each Process call from
// commitment, since a later-arriving event in the same tick's
// remainder could still extend its component's dead window.
type Deadtime struct {
	IDLookup     map[int32]int32
	TauSeconds   float64
	Paralyzable  bool

	live map[int32]float64
}

func (d *Deadtime) Name() string { return "deadtime" }

func (d *Deadtime) component(detID int32) int32 {
	if d.IDLookup != nil {
		if c, ok := d.IDLookup[detID]; ok {
			return c
		}
	}
	return detID
}

func (d *Deadtime) Process(events []physics.Interaction, begin, end int, stats *Stats) int {
	if d.live == nil {
		d.live = make(map[int32]float64)
	}
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		comp := d.component(e.DetID)
		last, ok := d.live[comp]
		if ok && e.Time < last+d.TauSeconds {
			e.Dropped = true
			stats.Dropped++
			if d.Paralyzable {
				d.live[comp] = e.Time
			}
			continue
		}
		d.live[comp] = e.Time
		stats.Kept++
	}
	if end > begin {
		return end - 1
	}
	return begin
}

func (d *Deadtime) Stop(events []physics.Interaction, begin, end int, stats *Stats) {
	if d.live == nil {
		d.live = make(map[int32]float64)
	}
	for i := begin; i < end; i++ {
		e := &events[i]
		if e.Dropped {
			continue
		}
		comp := d.component(e.DetID)
		last, ok := d.live[comp]
		if ok && e.Time < last+d.TauSeconds {
			e.Dropped = true
			stats.Dropped++
			if d.Paralyzable {
				d.live[comp] = e.Time
			}
			continue
		}
		d.live[comp] = e.Time
		stats.Kept++
	}
}
