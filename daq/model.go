package daq

import "github.com/dfreese/gray/physics"

// DaqModel is an ordered list of Process stages (spec §3 "DaqModel",
// §4.6). Each stage owns its own unbounded pending queue; Tick sweeps every stage once, draining each stage's
// committed prefix into the next stage's queue.
type DaqModel struct {
	stages []Process
	queues [][]physics.Interaction // len(stages)+1; queues[0] is the input queue
	stats  []*Stats
	drained int // how much of queues[len(stages)] has already been returned to the caller
}

// NewDaqModel builds a pipeline over stages, applied in order.
func NewDaqModel(stages []Process) *DaqModel {
	m := &DaqModel{
		stages: stages,
		queues: make([][]physics.Interaction, len(stages)+1),
		stats:  make([]*Stats, len(stages)),
	}
	for i := range m.stats {
		m.stats[i] = &Stats{}
	}
	return m
}

// Append adds newly traced Interaction records to the pipeline's
// input queue.
func (m *DaqModel) Append(events ...physics.Interaction) {
	m.queues[0] = append(m.queues[0], events...)
}

// Stats returns the accumulated per-stage counters, keyed by stage
// name, for telemetry reporting.
func (m *DaqModel) Stats() map[string]Stats {
	out := make(map[string]Stats, len(m.stages))
	for i, s := range m.stages {
		out[s.Name()] = *m.stats[i]
	}
	return out
}

// Tick sweeps every stage once in order, draining each stage's
// committed prefix into the next stage's queue, and returns the
// events newly committed all the way through the terminal stage
// since the last Tick/Stop call (spec §4.6's driver loop).
func (m *DaqModel) Tick() []physics.Interaction {
	m.sweep(false)
	return m.drainOutput()
}

// Stop finalizes every stage in order (spec §4.6: "stop is called
// once at end-of-stream and finalizes every remaining event"),
// draining the pipeline completely, and returns any remaining output.
func (m *DaqModel) Stop() []physics.Interaction {
	for i, stage := range m.stages {
		stage.Stop(m.queues[i], 0, len(m.queues[i]), m.stats[i])
		m.queues[i+1] = append(m.queues[i+1], m.queues[i]...)
		m.queues[i] = nil
	}
	return m.drainOutput()
}

func (m *DaqModel) sweep(final bool) {
	for i, stage := range m.stages {
		q := m.queues[i]
		committed := stage.Process(q, 0, len(q), m.stats[i])
		if committed < 0 {
			committed = 0
		}
		if committed > len(q) {
			committed = len(q)
		}
		m.queues[i+1] = append(m.queues[i+1], q[:committed]...)
		m.queues[i] = append(q[:0:0], q[committed:]...)
	}
}

func (m *DaqModel) drainOutput() []physics.Interaction {
	last := len(m.stages)
	out := m.queues[last][m.drained:]
	m.drained = len(m.queues[last])
	if len(out) == 0 {
		return nil
	}
	cp := make([]physics.Interaction, len(out))
	copy(cp, out)
	return cp
}
