package physics

import "github.com/dfreese/gray/vecmath"

// InteractionType enumerates the deposit kinds, including the three
// error sentinels spec §3/§7 require to stay observable in the
// interaction stream rather than raised as out-of-band exceptions.
type InteractionType int32

const (
	InteractionCompton       InteractionType = 0
	InteractionPhotoelectric InteractionType = 1
	InteractionRayleigh      InteractionType = 2
	InteractionNuclearDecay  InteractionType = 3
	InteractionErrorEmpty    InteractionType = -1
	InteractionErrorTraceDepth InteractionType = -2
	InteractionErrorMatch    InteractionType = -3
)

// MergedEventsInfo accumulates the energy and count of events folded
// into a single record by a DAQ merge stage (spec §4.6 "Merge").
type MergedEventsInfo struct {
	Count       int
	TotalEnergy float64
	FirstTime   float64
	LastTime    float64
}

// MergeKey identifies the (detector, source-pair) bucket a set of
// merged hits belongs to.
type MergeKey struct {
	DetID    int32
	SourceID int32
}

// Interaction is the fully-typed deposit record produced by transport
// and consumed by the DAQ pipeline and output encoders (spec §3).
type Interaction struct {
	Type    InteractionType
	DecayID int32
	Time    float64
	Pos     vecmath.Vector3
	Energy  float64
	Color   Color
	SrcID   int32
	MatID   int32
	DetID   int32

	ScatterComptonPhantom   int32
	ScatterComptonDetector  int32
	ScatterRayleighPhantom  int32
	ScatterRayleighDetector int32
	XrayFluorescence        int32

	CoincID int32 // -1 = none

	// Dropped marks a DAQ-stage suppression (spec §7 "DroppedByDaq":
	// retained in the buffer until terminal, then suppressed from
	// outputs). Transport errors use TransportError instead, since
	// they must still be emitted (spec §7: "Emit record, drop photon,
	// continue").
	Dropped bool
	// TransportError marks one of the three transport error sentinels
	// (ErrorEmpty, ErrorTraceDepth, ErrorMatch): tracing of this photon
	// stopped, but the record itself still reaches the hits output and
	// the DAQ pipeline like any other interaction.
	TransportError bool

	MergedHits map[MergeKey]*MergedEventsInfo
}

// FromPhoton copies the scatter bookkeeping and identity fields off a
// photon into a new deposit record at an interaction site.
func FromPhoton(p *Photon, t InteractionType, deposit float64) Interaction {
	return Interaction{
		Type:                    t,
		DecayID:                 p.ID,
		Time:                    p.Time,
		Pos:                     p.Pos,
		Energy:                  deposit,
		Color:                   p.Color,
		SrcID:                   p.SrcID,
		DetID:                   p.DetID,
		ScatterComptonPhantom:   p.ScatterComptonPhantom,
		ScatterComptonDetector:  p.ScatterComptonDetector,
		ScatterRayleighPhantom:  p.ScatterRayleighPhantom,
		ScatterRayleighDetector: p.ScatterRayleighDetector,
		XrayFluorescence:        p.XrayFluorescence,
		CoincID:                 -1,
	}
}

// MergeInto folds energy (and one more hit at time t) into the
// MergedEventsInfo at key, creating the bucket if absent (spec §4.6
// "MergeFirst": keep first, drop later but accumulate energy and
// record merged_hits).
func (i *Interaction) MergeInto(key MergeKey, energy, t float64) {
	if i.MergedHits == nil {
		i.MergedHits = make(map[MergeKey]*MergedEventsInfo)
	}
	info, ok := i.MergedHits[key]
	if !ok {
		info = &MergedEventsInfo{FirstTime: t, LastTime: t}
		i.MergedHits[key] = info
	}
	info.Count++
	info.TotalEnergy += energy
	if t < info.FirstTime {
		info.FirstTime = t
	}
	if t > info.LastTime {
		info.LastTime = t
	}
}
