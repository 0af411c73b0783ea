package physics

import "github.com/dfreese/gray/vecmath"

// NuclearDecay bundles the photons produced by one decay event (spec
// §3). It is immutable once produced and iterated newest-to-oldest,
// matching the original's push/pop-from-back semantics.
type NuclearDecay struct {
	DecayNumber int64
	Time        float64
	SrcID       int32
	Position    vecmath.Vector3
	photons     []Photon

	// interactions accumulates the deposit records this decay's
	// photons produce during transport, mirroring the original's
	// InteractionList/Deposit bookkeeping (SPEC_FULL.md Part D).
	interactions []Interaction
}

// NewNuclearDecay creates an empty decay bundle ready to receive
// photons via AddPhoton.
func NewNuclearDecay(decayNumber int64, t float64, srcID int32, pos vecmath.Vector3) *NuclearDecay {
	return &NuclearDecay{DecayNumber: decayNumber, Time: t, SrcID: srcID, Position: pos}
}

// AddPhoton appends a photon to the decay's photon list.
func (d *NuclearDecay) AddPhoton(p Photon) {
	d.photons = append(d.photons, p)
}

// PopPhoton removes and returns the most recently added photon,
// matching spec §3's "photons: sequence of Photon (popped in
// reverse)".
func (d *NuclearDecay) PopPhoton() (Photon, bool) {
	if len(d.photons) == 0 {
		return Photon{}, false
	}
	last := len(d.photons) - 1
	p := d.photons[last]
	d.photons = d.photons[:last]
	return p, true
}

// NumPhotons reports how many photons remain to be popped.
func (d *NuclearDecay) NumPhotons() int {
	return len(d.photons)
}

// RecordInteraction appends a deposit produced by one of this decay's
// photons to the per-decay accumulator (SPEC_FULL.md Part D).
func (d *NuclearDecay) RecordInteraction(i Interaction) {
	d.interactions = append(d.interactions, i)
}

// Interactions returns the deposits recorded so far for this decay.
func (d *NuclearDecay) Interactions() []Interaction {
	return d.interactions
}

// TotalDeposit sums the energy deposited by this decay's interactions,
// skipping dropped events and error sentinels.
func (d *NuclearDecay) TotalDeposit() float64 {
	total := 0.0
	for _, i := range d.interactions {
		if i.Dropped || i.Type < 0 {
			continue
		}
		total += i.Energy
	}
	return total
}
