package physics

import (
	"math"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// BackBack is the degenerate Positron variant (spec §8.3): no
// positron range, zero acolinearity, certain emission, and an
// infinite half life. It is kept distinct from Positron rather than
// expressed as a zero-valued Positron so that scenario tests can pin
// its exact output without depending on Positron's rejection-sampling
// paths.
type BackBack struct {
	EnergyMeV float64 // defaults to 0.510998903 if zero
}

func (b BackBack) energy() float64 {
	if b.EnergyMeV == 0 {
		return electronRestMassMeV
	}
	return b.EnergyMeV
}

func (b BackBack) HalfLifeS() float64                   { return math.Inf(1) }
func (b BackBack) FractionRemaining(float64) float64     { return 1 }
func (b BackBack) FractionIntegral(_, dt float64) float64 { return dt }
func (b BackBack) ExpectedNoPhotons() float64             { return 2 }

// Decay emits exactly two photons of equal energy in exactly opposite
// directions from pos at time t, with no range and no acolinearity.
func (b BackBack) Decay(decayNumber int64, t float64, srcID int32, pos vecmath.Vector3, g *random.Generator) *NuclearDecay {
	ux, uy, uz := g.UnitSphereDirection()
	dir := vecmath.New(ux, uy, uz)

	d := NewNuclearDecay(decayNumber, t, srcID, pos)
	d.AddPhoton(Photon{
		Pos: pos, Dir: dir, Energy: b.energy(), Time: t,
		ID: int32(decayNumber), Color: ColorBlue, DetID: -1, SrcID: srcID,
	})
	d.AddPhoton(Photon{
		Pos: pos, Dir: vecmath.Scale(-1, dir), Energy: b.energy(), Time: t,
		ID: int32(decayNumber), Color: ColorRed, DetID: -1, SrcID: srcID,
	})
	return d
}
