package physics

import (
	"math"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Beam is a two-photon point-like isotope that emits exactly two
// photons along +/- Axis, each independently jittered by an
// acolinearity cone (SPEC_FULL.md Part D: BeamDecay, draws the
// deviation separately per photon rather than sharing one deviation
// between both, which is what the original's BeamDecay actually does).
// It never decays away (infinite half life).
type Beam struct {
	Axis        vecmath.Vector3
	AngleMaxDeg float64
	EnergyMeV   float64
}

func (b Beam) HalfLifeS() float64                        { return math.Inf(1) }
func (b Beam) FractionRemaining(float64) float64          { return 1 }
func (b Beam) FractionIntegral(_, dt float64) float64      { return dt }
func (b Beam) ExpectedNoPhotons() float64                  { return 2 }

func (b Beam) Decay(decayNumber int64, t float64, srcID int32, pos vecmath.Vector3, g *random.Generator) *NuclearDecay {
	axis := vecmath.Unit(b.Axis)
	if axis == (vecmath.Vector3{}) {
		axis = vecmath.New(0, 0, 1)
	}

	sigmaRad := b.AngleMaxDeg * math.Pi / (180 * fwhmToSigma)

	dir1 := deviateDirection(axis, sigmaRad, g)
	dir2 := deviateDirection(vecmath.Scale(-1, axis), sigmaRad, g)

	d := NewNuclearDecay(decayNumber, t, srcID, pos)
	d.AddPhoton(Photon{
		Pos: pos, Dir: dir1, Energy: b.EnergyMeV, Time: t,
		ID: int32(decayNumber), Color: ColorBlue, DetID: -1, SrcID: srcID,
	})
	d.AddPhoton(Photon{
		Pos: pos, Dir: dir2, Energy: b.EnergyMeV, Time: t,
		ID: int32(decayNumber), Color: ColorRed, DetID: -1, SrcID: srcID,
	})
	return d
}
