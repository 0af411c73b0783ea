package physics

import (
	"math"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Positron is the most general Isotope variant (spec §3/§4.2): a
// positron emitter with optional positron range, acolinearity, and
// prompt-gamma emission.
type Positron struct {
	Name                  string
	HalfLife              float64 // s
	AcolinearityFWHMDeg    float64
	GammaDecayEnergyMeV   float64 // 0 => no prompt gamma
	PositronEmissionProb  float64 // in [0,1]
	Range                 PositronRange // nil => NoRange
}

func (p Positron) range_() PositronRange {
	if p.Range == nil {
		return NoRange{}
	}
	return p.Range
}

func (p Positron) HalfLifeS() float64 { return p.HalfLife }

func (p Positron) FractionRemaining(t float64) float64 {
	return fractionRemaining(p.HalfLife, t)
}

func (p Positron) FractionIntegral(t0, dt float64) float64 {
	return fractionIntegral(p.HalfLife, t0, dt)
}

// ExpectedNoPhotons is 2 (back-to-back annihilation photons) times
// the emission probability, plus 1 if a prompt gamma is configured.
func (p Positron) ExpectedNoPhotons() float64 {
	n := 2 * p.PositronEmissionProb
	if p.GammaDecayEnergyMeV > 0 {
		n++
	}
	return n
}

// Decay implements spec §4.2's Positron.decay steps: sample the
// annihilation position via positron range, with probability
// PositronEmissionProb emit back-to-back 511 keV photons (one
// deviated by an acolinearity angle), and if configured emit an
// independent prompt gamma.
func (p Positron) Decay(decayNumber int64, t float64, srcID int32, pos vecmath.Vector3, g *random.Generator) *NuclearDecay {
	dx, dy, dz := SamplePositronRangeOffset(p.range_(), g)
	annihilationPos := vecmath.Add(pos, vecmath.New(dx, dy, dz))

	d := NewNuclearDecay(decayNumber, t, srcID, annihilationPos)

	if g.Float64() < p.PositronEmissionProb {
		ux, uy, uz := g.UnitSphereDirection()
		dir := vecmath.New(ux, uy, uz)

		acolinearitySigmaRad := p.AcolinearityFWHMDeg * math.Pi / (180 * fwhmToSigma)
		deviated := deviateDirection(dir, acolinearitySigmaRad, g)

		d.AddPhoton(Photon{
			Pos: annihilationPos, Dir: dir, Energy: electronRestMassMeV,
			Time: t, ID: int32(decayNumber), Color: ColorBlue, DetID: -1, SrcID: srcID,
		})
		d.AddPhoton(Photon{
			Pos: annihilationPos, Dir: vecmath.Scale(-1, deviated), Energy: electronRestMassMeV,
			Time: t, ID: int32(decayNumber), Color: ColorRed, DetID: -1, SrcID: srcID,
		})
	}

	if p.GammaDecayEnergyMeV > 0 {
		ux, uy, uz := g.UnitSphereDirection()
		d.AddPhoton(Photon{
			Pos: annihilationPos, Dir: vecmath.New(ux, uy, uz), Energy: p.GammaDecayEnergyMeV,
			Time: t, ID: int32(decayNumber), Color: ColorYellow, DetID: -1, SrcID: srcID,
		})
	}

	return d
}

// deviateDirection perturbs dir by a Gaussian polar angle of the given
// stdev (radians) and a uniform azimuth, used for acolinearity (spec
// §4.2).
func deviateDirection(dir vecmath.Vector3, sigmaRad float64, g *random.Generator) vecmath.Vector3 {
	if sigmaRad <= 0 {
		return dir
	}
	theta := g.Normal(0, sigmaRad)
	phi := g.Uniform(0, 2*math.Pi)

	// Build an orthonormal basis around dir and rotate by theta in a
	// random azimuthal plane.
	ref := vecmath.New(0, 0, 1)
	if math.Abs(vecmath.Dot(ref, dir)) > 0.999 {
		ref = vecmath.New(1, 0, 0)
	}
	u := vecmath.Unit(vecmath.Cross(ref, dir))
	v := vecmath.Cross(dir, u)

	cosT, sinT := math.Cos(theta), math.Sin(theta)
	inPlane := vecmath.Add(vecmath.Scale(math.Cos(phi), u), vecmath.Scale(math.Sin(phi), v))
	return vecmath.Add(vecmath.Scale(cosT, dir), vecmath.Scale(sinT, inPlane))
}
