package physics

import (
	"math"

	"github.com/dfreese/gray/random"
)

// PositronRange samples the radial displacement (cm) between a
// positron's birth and annihilation sites (spec §3/§4.2).
type PositronRange interface {
	SampleRadiusCm(g *random.Generator) float64
}

// NoRange is used by BackBack and by Positron isotopes with no
// configured range model.
type NoRange struct{}

func (NoRange) SampleRadiusCm(*random.Generator) float64 { return 0 }

// DoubleExpRange is the Levin double-exponential range model (spec
// §4.2): radial draw from a two-exponential mixture truncated to
// r_max, with the polar angle uniform on the sphere.
type DoubleExpRange struct {
	C, K1, K2 float64
	MaxCm     float64
}

func (r DoubleExpRange) SampleRadiusCm(g *random.Generator) float64 {
	for {
		var radius float64
		if g.Float64() < r.C {
			radius = g.Exponential(r.K1)
		} else {
			radius = g.Exponential(r.K2)
		}
		if radius <= r.MaxCm {
			return radius
		}
		// Rejected: resample (truncated distribution).
	}
}

// GaussianRange is the isotropic Gaussian range model (spec §4.2):
// sigma = fwhm / 2.35482005, truncated at MaxCm.
type GaussianRange struct {
	SigmaCm float64
	MaxCm   float64
}

const fwhmToSigma = 2.35482005

func NewGaussianRangeFromFWHM(fwhmCm, maxCm float64) GaussianRange {
	return GaussianRange{SigmaCm: fwhmCm / fwhmToSigma, MaxCm: maxCm}
}

func (r GaussianRange) SampleRadiusCm(g *random.Generator) float64 {
	for {
		radius := math.Abs(g.Normal(0, r.SigmaCm))
		if radius <= r.MaxCm {
			return radius
		}
	}
}

// SamplePositronRangeOffset combines a radial draw from rng with a
// uniform direction on the sphere, returning the displacement vector
// added to the decay position to get the annihilation site.
func SamplePositronRangeOffset(r PositronRange, g *random.Generator) (dx, dy, dz float64) {
	radius := r.SampleRadiusCm(g)
	ux, uy, uz := g.UnitSphereDirection()
	return radius * ux, radius * uy, radius * uz
}
