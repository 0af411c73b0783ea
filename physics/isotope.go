package physics

import (
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Isotope is the shared contract for the decay-curve variants (spec
// §3: "Isotope (variant)"). Tagged-variant dispatch replaces the
// original's class hierarchy (spec §9 design note), keeping each
// shape's data packed and avoiding virtual dispatch on the hot path.
type Isotope interface {
	// Decay produces the photons for one decay event at pos/time.
	Decay(decayNumber int64, t float64, srcID int32, pos vecmath.Vector3, g *random.Generator) *NuclearDecay
	// ExpectedNoPhotons is the mean photon yield per decay, used by
	// the time-split bisection (spec §4.1).
	ExpectedNoPhotons() float64
	// HalfLifeS is the isotope's half life in seconds (+Inf for
	// BackBack/Beam, which never decay away).
	HalfLifeS() float64
	// FractionRemaining is the surviving activity fraction at time t
	// after the source's start time.
	FractionRemaining(t float64) float64
	// FractionIntegral is the integral of FractionRemaining over
	// [t0, t0+dt], used by both the decaying-Poisson inter-arrival
	// sampler and the time-split bisection.
	FractionIntegral(t0, dt float64) float64
}
