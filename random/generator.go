package random

import (
	"math"
	mrand "math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Generator is the per-rank random source threaded explicitly through
// the scheduler, transport, and DAQ pipeline (spec §9: "Global RNG
// becomes a per-rank owned RNG passed explicitly"). It wraps the
// MT19937 core in a *math/rand.Rand so the stdlib uniform helpers and
// gonum's distuv samplers can both draw from the same stream.
type Generator struct {
	core *MT19937
	rand *mrand.Rand
}

// New creates a per-rank generator seeded directly.
func New(seed int64) *Generator {
	core := &MT19937{}
	core.Seed(seed)
	return &Generator{core: core, rand: mrand.New(core)}
}

// NewDefault creates a generator seeded the way std::mt19937's default
// constructor is, matching the scenario-seed test in spec §8.
func NewDefault() *Generator {
	core := NewMT19937()
	return &Generator{core: core, rand: mrand.New(core)}
}

// Reseed reinitializes the stream from a new seed without allocating.
func (g *Generator) Reseed(seed int64) {
	g.core.Seed(seed)
}

// ForRank decorrelates a base seed per MPI-style rank by discarding a
// rank-dependent number of draws after reseeding, per spec §5's
// "mt19937 discard-then-reseed to decorrelate ranks".
func ForRank(baseSeed int64, rank, numRanks int) *Generator {
	g := New(baseSeed)
	// Discard a block of draws proportional to rank so that adjacent
	// ranks' streams don't share a short common prefix.
	const drawsPerRank = 1 << 20
	g.core.Discard(uint64(rank) * drawsPerRank)
	_ = numRanks
	return g
}

// Int returns the next raw 32-bit draw as a signed int32 (see
// MT19937.Int).
func (g *Generator) Int() int32 {
	return g.core.Int()
}

// Float64 returns a uniform draw in [0, 1).
func (g *Generator) Float64() float64 {
	return g.rand.Float64()
}

// Uniform returns a uniform draw in [lo, hi).
func (g *Generator) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rand.Float64()
}

// Exponential draws from Exp(rate) using gonum's distuv sampler, the
// inter-arrival and interaction-length distribution used throughout
// the scheduler (spec §4.1) and transport (spec §4.3).
func (g *Generator) Exponential(rate float64) float64 {
	d := distuv.Exponential{Rate: rate, Src: g.rand}
	return d.Rand()
}

// Normal draws from N(mu, sigma) using gonum's distuv sampler, used by
// the DAQ blur stages (spec §4.6) and positron/acolinearity sampling
// (spec §4.2).
func (g *Generator) Normal(mu, sigma float64) float64 {
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: g.rand}
	return d.Rand()
}

// UnitSphereDirection samples a uniform direction on the unit sphere
// via the standard two-uniform parameterization.
func (g *Generator) UnitSphereDirection() (x, y, z float64) {
	cosTheta := 2*g.rand.Float64() - 1
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * g.rand.Float64()
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta
}
