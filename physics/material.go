package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// AttenLengths holds the three attenuation channels looked up at a
// given energy (spec §3/§4.4).
type AttenLengths struct {
	Photoelectric float64
	Compton       float64
	Rayleigh      float64
}

// Total returns the combined attenuation coefficient, used to sample
// the interaction distance (spec §4.3 step 1).
func (a AttenLengths) Total() float64 {
	return a.Photoelectric + a.Compton + a.Rayleigh
}

// GammaStats holds the energy-indexed attenuation tables for one
// material and the precomputed scatter-angle CDFs built from them
// (spec §3, §4.4). Log-log interpolation is delegated to gonum's
// interp.PiecewiseLinear fit over (log E, log mu) pairs, rather than
// a hand-rolled binary search + lerp, because that's exactly the
// off-the-shelf numerical-interpolation role the example pack's
// numerics library (gonum) exists to fill.
type GammaStats struct {
	Energy        []float64 // MeV, monotonically increasing
	Photoelectric []float64
	Compton       []float64
	Rayleigh      []float64
	RayleighOn    bool

	// FormFactor/ScatteringFunc are indexed by momentum-transfer x,
	// shared across the whole material, used for Rayleigh/Compton
	// angular sampling.
	X               []float64
	FormFactor      []float64
	ScatteringFunc  []float64

	logPhoto   interp.PiecewiseLinear
	logCompton interp.PiecewiseLinear
	logRayl    interp.PiecewiseLinear
	logE       []float64

	comptonCDF *scatterCDF
	rayleighCDF *scatterCDF
}

// NewGammaStats validates and precomputes the interpolators and
// scatter CDFs for a material's tabulated cross sections. Spec §3
// invariant: vectors all the same length >= 2; monotonic energy; all
// cross sections >= 0.
func NewGammaStats(energy, photo, compton, rayleigh, x, formFactor, scatteringFunc []float64, rayleighOn bool) (*GammaStats, error) {
	n := len(energy)
	if n < 2 {
		return nil, fmt.Errorf("gammastats: need at least 2 energy points, got %d", n)
	}
	if len(photo) != n || len(compton) != n || len(rayleigh) != n {
		return nil, fmt.Errorf("gammastats: channel vectors must all have length %d", n)
	}
	for i := 1; i < n; i++ {
		if energy[i] <= energy[i-1] {
			return nil, fmt.Errorf("gammastats: energy grid must be strictly increasing at index %d", i)
		}
	}
	for i := 0; i < n; i++ {
		if photo[i] < 0 || compton[i] < 0 || rayleigh[i] < 0 {
			return nil, fmt.Errorf("gammastats: cross sections must be >= 0 at index %d", i)
		}
	}

	g := &GammaStats{
		Energy: energy, Photoelectric: photo, Compton: compton, Rayleigh: rayleigh,
		RayleighOn: rayleighOn, X: x, FormFactor: formFactor, ScatteringFunc: scatteringFunc,
	}

	g.logE = make([]float64, n)
	logPhoto := make([]float64, n)
	logCompton := make([]float64, n)
	logRayl := make([]float64, n)
	for i := 0; i < n; i++ {
		g.logE[i] = math.Log(energy[i])
		logPhoto[i] = safeLog(photo[i])
		logCompton[i] = safeLog(compton[i])
		logRayl[i] = safeLog(rayleigh[i])
	}
	if err := g.logPhoto.Fit(g.logE, logPhoto); err != nil {
		return nil, fmt.Errorf("gammastats: fitting photoelectric channel: %w", err)
	}
	if err := g.logCompton.Fit(g.logE, logCompton); err != nil {
		return nil, fmt.Errorf("gammastats: fitting compton channel: %w", err)
	}
	if err := g.logRayl.Fit(g.logE, logRayl); err != nil {
		return nil, fmt.Errorf("gammastats: fitting rayleigh channel: %w", err)
	}

	g.comptonCDF = buildComptonCDF(energy, x, scatteringFunc)
	if rayleighOn {
		g.rayleighCDF = buildRayleighCDF(energy, x, formFactor)
	}
	return g, nil
}

func safeLog(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return math.Log(v)
}

// GetAttenLengths returns the interpolated attenuation channels at E,
// saturating to the boundary value outside the tabulated range
// (CSLEVIN-style behavior, spec §4.4).
func (g *GammaStats) GetAttenLengths(e float64) AttenLengths {
	logE := math.Log(e)
	lo, hi := g.logE[0], g.logE[len(g.logE)-1]
	clamped := logE
	if clamped < lo {
		clamped = lo
	} else if clamped > hi {
		clamped = hi
	}

	result := AttenLengths{
		Photoelectric: expOrZero(g.logPhoto.Predict(clamped)),
		Compton:       expOrZero(g.logCompton.Predict(clamped)),
	}
	if g.RayleighOn {
		result.Rayleigh = expOrZero(g.logRayl.Predict(clamped))
	}
	return result
}

func expOrZero(logV float64) float64 {
	if math.IsInf(logV, -1) {
		return 0
	}
	return math.Exp(logV)
}

// Material carries optical properties (unused by the physics core,
// spec §3) plus the GammaStats attenuation tables. It is the unit
// tracked by MaterialStack during transport.
type Material struct {
	ID       int32
	Name     string
	Density  float64
	Stats    *GammaStats
	IsDetector bool

	// X-ray fluorescence table for the photoelectric channel.
	XrayEscapeEnergies []float64
	XrayProbabilities  []float64
	AugerProbabilities []float64
}

// SampleFluorescence draws a fluorescence outcome for a photoelectric
// absorption event (spec §4.3 step 4, Photoelectric branch): with
// probability (1 - sum(xray probs)) the photon deposits everything and
// stops; otherwise it emits the escape energy at index i and
// continues with energy reduced by that amount.
func (m *Material) SampleFluorescence(u float64) (escapeIdx int, escapes bool) {
	cum := 0.0
	for i, p := range m.XrayProbabilities {
		cum += p
		if u < cum {
			return i, true
		}
	}
	return -1, false
}
