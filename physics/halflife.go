package physics

import "math"

const ln2 = 0.6931471805599453

// decayLambda converts a half-life in seconds to the exponential
// decay-rate constant. A non-positive or infinite half-life is
// treated as "never decays" (BackBack, Beam).
func decayLambda(halfLifeS float64) float64 {
	if math.IsInf(halfLifeS, 1) || halfLifeS <= 0 {
		return 0
	}
	return ln2 / halfLifeS
}

// fractionRemaining is exp(-lambda*t) for t >= 0 measured from the
// source's start time (spec §4.1).
func fractionRemaining(halfLifeS, t float64) float64 {
	lambda := decayLambda(halfLifeS)
	if lambda == 0 {
		return 1
	}
	return math.Exp(-lambda * t)
}

// fractionIntegral integrates fractionRemaining over [t0, t0+dt],
// used both by the decaying-Poisson inter-arrival sampler and the
// equal-expected-photon time split (spec §4.1).
func fractionIntegral(halfLifeS, t0, dt float64) float64 {
	lambda := decayLambda(halfLifeS)
	if lambda == 0 {
		return dt
	}
	return (math.Exp(-lambda*t0) - math.Exp(-lambda*(t0+dt))) / lambda
}
