package physics

// Preset isotope definitions (SPEC_FULL.md Part D), built from the
// Levin double-exponential range parameters carried in
// original_source/ for each nuclide. Callers can use these directly
// or as a starting point for a scenario-specific override.

// F18 is fluorine-18, the most common PET isotope (low positron range).
func F18() Positron {
	return Positron{
		Name:                 "F18",
		HalfLife:             6584.04,
		AcolinearityFWHMDeg:  0.5,
		PositronEmissionProb: 0.9686,
		Range: DoubleExpRange{
			C: 0.519, K1: 27.9, K2: 2.91, MaxCm: 0.3,
		},
	}
}

// O15 is oxygen-15: shorter half life, much longer positron range.
func O15() Positron {
	return Positron{
		Name:                 "O15",
		HalfLife:             122.24,
		AcolinearityFWHMDeg:  0.5,
		PositronEmissionProb: 0.9990,
		Range: DoubleExpRange{
			C: 0.723, K1: 9.29, K2: 1.18, MaxCm: 1.2,
		},
	}
}

// IN110 is indium-110, a positron emitter with a prompt gamma cascade
// (dropped by the original distillation but present in
// original_source/; SPEC_FULL.md Part D).
func IN110() Positron {
	return Positron{
		Name:                 "IN110",
		HalfLife:             4020.0,
		AcolinearityFWHMDeg:  0.5,
		GammaDecayEnergyMeV:  0.657,
		PositronEmissionProb: 0.61,
		Range: DoubleExpRange{
			C: 0.40, K1: 12.0, K2: 1.5, MaxCm: 0.6,
		},
	}
}

// ZR89 is zirconium-89, a long half-life research isotope with a
// prominent prompt gamma (SPEC_FULL.md Part D).
func ZR89() Positron {
	return Positron{
		Name:                 "ZR89",
		HalfLife:             282289.0,
		AcolinearityFWHMDeg:  0.5,
		GammaDecayEnergyMeV:  0.9091,
		PositronEmissionProb: 0.2287,
		Range: DoubleExpRange{
			C: 0.40, K1: 10.0, K2: 1.2, MaxCm: 0.8,
		},
	}
}

// Presets returns the builtin isotope table keyed by name. The scene
// description loader resolves these names through its own switch over
// F18/O15/IN110/ZR89 and does not call Presets.
func Presets() map[string]Positron {
	return map[string]Positron{
		"F18":   F18(),
		"O15":   O15(),
		"IN110": IN110(),
		"ZR89":  ZR89(),
	}
}
