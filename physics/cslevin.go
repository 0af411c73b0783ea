package physics

// cslevinEnergiesKeV and cslevinValues hold the tabulated Levin
// continuous-slowing-down correction factors carried over from
// original_source/ (cslevin_interpolate.c). The original hard-codes
// this table as a standalone auxiliary lookup outside the main
// material/cross-section pipeline (SPEC_FULL.md Part D notes it stays
// auxiliary rather than folding into GammaStats, since nothing in the
// transport loop consumes it directly); it is kept here for callers
// that still need the original's correction curve.
var cslevinEnergiesKeV = []float64{
	1.0, 5.0, 9.0, 15.0, 25.0, 50.0, 100.0, 200.0, 400.0, 600.0, 1000.0,
}

var cslevinValues = []float64{
	7.219, 6.932, 6.731, 6.679, 6.580, 6.102, 5.431, 4.872, 4.431, 4.194, 3.820,
}

// cslevinInterpolate performs linear interpolation (with flat
// extrapolation at the ends) over the Levin table, matching the
// original's cslevin_interpolate function. Energy is in keV.
func cslevinInterpolate(energyKeV float64) float64 {
	return lookupTable(cslevinEnergiesKeV, cslevinValues, energyKeV)
}
