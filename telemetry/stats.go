package telemetry

import (
	"log/slog"
	"sort"
)

// RunStats holds aggregated run statistics for one reporting window
// (SPEC_FULL.md Part C: ambient run statistics mirroring the
// teacher's WindowStats, but over decays/photons/interactions rather
// than organism populations).
type RunStats struct {
	WindowEndS int32   `csv:"-"`
	SimTimeSec float64 `csv:"sim_time"`

	DecaysScheduled int64 `csv:"decays_scheduled"`
	PhotonsEmitted  int64 `csv:"photons_emitted"`
	RejectExceeded  int64 `csv:"reject_exceeded"`

	InteractionsCompton       int64 `csv:"interactions_compton"`
	InteractionsPhotoelectric int64 `csv:"interactions_photoelectric"`
	InteractionsRayleigh      int64 `csv:"interactions_rayleigh"`
	ErrorsEmpty               int64 `csv:"errors_empty"`
	ErrorsTraceDepth          int64 `csv:"errors_trace_depth"`
	ErrorsMatch               int64 `csv:"errors_match"`

	DepositMeanMeV float64 `csv:"deposit_mean_mev"`
	DepositP10MeV  float64 `csv:"deposit_p10_mev"`
	DepositP50MeV  float64 `csv:"deposit_p50_mev"`
	DepositP90MeV  float64 `csv:"deposit_p90_mev"`

	DaqKept    int64 `csv:"daq_kept"`
	DaqDropped int64 `csv:"daq_dropped"`
	DaqMerged  int64 `csv:"daq_merged"`

	SinglesWritten      int64 `csv:"singles_written"`
	CoincidencesWritten int64 `csv:"coincidences_written"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from a slice of
// per-interaction energy deposits (spec §3 Interaction.energy), used
// to summarize a window's deposit distribution for telemetry.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndS)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int64("decays", s.DecaysScheduled),
		slog.Int64("photons", s.PhotonsEmitted),
		slog.Int64("reject_exceeded", s.RejectExceeded),
		slog.Int64("compton", s.InteractionsCompton),
		slog.Int64("photoelectric", s.InteractionsPhotoelectric),
		slog.Int64("rayleigh", s.InteractionsRayleigh),
		slog.Int64("errors_empty", s.ErrorsEmpty),
		slog.Int64("errors_trace_depth", s.ErrorsTraceDepth),
		slog.Int64("errors_match", s.ErrorsMatch),
		slog.Float64("deposit_mean_mev", s.DepositMeanMeV),
		slog.Int64("daq_kept", s.DaqKept),
		slog.Int64("daq_dropped", s.DaqDropped),
		slog.Int64("daq_merged", s.DaqMerged),
		slog.Int64("singles_written", s.SinglesWritten),
		slog.Int64("coincidences_written", s.CoincidencesWritten),
	)
}

// LogStats logs the window stats using slog.
func (s RunStats) LogStats() {
	slog.Info("stats", "run_stats", s)
}
