// Command gray runs a Monte Carlo PET simulation (spec §6's CLI
// surface): it reads an isotope table, a material table, and a scene
// description, then drives the decay scheduler, photon transport
// engine, and DAQ pipeline to completion, writing hits/singles/
// coincidence streams and run telemetry.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dfreese/gray/config"
	"github.com/dfreese/gray/daq"
	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/scene"
	"github.com/dfreese/gray/simulation"
	"github.com/dfreese/gray/sources"
	"github.com/dfreese/gray/telemetry"
)

// Exit codes per spec §6.
const (
	exitOK      = 0
	exitConfig  = 1
	exitRuntime = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		isoPath     = flag.String("iso", "", "isotope table file")
		matPath     = flag.String("mat", "", "material table file")
		configPath  = flag.String("config", "", "YAML run configuration file")
		hitsPath    = flag.String("hits", "", "pre-DAQ hit stream output path")
		singlesPath = flag.String("singles", "", "post-DAQ singles output path")
		seed        = flag.Int64("seed", 0, "RNG seed override (0 keeps config default)")
		threads     = flag.Int("threads", 0, "rank count override (0 keeps config default)")
		simTimeS    = flag.Float64("time", 0, "simulated run time in seconds (0 keeps config default)")
		outDir      = flag.String("out", "", "directory for run_stats.csv/perf.csv/config.yaml")
	)
	var coincPaths stringList
	flag.Var(&coincPaths, "coinc", "coincidence stream output path (repeatable)")
	flag.Parse()

	sceneFile := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gray:", err)
		return exitConfig
	}
	if *seed != 0 {
		cfg.Run.Seed = *seed
	}
	if *threads != 0 {
		cfg.Run.Threads = *threads
	}
	if *simTimeS != 0 {
		cfg.Run.SimTimeS = *simTimeS
	}
	if *isoPath != "" {
		cfg.Paths.IsotopeTable = *isoPath
	}
	if *matPath != "" {
		cfg.Paths.MaterialFile = *matPath
	}
	if sceneFile != "" {
		cfg.Paths.SceneFile = sceneFile
	}

	isoTable, err := loadIsotopeTable(cfg.Paths.IsotopeTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gray:", err)
		return exitConfig
	}

	materials, err := loadMaterials(cfg.Paths.MaterialFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gray:", err)
		return exitConfig
	}

	desc, err := loadDescription(cfg.Paths.SceneFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gray:", err)
		return exitConfig
	}

	sc := simulation.BuildScene(desc)

	threadCount := cfg.Run.Threads
	if threadCount <= 0 {
		threadCount = 1
	}

	om, err := telemetry.NewOutputManager(*outDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gray:", err)
		return exitConfig
	}
	defer om.Close()

	var defaultMaterial *physics.Material
	if materials.Len() > 0 {
		defaultMaterial, _ = materials.ByName("air")
		if defaultMaterial == nil {
			defaultMaterial = materials.Material(0)
		}
	}

	var hitsClose, singlesClose func() error
	var hitsWriter, singlesWriter func(physics.Interaction) error
	var coincClosers []func() error
	var coincWriters []func(physics.Interaction) error

	if *hitsPath != "" {
		spec := &config.FileSpec{Path: *hitsPath, Format: "binary"}
		hitsWriter, hitsClose, err = simulation.OpenOutputStream(spec, openFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gray:", err)
			return exitConfig
		}
		defer hitsClose()
	}
	if *singlesPath != "" {
		spec := &config.FileSpec{Path: *singlesPath, Format: "binary"}
		singlesWriter, singlesClose, err = simulation.OpenOutputStream(spec, openFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gray:", err)
			return exitConfig
		}
		defer singlesClose()
	}
	for _, p := range coincPaths {
		spec := &config.FileSpec{Path: p, Format: "binary"}
		w, c, err := simulation.OpenOutputStream(spec, openFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gray:", err)
			return exitConfig
		}
		coincWriters = append(coincWriters, w)
		coincClosers = append(coincClosers, c)
	}
	defer func() {
		for _, c := range coincClosers {
			c()
		}
	}()

	var totalProcessed int64
	for rank := 0; rank < threadCount; rank++ {
		sourceList, g, err := simulation.PrepareSources(desc, isoTable, cfg, rank, threadCount)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gray:", err)
			return exitConfig
		}

		d := daq.NewDaqModel(buildDaqStages(cfg.Daq, sc, g))
		r := simulation.NewRun(cfg, sourceList, sc, materials, d, g)
		r.SetDefaultMaterial(defaultMaterial)
		r.Out = om
		r.HitsWriter = hitsWriter
		r.SinglesWriter = singlesWriter
		r.CoincWriters = coincWriters

		processed, err := r.Execute()
		if err != nil {
			slog.Error("simulation run failed", "rank", rank, "err", err)
			return exitRuntime
		}
		totalProcessed += processed
		if err := r.FlushTelemetry(cfg.Run.SimTimeS); err != nil {
			slog.Error("flushing telemetry failed", "rank", rank, "err", err)
			return exitRuntime
		}
	}

	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("writing effective config failed", "err", err)
	}

	slog.Info("run complete", "decays", totalProcessed)
	return exitOK
}

// stringList accumulates repeated -coinc flags (spec §6: "--coinc
// <out> (repeatable)").
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func loadIsotopeTable(path string) (map[string]physics.Isotope, error) {
	table := make(map[string]physics.Isotope)
	if path == "" {
		return table, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening isotope table: %w", err)
	}
	defer f.Close()

	entries, err := sources.LoadIsotopes(f)
	if err != nil {
		return nil, fmt.Errorf("parsing isotope table: %w", err)
	}
	for _, e := range entries {
		p, err := e.ToPositron()
		if err != nil {
			return nil, fmt.Errorf("building isotope %s: %w", e.Name, err)
		}
		table[e.Name] = p
	}
	return table, nil
}

func loadMaterials(path string) (*physics.MaterialTable, error) {
	if path == "" {
		return physics.NewMaterialTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening material table: %w", err)
	}
	defer f.Close()
	return physics.LoadMaterials(f)
}

func loadDescription(path string) (*simulation.Description, error) {
	if path == "" {
		return &simulation.Description{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene description: %w", err)
	}
	defer f.Close()
	return simulation.LoadDescription(f)
}

func openFile(path string) (interface {
	Write(p []byte) (int, error)
	Close() error
}, error) {
	return os.Create(path)
}

// buildDaqStages turns a run's configured stage list into the concrete
// daq.Process chain (spec §4.6), wiring each stage's shared detector
// grouping from the scene's detector array and, for the blur stages,
// this rank's own RNG stream so every rank's jitter stays independent.
func buildDaqStages(cfg config.DaqConfig, sc *scene.Scene, g *random.Generator) []daq.Process {
	var idLookup map[int32]int32
	if sc != nil {
		idLookup = sc.Detectors().IDLookup()
	}
	stages := make([]daq.Process, 0, len(cfg.Stages))
	for _, s := range cfg.Stages {
		if p := buildStage(s, idLookup, g); p != nil {
			stages = append(stages, p)
		}
	}
	return stages
}

func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func paramBool(params map[string]any, key string) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func paramString(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// buildStage maps one configured DAQ stage (spec §4.6) onto its
// concrete daq.Process implementation. An unrecognized type is
// skipped rather than failing the run, matching the teacher's
// tolerant plugin-list wiring.
func buildStage(s config.StageConfig, idLookup map[int32]int32, g *random.Generator) daq.Process {
	p := s.Params
	switch s.Type {
	case "blur_energy":
		return daq.BlurEnergy{FWHMFraction: paramFloat(p, "fwhm_fraction", 0), Rng: g}
	case "blur_energy_referenced":
		return daq.BlurEnergyReferenced{
			FWHMFraction: paramFloat(p, "fwhm_fraction", 0),
			RefEnergyMeV: paramFloat(p, "ref_energy_mev", 0),
			Rng:          g,
		}
	case "blur_time":
		return daq.BlurTime{
			FWHMSeconds: paramFloat(p, "fwhm_seconds", 0),
			MaxSeconds:  paramFloat(p, "max_seconds", 0),
			Rng:         g,
		}
	case "filter_energy_low":
		return daq.FilterEnergyLow{ThresholdMeV: paramFloat(p, "threshold_mev", 0)}
	case "filter_energy_high":
		return daq.FilterEnergyHigh{ThresholdMeV: paramFloat(p, "threshold_mev", 0)}
	case "deadtime":
		return &daq.Deadtime{
			IDLookup:    idLookup,
			TauSeconds:  paramFloat(p, "tau_seconds", 0),
			Paralyzable: paramBool(p, "paralyzable"),
		}
	case "merge":
		fn := daq.MergeFirst
		switch paramString(p, "fn") {
		case "max":
			fn = daq.MergeMax
		case "anger":
			fn = daq.MergeAnger
		}
		return daq.Merge{IDLookup: idLookup, WindowSeconds: paramFloat(p, "window_seconds", 0), Fn: fn}
	case "sort":
		return daq.Sort{MaxWaitSeconds: paramFloat(p, "max_wait_seconds", 0)}
	case "coincidence":
		policy := daq.DropAllMultiples
		switch paramString(p, "multiple") {
		case "keep_first_pair":
			policy = daq.KeepFirstPair
		case "keep_all_pairs":
			policy = daq.KeepAllPairs
		}
		return &daq.Coincidence{
			WindowSeconds: paramFloat(p, "window_seconds", 0),
			OffsetSeconds: paramFloat(p, "offset_seconds", 0),
			Multiple:      policy,
		}
	default:
		return nil
	}
}
