// Package config loads and exposes the simulation's run configuration
// (SPEC_FULL.md Part B.1): seed, timing, physics limits, data-file
// paths, output file specs, and the ordered DAQ stage list. Config is
// the in-scope half of spec §6's external "CLI/configuration
// surface" contract — the types the core needs, not the flag parser
// itself (that lives in cmd/gray).
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable the simulation core consumes (spec §6).
type Config struct {
	Run     RunConfig     `yaml:"run"`
	Physics PhysicsConfig `yaml:"physics"`
	Paths   PathsConfig   `yaml:"paths"`
	Outputs OutputsConfig `yaml:"outputs"`
	Daq     DaqConfig     `yaml:"daq"`
}

// RunConfig groups the scheduling/rank parameters spec §4.1/§5
// describe: RNG seed, simulated time window, rank/thread count, and
// the half-life decay-curve toggle.
type RunConfig struct {
	Seed                    int64   `yaml:"seed"`
	StartTimeS              float64 `yaml:"start_time_s"`
	SimTimeS                float64 `yaml:"sim_time_s"`
	Threads                 int     `yaml:"threads"`
	SimulateIsotopeHalfLife bool    `yaml:"simulate_isotope_half_life"`
	DaqTickDecays           int     `yaml:"daq_tick_decays"`
}

// PhysicsConfig groups the transport limits from spec §4.3. Only
// MaxTraceDepth reaches transport; Epsilon and MaxMaterials are carried
// in the config but not read, since transport uses its fixed 1e-6
// crossing nudge and physics.MaxMaterials.
type PhysicsConfig struct {
	MaxTraceDepth int     `yaml:"max_trace_depth"`
	Epsilon       float64 `yaml:"epsilon"`
	MaxMaterials  int     `yaml:"max_materials"`
}

// PathsConfig groups the external data-file locations spec §6 names
// ("--iso", "--mat", scene file, GRAY_INCLUDE). Parsing those files is
// handled by physics.LoadMaterials / sources.LoadIsotopes /
// simulation.LoadDescription; Config only carries where to find them.
type PathsConfig struct {
	IsotopeTable string `yaml:"isotope_table"`
	MaterialFile string `yaml:"material_file"`
	SceneFile    string `yaml:"scene_file"`
	Include      string `yaml:"include"`
}

// FileSpec names one output file and the encoding/fields it carries
// (spec §4.7/§6: format selected per output file, write_flags
// bitfield).
type FileSpec struct {
	Path       string   `yaml:"path"`
	Format     string   `yaml:"format"` // "binary" or "ascii"
	WriteFlags []string `yaml:"write_flags"`
}

// OutputsConfig groups the three output routes spec §4.6 names: raw
// hits (pre-DAQ), singles (post-DAQ, pre-coincidence), and one or more
// terminal coincidence streams.
type OutputsConfig struct {
	Hits         *FileSpec  `yaml:"hits"`
	Singles      *FileSpec  `yaml:"singles"`
	Coincidences []FileSpec `yaml:"coincidences"`
}

// StageConfig is one entry in the ordered DAQ pipeline (spec §4.6).
// Params is interpreted per Type by buildStage in cmd/gray.
type StageConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// DaqConfig is the ordered stage list making up the DaqModel.
type DaqConfig struct {
	Stages []StageConfig `yaml:"stages"`
}

// global holds the loaded configuration, set once via Init.
var global *Config

// Init loads configuration from the given path, or uses only the
// embedded defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error, matching the teacher's
// fail-fast startup pattern.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging on top of the
// embedded defaults. If path is empty, only the embedded defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing config file: %w", err)
		}
	}

	if cfg.Paths.Include == "" {
		cfg.Paths.Include = os.Getenv("GRAY_INCLUDE")
	}

	return cfg, nil
}

// WriteYAML persists the effective config alongside a run's outputs,
// matching the teacher's OutputManager.WriteConfig pattern so a run's
// exact parameters are reproducible from its output directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
