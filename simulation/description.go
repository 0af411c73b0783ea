// Package simulation wires the scheduler, transport, and DAQ packages
// into the end-to-end run loop (spec §4.6 "Simulation::Run") and the
// rank-split concurrency model (spec §5). Scene and source geometry
// arrive at the edges of this package as a small literal YAML
// description rather than the NFF-like scene format spec §1 names as
// an external collaborator: the description schema here is a Gray-
// native stand-in, not a reimplementation of that format, the same
// judgment call already applied to the plain-text isotope table and
// JSON material table loaders.
package simulation

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dfreese/gray/config"
	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/scene"
	"github.com/dfreese/gray/sources"
	"github.com/dfreese/gray/vecmath"
)

// ShapeDesc is one source-list entry (spec §3 Source variants). Only
// the fields relevant to Shape are read; others are ignored.
type ShapeDesc struct {
	Shape      string    `yaml:"shape"`
	Activity   float64   `yaml:"activity_bq"`
	Negative   bool      `yaml:"negative"`
	SourceNum  int32     `yaml:"source_num"`
	Isotope    string    `yaml:"isotope"`
	MaterialID int32     `yaml:"material_id"`
	Position   []float64 `yaml:"position"`
	Center     []float64 `yaml:"center"`
	Radius     float64   `yaml:"radius"`
	InnerRadius float64  `yaml:"inner_radius"`
	HalfHeight float64   `yaml:"half_height"`
	HalfExtent []float64 `yaml:"half_extent"`
}

// PrimitiveDesc is one scene primitive (spec §3 Primitive variants).
type PrimitiveDesc struct {
	Kind       string    `yaml:"kind"`
	Center     []float64 `yaml:"center"`
	Radius     float64   `yaml:"radius"`
	Point      []float64 `yaml:"point"`
	Normal     []float64 `yaml:"normal"`
	HalfExtent []float64 `yaml:"half_extent"`
	MaterialID int32     `yaml:"material_id"`
	DetectorID int32     `yaml:"detector_id"`
}

// DetectorDesc is one physical detector element (spec §3 Detector).
type DetectorDesc struct {
	ID         int32     `yaml:"id"`
	Size       []float64 `yaml:"size"`
	Pos        []float64 `yaml:"pos"`
	Idx        [3]int32  `yaml:"idx"`
	Block      int32     `yaml:"block"`
	MaterialID int32     `yaml:"material_id"`
}

// Description is the top-level scene-file stand-in: every source,
// primitive, and detector making up one run.
type Description struct {
	Sources    []ShapeDesc     `yaml:"sources"`
	Primitives []PrimitiveDesc `yaml:"primitives"`
	Detectors  []DetectorDesc  `yaml:"detectors"`
}

// LoadDescription parses a scene/source description document.
func LoadDescription(r io.Reader) (*Description, error) {
	var d Description
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("simulation: parsing scene description: %w", err)
	}
	return &d, nil
}

func vec3(xs []float64) vecmath.Vector3 {
	if len(xs) < 3 {
		return vecmath.Vector3{}
	}
	return vecmath.New(xs[0], xs[1], xs[2])
}

// isotopeByName resolves a scene description's isotope reference
// against the preset table (SPEC_FULL.md Part D) or a previously
// loaded isotope-table entry.
func isotopeByName(name string, table map[string]physics.Isotope) (physics.Isotope, error) {
	if iso, ok := table[name]; ok {
		return iso, nil
	}
	switch name {
	case "F18":
		return physics.F18(), nil
	case "O15":
		return physics.O15(), nil
	case "IN110":
		return physics.IN110(), nil
	case "ZR89":
		return physics.ZR89(), nil
	case "BackBack":
		return physics.BackBack{}, nil
	}
	return nil, fmt.Errorf("simulation: unknown isotope %q", name)
}

// BuildSources populates sl (already given its timing window via
// SetStartTime/SetSimulationTime) with every shape in d, registering
// each against isoTable (presets plus any isotope-table entries the
// caller already loaded). Sources must be added before
// sl.AdjustTimeForSplit, since AdjustTimeForSplit's bisection needs
// the full source list to compute expected photon counts.
func BuildSources(d *Description, isoTable map[string]physics.Isotope, sl *sources.SourceList, g *random.Generator) error {
	for i, sd := range d.Sources {
		iso, err := isotopeByName(sd.Isotope, isoTable)
		if err != nil {
			return fmt.Errorf("simulation: source %d: %w", i, err)
		}
		base := sources.Base{
			ActivityBq:    sd.Activity,
			Negative:      sd.Negative,
			SourceNumber:  sd.SourceNum,
			IsotopeModel:  iso,
			MaterialIndex: sd.MaterialID,
		}

		src, err := buildShape(sd, base)
		if err != nil {
			return fmt.Errorf("simulation: source %d: %w", i, err)
		}
		sl.AddSource(src, g)
	}
	return nil
}

// PrepareSources builds one rank's independent SourceList: timing
// window and half-life toggle set first, every shape added against a
// fresh per-rank generator, then narrowed to this rank's slice of
// equal expected photon count (spec §4.1/§5). The returned generator
// is the one that scheduled the list and must keep driving this
// rank's decays/transport/DAQ so its stream stays self-consistent.
func PrepareSources(d *Description, isoTable map[string]physics.Isotope, cfg *config.Config, rank, nRanks int) (*sources.SourceList, *random.Generator, error) {
	sl := sources.NewSourceList()
	sl.SetStartTime(cfg.Run.StartTimeS)
	sl.SetSimulationTime(cfg.Run.SimTimeS)
	sl.SetSimulateIsotopeHalfLife(cfg.Run.SimulateIsotopeHalfLife)

	g := random.ForRank(cfg.Run.Seed, rank, nRanks)

	if err := BuildSources(d, isoTable, sl, g); err != nil {
		return nil, nil, err
	}
	sl.AdjustTimeForSplit(rank, nRanks)
	return sl, g, nil
}

func buildShape(sd ShapeDesc, base sources.Base) (sources.Source, error) {
	switch sd.Shape {
	case "point":
		return sources.Point{Base: base, Position: vec3(sd.Position)}, nil
	case "beampoint":
		return sources.NewBeamPoint(base, vec3(sd.Position))
	case "sphere":
		return sources.Sphere{Base: base, Center: vec3(sd.Center), Radius: sd.Radius}, nil
	case "cylinder":
		m := vecmath.NewRigidMap(vecmath.New(0, 0, 1), 0, vec3(sd.Center))
		return sources.Cylinder{Base: base, Map: m, Radius: sd.Radius, HalfHeight: sd.HalfHeight}, nil
	case "annulus_cylinder":
		m := vecmath.NewRigidMap(vecmath.New(0, 0, 1), 0, vec3(sd.Center))
		return sources.AnnulusCylinder{Base: base, Map: m, InnerRadius: sd.InnerRadius, Radius: sd.Radius, HalfHeight: sd.HalfHeight}, nil
	case "rect":
		m := vecmath.NewRigidMap(vecmath.New(0, 0, 1), 0, vec3(sd.Center))
		he := sd.HalfExtent
		if len(he) < 3 {
			he = []float64{0, 0, 0}
		}
		return sources.Rect{Base: base, Map: m, HX: he[0], HY: he[1], HZ: he[2]}, nil
	default:
		return nil, fmt.Errorf("unknown source shape %q", sd.Shape)
	}
}

// BuildScene turns a parsed Description's primitives and detectors
// into an immutable Scene.
func BuildScene(d *Description) *scene.Scene {
	prims := make([]scene.Primitive, 0, len(d.Primitives))
	for _, pd := range d.Primitives {
		switch pd.Kind {
		case "sphere":
			prims = append(prims, scene.Sphere{Center: vec3(pd.Center), Radius: pd.Radius, Material: pd.MaterialID, Detector: pd.DetectorID})
		case "plane":
			prims = append(prims, scene.Plane{Point: vec3(pd.Point), Normal: vecmath.Unit(vec3(pd.Normal)), Material: pd.MaterialID, Detector: pd.DetectorID})
		case "box":
			m := vecmath.NewRigidMap(vecmath.New(0, 0, 1), 0, vec3(pd.Center))
			prims = append(prims, scene.Box{Map: m, HalfSize: vec3(pd.HalfExtent), Material: pd.MaterialID, Detector: pd.DetectorID})
		}
	}

	dets := make([]scene.Detector, 0, len(d.Detectors))
	for _, dd := range d.Detectors {
		m := vecmath.NewRigidMap(vecmath.New(0, 0, 1), 0, vec3(dd.Pos))
		dets = append(dets, scene.Detector{
			ID: dd.ID, Size: vec3(dd.Size), Pos: vec3(dd.Pos), Map: m,
			Idx: dd.Idx, Block: dd.Block,
		})
		prims = append(prims, scene.Box{
			Map: m, HalfSize: vecmath.Scale(0.5, vec3(dd.Size)),
			Material: dd.MaterialID, Detector: dd.ID,
		})
	}

	return scene.Build(prims, dets)
}
