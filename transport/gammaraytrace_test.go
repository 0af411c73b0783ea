package transport

import (
	"testing"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/scene"
	"github.com/dfreese/gray/vecmath"
)

type fakeMaterials struct {
	byID map[int32]*physics.Material
}

func (f fakeMaterials) Material(id int32) *physics.Material {
	return f.byID[id]
}

func vacuumStats() *physics.GammaStats {
	g, _ := physics.NewGammaStats(
		[]float64{0.01, 10},
		[]float64{1e-30, 1e-30},
		[]float64{1e-30, 1e-30},
		[]float64{1e-30, 1e-30},
		[]float64{0, 1}, []float64{0, 1}, []float64{0, 1},
		false,
	)
	return g
}

func absorberStats() *physics.GammaStats {
	g, _ := physics.NewGammaStats(
		[]float64{0.01, 10},
		[]float64{50, 50},
		[]float64{1e-30, 1e-30},
		[]float64{1e-30, 1e-30},
		[]float64{0, 1}, []float64{0, 1}, []float64{0, 1},
		false,
	)
	return g
}

func TestTraceEscapesEmptyScene(t *testing.T) {
	g := random.New(1)
	vacuum := &physics.Material{ID: 0, Stats: vacuumStats()}
	sc := scene.Build(nil, nil)

	photon := physics.Photon{Pos: vecmath.New(0, 0, 0), Dir: vecmath.New(0, 0, 1), Energy: 0.511, DetID: -1}
	out := Trace(photon, sc, fakeMaterials{}, vacuum, 500, g)
	for _, i := range out {
		if i.Type < 0 {
			t.Fatalf("expected no error interactions in an empty scene, got %v", i.Type)
		}
	}
}

func TestTracePhotoelectricAbsorptionTerminates(t *testing.T) {
	g := random.New(2)
	vacuum := &physics.Material{ID: 0, Stats: vacuumStats()}
	absorber := &physics.Material{ID: 1, Stats: absorberStats()}

	prims := []scene.Primitive{
		scene.Sphere{Center: vecmath.New(0, 0, 10), Radius: 5, Material: 1, Detector: -1},
	}
	sc := scene.Build(prims, nil)
	mats := fakeMaterials{byID: map[int32]*physics.Material{1: absorber}}

	photon := physics.Photon{Pos: vecmath.New(0, 0, 0), Dir: vecmath.New(0, 0, 1), Energy: 0.511, DetID: -1}
	out := Trace(photon, sc, mats, vacuum, 500, g)
	if len(out) == 0 {
		t.Fatalf("expected at least one interaction")
	}
	last := out[len(out)-1]
	if last.Type != physics.InteractionPhotoelectric {
		t.Fatalf("expected a photoelectric termination, got %v", last.Type)
	}
}

func TestTraceComptonEnergyDecreases(t *testing.T) {
	cosTheta := 0.0
	e := physics.ComptonEnergyAfter(0.511, cosTheta)
	if e >= 0.511 {
		t.Fatalf("expected scattered energy to decrease, got %v", e)
	}
	if e < 0 {
		t.Fatalf("expected non-negative scattered energy, got %v", e)
	}
}
