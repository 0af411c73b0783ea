package sources

import (
	"strings"
	"testing"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

func TestPointSourceDecayIsDeterministic(t *testing.T) {
	g := random.New(1)
	p := Point{Position: vecmath.New(1, 2, 3)}
	got := p.Decay(g)
	if got != p.Position {
		t.Fatalf("got %v want %v", got, p.Position)
	}
}

func TestCylinderInsideScenario(t *testing.T) {
	c := Cylinder{
		Map:        vecmath.Identity(),
		Radius:     1,
		HalfHeight: 1,
	}
	if c.Inside(vecmath.New(1.000001, 0, 0)) {
		t.Fatalf("expected r=1.000001 to be outside radius 1")
	}
	if !c.Inside(vecmath.New(0.999999, 0, 0)) {
		t.Fatalf("expected r=0.999999 to be inside radius 1")
	}
	if c.Inside(vecmath.New(0, 0, 1.000001)) {
		t.Fatalf("expected z=1.000001 to be outside half-height 1")
	}
	if !c.Inside(vecmath.New(0, 0, 0.999999)) {
		t.Fatalf("expected z=0.999999 to be inside half-height 1")
	}
}

func TestSphereDecayIsInside(t *testing.T) {
	g := random.New(3)
	s := Sphere{Center: vecmath.New(0, 0, 0), Radius: 2}
	for i := 0; i < 200; i++ {
		pos := s.Decay(g)
		if !s.Inside(pos) {
			t.Fatalf("sampled position %v not reported inside", pos)
		}
	}
}

func TestVoxelSourceSamplesWithinPopulatedVoxel(t *testing.T) {
	weights := []float64{0, 0, 1, 0} // 2x2x1 grid, only voxel (0,1,0) populated
	v, err := NewVoxelSource(2, 2, 1, vecmath.New(1, 1, 1), vecmath.New(0, 0, 0), weights)
	if err != nil {
		t.Fatalf("NewVoxelSource: %v", err)
	}
	g := random.New(5)
	for i := 0; i < 50; i++ {
		pos := v.Decay(g)
		if pos.X < 0 || pos.X > 1 || pos.Y < 1 || pos.Y > 2 {
			t.Fatalf("sampled position %v outside the populated voxel", pos)
		}
	}
}

func TestReadVoxelGrid(t *testing.T) {
	input := "2 1 1\n0.5 1.5\n"
	nx, ny, nz, weights, err := ReadVoxelGrid(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadVoxelGrid: %v", err)
	}
	if nx != 2 || ny != 1 || nz != 1 {
		t.Fatalf("got dims %d %d %d", nx, ny, nz)
	}
	if len(weights) != 2 || weights[0] != 0.5 || weights[1] != 1.5 {
		t.Fatalf("got weights %v", weights)
	}
}

func TestBeamPointRequiresBeamIsotope(t *testing.T) {
	_, err := NewBeamPoint(Base{IsotopeModel: physics.BackBack{}}, vecmath.New(0, 0, 0))
	if err == nil {
		t.Fatalf("expected error attaching a non-Beam isotope to BeamPoint")
	}
	_, err = NewBeamPoint(Base{IsotopeModel: physics.Beam{Axis: vecmath.New(0, 0, 1)}}, vecmath.New(0, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error attaching a Beam isotope: %v", err)
	}
}

func TestSourceListNextDecayRejectsNegativeOverlap(t *testing.T) {
	g := random.New(9)
	sl := NewSourceList()
	sl.SetSimulationTime(1000)
	sl.SetStartTime(0)

	outer := Sphere{
		Base:   Base{ActivityBq: 1e6, SourceNumber: 0, IsotopeModel: physics.BackBack{}},
		Center: vecmath.New(0, 0, 0), Radius: 10,
	}
	inner := Sphere{
		Base:   Base{Negative: true, SourceNumber: 1},
		Center: vecmath.New(0, 0, 0), Radius: 9.999,
	}
	sl.AddSource(outer, g)
	sl.AddSource(inner, g)

	_, decay, ok, err := sl.NextDecay(g)
	if err != nil {
		t.Fatalf("NextDecay: %v", err)
	}
	if !ok {
		t.Fatalf("expected a decay to be produced")
	}
	r2 := decay.Position.X*decay.Position.X + decay.Position.Y*decay.Position.Y + decay.Position.Z*decay.Position.Z
	if r2 < 9.999*9.999 {
		t.Fatalf("decay position %v fell inside the negative source", decay.Position)
	}
}

func TestSourceListNoSourcesIsErrorEmpty(t *testing.T) {
	sl := NewSourceList()
	g := random.New(1)
	_, _, _, err := sl.NextDecay(g)
	if err != ErrNoSources {
		t.Fatalf("got %v want ErrNoSources", err)
	}
}

func TestAdjustTimeForSplitProducesEqualExpectedPhotons(t *testing.T) {
	g := random.New(2)
	sl := NewSourceList()
	sl.SetStartTime(0)
	sl.SetSimulationTime(100)
	src := Sphere{
		Base:   Base{ActivityBq: 1e5, IsotopeModel: physics.BackBack{}},
		Center: vecmath.New(0, 0, 0), Radius: 1,
	}
	sl.AddSource(src, g)

	full := sl.ExpectedPhotons(0, 100)
	tSplit := sl.SearchSplitTime(0, 100, full/2, 1e-6)
	half := sl.ExpectedPhotons(0, tSplit)
	if diff := half - full/2; diff > full*1e-4 || diff < -full*1e-4 {
		t.Fatalf("split photon count %v not within tolerance of %v", half, full/2)
	}
}
