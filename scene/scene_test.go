package scene

import (
	"testing"

	"github.com/dfreese/gray/vecmath"
)

func TestSeekIntersectionFindsNearestSphere(t *testing.T) {
	prims := []Primitive{
		Sphere{Center: vecmath.New(0, 0, 5), Radius: 1, Material: 1, Detector: -1},
		Sphere{Center: vecmath.New(0, 0, 10), Radius: 1, Material: 2, Detector: 3},
	}
	s := Build(prims, nil)

	hit, ok := s.SeekIntersection(vecmath.New(0, 0, 0), vecmath.New(0, 0, 1), -1)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Point.MaterialID != 1 {
		t.Fatalf("expected the nearer sphere's material, got %d", hit.Point.MaterialID)
	}
	if !hit.Point.FrontFacing {
		t.Fatalf("expected a front-facing hit entering the nearer sphere")
	}
}

func TestSeekIntersectionIgnoresAvoidID(t *testing.T) {
	prims := []Primitive{
		Sphere{Center: vecmath.New(0, 0, 5), Radius: 1, Material: 1, Detector: -1},
	}
	s := Build(prims, nil)
	_, ok := s.SeekIntersection(vecmath.New(0, 0, 0), vecmath.New(0, 0, 1), 0)
	if ok {
		t.Fatalf("expected no hit once the only primitive is excluded via avoidID")
	}
}

func TestAnyIntersectionShadowRay(t *testing.T) {
	prims := []Primitive{
		Sphere{Center: vecmath.New(0, 0, 5), Radius: 1, Material: 1, Detector: -1},
	}
	s := Build(prims, nil)
	if !s.AnyIntersection(vecmath.New(0, 0, 0), vecmath.New(0, 0, 1), 100) {
		t.Fatalf("expected a shadow hit within range")
	}
	if s.AnyIntersection(vecmath.New(0, 0, 0), vecmath.New(0, 0, 1), 2) {
		t.Fatalf("expected no shadow hit before the sphere's near surface")
	}
}

func TestDetectorArrayBlockGrouping(t *testing.T) {
	dets := []Detector{
		{ID: 0, Block: 1},
		{ID: 1, Block: 1},
		{ID: 2, Block: 2},
	}
	s := Build(nil, dets)
	block1 := s.Detectors().Block(1)
	if len(block1) != 2 {
		t.Fatalf("expected 2 detectors in block 1, got %d", len(block1))
	}
	lookup := s.Detectors().IDLookup()
	if lookup[2] != 2 {
		t.Fatalf("expected detector 2 mapped to block 2, got %d", lookup[2])
	}
}
