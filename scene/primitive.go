// Package scene implements the visible-geometry container (spec §3's
// Scene/Detector/VisiblePoint/MaterialStack interplay, §4.5): a
// KD-tree-accelerated set of primitives exposing the nearest-hit and
// shadow-ray queries the transport engine needs. Geometry parsing
// itself (the NFF-like scene file format) is the explicit external
// collaborator named in spec §1 — this package consumes already
// constructed primitives, not scene files.
package scene

import (
	"math"

	"github.com/dfreese/gray/vecmath"
)

// Primitive is one piece of visible geometry. Detector phantom
// geometry reports DetectorID() == -1; everything else maps to a
// non-negative id into the owning Scene's detector table.
type Primitive interface {
	// Intersect returns the distance along the ray to the surface, and
	// whether the hit is front-facing (entering the primitive) or
	// back-facing (exiting it). ok is false for no intersection or a
	// non-positive distance.
	Intersect(origin, dir vecmath.Vector3) (dist float64, frontFacing bool, ok bool)
	Centroid() vecmath.Vector3
	MaterialID() int32
	DetectorID() int32
}

// Sphere is a solid spherical primitive.
type Sphere struct {
	Center       vecmath.Vector3
	Radius       float64
	Material     int32
	Detector     int32
}

func (s Sphere) Centroid() vecmath.Vector3 { return s.Center }
func (s Sphere) MaterialID() int32         { return s.Material }
func (s Sphere) DetectorID() int32         { return s.Detector }

func (s Sphere) Intersect(origin, dir vecmath.Vector3) (float64, bool, bool) {
	oc := vecmath.Sub(origin, s.Center)
	b := vecmath.Dot(oc, dir)
	c := vecmath.Dot(oc, oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false, false
	}
	sq := math.Sqrt(disc)
	t1 := -b - sq
	t2 := -b + sq
	if t1 > 1e-9 {
		return t1, true, true
	}
	if t2 > 1e-9 {
		return t2, false, true
	}
	return 0, false, false
}

// Box is an axis-aligned (in its local frame) rectangular solid,
// mapped into world space by Map. Used both as phantom geometry and
// as the physical extent of a Detector element (spec §3: Detector
// {size, pos, map}).
type Box struct {
	Map      vecmath.RigidMap
	HalfSize vecmath.Vector3
	Material int32
	Detector int32
}

func (b Box) Centroid() vecmath.Vector3 { return b.Map.Forward(vecmath.Vector3{}) }
func (b Box) MaterialID() int32         { return b.Material }
func (b Box) DetectorID() int32         { return b.Detector }

func (b Box) Intersect(origin, dir vecmath.Vector3) (float64, bool, bool) {
	localOrigin := b.Map.Backward(origin)
	dirLocal := b.Map.Inverse().ForwardVector(dir)

	tMin, tMax := math.Inf(-1), math.Inf(1)
	axes := [3]float64{b.HalfSize.X, b.HalfSize.Y, b.HalfSize.Z}
	o := [3]float64{localOrigin.X, localOrigin.Y, localOrigin.Z}
	d := [3]float64{dirLocal.X, dirLocal.Y, dirLocal.Z}

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < -axes[i] || o[i] > axes[i] {
				return 0, false, false
			}
			continue
		}
		t1 := (-axes[i] - o[i]) / d[i]
		t2 := (axes[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false, false
		}
	}
	if tMin > 1e-9 {
		return tMin, true, true
	}
	if tMax > 1e-9 {
		return tMax, false, true
	}
	return 0, false, false
}

// Plane is an infinite, uncropped flat surface, typically used for
// slab phantom boundaries.
type Plane struct {
	Point    vecmath.Vector3
	Normal   vecmath.Vector3 // unit
	Material int32
	Detector int32
}

func (p Plane) Centroid() vecmath.Vector3 { return p.Point }
func (p Plane) MaterialID() int32         { return p.Material }
func (p Plane) DetectorID() int32         { return p.Detector }

func (p Plane) Intersect(origin, dir vecmath.Vector3) (float64, bool, bool) {
	denom := vecmath.Dot(p.Normal, dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false, false
	}
	t := vecmath.Dot(vecmath.Sub(p.Point, origin), p.Normal) / denom
	if t <= 1e-9 {
		return 0, false, false
	}
	return t, denom < 0, true
}
