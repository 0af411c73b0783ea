package sources

import (
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// ClosedSurface is the private collaborator a Vector source needs to
// test containment against an arbitrary closed geometry: count how
// many times a ray from origin in direction dir crosses the surface.
// An odd count means origin is inside. Per spec §9's design note, a
// Vector source owns its own private scene description rather than
// sharing the main scene, which breaks the Source->Material->Scene->
// Source cycle that a shared scene reference would otherwise create.
type ClosedSurface interface {
	CrossingCount(origin, dir vecmath.Vector3) int
}

// Vector samples uniformly inside an arbitrary closed surface via
// rejection sampling over a bounding box, using a ray-casting
// odd-crossing test for containment (spec §3).
type Vector struct {
	Base
	Surface    ClosedSurface
	BoundsMin  vecmath.Vector3
	BoundsMax  vecmath.Vector3
	castAxis   vecmath.Vector3
}

// NewVector builds a Vector source that casts its containment rays
// along +z.
func NewVector(surface ClosedSurface, boundsMin, boundsMax vecmath.Vector3) Vector {
	return Vector{Surface: surface, BoundsMin: boundsMin, BoundsMax: boundsMax, castAxis: vecmath.New(0, 0, 1)}
}

const vectorSourceMaxReject = 100000

func (v Vector) Decay(g *random.Generator) vecmath.Vector3 {
	var candidate vecmath.Vector3
	for i := 0; i < vectorSourceMaxReject; i++ {
		candidate = vecmath.New(
			g.Uniform(v.BoundsMin.X, v.BoundsMax.X),
			g.Uniform(v.BoundsMin.Y, v.BoundsMax.Y),
			g.Uniform(v.BoundsMin.Z, v.BoundsMax.Z),
		)
		if v.Inside(candidate) {
			return candidate
		}
	}
	return candidate
}

func (v Vector) Inside(pos vecmath.Vector3) bool {
	axis := v.castAxis
	if axis == (vecmath.Vector3{}) {
		axis = vecmath.New(0, 0, 1)
	}
	return v.Surface.CrossingCount(pos, axis)%2 == 1
}
