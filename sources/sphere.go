package sources

import (
	"math"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Sphere is a uniform-volume ball of the given radius centered at
// Center.
type Sphere struct {
	Base
	Center vecmath.Vector3
	Radius float64
}

func (s Sphere) Decay(g *random.Generator) vecmath.Vector3 {
	r := s.Radius * math.Cbrt(g.Float64())
	ux, uy, uz := g.UnitSphereDirection()
	return vecmath.Add(s.Center, vecmath.New(r*ux, r*uy, r*uz))
}

func (s Sphere) Inside(pos vecmath.Vector3) bool {
	d := vecmath.Sub(pos, s.Center)
	return vecmath.Dot(d, d) <= s.Radius*s.Radius
}
