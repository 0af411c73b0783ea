package sources

import (
	"math"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Rect is an axis-aligned (in its local frame) rectangular box with
// half-extents HX, HY, HZ, mapped into world space by Map.
type Rect struct {
	Base
	Map            vecmath.RigidMap
	HX, HY, HZ     float64
}

func (r Rect) Decay(g *random.Generator) vecmath.Vector3 {
	local := vecmath.New(
		g.Uniform(-r.HX, r.HX),
		g.Uniform(-r.HY, r.HY),
		g.Uniform(-r.HZ, r.HZ),
	)
	return r.Map.Forward(local)
}

func (r Rect) Inside(pos vecmath.Vector3) bool {
	local := r.Map.Backward(pos)
	return math.Abs(local.X) <= r.HX && math.Abs(local.Y) <= r.HY && math.Abs(local.Z) <= r.HZ
}

// Ellipsoid is a uniform-volume ellipsoid with semi-axes RX, RY, RZ.
type Ellipsoid struct {
	Base
	Map        vecmath.RigidMap
	RX, RY, RZ float64
}

func (e Ellipsoid) Decay(g *random.Generator) vecmath.Vector3 {
	r := math.Cbrt(g.Float64())
	ux, uy, uz := g.UnitSphereDirection()
	local := vecmath.New(r*e.RX*ux, r*e.RY*uy, r*e.RZ*uz)
	return e.Map.Forward(local)
}

func (e Ellipsoid) Inside(pos vecmath.Vector3) bool {
	local := e.Map.Backward(pos)
	norm := (local.X*local.X)/(e.RX*e.RX) + (local.Y*local.Y)/(e.RY*e.RY) + (local.Z*local.Z)/(e.RZ*e.RZ)
	return norm <= 1
}
