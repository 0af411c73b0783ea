// Package vecmath provides the vector and rigid-transform types used
// by the photon transport engine. It is a thin domain layer over
// gonum's spatial/r3 package, which plays the role spec §1 carves out
// as "the underlying linear-algebra ... library" — an external
// collaborator whose job is vector arithmetic, not simulation physics.
package vecmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a 3-component double vector.
type Vector3 = r3.Vec

// New builds a Vector3 from components.
func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a+b.
func Add(a, b Vector3) Vector3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vector3) Vector3 { return r3.Sub(a, b) }

// Scale returns f*v.
func Scale(f float64, v Vector3) Vector3 { return r3.Scale(f, v) }

// Dot returns a·b.
func Dot(a, b Vector3) float64 { return r3.Dot(a, b) }

// Cross returns a×b.
func Cross(a, b Vector3) Vector3 { return r3.Cross(a, b) }

// Norm returns the Euclidean length of v.
func Norm(v Vector3) float64 { return r3.Norm(v) }

// Unit returns v normalized to unit length. The zero vector maps to
// itself rather than producing NaNs, since callers (source shapes,
// degenerate scatter directions) occasionally hit it at measure zero.
func Unit(v Vector3) Vector3 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	return Scale(1/n, v)
}

// RigidMap is an affine transform: a rotation followed by a
// translation. Spec §3: "RigidMap is an affine transform (rotation +
// translation) with cheap inverse".
type RigidMap struct {
	rot   r3.Rotation
	trans Vector3
}

// Identity returns the identity transform.
func Identity() RigidMap {
	return RigidMap{rot: r3.NewRotation(0, New(0, 0, 1))}
}

// NewRigidMap builds a transform from a rotation about axis by angle
// (radians), followed by a translation.
func NewRigidMap(axis Vector3, angleRad float64, trans Vector3) RigidMap {
	return RigidMap{rot: r3.NewRotation(angleRad, axis), trans: trans}
}

// Forward maps a point from local to world coordinates.
func (m RigidMap) Forward(p Vector3) Vector3 {
	return Add(m.rot.Rotate(p), m.trans)
}

// ForwardVector rotates a direction vector (no translation applied).
func (m RigidMap) ForwardVector(v Vector3) Vector3 {
	return m.rot.Rotate(v)
}

// Inverse returns the inverse transform. Because the rotation is a
// unit quaternion, its inverse is its conjugate — cheap to compute,
// matching spec §3's "cheap inverse" invariant.
func (m RigidMap) Inverse() RigidMap {
	invRot := r3.Rotation(quat.Conj(quat.Number(m.rot)))
	return RigidMap{rot: invRot, trans: invRot.Rotate(Scale(-1, m.trans))}
}

// Backward maps a point from world to local coordinates.
func (m RigidMap) Backward(p Vector3) Vector3 {
	return m.Inverse().Forward(p)
}

// RefVecToMap builds the rigid map that rotates the z-axis onto a,
// used when a source/detector orientation is defined only by a single
// reference direction (spec §8.1: "RefVecToMap(a) * ẑ ≈ a").
func RefVecToMap(a Vector3) RigidMap {
	z := New(0, 0, 1)
	a = Unit(a)
	dot := Dot(z, a)
	if dot > 1-1e-12 {
		return Identity()
	}
	if dot < -1+1e-12 {
		// 180 degree rotation: any axis perpendicular to z works.
		return NewRigidMap(New(1, 0, 0), math.Pi, Vector3{})
	}
	axis := Unit(Cross(z, a))
	angle := math.Acos(dot)
	return NewRigidMap(axis, angle, Vector3{})
}
