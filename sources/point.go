package sources

import (
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Point is a zero-volume source: every decay happens at exactly
// Position (spec §8 round-trip law: "PointSource.decay() ==
// position").
type Point struct {
	Base
	Position vecmath.Vector3
}

func (p Point) Decay(*random.Generator) vecmath.Vector3 { return p.Position }

func (p Point) Inside(pos vecmath.Vector3) bool { return pos == p.Position }
