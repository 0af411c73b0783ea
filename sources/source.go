// Package sources implements the decay-position samplers (spec §3
// "Source (variant)"): tagged-variant shapes sharing the Source
// contract, plus the SourceList scheduler that turns activity-weighted
// shapes into a time-ordered stream of decays.
package sources

import (
	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Source is the shared contract for every emission-volume shape (spec
// §3). Tagged-variant dispatch replaces the original's class
// hierarchy, matching the same approach used for Isotope.
type Source interface {
	Activity() float64
	IsNegative() bool
	SourceNum() int32
	Isotope() physics.Isotope
	MaterialID() int32

	// Decay samples a position within the shape.
	Decay(g *random.Generator) vecmath.Vector3
	// Inside reports whether pos lies within the shape's volume.
	Inside(pos vecmath.Vector3) bool
}

// Base carries the fields every Source variant shares (spec §3).
// Concrete shapes embed Base and add their own geometry.
type Base struct {
	ActivityBq    float64
	Negative      bool
	SourceNumber  int32
	IsotopeModel  physics.Isotope
	MaterialIndex int32
}

func (b Base) Activity() float64          { return b.ActivityBq }
func (b Base) IsNegative() bool           { return b.Negative }
func (b Base) SourceNum() int32           { return b.SourceNumber }
func (b Base) Isotope() physics.Isotope   { return b.IsotopeModel }
func (b Base) MaterialID() int32          { return b.MaterialIndex }
