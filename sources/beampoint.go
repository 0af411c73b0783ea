package sources

import (
	"fmt"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// BeamPoint is a zero-volume source that must carry a Beam isotope
// (spec §3: "must carry a Beam isotope, checked at attach time").
type BeamPoint struct {
	Base
	Position vecmath.Vector3
}

// NewBeamPoint validates that iso is a physics.Beam before
// constructing the source, matching the original's attach-time check.
func NewBeamPoint(base Base, pos vecmath.Vector3) (BeamPoint, error) {
	if _, ok := base.IsotopeModel.(physics.Beam); !ok {
		return BeamPoint{}, fmt.Errorf("sources: BeamPoint requires a Beam isotope, got %T", base.IsotopeModel)
	}
	return BeamPoint{Base: base, Position: pos}, nil
}

func (b BeamPoint) Decay(*random.Generator) vecmath.Vector3 { return b.Position }

func (b BeamPoint) Inside(pos vecmath.Vector3) bool { return pos == b.Position }
