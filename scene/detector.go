package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/dfreese/gray/vecmath"
)

// Detector is produced only by scene loading and is read-only at
// simulation time (spec §3): a physical detector element with its
// block-grouped indices for DAQ merge stages.
type Detector struct {
	ID    int32
	Size  vecmath.Vector3
	Pos   vecmath.Vector3
	Map   vecmath.RigidMap
	Idx   [3]int32
	Block int32
}

// detectorComponent is the ark ECS component wrapping a Detector.
// The ECS is used here purely as a read-only, queried-once store
// (spec §9: "immutable after build"), not as a live simulation
// system — scene geometry never changes after construction, so there
// are no per-tick systems to write.
type detectorComponent struct {
	Detector Detector
}

// DetectorArray groups detectors by Block for the merge DAQ stages
// (SPEC_FULL.md Part D), built once from the ECS world at scene
// construction time.
type DetectorArray struct {
	byID    map[int32]Detector
	byBlock map[int32][]int32
}

func newDetectorArray(world *ecs.World) *DetectorArray {
	da := &DetectorArray{byID: map[int32]Detector{}, byBlock: map[int32][]int32{}}
	filter := ecs.NewFilter1[detectorComponent](world)
	query := filter.Query()
	for query.Next() {
		dc := query.Get()
		da.byID[dc.Detector.ID] = dc.Detector
		da.byBlock[dc.Detector.Block] = append(da.byBlock[dc.Detector.Block], dc.Detector.ID)
	}
	return da
}

// Get returns the detector with the given id.
func (da *DetectorArray) Get(id int32) (Detector, bool) {
	d, ok := da.byID[id]
	return d, ok
}

// Block returns the detector ids sharing the given block number, used
// by the merge DAQ stages to find co-located components.
func (da *DetectorArray) Block(block int32) []int32 {
	return da.byBlock[block]
}

// IDLookup builds the detector-id -> mapped-component-id table the
// deadtime and merge DAQ stages need, mapping each detector to its
// Block number (SPEC_FULL.md Part D's DetectorArray block grouping).
func (da *DetectorArray) IDLookup() map[int32]int32 {
	out := make(map[int32]int32, len(da.byID))
	for id, d := range da.byID {
		out[id] = d.Block
	}
	return out
}
