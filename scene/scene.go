package scene

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/dfreese/gray/vecmath"
)

// VisiblePoint describes the surface struck by a ray (spec §4.5):
// front/back facing plus the material and detector the crossed
// primitive carries.
type VisiblePoint struct {
	Position    vecmath.Vector3
	FrontFacing bool
	BackFacing  bool
	MaterialID  int32
	DetectorID  int32
}

// Hit is the result of a successful SeekIntersection query.
type Hit struct {
	Distance     float64
	Point        VisiblePoint
	PrimitiveID  int32
}

// Scene holds the immutable-after-build collection of visible
// primitives and their KD-tree centroid index (spec §3: "Scene:
// collection of visible primitives ... with an IntersectKdTree").
type Scene struct {
	primitives []Primitive
	index      *primitiveIndex
	detectors  *DetectorArray

	initialRadius float64
	maxRadius     float64
}

// primitiveComponent is the ark ECS component wrapping a boxed
// Primitive, used only as a write-once / query-once store at scene
// build time (spec §9: scene is immutable after build).
type primitiveComponent struct {
	Primitive Primitive
}

// Build constructs an immutable Scene from primitives and detectors.
// Both the primitive and detector sets are loaded once into an ark
// ECS world and immediately flattened into plain arenas — the ECS's
// archetype storage is exercised for the one-time ingestion query,
// while the hot-path ray queries run against the flattened slices and
// the KD-tree, matching spec §9's "pointer-graph KD-tree ... arena of
// nodes".
func Build(primitives []Primitive, detectors []Detector) *Scene {
	world := ecs.NewWorld()

	primMapper := ecs.NewMap1[primitiveComponent](world)
	for _, p := range primitives {
		primMapper.NewEntity(&primitiveComponent{Primitive: p})
	}

	detMapper := ecs.NewMap1[detectorComponent](world)
	for _, d := range detectors {
		detMapper.NewEntity(&detectorComponent{Detector: d})
	}

	flat := make([]Primitive, 0, len(primitives))
	filter := ecs.NewFilter1[primitiveComponent](world)
	query := filter.Query()
	for query.Next() {
		pc := query.Get()
		flat = append(flat, pc.Primitive)
	}

	s := &Scene{
		primitives: flat,
		index:      newPrimitiveIndex(flat),
		detectors:  newDetectorArray(world),
	}
	s.computeRadii()
	return s
}

func (s *Scene) computeRadii() {
	maxD := 0.0
	for _, p := range s.primitives {
		c := p.Centroid()
		d := vecmath.Norm(c)
		if d > maxD {
			maxD = d
		}
	}
	if maxD <= 0 {
		maxD = 1
	}
	s.initialRadius = maxD / 8
	if s.initialRadius <= 0 {
		s.initialRadius = 1
	}
	s.maxRadius = maxD*2 + 1
}

// Detectors returns the scene's detector index.
func (s *Scene) Detectors() *DetectorArray { return s.detectors }

const epsilon = 1e-6

// SeekIntersection finds the nearest surface hit along the ray from
// origin in direction dir, ignoring the primitive avoidID (spec
// §4.3's "ignoring the primitive just exited via avoid_id", §4.5).
func (s *Scene) SeekIntersection(origin, dir vecmath.Vector3, avoidID int32) (Hit, bool) {
	radius := s.initialRadius
	for {
		var candidates []int
		if radius >= s.maxRadius {
			candidates = s.index.all(len(s.primitives))
		} else {
			candidates = s.index.rangeQuery(origin, radius)
		}

		best, ok := s.nearestAmong(candidates, origin, dir, avoidID)
		if ok && (best.Distance <= radius || radius >= s.maxRadius) {
			return best, true
		}
		if radius >= s.maxRadius {
			return Hit{}, false
		}
		radius *= 2
	}
}

func (s *Scene) nearestAmong(candidates []int, origin, dir vecmath.Vector3, avoidID int32) (Hit, bool) {
	bestDist := math.Inf(1)
	var best Hit
	found := false
	for _, i := range candidates {
		p := s.primitives[i]
		if int32(i) == avoidID {
			continue
		}
		dist, front, ok := p.Intersect(origin, dir)
		if !ok || dist <= epsilon || dist >= bestDist {
			continue
		}
		bestDist = dist
		best = Hit{
			Distance: dist,
			Point: VisiblePoint{
				Position:    vecmath.Add(origin, vecmath.Scale(dist, dir)),
				FrontFacing: front,
				BackFacing:  !front,
				MaterialID:  p.MaterialID(),
				DetectorID:  p.DetectorID(),
			},
			PrimitiveID: int32(i),
		}
		found = true
	}
	return best, found
}

// AnyIntersection is the shadow-ray query (SPEC_FULL.md Part D): true
// if anything lies strictly between the origin and maxDist along dir.
// Transport uses SeekIntersection and the Vector source uses
// CrossingCount; nothing else in the repository calls this.
func (s *Scene) AnyIntersection(origin, dir vecmath.Vector3, maxDist float64) bool {
	for i, p := range s.primitives {
		dist, _, ok := p.Intersect(origin, dir)
		if ok && dist > epsilon && dist < maxDist {
			_ = i
			return true
		}
	}
	return false
}

// CrossingCount counts how many surfaces the ray from origin in
// direction dir crosses (unbounded), satisfying sources.ClosedSurface
// for the Vector source's odd-crossing containment test. A closed
// solid (Sphere, Box) whose first hit is front-facing is entered and
// left again, so it counts twice.
func (s *Scene) CrossingCount(origin, dir vecmath.Vector3) int {
	count := 0
	for _, p := range s.primitives {
		_, front, ok := p.Intersect(origin, dir)
		if !ok {
			continue
		}
		count++
		if _, isPlane := p.(Plane); front && !isPlane {
			count++
		}
	}
	return count
}
