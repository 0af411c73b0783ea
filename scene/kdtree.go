package scene

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/dfreese/gray/vecmath"
)

// centroidPoint adapts a primitive's centroid to gonum's
// spatial/kdtree.Comparable contract (spec §4.5: "the KD-tree is an
// external collaborator"; spec §9: "the tree is owned by Scene as an
// arena of nodes indexed by u32").
type centroidPoint struct {
	idx int
	pos vecmath.Vector3
}

func (p centroidPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(centroidPoint)
	switch d {
	case 0:
		return p.pos.X - o.pos.X
	case 1:
		return p.pos.Y - o.pos.Y
	default:
		return p.pos.Z - o.pos.Z
	}
}

func (p centroidPoint) Dims() int { return 3 }

func (p centroidPoint) Distance(c kdtree.Comparable) float64 {
	o := c.(centroidPoint)
	d := vecmath.Sub(p.pos, o.pos)
	return vecmath.Dot(d, d)
}

// centroidPoints implements kdtree.Interface over a mutable slice of
// centroidPoint, partitioning in place on Pivot like the library's own
// kdtree.Points.
type centroidPoints []centroidPoint

func (p centroidPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p centroidPoints) Len() int                      { return len(p) }
func (p centroidPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p centroidPoints) Pivot(d kdtree.Dim) int {
	sort.Slice(p, func(i, j int) bool { return p[i].Compare(p[j], d) < 0 })
	return len(p) / 2
}

// primitiveIndex is a KD-tree over primitive centroids, used to prune
// the candidate set before exact ray/primitive tests (spec §4.5's
// "object-cost tuned near 8.0" acceleration structure, treated here as
// a centroid-proximity prefilter since the tree's own splitting
// algorithm is out of scope per spec §1).
type primitiveIndex struct {
	tree *kdtree.Tree
}

func newPrimitiveIndex(primitives []Primitive) *primitiveIndex {
	points := make(centroidPoints, len(primitives))
	for i, p := range primitives {
		points[i] = centroidPoint{idx: i, pos: p.Centroid()}
	}
	return &primitiveIndex{tree: kdtree.New(points, true)}
}

// rangeQuery collects every primitive index whose centroid lies
// within radius of center, walking the tree directly rather than
// through the library's Keeper machinery.
func (idx *primitiveIndex) rangeQuery(center vecmath.Vector3, radius float64) []int {
	var out []int
	if idx.tree == nil || idx.tree.Root == nil {
		return out
	}
	r2 := radius * radius
	var walk func(n *kdtree.Node)
	walk = func(n *kdtree.Node) {
		if n == nil {
			return
		}
		cp := n.Point.(centroidPoint)
		d := vecmath.Sub(cp.pos, center)
		if vecmath.Dot(d, d) <= r2 {
			out = append(out, cp.idx)
		}
		axisDist := cp.Compare(centroidPoint{pos: center}, n.Plane)
		if axisDist >= 0 {
			walk(n.Left)
			if axisDist*axisDist <= r2 {
				walk(n.Right)
			}
		} else {
			walk(n.Right)
			if axisDist*axisDist <= r2 {
				walk(n.Left)
			}
		}
	}
	walk(idx.tree.Root)
	return out
}

// all returns every primitive index, used as a fallback when a query
// radius cannot be bounded in advance (e.g. an unbounded ray with no
// prior hit distance to use as a search radius).
func (idx *primitiveIndex) all(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
