package sources

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

// Voxel is a PDF-over-voxel-grid source (spec §3/§6): each voxel
// carries an activity weight, and decay positions are drawn by
// binary-searching a cumulative distribution over voxels, then
// sampling uniformly within the chosen cell.
type Voxel struct {
	Base
	Map             vecmath.RigidMap
	NX, NY, NZ      int
	VoxelSize       vecmath.Vector3
	Origin          vecmath.Vector3 // local-frame corner of voxel (0,0,0)
	weights         []float64       // flat, x-fastest, length NX*NY*NZ
	cdf             []float64       // cumulative, normalized to [0,1]
}

// NewVoxelSource builds a Voxel source from a flat x-fastest activity
// grid, normalizing it into a sampling CDF.
func NewVoxelSource(nx, ny, nz int, voxelSize, origin vecmath.Vector3, weights []float64) (*Voxel, error) {
	if len(weights) != nx*ny*nz {
		return nil, fmt.Errorf("sources: voxel grid expects %d values, got %d", nx*ny*nz, len(weights))
	}
	cdf := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("sources: voxel weight %d is negative: %v", i, w)
		}
		sum += w
		cdf[i] = sum
	}
	if sum <= 0 {
		return nil, fmt.Errorf("sources: voxel grid has zero total activity")
	}
	for i := range cdf {
		cdf[i] /= sum
	}
	return &Voxel{
		NX: nx, NY: ny, NZ: nz,
		VoxelSize: voxelSize, Origin: origin,
		weights: weights, cdf: cdf,
	}, nil
}

func (v *Voxel) index3(i int) (ix, iy, iz int) {
	ix = i % v.NX
	iy = (i / v.NX) % v.NY
	iz = i / (v.NX * v.NY)
	return
}

func (v *Voxel) Decay(g *random.Generator) vecmath.Vector3 {
	u := g.Float64()
	i := sort.SearchFloat64s(v.cdf, u)
	if i >= len(v.cdf) {
		i = len(v.cdf) - 1
	}
	ix, iy, iz := v.index3(i)
	local := vecmath.New(
		v.Origin.X+(float64(ix)+g.Float64())*v.VoxelSize.X,
		v.Origin.Y+(float64(iy)+g.Float64())*v.VoxelSize.Y,
		v.Origin.Z+(float64(iz)+g.Float64())*v.VoxelSize.Z,
	)
	return v.Map.Forward(local)
}

func (v *Voxel) Inside(pos vecmath.Vector3) bool {
	local := v.Map.Backward(pos)
	ix := int(math.Floor((local.X - v.Origin.X) / v.VoxelSize.X))
	iy := int(math.Floor((local.Y - v.Origin.Y) / v.VoxelSize.Y))
	iz := int(math.Floor((local.Z - v.Origin.Z) / v.VoxelSize.Z))
	if ix < 0 || iy < 0 || iz < 0 || ix >= v.NX || iy >= v.NY || iz >= v.NZ {
		return false
	}
	return v.weights[iz*v.NX*v.NY+iy*v.NX+ix] > 0
}

// ReadVoxelGrid parses the voxel source file format from spec §6:
// a header line of "nx ny nz" followed by nx*ny*nz whitespace- or
// newline-separated double values in x-fastest order.
func ReadVoxelGrid(r io.Reader) (nx, ny, nz int, weights []float64, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	readInt := func() (int, error) {
		if !sc.Scan() {
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.Atoi(sc.Text())
	}
	if nx, err = readInt(); err != nil {
		return 0, 0, 0, nil, fmt.Errorf("sources: voxel header nx: %w", err)
	}
	if ny, err = readInt(); err != nil {
		return 0, 0, 0, nil, fmt.Errorf("sources: voxel header ny: %w", err)
	}
	if nz, err = readInt(); err != nil {
		return 0, 0, 0, nil, fmt.Errorf("sources: voxel header nz: %w", err)
	}

	n := nx * ny * nz
	weights = make([]float64, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return 0, 0, 0, nil, fmt.Errorf("sources: voxel grid truncated at value %d of %d", i, n)
		}
		v, perr := strconv.ParseFloat(sc.Text(), 64)
		if perr != nil {
			return 0, 0, 0, nil, fmt.Errorf("sources: voxel grid value %d: %w", i, perr)
		}
		weights[i] = v
	}
	return nx, ny, nz, weights, nil
}
