package poi

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"speckledic/internal/models"
)

// locatedPOI2D is a kdtree.Comparable wrapping a POI2D's location with the
// index needed to recover the original POI after a nearest-neighbor query,
// following the same Comparable/Interface split the teacher's kriging.go
// uses for its own spatial point type.
type locatedPOI2D struct {
	X, Y  float64
	Index int
}

func (p locatedPOI2D) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(locatedPOI2D)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("poi: illegal dimension")
	}
}

func (p locatedPOI2D) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, matching the
// kdtree.Comparable contract (gonum compares squared distances to avoid a
// sqrt on every candidate).
func (p locatedPOI2D) Distance(c kdtree.Comparable) float64 {
	q := c.(locatedPOI2D)
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

type locatedPOI2DSlice []locatedPOI2D

func (p locatedPOI2DSlice) Index(i int) kdtree.Comparable         { return p[i] }
func (p locatedPOI2DSlice) Len() int                              { return len(p) }
func (p locatedPOI2DSlice) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p locatedPOI2DSlice) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane2D{locatedPOI2DSlice: p, Dim: d}, kdtree.MedianOfRandoms(plane2D{locatedPOI2DSlice: p, Dim: d}, 100))
}

// plane2D implements kdtree.SortSlicer over a single dimension of a
// locatedPOI2DSlice, the dimension-aware sort helper kdtree.Partition needs
// to pick a pivot.
type plane2D struct {
	locatedPOI2DSlice
	kdtree.Dim
}

func (p plane2D) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.locatedPOI2DSlice[i].X < p.locatedPOI2DSlice[j].X
	case 1:
		return p.locatedPOI2DSlice[i].Y < p.locatedPOI2DSlice[j].Y
	default:
		panic("poi: illegal dimension")
	}
}

func (p plane2D) Swap(i, j int) {
	p.locatedPOI2DSlice[i], p.locatedPOI2DSlice[j] = p.locatedPOI2DSlice[j], p.locatedPOI2DSlice[i]
}

func (p plane2D) Slice(start, end int) kdtree.SortSlicer {
	return plane2D{locatedPOI2DSlice: p.locatedPOI2DSlice[start:end], Dim: p.Dim}
}

// SeedFromNeighbors2D looks at every POI in pois whose Result.Flag is not
// FlagOK and overwrites its Deformation's translational terms with the
// inverse-distance-weighted average displacement of its k nearest
// neighbors that did converge (FlagOK), leaving the higher-order terms at
// zero. It is meant to run between an FFT-CC pass and a subsequent ICGN
// pass, giving POIs whose own coarse estimate was rejected a warm start
// instead of the identity deformation. POIs with no converged neighbor in
// the batch are left untouched.
func SeedFromNeighbors2D(pois []*models.POI2D, k int) {
	var reliable locatedPOI2DSlice
	for i, p := range pois {
		if p.Result.Flag == models.FlagOK {
			reliable = append(reliable, locatedPOI2D{X: p.Location.X, Y: p.Location.Y, Index: i})
		}
	}
	if len(reliable) == 0 {
		return
	}
	tree := kdtree.New(reliable, true)

	for _, p := range pois {
		if p.Result.Flag == models.FlagOK {
			continue
		}
		keeper := kdtree.NewNKeeper(k)
		tree.NearestSet(keeper, locatedPOI2D{X: p.Location.X, Y: p.Location.Y})

		var sumU, sumV, sumWeight float64
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			neighbor := pois[cd.Comparable.(locatedPOI2D).Index]
			weight := 1.0 / (math.Sqrt(cd.Dist) + 1e-9)
			sumU += weight * neighbor.Result.Displacement.X
			sumV += weight * neighbor.Result.Displacement.Y
			sumWeight += weight
		}
		if sumWeight == 0 {
			continue
		}

		d := models.NewDeformation2D2()
		d.U = sumU / sumWeight
		d.V = sumV / sumWeight
		d.BuildMatrix()
		p.Result.Deformation = *d
		p.Result.Displacement = models.Point2D{X: d.U, Y: d.V}
	}
}

// locatedPOI3D is the volumetric analogue of locatedPOI2D.
type locatedPOI3D struct {
	X, Y, Z float64
	Index   int
}

func (p locatedPOI3D) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(locatedPOI3D)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("poi: illegal dimension")
	}
}

func (p locatedPOI3D) Dims() int { return 3 }

func (p locatedPOI3D) Distance(c kdtree.Comparable) float64 {
	q := c.(locatedPOI3D)
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

type locatedPOI3DSlice []locatedPOI3D

func (p locatedPOI3DSlice) Index(i int) kdtree.Comparable         { return p[i] }
func (p locatedPOI3DSlice) Len() int                              { return len(p) }
func (p locatedPOI3DSlice) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p locatedPOI3DSlice) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane3D{locatedPOI3DSlice: p, Dim: d}, kdtree.MedianOfRandoms(plane3D{locatedPOI3DSlice: p, Dim: d}, 100))
}

type plane3D struct {
	locatedPOI3DSlice
	kdtree.Dim
}

func (p plane3D) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.locatedPOI3DSlice[i].X < p.locatedPOI3DSlice[j].X
	case 1:
		return p.locatedPOI3DSlice[i].Y < p.locatedPOI3DSlice[j].Y
	case 2:
		return p.locatedPOI3DSlice[i].Z < p.locatedPOI3DSlice[j].Z
	default:
		panic("poi: illegal dimension")
	}
}

func (p plane3D) Swap(i, j int) {
	p.locatedPOI3DSlice[i], p.locatedPOI3DSlice[j] = p.locatedPOI3DSlice[j], p.locatedPOI3DSlice[i]
}

func (p plane3D) Slice(start, end int) kdtree.SortSlicer {
	return plane3D{locatedPOI3DSlice: p.locatedPOI3DSlice[start:end], Dim: p.Dim}
}

// SeedFromNeighbors3D is the volumetric analogue of SeedFromNeighbors2D.
func SeedFromNeighbors3D(pois []*models.POI3D, k int) {
	var reliable locatedPOI3DSlice
	for i, p := range pois {
		if p.Result.Flag == models.FlagOK {
			reliable = append(reliable, locatedPOI3D{X: p.Location.X, Y: p.Location.Y, Z: p.Location.Z, Index: i})
		}
	}
	if len(reliable) == 0 {
		return
	}
	tree := kdtree.New(reliable, true)

	for _, p := range pois {
		if p.Result.Flag == models.FlagOK {
			continue
		}
		keeper := kdtree.NewNKeeper(k)
		tree.NearestSet(keeper, locatedPOI3D{X: p.Location.X, Y: p.Location.Y, Z: p.Location.Z})

		var sumU, sumV, sumW, sumWeight float64
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			neighbor := pois[cd.Comparable.(locatedPOI3D).Index]
			weight := 1.0 / (math.Sqrt(cd.Dist) + 1e-9)
			sumU += weight * neighbor.Result.Displacement.X
			sumV += weight * neighbor.Result.Displacement.Y
			sumW += weight * neighbor.Result.Displacement.Z
			sumWeight += weight
		}
		if sumWeight == 0 {
			continue
		}

		d := models.NewDeformation3D1()
		d.U = sumU / sumWeight
		d.V = sumV / sumWeight
		d.W = sumW / sumWeight
		d.BuildMatrix()
		p.Result.Deformation = *d
		p.Result.Displacement = models.Point3D{X: d.U, Y: d.V, Z: d.W}
	}
}
