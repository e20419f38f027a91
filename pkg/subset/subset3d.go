package subset

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// Subset3D is a dense (2*RadiusX+1) x (2*RadiusY+1) x (2*RadiusZ+1)
// neighborhood extracted from a 3D volume view, centered on Center.
type Subset3D struct {
	Center                    models.Point3D
	RadiusX, RadiusY, RadiusZ int
	Data                      []float64 // row-major, width = 2*RadiusX+1, height = 2*RadiusY+1
}

// NewSubset3D allocates an empty subset of the given radii.
func NewSubset3D(center models.Point3D, radiusX, radiusY, radiusZ int) *Subset3D {
	width := 2*radiusX + 1
	height := 2*radiusY + 1
	depth := 2*radiusZ + 1
	return &Subset3D{
		Center:  center,
		RadiusX: radiusX,
		RadiusY: radiusY,
		RadiusZ: radiusZ,
		Data:    make([]float64, width*height*depth),
	}
}

// Width returns the subset's column count.
func (s *Subset3D) Width() int { return 2*s.RadiusX + 1 }

// Height returns the subset's row count.
func (s *Subset3D) Height() int { return 2*s.RadiusY + 1 }

// Depth returns the subset's slice count.
func (s *Subset3D) Depth() int { return 2*s.RadiusZ + 1 }

// At returns the value at local offset (dx, dy, dz).
func (s *Subset3D) At(dx, dy, dz int) float64 {
	width, height := s.Width(), s.Height()
	idx := (dz+s.RadiusZ)*width*height + (dy+s.RadiusY)*width + (dx + s.RadiusX)
	return s.Data[idx]
}

// Fill copies the neighborhood of Center out of vol into Data. The caller
// must already have confirmed vol.ContainsSubset(s.Center, s.RadiusX,
// s.RadiusY, s.RadiusZ); Fill does not itself bounds-check.
func (s *Subset3D) Fill(vol *imageview.Image3D) {
	x0, y0, z0 := s.Center.Truncated()
	width, height := s.Width(), s.Height()
	for dz := -s.RadiusZ; dz <= s.RadiusZ; dz++ {
		slab := (dz + s.RadiusZ) * width * height
		for dy := -s.RadiusY; dy <= s.RadiusY; dy++ {
			row := slab + (dy+s.RadiusY)*width
			for dx := -s.RadiusX; dx <= s.RadiusX; dx++ {
				s.Data[row+dx+s.RadiusX] = vol.At(x0+dx, y0+dy, z0+dz)
			}
		}
	}
}

// ZeroMeanNorm subtracts the subset's mean from every element in place and
// returns the L2 norm of the mean-subtracted data.
func (s *Subset3D) ZeroMeanNorm() float64 {
	mean := stat.Mean(s.Data, nil)
	var sumSq float64
	for i, v := range s.Data {
		centered := v - mean
		s.Data[i] = centered
		sumSq += centered * centered
	}
	return math.Sqrt(sumSq)
}
