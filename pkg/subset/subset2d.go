// Package subset extracts the small neighborhoods ("subsets") around each
// point of interest that FFT-CC and ICGN correlate against one another.
package subset

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// Subset2D is a dense (2*RadiusX+1) x (2*RadiusY+1) neighborhood extracted
// from a 2D image view, centered on Center.
type Subset2D struct {
	Center           models.Point2D
	RadiusX, RadiusY int
	Data             []float64 // row-major, width = 2*RadiusX+1
}

// NewSubset2D allocates an empty subset of the given radii.
func NewSubset2D(center models.Point2D, radiusX, radiusY int) *Subset2D {
	width := 2*radiusX + 1
	height := 2*radiusY + 1
	return &Subset2D{
		Center:  center,
		RadiusX: radiusX,
		RadiusY: radiusY,
		Data:    make([]float64, width*height),
	}
}

// Width returns the subset's column count.
func (s *Subset2D) Width() int { return 2*s.RadiusX + 1 }

// Height returns the subset's row count.
func (s *Subset2D) Height() int { return 2*s.RadiusY + 1 }

// At returns the value at local offset (dx, dy), where dx, dy range over
// [-RadiusX, RadiusX] and [-RadiusY, RadiusY] respectively.
func (s *Subset2D) At(dx, dy int) float64 {
	return s.Data[(dy+s.RadiusY)*s.Width()+(dx+s.RadiusX)]
}

// Fill copies the neighborhood of Center out of img into Data. The caller
// must already have confirmed img.ContainsSubset(s.Center, s.RadiusX,
// s.RadiusY); Fill does not itself bounds-check.
func (s *Subset2D) Fill(img *imageview.Image2D) {
	x0, y0 := s.Center.Truncated()
	width := s.Width()
	for dy := -s.RadiusY; dy <= s.RadiusY; dy++ {
		row := (dy + s.RadiusY) * width
		for dx := -s.RadiusX; dx <= s.RadiusX; dx++ {
			s.Data[row+dx+s.RadiusX] = img.At(x0+dx, y0+dy)
		}
	}
}

// ZeroMeanNorm subtracts the subset's mean from every element in place and
// returns the L2 norm of the mean-subtracted data. After this call the
// subset's sum is zero (within floating-point tolerance); a near-zero
// return value indicates a flat, low-contrast neighborhood unsuitable for
// correlation.
func (s *Subset2D) ZeroMeanNorm() float64 {
	mean := stat.Mean(s.Data, nil)
	var sumSq float64
	for i, v := range s.Data {
		centered := v - mean
		s.Data[i] = centered
		sumSq += centered * centered
	}
	return math.Sqrt(sumSq)
}
