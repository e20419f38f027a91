package bspline

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// Spline3D is the volumetric analogue of Spline2D: tricubic B-spline
// coefficients computed by separable recursive deconvolution along x, then
// y, then z.
type Spline3D struct {
	coeffs               []float64
	width, height, depth int
}

// NewSpline3D allocates a spline ready to be Prepared against vol.
func NewSpline3D(vol *imageview.Image3D) *Spline3D {
	return &Spline3D{width: vol.Width, height: vol.Height, depth: vol.Depth}
}

// Prepare computes the B-spline coefficients for vol.
func (s *Spline3D) Prepare(vol *imageview.Image3D) {
	s.width, s.height, s.depth = vol.Width, vol.Height, vol.Depth
	s.coeffs = make([]float64, vol.Width*vol.Height*vol.Depth)
	copy(s.coeffs, vol.Data)

	planeSize := s.width * s.height

	row := make([]float64, s.width)
	for z := 0; z < s.depth; z++ {
		base := z * planeSize
		for y := 0; y < s.height; y++ {
			off := base + y*s.width
			copy(row, s.coeffs[off:off+s.width])
			deconvolve(row)
			copy(s.coeffs[off:off+s.width], row)
		}
	}

	col := make([]float64, s.height)
	for z := 0; z < s.depth; z++ {
		base := z * planeSize
		for x := 0; x < s.width; x++ {
			for y := 0; y < s.height; y++ {
				col[y] = s.coeffs[base+y*s.width+x]
			}
			deconvolve(col)
			for y := 0; y < s.height; y++ {
				s.coeffs[base+y*s.width+x] = col[y]
			}
		}
	}

	depthCol := make([]float64, s.depth)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			for z := 0; z < s.depth; z++ {
				depthCol[z] = s.coeffs[z*planeSize+y*s.width+x]
			}
			deconvolve(depthCol)
			for z := 0; z < s.depth; z++ {
				s.coeffs[z*planeSize+y*s.width+x] = depthCol[z]
			}
		}
	}
}

// At returns the interpolated value at real coordinate p. p must lie
// within the interior of the prepared volume; out-of-bounds evaluation is
// undefined and callers are expected to clip POIs before reaching this
// call.
func (s *Spline3D) At(p models.Point3D) float64 {
	x0 := int(math.Floor(p.X))
	y0 := int(math.Floor(p.Y))
	z0 := int(math.Floor(p.Z))
	tx := p.X - float64(x0)
	ty := p.Y - float64(y0)
	tz := p.Z - float64(z0)

	wx := cubicBasis(tx)
	wy := cubicBasis(ty)
	wz := cubicBasis(tz)

	planeSize := s.width * s.height

	var value float64
	for k := -1; k <= 2; k++ {
		zz := clampIndex(z0+k, s.depth)
		var planeSum float64
		for j := -1; j <= 2; j++ {
			yy := clampIndex(y0+j, s.height)
			rowBase := zz*planeSize + yy*s.width
			var rowSum float64
			for i := -1; i <= 2; i++ {
				xx := clampIndex(x0+i, s.width)
				rowSum += wx[i+1] * s.coeffs[rowBase+xx]
			}
			planeSum += wy[j+1] * rowSum
		}
		value += wz[k+1] * planeSum
	}
	return value
}
