// Package gradient computes dense spatial gradients of a reference image
// or volume with a 4th-order central-difference stencil, for use by the
// ICGN steepest-descent image assembly.
package gradient

import "speckledic/pkg/imageview"

// stencil holds the 4th-order central-difference coefficients
// (1, -8, 0, 8, -1)/12 applied across five samples along an axis.
var stencil = [5]float64{1.0 / 12, -8.0 / 12, 0, 8.0 / 12, -1.0 / 12}

// Field2D holds dense ∂I/∂x and ∂I/∂y arrays the same shape as the source
// image. Values within two pixels of the border are computed from
// edge-replicated samples and are not accurate. The ICGN estimators reject
// only subsets that leave the image, so a subset touching the border does
// read these values.
type Field2D struct {
	GradX, GradY  []float64
	Width, Height int
}

// Compute2D4 differentiates img with the 4th-order central-difference
// stencil along both axes.
func Compute2D4(img *imageview.Image2D) *Field2D {
	f := &Field2D{
		GradX:  make([]float64, img.Width*img.Height),
		GradY:  make([]float64, img.Width*img.Height),
		Width:  img.Width,
		Height: img.Height,
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			f.GradX[y*img.Width+x] = derivativeX(img, x, y)
			f.GradY[y*img.Width+x] = derivativeY(img, x, y)
		}
	}
	return f
}

func derivativeX(img *imageview.Image2D, x, y int) float64 {
	var sum float64
	for k := -2; k <= 2; k++ {
		xx := clamp(x+k, img.Width)
		sum += stencil[k+2] * img.At(xx, y)
	}
	return sum
}

func derivativeY(img *imageview.Image2D, x, y int) float64 {
	var sum float64
	for k := -2; k <= 2; k++ {
		yy := clamp(y+k, img.Height)
		sum += stencil[k+2] * img.At(x, yy)
	}
	return sum
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}

// At returns (∂I/∂x, ∂I/∂y) at (x, y).
func (f *Field2D) At(x, y int) (gx, gy float64) {
	idx := y*f.Width + x
	return f.GradX[idx], f.GradY[idx]
}
