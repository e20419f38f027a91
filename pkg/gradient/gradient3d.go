package gradient

import "speckledic/pkg/imageview"

// Field3D holds dense ∂I/∂x, ∂I/∂y, ∂I/∂z arrays the same shape as the
// source volume.
type Field3D struct {
	GradX, GradY, GradZ  []float64
	Width, Height, Depth int
}

// Compute3D4 differentiates vol with the 4th-order central-difference
// stencil along all three axes.
func Compute3D4(vol *imageview.Image3D) *Field3D {
	n := vol.Width * vol.Height * vol.Depth
	f := &Field3D{
		GradX: make([]float64, n), GradY: make([]float64, n), GradZ: make([]float64, n),
		Width: vol.Width, Height: vol.Height, Depth: vol.Depth,
	}

	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				idx := z*vol.Width*vol.Height + y*vol.Width + x
				f.GradX[idx] = derivativeX3(vol, x, y, z)
				f.GradY[idx] = derivativeY3(vol, x, y, z)
				f.GradZ[idx] = derivativeZ3(vol, x, y, z)
			}
		}
	}
	return f
}

func derivativeX3(vol *imageview.Image3D, x, y, z int) float64 {
	var sum float64
	for k := -2; k <= 2; k++ {
		sum += stencil[k+2] * vol.At(clamp(x+k, vol.Width), y, z)
	}
	return sum
}

func derivativeY3(vol *imageview.Image3D, x, y, z int) float64 {
	var sum float64
	for k := -2; k <= 2; k++ {
		sum += stencil[k+2] * vol.At(x, clamp(y+k, vol.Height), z)
	}
	return sum
}

func derivativeZ3(vol *imageview.Image3D, x, y, z int) float64 {
	var sum float64
	for k := -2; k <= 2; k++ {
		sum += stencil[k+2] * vol.At(x, y, clamp(z+k, vol.Depth))
	}
	return sum
}

// At returns (∂I/∂x, ∂I/∂y, ∂I/∂z) at (x, y, z).
func (f *Field3D) At(x, y, z int) (gx, gy, gz float64) {
	idx := z*f.Width*f.Height + y*f.Width + x
	return f.GradX[idx], f.GradY[idx], f.GradZ[idx]
}
