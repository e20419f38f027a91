package fftcc

import (
	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// SpeckleSize2D estimates the half-peak breadth of the reference subset's
// autocorrelation along x and y, a diagnostic of how finely a speckle
// pattern resolves displacement: narrower autocorrelation means smaller
// speckles and finer achievable resolution.
//
// The half-peak search loops below are bounded by axis0-1, not axis0: the
// last candidate pair they would otherwise compare sits one step past the
// zero-mean autocorrelation matrix's valid index range for that search
// direction.
func (e *Estimator2D) SpeckleSize2D(ref *imageview.Image2D, poi *models.POI2D, halfPeakRatio float64) models.Point2D {
	scratch := e.pool.Acquire()
	defer e.pool.Release(scratch)

	width, height := scratch.Plan.Width, scratch.Plan.Height
	size := width * height
	x0, y0 := poi.Location.Truncated()

	var refMean float64
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			v := ref.At(x0+x-e.RadiusX, y0+y-e.RadiusY)
			scratch.RefSubset[x*height+y] = v
			refMean += v
		}
	}
	refMean /= float64(size)

	var refNorm float64
	for i := 0; i < size; i++ {
		v := scratch.RefSubset[i] - refMean
		scratch.RefSubset[i] = v
		scratch.TarSubset[i] = v
		refNorm += v * v
	}

	scratch.Plan.Forward(scratch.RefSubset, scratch.RefSpectrum)
	scratch.Plan.Forward(scratch.TarSubset, scratch.TarSpectrum)

	for n := range scratch.CrossSpectrum {
		r := scratch.RefSpectrum[n]
		tv := scratch.TarSpectrum[n]
		re := real(r)*real(tv) + imag(r)*imag(tv)
		im := real(r)*imag(tv) - imag(r)*real(tv)
		scratch.CrossSpectrum[n] = complex(re, im)
	}
	scratch.Plan.Inverse(scratch.CrossSpectrum, scratch.Output)

	normAuto := refNorm * float64(size)
	zncc := make([][]float64, height)
	for i := range zncc {
		zncc[i] = make([]float64, width)
	}
	for i := 0; i < size; i++ {
		val := scratch.Output[i] / normAuto
		shiftX := i / height
		shiftY := i % height
		if shiftX > e.RadiusX {
			shiftX -= width
		}
		if shiftY > e.RadiusY {
			shiftY -= height
		}
		shiftX += e.RadiusX - 1
		shiftY += e.RadiusY - 1
		zncc[shiftY][shiftX] = val
	}

	cx0 := e.RadiusX - 1
	cy0 := e.RadiusY - 1

	var rx1, rx2, ry1, ry2 float64
	for i := 0; i < cx0-1; i++ {
		x1, x2 := cx0+i, cx0+i+1
		if zncc[cy0][x1] > halfPeakRatio && zncc[cy0][x2] <= halfPeakRatio {
			rx1 = float64(x2) - float64(x2-x1)*(halfPeakRatio-zncc[cy0][x2])*(zncc[cy0][x1]-zncc[cy0][x2])
			break
		}
	}
	for i := 0; i < cx0-1; i++ {
		x1, x2 := cx0-i, cx0-i-1
		if zncc[cy0][x1] > halfPeakRatio && zncc[cy0][x2] <= halfPeakRatio {
			rx2 = float64(x2) - float64(x2-x1)*(halfPeakRatio-zncc[cy0][x2])*(zncc[cy0][x1]-zncc[cy0][x2])
			break
		}
	}
	for i := 0; i < cy0-1; i++ {
		y1, y2 := cy0+i, cy0+i+1
		if zncc[y1][cx0] > halfPeakRatio && zncc[y2][cx0] <= halfPeakRatio {
			ry1 = float64(y2) - float64(y2-y1)*(halfPeakRatio-zncc[y2][cx0])*(zncc[y1][cx0]-zncc[y2][cx0])
			break
		}
	}
	for i := 0; i < cy0-1; i++ {
		y1, y2 := cy0-i, cy0-i-1
		if zncc[y1][cx0] > halfPeakRatio && zncc[y2][cx0] <= halfPeakRatio {
			ry2 = float64(y2) - float64(y2-y1)*(halfPeakRatio-zncc[y2][cx0])*(zncc[y1][cx0]-zncc[y2][cx0])
			break
		}
	}

	return models.Point2D{X: rx1 - rx2, Y: ry1 - ry2}
}
