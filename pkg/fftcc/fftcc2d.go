// Package fftcc implements the FFT-accelerated cross correlation estimator:
// a spectral-domain search for the integer-pixel displacement that best
// aligns a reference subset with a target subset, used as the initial
// guess ICGN refines to sub-pixel accuracy.
package fftcc

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
	"speckledic/pkg/spectral"
)

// Estimator2D computes integer-pixel displacements for POI2D points via
// normalized cross correlation in the frequency domain.
type Estimator2D struct {
	RadiusX, RadiusY int
	MinNorm          float64

	pool *spectral.Pool2D
}

// NewEstimator2D builds an estimator with a bounded scratch pool of the
// given size, sized for (2*radiusX) x (2*radiusY) FFT subsets.
func NewEstimator2D(radiusX, radiusY, poolSize int, minNorm float64) *Estimator2D {
	return &Estimator2D{
		RadiusX: radiusX, RadiusY: radiusY, MinNorm: minNorm,
		pool: spectral.NewPool2D(poolSize, radiusX, radiusY),
	}
}

// Compute refines poi.Result.Deformation's (U, V) initial guess to the
// integer displacement that maximizes the zero-normalized cross
// correlation between the reference subset around poi.Location and the
// target subset around poi.Location + initial guess.
func (e *Estimator2D) Compute(ref, tar *imageview.Image2D, poi *models.POI2D) {
	scratch := e.pool.Acquire()
	defer e.pool.Release(scratch)

	width, height := scratch.Plan.Width, scratch.Plan.Height
	size := width * height

	initial := models.Point2D{X: poi.Result.Deformation.U, Y: poi.Result.Deformation.V}
	poi.Result.InitialDisplacement = initial

	var refMean, tarMean float64
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			refX := int(poi.Location.X) + x - e.RadiusX
			refY := int(poi.Location.Y) + y - e.RadiusY
			refVal := ref.At(refX, refY)
			scratch.RefSubset[x*height+y] = refVal
			refMean += refVal

			tarX := refX + int(initial.X)
			tarY := refY + int(initial.Y)
			tarVal := tar.At(tarX, tarY)
			scratch.TarSubset[x*height+y] = tarVal
			tarMean += tarVal
		}
	}
	refMean /= float64(size)
	tarMean /= float64(size)

	var refNorm, tarNorm float64
	for i := 0; i < size; i++ {
		r := scratch.RefSubset[i] - refMean
		tv := scratch.TarSubset[i] - tarMean
		scratch.RefSubset[i] = r
		scratch.TarSubset[i] = tv
		refNorm += r * r
		tarNorm += tv * tv
	}

	refNormL2 := math.Sqrt(refNorm)
	tarNormL2 := math.Sqrt(tarNorm)
	if refNormL2 < e.MinNorm || tarNormL2 < e.MinNorm {
		poi.Result.Flag = models.FlagDegenerateSubset
		return
	}

	scratch.Plan.Forward(scratch.RefSubset, scratch.RefSpectrum)
	scratch.Plan.Forward(scratch.TarSubset, scratch.TarSpectrum)

	for n := range scratch.CrossSpectrum {
		ref := scratch.RefSpectrum[n]
		tarc := scratch.TarSpectrum[n]
		re := real(ref)*real(tarc) + imag(ref)*imag(tarc)
		im := real(ref)*imag(tarc) - imag(ref)*real(tarc)
		scratch.CrossSpectrum[n] = complex(re, im)
	}

	scratch.Plan.Inverse(scratch.CrossSpectrum, scratch.Output)

	maxVal := -math.MaxFloat64
	maxIdx := 0
	for i, v := range scratch.Output {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}

	localX := maxIdx / height
	localY := maxIdx % height
	if localX > e.RadiusX {
		localX -= width
	}
	if localY > e.RadiusY {
		localY -= height
	}

	poi.Result.Deformation.U = float64(localX) + initial.X
	poi.Result.Deformation.V = float64(localY) + initial.Y
	poi.Result.ZNCC = maxVal / (refNormL2 * tarNormL2 * float64(size))
	poi.Result.Flag = models.FlagOK
}
