package fftcc

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
	"speckledic/pkg/spectral"
)

// Estimator3D is the volumetric analogue of Estimator2D.
type Estimator3D struct {
	RadiusX, RadiusY, RadiusZ int
	MinNorm                   float64

	pool *spectral.Pool3D
}

// NewEstimator3D builds an estimator with a bounded scratch pool of the
// given size, sized for (2*radiusX) x (2*radiusY) x (2*radiusZ) FFT
// subsets.
func NewEstimator3D(radiusX, radiusY, radiusZ, poolSize int, minNorm float64) *Estimator3D {
	return &Estimator3D{
		RadiusX: radiusX, RadiusY: radiusY, RadiusZ: radiusZ, MinNorm: minNorm,
		pool: spectral.NewPool3D(poolSize, radiusX, radiusY, radiusZ),
	}
}

// Compute refines poi.Result.Deformation's (U, V, W) initial guess to the
// integer displacement maximizing zero-normalized cross correlation.
func (e *Estimator3D) Compute(ref, tar *imageview.Image3D, poi *models.POI3D) {
	scratch := e.pool.Acquire()
	defer e.pool.Release(scratch)

	width, height, depth := scratch.Plan.Width, scratch.Plan.Height, scratch.Plan.Depth
	size := width * height * depth

	initial := models.Point3D{X: poi.Result.Deformation.U, Y: poi.Result.Deformation.V, Z: poi.Result.Deformation.W}
	poi.Result.InitialDisplacement = initial
	x0, y0, z0 := poi.Location.Truncated()

	var refMean, tarMean float64
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			for z := 0; z < depth; z++ {
				refX, refY, refZ := x0+x-e.RadiusX, y0+y-e.RadiusY, z0+z-e.RadiusZ
				idx := x*height*depth + y*depth + z

				refVal := ref.At(refX, refY, refZ)
				scratch.RefSubset[idx] = refVal
				refMean += refVal

				tarVal := tar.At(refX+int(initial.X), refY+int(initial.Y), refZ+int(initial.Z))
				scratch.TarSubset[idx] = tarVal
				tarMean += tarVal
			}
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

	localX := maxIdx / (height * depth)
	rem := maxIdx % (height * depth)
	localY := rem / depth
	localZ := rem % depth

	if localX > e.RadiusX {
		localX -= width
	}
	if localY > e.RadiusY {
		localY -= height
	}
	if localZ > e.RadiusZ {
		localZ -= depth
	}

	poi.Result.Deformation.U = float64(localX) + initial.X
	poi.Result.Deformation.V = float64(localY) + initial.Y
	poi.Result.Deformation.W = float64(localZ) + initial.Z
	poi.Result.ZNCC = maxVal / (refNormL2 * tarNormL2 * float64(size))
	poi.Result.Flag = models.FlagOK
}
