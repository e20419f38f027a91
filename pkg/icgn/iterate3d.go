package icgn

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/bspline"
	"speckledic/pkg/gradient"
	"speckledic/pkg/imageview"
	"speckledic/pkg/subset"
)

// runICGN3D is the volumetric analogue of runICGN2D: the same
// Gauss-Newton structure, parameterized by a ShapeFunction3D.
func runICGN3D(sf ShapeFunction3D, ref, tar *imageview.Image3D, grad *gradient.Field3D, interp *bspline.Spline3D,
	center models.Point3D, radiusX, radiusY, radiusZ int, cfg iterationConfig) (iterations int, dpNorm, znssd float64, condNumber float64, flag models.ResultFlag) {

	if !ref.ContainsSubset(center, radiusX, radiusY, radiusZ) || !tar.ContainsSubset(center, radiusX, radiusY, radiusZ) {
		return 0, 0, 0, 0, models.FlagOutOfROI
	}
	for _, v := range sf.Vector() {
		if math.IsNaN(v) {
			return 0, 0, 0, 0, models.FlagOutOfROI
		}
	}
	x0, y0, z0 := center.Truncated()

	refSub := subset.NewSubset3D(center, radiusX, radiusY, radiusZ)
	refSub.Fill(ref)
	refMeanNorm := refSub.ZeroMeanNorm()
	if refMeanNorm < cfg.MinSubsetNorm {
		return 0, 0, 0, 0, models.FlagDegenerateSubset
	}

	p := sf.ParameterCount()
	width, height, depth := refSub.Width(), refSub.Height(), refSub.Depth()
	planeSize := width * height
	rows := make([][]float64, width*height*depth)
	for s := 0; s < depth; s++ {
		zLocal := s - radiusZ
		for r := 0; r < height; r++ {
			yLocal := r - radiusY
			for c := 0; c < width; c++ {
				xLocal := c - radiusX
				gx, gy, gz := grad.At(x0+xLocal, y0+yLocal, z0+zLocal)
				rows[s*planeSize+r*width+c] = sf.SteepestDescentRow(gx, gy, gz, xLocal, yLocal, zLocal)
			}
		}
	}

	hessian := assembleHessian(rows, p)
	invHessian, condNumber, flag := invertHessian(hessian, cfg.MaxHessianCondition)
	if flag == models.FlagSingularHessian {
		return 0, 0, 0, condNumber, flag
	}

	tarSub := subset.NewSubset3D(center, radiusX, radiusY, radiusZ)

	var dp []float64
	for iterations = 1; ; iterations++ {
		for s := 0; s < depth; s++ {
			zLocal := s - radiusZ
			for r := 0; r < height; r++ {
				yLocal := r - radiusY
				for c := 0; c < width; c++ {
					xLocal := c - radiusX
					warped := sf.Warp(models.Point3D{X: float64(xLocal), Y: float64(yLocal), Z: float64(zLocal)})
					global := center.Add(warped)
					tarSub.Data[s*planeSize+r*width+c] = interp.At(global)
				}
			}
		}
		tarMeanNorm := tarSub.ZeroMeanNorm()
		if tarMeanNorm < cfg.MinSubsetNorm {
			return iterations, dpNorm, znssd, condNumber, models.FlagDegenerateSubset
		}

		scale := refMeanNorm / tarMeanNorm
		errImg := make([]float64, width*height*depth)
		var sumSq float64
		for i := range errImg {
			e := tarSub.Data[i]*scale - refSub.Data[i]
			errImg[i] = e
			sumSq += e * e
		}
		znssd = sumSq / (refMeanNorm * refMeanNorm)

		numerator := make([]float64, p)
		for i, row := range rows {
			e := errImg[i]
			for k := 0; k < p; k++ {
				numerator[k] += row[k] * e
			}
		}

		dp = matVec(invHessian, numerator)

		increment := newShapeIncrement3D(sf, dp)
		if err := sf.ComposeInverse(increment); err != nil {
			return iterations, math.Inf(1), znssd, condNumber, models.FlagSingularHessian
		}

		weights := sf.ConvergenceWeights(radiusX, radiusY, radiusZ)
		var weighted float64
		for i, w := range weights {
			weighted += dp[i] * dp[i] * w
		}
		dpNorm = math.Sqrt(weighted)

		if iterations >= cfg.StopCondition {
			if dpNorm >= cfg.ConvCriterion {
				flag = models.FlagDiverged
			}
			break
		}
		if dpNorm < cfg.ConvCriterion {
			break
		}
	}

	return iterations, dpNorm, znssd, condNumber, flag
}

// newShapeIncrement3D builds a fresh shape function of the same concrete
// type as sf, loaded with the increment vector dp.
func newShapeIncrement3D(sf ShapeFunction3D, dp []float64) ShapeFunction3D {
	switch sf.(type) {
	case *sf3D1:
		inc := newSF3D1()
		inc.SetVector(dp)
		return inc
	default:
		panic("icgn: unknown ShapeFunction3D concrete type")
	}
}
