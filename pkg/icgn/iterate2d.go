package icgn

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/bspline"
	"speckledic/pkg/gradient"
	"speckledic/pkg/imageview"
	"speckledic/pkg/subset"
)

// iterationConfig bundles the convergence controls shared by every ICGN
// estimator regardless of shape-function order or dimensionality.
type iterationConfig struct {
	ConvCriterion       float64
	StopCondition       int
	MaxHessianCondition float64
	MinSubsetNorm       float64
}

// runICGN2D executes the Inverse Compositional Gauss-Newton loop for a
// single POI using shape function sf, sharing the Hessian assembly,
// target reconstruction and convergence test across shape orders. It
// mutates sf in place and returns the outcome to be written into the POI
// result.
func runICGN2D(sf ShapeFunction2D, ref, tar *imageview.Image2D, grad *gradient.Field2D, interp *bspline.Spline2D,
	center models.Point2D, radiusX, radiusY int, cfg iterationConfig) (iterations int, dpNorm, znssd float64, condNumber float64, flag models.ResultFlag) {

	x0, y0 := center.Truncated()
	if x0-radiusX < 0 || y0-radiusY < 0 || x0+radiusX >= ref.Width || y0+radiusY >= ref.Height {
		return 0, 0, 0, 0, models.FlagOutOfROI
	}
	for _, v := range sf.Vector() {
		if math.IsNaN(v) {
			return 0, 0, 0, 0, models.FlagOutOfROI
		}
	}

	refSub := subset.NewSubset2D(center, radiusX, radiusY)
	refSub.Fill(ref)
	refMeanNorm := refSub.ZeroMeanNorm()
	if refMeanNorm < cfg.MinSubsetNorm {
		return 0, 0, 0, 0, models.FlagDegenerateSubset
	}

	p := sf.ParameterCount()
	width, height := refSub.Width(), refSub.Height()
	rows := make([][]float64, width*height)
	for r := 0; r < height; r++ {
		yLocal := r - radiusY
		for c := 0; c < width; c++ {
			xLocal := c - radiusX
			gx, gy := grad.At(x0+xLocal, y0+yLocal)
			rows[r*width+c] = sf.SteepestDescentRow(gx, gy, xLocal, yLocal)
		}
	}

	hessian := assembleHessian(rows, p)
	invHessian, condNumber, flag := invertHessian(hessian, cfg.MaxHessianCondition)
	if flag == models.FlagSingularHessian {
		return 0, 0, 0, condNumber, flag
	}

	tarSub := subset.NewSubset2D(center, radiusX, radiusY)

	var dp []float64
	for iterations = 1; ; iterations++ {
		for r := 0; r < height; r++ {
			yLocal := r - radiusY
			for c := 0; c < width; c++ {
				xLocal := c - radiusX
				warped := sf.Warp(models.Point2D{X: float64(xLocal), Y: float64(yLocal)})
				global := center.Add(warped)
				tarSub.Data[r*width+c] = interp.At(global)
			}
		}
		tarMeanNorm := tarSub.ZeroMeanNorm()
		if tarMeanNorm < cfg.MinSubsetNorm {
			return iterations, dpNorm, znssd, condNumber, models.FlagDegenerateSubset
		}

		scale := refMeanNorm / tarMeanNorm
		errImg := make([]float64, width*height)
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

		increment := newShapeIncrement2D(sf, dp)
		if err := sf.ComposeInverse(increment); err != nil {
			return iterations, math.Inf(1), znssd, condNumber, models.FlagSingularHessian
		}

		weights := sf.ConvergenceWeights(radiusX, radiusY)
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

// newShapeIncrement2D builds a fresh shape function of the same concrete
// type as sf, loaded with the increment vector dp.
func newShapeIncrement2D(sf ShapeFunction2D, dp []float64) ShapeFunction2D {
	switch sf.(type) {
	case *sf2D1:
		inc := newSF2D1()
		inc.SetVector(dp)
		return inc
	case *sf2D2:
		inc := newSF2D2()
		inc.SetVector(dp)
		return inc
	default:
		panic("icgn: unknown ShapeFunction2D concrete type")
	}
}
