package icgn

import (
	"speckledic/internal/models"
	"speckledic/pkg/bspline"
	"speckledic/pkg/gradient"
	"speckledic/pkg/imageview"
)

// Estimator2D2 refines POI2D points with the second-order (quadratic) 2D
// shape function, at roughly twice the per-iteration cost of Estimator2D1
// in exchange for tolerating larger local curvature in the deformation
// field.
type Estimator2D2 struct {
	RadiusX, RadiusY int
	Config           iterationConfig

	refGradient *gradient.Field2D
	tarSpline   *bspline.Spline2D
}

// NewEstimator2D2 builds an estimator for the given subset radii and
// convergence controls.
func NewEstimator2D2(radiusX, radiusY int, convCriterion float64, stopCondition int, maxHessianCondition, minSubsetNorm float64) *Estimator2D2 {
	return &Estimator2D2{
		RadiusX: radiusX, RadiusY: radiusY,
		Config: iterationConfig{
			ConvCriterion: convCriterion, StopCondition: stopCondition,
			MaxHessianCondition: maxHessianCondition, MinSubsetNorm: minSubsetNorm,
		},
	}
}

// Prepare computes the reference gradient field and the target B-spline
// coefficients once per reference/target pair. It must be called before
// Compute and again whenever either image changes.
func (e *Estimator2D2) Prepare(ref, tar *imageview.Image2D) {
	e.refGradient = gradient.Compute2D4(ref)
	e.tarSpline = bspline.NewSpline2D(tar)
	e.tarSpline.Prepare(tar)
}

// Compute refines poi in place, starting from poi.Result.Deformation's
// full twelve parameters as the initial guess.
func (e *Estimator2D2) Compute(ref, tar *imageview.Image2D, poi *models.POI2D) {
	sf := newSF2D2()
	initial := poi.Result.Deformation
	sf.SetVector(initial.Vector())

	iterations, dpNorm, znssd, condNumber, flag := runICGN2D(sf, ref, tar, e.refGradient, e.tarSpline,
		poi.Location, e.RadiusX, e.RadiusY, e.Config)

	poi.Result.Flag = flag
	if flag == models.FlagOutOfROI || flag == models.FlagDegenerateSubset {
		poi.Result.ZNCC = -1
		return
	}

	poi.Result.InitialDisplacement = models.Point2D{X: initial.U, Y: initial.V}
	poi.Result.Iterations = iterations
	poi.Result.ConditionNumber = condNumber
	poi.Result.Convergence = dpNorm

	poi.Result.Deformation = *sf.Deformation2D2
	poi.Result.Displacement = models.Point2D{X: sf.U, Y: sf.V}
	if flag != models.FlagSingularHessian {
		poi.Result.ZNCC = 0.5 * (2 - znssd)
	}
}
