package icgn

import (
	"speckledic/internal/models"
	"speckledic/pkg/bspline"
	"speckledic/pkg/gradient"
	"speckledic/pkg/imageview"
)

// Estimator2D1 refines POI2D points with the first-order (affine) 2D
// shape function.
type Estimator2D1 struct {
	RadiusX, RadiusY int
	Config           iterationConfig

	refGradient *gradient.Field2D
	tarSpline   *bspline.Spline2D
}

// NewEstimator2D1 builds an estimator for the given subset radii and
// convergence controls.
func NewEstimator2D1(radiusX, radiusY int, convCriterion float64, stopCondition int, maxHessianCondition, minSubsetNorm float64) *Estimator2D1 {
	return &Estimator2D1{
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
func (e *Estimator2D1) Prepare(ref, tar *imageview.Image2D) {
	e.refGradient = gradient.Compute2D4(ref)
	e.tarSpline = bspline.NewSpline2D(tar)
	e.tarSpline.Prepare(tar)
}

// Compute refines poi in place, starting from poi.Result.Deformation's
// first-order terms as the initial guess (typically the output of an
// FFT-CC estimator); second-order terms are ignored on input and left at
// zero on output.
func (e *Estimator2D1) Compute(ref, tar *imageview.Image2D, poi *models.POI2D) {
	sf := newSF2D1()
	initial := poi.Result.Deformation
	sf.SetVector([]float64{initial.U, initial.Ux, initial.Uy, initial.V, initial.Vx, initial.Vy})

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

	d := models.NewDeformation2D2()
	d.U, d.Ux, d.Uy = sf.U, sf.Ux, sf.Uy
	d.V, d.Vx, d.Vy = sf.V, sf.Vx, sf.Vy
	d.BuildMatrix()
	poi.Result.Deformation = *d
	poi.Result.Displacement = models.Point2D{X: sf.U, Y: sf.V}
	if flag != models.FlagSingularHessian {
		poi.Result.ZNCC = 0.5 * (2 - znssd)
	}
}
