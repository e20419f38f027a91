package icgn

import (
	"speckledic/internal/models"
	"speckledic/pkg/bspline"
	"speckledic/pkg/gradient"
	"speckledic/pkg/imageview"
)

// Estimator3D1 refines POI3D points with the first-order (affine) 3D-1
// shape function, the only shape order this package implements for
// volumes.
type Estimator3D1 struct {
	RadiusX, RadiusY, RadiusZ int
	Config                    iterationConfig

	refGradient *gradient.Field3D
	tarSpline   *bspline.Spline3D
}

// NewEstimator3D1 builds an estimator for the given subset radii and
// convergence controls.
func NewEstimator3D1(radiusX, radiusY, radiusZ int, convCriterion float64, stopCondition int, maxHessianCondition, minSubsetNorm float64) *Estimator3D1 {
	return &Estimator3D1{
		RadiusX: radiusX, RadiusY: radiusY, RadiusZ: radiusZ,
		Config: iterationConfig{
			ConvCriterion: convCriterion, StopCondition: stopCondition,
			MaxHessianCondition: maxHessianCondition, MinSubsetNorm: minSubsetNorm,
		},
	}
}

// Prepare computes the reference gradient field and the target B-spline
// coefficients once per reference/target pair. It must be called before
// Compute and again whenever either volume changes.
func (e *Estimator3D1) Prepare(ref, tar *imageview.Image3D) {
	e.refGradient = gradient.Compute3D4(ref)
	e.tarSpline = bspline.NewSpline3D(tar)
	e.tarSpline.Prepare(tar)
}

// Compute refines poi in place, starting from poi.Result.Deformation as
// the initial guess (typically the output of an FFT-CC estimator).
func (e *Estimator3D1) Compute(ref, tar *imageview.Image3D, poi *models.POI3D) {
	sf := newSF3D1()
	initial := poi.Result.Deformation
	sf.SetVector(initial.Vector())

	iterations, dpNorm, znssd, condNumber, flag := runICGN3D(sf, ref, tar, e.refGradient, e.tarSpline,
		poi.Location, e.RadiusX, e.RadiusY, e.RadiusZ, e.Config)

	poi.Result.Flag = flag
	if flag == models.FlagOutOfROI || flag == models.FlagDegenerateSubset {
		poi.Result.ZNCC = -1
		return
	}

	poi.Result.InitialDisplacement = models.Point3D{X: initial.U, Y: initial.V, Z: initial.W}
	poi.Result.Iterations = iterations
	poi.Result.ConditionNumber = condNumber
	poi.Result.Convergence = dpNorm

	poi.Result.Deformation = *sf.Deformation3D1
	poi.Result.Displacement = models.Point3D{X: sf.U, Y: sf.V, Z: sf.W}
	if flag != models.FlagSingularHessian {
		poi.Result.ZNCC = 0.5 * (2 - znssd)
	}
}
