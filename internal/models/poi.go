package models

// ResultFlag classifies the outcome of computing a single point of
// interest, separating a successfully converged estimate from the
// specific ways an estimate can be withheld.
type ResultFlag int

const (
	// FlagOK indicates the POI converged and Result carries a usable
	// displacement and deformation gradient.
	FlagOK ResultFlag = iota
	// FlagOutOfROI indicates the POI's subset fell partially or fully
	// outside the reference or target image bounds, or that its initial
	// guess contained NaN.
	FlagOutOfROI
	// FlagDegenerateSubset indicates the reference or target subset's
	// zero-mean norm fell below the configured minimum, making ZNSSD/ZNCC
	// numerically meaningless (division by near-zero).
	FlagDegenerateSubset
	// FlagIllConditioned indicates the ICGN Hessian's condition number
	// exceeded the configured maximum; the computed increment is not
	// trustworthy even though the linear solve did not fail outright.
	FlagIllConditioned
	// FlagDiverged indicates the ICGN iteration exhausted its iteration
	// budget without meeting the convergence criterion.
	FlagDiverged
	// FlagSingularHessian indicates the Hessian was exactly singular and
	// could not be inverted, or that an iteration's increment warp matrix
	// could not be inverted.
	FlagSingularHessian
)

// String renders the flag the way a report writer would display it.
func (f ResultFlag) String() string {
	switch f {
	case FlagOK:
		return "ok"
	case FlagOutOfROI:
		return "out-of-roi"
	case FlagDegenerateSubset:
		return "degenerate-subset"
	case FlagIllConditioned:
		return "ill-conditioned"
	case FlagDiverged:
		return "diverged"
	case FlagSingularHessian:
		return "singular-hessian"
	default:
		return "unknown"
	}
}

// POI2D is a single point of interest to be correlated in a 2D image pair.
type POI2D struct {
	Location Point2D
	Result   Result2D
}

// Result2D carries the outcome of correlating one POI2D. Deformation is
// always the twelve-parameter quadratic form: the first-order (affine)
// ICGN estimator writes it with the second-order terms held at zero, and
// the second-order estimator writes all twelve, so callers can read a
// POI's displacement and gradient fields the same way regardless of which
// estimator produced them.
type Result2D struct {
	Flag                ResultFlag
	InitialDisplacement Point2D
	Deformation         Deformation2D2
	Displacement        Point2D
	ZNCC                float64
	Iterations          int
	ConditionNumber     float64
	Convergence         float64
}

// POI3D is a single point of interest to be correlated in a 3D volume pair.
type POI3D struct {
	Location Point3D
	Result   Result3D
}

// Result3D carries the outcome of correlating one POI3D.
type Result3D struct {
	Flag                ResultFlag
	InitialDisplacement Point3D
	Deformation         Deformation3D1
	Displacement        Point3D
	ZNCC                float64
	Iterations          int
	ConditionNumber     float64
	Convergence         float64
}
