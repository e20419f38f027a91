// Package icgn implements Inverse Compositional Gauss-Newton sub-pixel
// refinement: given an FFT-CC (or otherwise supplied) integer initial
// guess, it iterates a local affine or quadratic deformation until the
// warped target subset matches the reference subset to within a
// configured tolerance.
package icgn

import (
	"fmt"

	"speckledic/internal/models"
)

// ShapeFunction2D abstracts over Deformation2D1 and Deformation2D2 so the
// ICGN iteration loop in iterate2d.go can be written once and specialized
// by shape order: each implementation supplies its own steepest-descent
// row layout, convergence-norm weights and parameter count, while the
// surrounding Gauss-Newton machinery (Hessian assembly/inversion, target
// reconstruction, error image, convergence test) stays shared.
type ShapeFunction2D interface {
	ParameterCount() int
	Vector() []float64
	SetVector(p []float64)
	Warp(local models.Point2D) models.Point2D
	ComposeInverse(increment ShapeFunction2D) error
	SteepestDescentRow(gx, gy float64, xLocal, yLocal int) []float64
	ConvergenceWeights(radiusX, radiusY int) []float64
}

type sf2D1 struct{ *models.Deformation2D1 }

func newSF2D1() *sf2D1 { return &sf2D1{models.NewDeformation2D1()} }

func (s *sf2D1) ParameterCount() int { return 6 }

func (s *sf2D1) ComposeInverse(increment ShapeFunction2D) error {
	inc, ok := increment.(*sf2D1)
	if !ok {
		return fmt.Errorf("icgn: increment type mismatch for 2D-1 shape function")
	}
	return s.Deformation2D1.ComposeInverse(inc.Deformation2D1)
}

func (s *sf2D1) SteepestDescentRow(gx, gy float64, xLocal, yLocal int) []float64 {
	fx, fy := float64(xLocal), float64(yLocal)
	return []float64{gx, gx * fx, gx * fy, gy, gy * fx, gy * fy}
}

func (s *sf2D1) ConvergenceWeights(radiusX, radiusY int) []float64 {
	rx2 := float64(radiusX * radiusX)
	ry2 := float64(radiusY * radiusY)
	return []float64{1, rx2, ry2, 1, rx2, ry2}
}

type sf2D2 struct{ *models.Deformation2D2 }

func newSF2D2() *sf2D2 { return &sf2D2{models.NewDeformation2D2()} }

func (s *sf2D2) ParameterCount() int { return 12 }

func (s *sf2D2) ComposeInverse(increment ShapeFunction2D) error {
	inc, ok := increment.(*sf2D2)
	if !ok {
		return fmt.Errorf("icgn: increment type mismatch for 2D-2 shape function")
	}
	return s.Deformation2D2.ComposeInverse(inc.Deformation2D2)
}

func (s *sf2D2) SteepestDescentRow(gx, gy float64, xLocal, yLocal int) []float64 {
	fx, fy := float64(xLocal), float64(yLocal)
	xx := fx * fx * 0.5
	xy := fx * fy
	yy := fy * fy * 0.5
	return []float64{
		gx, gx * fx, gx * fy, gx * xx, gx * xy, gx * yy,
		gy, gy * fx, gy * fy, gy * xx, gy * xy, gy * yy,
	}
}

func (s *sf2D2) ConvergenceWeights(radiusX, radiusY int) []float64 {
	rx2 := float64(radiusX * radiusX)
	ry2 := float64(radiusY * radiusY)
	rx4 := rx2 * rx2 / 4
	ry4 := ry2 * ry2 / 4
	rxy2 := rx2 * ry2
	return []float64{1, rx2, ry2, rx4, rxy2, ry4, 1, rx2, ry2, rx4, rxy2, ry4}
}

// ShapeFunction3D is the volumetric analogue of ShapeFunction2D, currently
// implemented only by the first-order (affine) 3D-1 shape function.
type ShapeFunction3D interface {
	ParameterCount() int
	Vector() []float64
	SetVector(p []float64)
	Warp(local models.Point3D) models.Point3D
	ComposeInverse(increment ShapeFunction3D) error
	SteepestDescentRow(gx, gy, gz float64, xLocal, yLocal, zLocal int) []float64
	ConvergenceWeights(radiusX, radiusY, radiusZ int) []float64
}

type sf3D1 struct{ *models.Deformation3D1 }

func newSF3D1() *sf3D1 { return &sf3D1{models.NewDeformation3D1()} }

func (s *sf3D1) ParameterCount() int { return 12 }

func (s *sf3D1) ComposeInverse(increment ShapeFunction3D) error {
	inc, ok := increment.(*sf3D1)
	if !ok {
		return fmt.Errorf("icgn: increment type mismatch for 3D-1 shape function")
	}
	return s.Deformation3D1.ComposeInverse(inc.Deformation3D1)
}

func (s *sf3D1) SteepestDescentRow(gx, gy, gz float64, xLocal, yLocal, zLocal int) []float64 {
	fx, fy, fz := float64(xLocal), float64(yLocal), float64(zLocal)
	return []float64{
		gx, gx * fx, gx * fy, gx * fz,
		gy, gy * fx, gy * fy, gy * fz,
		gz, gz * fx, gz * fy, gz * fz,
	}
}

// ConvergenceWeights follows the translational-only norm spec.md keeps for
// the 3D-1 shape function: only the (u, v, w) components are weighted by 1
// and compared against conv_criterion; gradient-of-displacement components
// do not contribute. See the convergence computation in runICGN3D
// (iterate3d.go).
func (s *sf3D1) ConvergenceWeights(radiusX, radiusY, radiusZ int) []float64 {
	return []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}
}
