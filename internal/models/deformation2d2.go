package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Deformation2D2 is the second-order (quadratic) 2D shape function: twelve
// scalars (u, ux, uy, uxx, uxy, uyy, v, vx, vy, vxx, vxy, vyy) describing
//
//	x' = x + u  + ux*x  + uy*y  + uxx*x²/2 + uxy*x*y + uyy*y²/2
//	y' = y + v  + vx*x  + vy*y  + vxx*x²/2 + vxy*x*y + vyy*y²/2
//
// kept synchronized with an equivalent 6x6 homogeneous warp matrix that
// acts on the extended monomial vector (x², xy, y², x, y, 1). Applying the
// matrix and reading off the 4th/5th rows reproduces x'/y' exactly;
// composing two such matrices reproduces the composition of the underlying
// quadratic maps up to the second order in (x, y) — terms of third order
// and above that a literal nonlinear composition would introduce are
// dropped, which is what it means for the matrix form to be correct "to
// the order of the shape function" rather than exactly.
type Deformation2D2 struct {
	U, Ux, Uy, Uxx, Uxy, Uyy float64
	V, Vx, Vy, Vxx, Vxy, Vyy float64
	Matrix                   *mat.Dense
}

// NewDeformation2D2 returns the identity deformation.
func NewDeformation2D2() *Deformation2D2 {
	d := &Deformation2D2{Matrix: mat.NewDense(6, 6, nil)}
	d.BuildMatrix()
	return d
}

// Vector returns the scalar parameters in the canonical order used by the
// steepest-descent image and the Hessian.
func (d *Deformation2D2) Vector() []float64 {
	return []float64{
		d.U, d.Ux, d.Uy, d.Uxx, d.Uxy, d.Uyy,
		d.V, d.Vx, d.Vy, d.Vxx, d.Vxy, d.Vyy,
	}
}

// SetVector loads the scalar parameters and rebuilds the warp matrix.
func (d *Deformation2D2) SetVector(p []float64) {
	d.U, d.Ux, d.Uy, d.Uxx, d.Uxy, d.Uyy = p[0], p[1], p[2], p[3], p[4], p[5]
	d.V, d.Vx, d.Vy, d.Vxx, d.Vxy, d.Vyy = p[6], p[7], p[8], p[9], p[10], p[11]
	d.BuildMatrix()
}

// BuildMatrix rebuilds Matrix from the current scalar fields.
func (d *Deformation2D2) BuildMatrix() {
	a0, a1, a2, a3, a4, a5 := d.U, 1+d.Ux, d.Uy, d.Uxx/2, d.Uxy, d.Uyy/2
	b0, b1, b2, b3, b4, b5 := d.V, d.Vx, 1+d.Vy, d.Vxx/2, d.Vxy, d.Vyy/2

	// Row 0: x'^2 truncated to degree <= 2 in (x, y).
	d.Matrix.SetRow(0, []float64{
		a1*a1 + 2*a0*a3, 2*a1*a2 + 2*a0*a4, a2*a2 + 2*a0*a5,
		2 * a0 * a1, 2 * a0 * a2, a0 * a0,
	})
	// Row 1: x'*y' truncated to degree <= 2 in (x, y).
	d.Matrix.SetRow(1, []float64{
		a1*b1 + a0*b3 + a3*b0, a1*b2 + a2*b1 + a0*b4 + a4*b0, a2*b2 + a0*b5 + a5*b0,
		a0*b1 + a1*b0, a0*b2 + a2*b0, a0 * b0,
	})
	// Row 2: y'^2 truncated to degree <= 2 in (x, y).
	d.Matrix.SetRow(2, []float64{
		b1*b1 + 2*b0*b3, 2*b1*b2 + 2*b0*b4, b2*b2 + 2*b0*b5,
		2 * b0 * b1, 2 * b0 * b2, b0 * b0,
	})
	// Row 3: x' exactly.
	d.Matrix.SetRow(3, []float64{a3, a4, a5, a1, a2, a0})
	// Row 4: y' exactly.
	d.Matrix.SetRow(4, []float64{b3, b4, b5, b1, b2, b0})
	// Row 5: homogeneous 1.
	d.Matrix.SetRow(5, []float64{0, 0, 0, 0, 0, 1})
}

// SyncFromMatrix reads the scalar fields back from rows 3 and 4 of the
// current Matrix (the rows that carry x' and y' exactly); it is the exact
// inverse of BuildMatrix.
func (d *Deformation2D2) SyncFromMatrix() {
	d.Uxx = 2 * d.Matrix.At(3, 0)
	d.Uxy = d.Matrix.At(3, 1)
	d.Uyy = 2 * d.Matrix.At(3, 2)
	d.Ux = d.Matrix.At(3, 3) - 1
	d.Uy = d.Matrix.At(3, 4)
	d.U = d.Matrix.At(3, 5)

	d.Vxx = 2 * d.Matrix.At(4, 0)
	d.Vxy = d.Matrix.At(4, 1)
	d.Vyy = 2 * d.Matrix.At(4, 2)
	d.Vx = d.Matrix.At(4, 3)
	d.Vy = d.Matrix.At(4, 4) - 1
	d.V = d.Matrix.At(4, 5)
}

// Warp applies the homogeneous map to a reference-local point, reading the
// x'/y' rows of the matrix against the extended monomial vector.
func (d *Deformation2D2) Warp(local Point2D) Point2D {
	xi := [6]float64{local.X * local.X, local.X * local.Y, local.Y * local.Y, local.X, local.Y, 1}
	x := rowDot(d.Matrix, 3, xi)
	y := rowDot(d.Matrix, 4, xi)
	return Point2D{X: x, Y: y}
}

func rowDot(m *mat.Dense, row int, v [6]float64) float64 {
	var sum float64
	for c := 0; c < 6; c++ {
		sum += m.At(row, c) * v[c]
	}
	return sum
}

// ComposeInverse performs the inverse-compositional update
// Matrix <- Matrix * inverse(increment.Matrix), then resynchronizes the
// scalar fields.
func (d *Deformation2D2) ComposeInverse(increment *Deformation2D2) error {
	var inv mat.Dense
	if err := inv.Inverse(increment.Matrix); err != nil {
		return fmt.Errorf("deformation2d2: singular increment matrix: %w", err)
	}
	var product mat.Dense
	product.Mul(d.Matrix, &inv)
	d.Matrix.Copy(&product)
	d.SyncFromMatrix()
	return nil
}
