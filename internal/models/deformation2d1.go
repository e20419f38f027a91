package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Deformation2D1 is the first-order (affine) 2D shape function: six scalars
// (u, ux, uy, v, vx, vy) describing a local affine map from reference-local
// coordinates to target-local coordinates, kept synchronized with an
// equivalent 3x3 homogeneous warp matrix.
//
//	[ 1+ux    uy    u ]
//	[   vx  1+vy    v ]
//	[    0     0    1 ]
type Deformation2D1 struct {
	U, Ux, Uy float64
	V, Vx, Vy float64
	Matrix    *mat.Dense
}

// NewDeformation2D1 returns the identity deformation.
func NewDeformation2D1() *Deformation2D1 {
	d := &Deformation2D1{Matrix: mat.NewDense(3, 3, nil)}
	d.BuildMatrix()
	return d
}

// Vector returns the scalar parameters in the canonical order used by the
// steepest-descent image and the Hessian.
func (d *Deformation2D1) Vector() []float64 {
	return []float64{d.U, d.Ux, d.Uy, d.V, d.Vx, d.Vy}
}

// SetVector loads the scalar parameters and rebuilds the warp matrix.
func (d *Deformation2D1) SetVector(p []float64) {
	d.U, d.Ux, d.Uy = p[0], p[1], p[2]
	d.V, d.Vx, d.Vy = p[3], p[4], p[5]
	d.BuildMatrix()
}

// BuildMatrix rebuilds Matrix from the current scalar fields.
func (d *Deformation2D1) BuildMatrix() {
	d.Matrix.SetRow(0, []float64{1 + d.Ux, d.Uy, d.U})
	d.Matrix.SetRow(1, []float64{d.Vx, 1 + d.Vy, d.V})
	d.Matrix.SetRow(2, []float64{0, 0, 1})
}

// SyncFromMatrix reads the scalar fields back from the current Matrix; it
// is the exact inverse of BuildMatrix.
func (d *Deformation2D1) SyncFromMatrix() {
	d.Ux = d.Matrix.At(0, 0) - 1
	d.Uy = d.Matrix.At(0, 1)
	d.U = d.Matrix.At(0, 2)
	d.Vx = d.Matrix.At(1, 0)
	d.Vy = d.Matrix.At(1, 1) - 1
	d.V = d.Matrix.At(1, 2)
}

// Warp applies the homogeneous map to a reference-local point.
func (d *Deformation2D1) Warp(local Point2D) Point2D {
	x := d.Matrix.At(0, 0)*local.X + d.Matrix.At(0, 1)*local.Y + d.Matrix.At(0, 2)
	y := d.Matrix.At(1, 0)*local.X + d.Matrix.At(1, 1)*local.Y + d.Matrix.At(1, 2)
	return Point2D{X: x, Y: y}
}

// ComposeInverse performs the inverse-compositional update
// Matrix <- Matrix * inverse(increment.Matrix), then resynchronizes the
// scalar fields. It is the defining operation of ICGN: it keeps the
// Hessian constant across iterations because increments are always
// expressed, and composed, in the reference frame.
func (d *Deformation2D1) ComposeInverse(increment *Deformation2D1) error {
	var inv mat.Dense
	if err := inv.Inverse(increment.Matrix); err != nil {
		return fmt.Errorf("deformation2d1: singular increment matrix: %w", err)
	}
	var product mat.Dense
	product.Mul(d.Matrix, &inv)
	d.Matrix.Copy(&product)
	d.SyncFromMatrix()
	return nil
}
