package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Deformation3D1 is the first-order (affine) 3D shape function: twelve
// scalars (u, ux, uy, uz, v, vx, vy, vz, w, wx, wy, wz) describing a local
// affine map from reference-local coordinates to target-local coordinates,
// kept synchronized with an equivalent 4x4 homogeneous warp matrix.
//
//	[ 1+ux    uy    uz    u ]
//	[   vx  1+vy    vz    v ]
//	[   wx    wy  1+wz    w ]
//	[    0     0     0    1 ]
type Deformation3D1 struct {
	U, Ux, Uy, Uz float64
	V, Vx, Vy, Vz float64
	W, Wx, Wy, Wz float64
	Matrix        *mat.Dense
}

// NewDeformation3D1 returns the identity deformation.
func NewDeformation3D1() *Deformation3D1 {
	d := &Deformation3D1{Matrix: mat.NewDense(4, 4, nil)}
	d.BuildMatrix()
	return d
}

// Vector returns the scalar parameters in the canonical order used by the
// steepest-descent image and the Hessian.
func (d *Deformation3D1) Vector() []float64 {
	return []float64{
		d.U, d.Ux, d.Uy, d.Uz,
		d.V, d.Vx, d.Vy, d.Vz,
		d.W, d.Wx, d.Wy, d.Wz,
	}
}

// SetVector loads the scalar parameters and rebuilds the warp matrix.
func (d *Deformation3D1) SetVector(p []float64) {
	d.U, d.Ux, d.Uy, d.Uz = p[0], p[1], p[2], p[3]
	d.V, d.Vx, d.Vy, d.Vz = p[4], p[5], p[6], p[7]
	d.W, d.Wx, d.Wy, d.Wz = p[8], p[9], p[10], p[11]
	d.BuildMatrix()
}

// BuildMatrix rebuilds Matrix from the current scalar fields.
func (d *Deformation3D1) BuildMatrix() {
	d.Matrix.SetRow(0, []float64{1 + d.Ux, d.Uy, d.Uz, d.U})
	d.Matrix.SetRow(1, []float64{d.Vx, 1 + d.Vy, d.Vz, d.V})
	d.Matrix.SetRow(2, []float64{d.Wx, d.Wy, 1 + d.Wz, d.W})
	d.Matrix.SetRow(3, []float64{0, 0, 0, 1})
}

// SyncFromMatrix reads the scalar fields back from the current Matrix; it
// is the exact inverse of BuildMatrix.
func (d *Deformation3D1) SyncFromMatrix() {
	d.Ux = d.Matrix.At(0, 0) - 1
	d.Uy = d.Matrix.At(0, 1)
	d.Uz = d.Matrix.At(0, 2)
	d.U = d.Matrix.At(0, 3)
	d.Vx = d.Matrix.At(1, 0)
	d.Vy = d.Matrix.At(1, 1) - 1
	d.Vz = d.Matrix.At(1, 2)
	d.V = d.Matrix.At(1, 3)
	d.Wx = d.Matrix.At(2, 0)
	d.Wy = d.Matrix.At(2, 1)
	d.Wz = d.Matrix.At(2, 2) - 1
	d.W = d.Matrix.At(2, 3)
}

// Warp applies the homogeneous map to a reference-local point.
func (d *Deformation3D1) Warp(local Point3D) Point3D {
	x := d.Matrix.At(0, 0)*local.X + d.Matrix.At(0, 1)*local.Y + d.Matrix.At(0, 2)*local.Z + d.Matrix.At(0, 3)
	y := d.Matrix.At(1, 0)*local.X + d.Matrix.At(1, 1)*local.Y + d.Matrix.At(1, 2)*local.Z + d.Matrix.At(1, 3)
	z := d.Matrix.At(2, 0)*local.X + d.Matrix.At(2, 1)*local.Y + d.Matrix.At(2, 2)*local.Z + d.Matrix.At(2, 3)
	return Point3D{X: x, Y: y, Z: z}
}

// ComposeInverse performs the inverse-compositional update
// Matrix <- Matrix * inverse(increment.Matrix), then resynchronizes the
// scalar fields.
func (d *Deformation3D1) ComposeInverse(increment *Deformation3D1) error {
	var inv mat.Dense
	if err := inv.Inverse(increment.Matrix); err != nil {
		return fmt.Errorf("deformation3d1: singular increment matrix: %w", err)
	}
	var product mat.Dense
	product.Mul(d.Matrix, &inv)
	d.Matrix.Copy(&product)
	d.SyncFromMatrix()
	return nil
}
