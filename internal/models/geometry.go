// Package models holds the geometric and deformation primitives shared by
// the subset, gradient, spline, FFT-CC and ICGN packages.
package models

import "math"

// Point2D is a coordinate in the reference or target image plane. It is
// used both as an integer pixel index (after truncation) and as a
// real-valued sub-pixel location.
type Point2D struct {
	X, Y float64
}

// Add returns p+q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Truncated returns the integer pixel index obtained by truncating p.
func (p Point2D) Truncated() (int, int) {
	return int(p.X), int(p.Y)
}

// IsNaN reports whether either coordinate is NaN.
func (p Point2D) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Point3D is the volumetric analogue of Point2D.
type Point3D struct {
	X, Y, Z float64
}

// Add returns p+q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p-q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

// Truncated returns the integer voxel index obtained by truncating p.
func (p Point3D) Truncated() (int, int, int) {
	return int(p.X), int(p.Y), int(p.Z)
}

// IsNaN reports whether any coordinate is NaN.
func (p Point3D) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}
