// Package bspline computes cubic B-spline coefficients for a target
// image/volume and evaluates the interpolated surface at arbitrary
// real-valued coordinates, as required by the ICGN sub-pixel sampling
// step.
package bspline

import (
	"math"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// poleZ1 is the unique pole of the cubic B-spline generating filter inside
// the unit circle, sqrt(3) - 2.
const poleZ1 = -0.2679491924311227

// Spline2D holds the B-spline coefficient image for a 2D target and
// answers sub-pixel value queries. Construct with NewSpline2D, call
// Prepare once, then call At repeatedly.
type Spline2D struct {
	coeffs        []float64
	width, height int
}

// NewSpline2D allocates a spline ready to be Prepared against img.
func NewSpline2D(img *imageview.Image2D) *Spline2D {
	return &Spline2D{width: img.Width, height: img.Height}
}

// Prepare computes the B-spline coefficients for img by separable
// recursive deconvolution (the standard causal/anticausal IIR pole filter
// run along rows, then along columns). This is a one-time cost per
// reference/target pair.
func (s *Spline2D) Prepare(img *imageview.Image2D) {
	s.width, s.height = img.Width, img.Height
	s.coeffs = make([]float64, img.Width*img.Height)
	copy(s.coeffs, img.Data)

	row := make([]float64, s.width)
	for y := 0; y < s.height; y++ {
		copy(row, s.coeffs[y*s.width:(y+1)*s.width])
		deconvolve(row)
		copy(s.coeffs[y*s.width:(y+1)*s.width], row)
	}

	col := make([]float64, s.height)
	for x := 0; x < s.width; x++ {
		for y := 0; y < s.height; y++ {
			col[y] = s.coeffs[y*s.width+x]
		}
		deconvolve(col)
		for y := 0; y < s.height; y++ {
			s.coeffs[y*s.width+x] = col[y]
		}
	}
}

// deconvolve applies the cubic B-spline causal and anticausal IIR pole
// filters to signal in place, converting samples into interpolation
// coefficients.
func deconvolve(signal []float64) {
	n := len(signal)
	if n < 2 {
		return
	}
	lambda := (1 - poleZ1) * (1 - 1/poleZ1)
	for i := range signal {
		signal[i] *= lambda
	}

	// Causal initialization (mirror boundary, truncated horizon).
	horizon := n
	if horizon > 12 {
		horizon = 12
	}
	zn := poleZ1
	sum := signal[0]
	for i := 1; i < horizon; i++ {
		sum += zn * signal[i]
		zn *= poleZ1
	}
	signal[0] = sum
	for i := 1; i < n; i++ {
		signal[i] += poleZ1 * signal[i-1]
	}

	// Anticausal initialization (mirror boundary).
	signal[n-1] = (poleZ1 / (poleZ1*poleZ1 - 1)) * (poleZ1*signal[n-2] + signal[n-1])
	for i := n - 2; i >= 0; i-- {
		signal[i] = poleZ1 * (signal[i+1] - signal[i])
	}
}

// cubicBasis returns the four cubic B-spline basis weights for a fractional
// offset t in [0, 1), evaluated at the four integer knots -1, 0, 1, 2
// relative to floor(coordinate).
func cubicBasis(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		(1 - 3*t + 3*t2 - t3) / 6,
		(4 - 6*t2 + 3*t3) / 6,
		(1 + 3*t + 3*t2 - 3*t3) / 6,
		t3 / 6,
	}
}

// At returns the interpolated value at real coordinate p. p must lie
// within [1, width-3] x [1, height-3] of the prepared image; out-of-bounds
// evaluation is undefined and callers are expected to clip POIs before
// reaching this call.
func (s *Spline2D) At(p models.Point2D) float64 {
	x0 := int(math.Floor(p.X))
	y0 := int(math.Floor(p.Y))
	tx := p.X - float64(x0)
	ty := p.Y - float64(y0)

	wx := cubicBasis(tx)
	wy := cubicBasis(ty)

	var value float64
	for j := -1; j <= 2; j++ {
		yy := clampIndex(y0+j, s.height)
		rowWeight := wy[j+1]
		var rowSum float64
		for i := -1; i <= 2; i++ {
			xx := clampIndex(x0+i, s.width)
			rowSum += wx[i+1] * s.coeffs[yy*s.width+xx]
		}
		value += rowWeight * rowSum
	}
	return value
}

func clampIndex(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}
