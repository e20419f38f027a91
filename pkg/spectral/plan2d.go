// Package spectral wires gonum's real and complex FFT primitives into the
// fixed-size scratch instances the FFT-CC estimator needs: a real-to-complex
// transform of the reference and target subsets, and a complex-to-real
// inverse transform of their cross-spectrum. Plan construction is
// serialized with a package mutex, mirroring the "planner is not
// reentrant" contract of FFT libraries in general and matching the
// critical-section construction of FFTW plans this package replaces.
package spectral

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

var planMu sync.Mutex

// Plan2D holds the row and column FFT objects needed to transform a
// (2*RadiusX) x (2*RadiusY) real buffer to its real-to-complex Hermitian
// spectrum of shape (2*RadiusX) x (RadiusY+1), and back. A Plan2D is not
// safe for concurrent use; callers draw one per worker from a Pool2D.
type Plan2D struct {
	RadiusX, RadiusY int
	Width, Height    int // Width = 2*RadiusX, Height = 2*RadiusY
	HalfHeight       int // RadiusY + 1

	rowFFT *fourier.FFT
	colFFT *fourier.CmplxFFT

	rowScratch []complex128
	colScratch []complex128
}

// NewPlan2D constructs a plan for the given subset radii. Construction is
// serialized across the package with planMu, keeping the non-reentrant
// planner contract of FFTW-style libraries; gonum's FFT constructors do
// not themselves require the lock.
func NewPlan2D(radiusX, radiusY int) *Plan2D {
	planMu.Lock()
	defer planMu.Unlock()

	width := 2 * radiusX
	height := 2 * radiusY
	p := &Plan2D{
		RadiusX: radiusX, RadiusY: radiusY,
		Width: width, Height: height, HalfHeight: radiusY + 1,
		rowFFT:     fourier.NewFFT(height),
		colFFT:     fourier.NewCmplxFFT(width),
		rowScratch: make([]complex128, radiusY+1),
		colScratch: make([]complex128, width),
	}
	return p
}

// Forward computes the real-to-complex spectrum of real (length
// Width*Height, row-major with row length Height) into spectrum (length
// Width*HalfHeight, row-major with row length HalfHeight).
//
// The transform is separable: a real FFT along each row of length Height
// (yielding the Hermitian half along that axis), followed by a full
// complex FFT along each column of the resulting half-spectrum.
func (p *Plan2D) Forward(real []float64, spectrum []complex128) {
	for x := 0; x < p.Width; x++ {
		row := real[x*p.Height : (x+1)*p.Height]
		coeffs := p.rowFFT.Coefficients(p.rowScratch, row)
		copy(spectrum[x*p.HalfHeight:(x+1)*p.HalfHeight], coeffs)
	}

	col := make([]complex128, p.Width)
	for h := 0; h < p.HalfHeight; h++ {
		for x := 0; x < p.Width; x++ {
			col[x] = spectrum[x*p.HalfHeight+h]
		}
		out := p.colFFT.Coefficients(p.colScratch, col)
		for x := 0; x < p.Width; x++ {
			spectrum[x*p.HalfHeight+h] = out[x]
		}
	}
}

// Inverse computes the complex-to-real inverse transform of spectrum
// (Width x HalfHeight Hermitian layout) into real (Width x Height). The
// result is unnormalized (matching the FFTW c2r convention): callers that
// need a properly scaled signal must divide by Width*Height themselves.
func (p *Plan2D) Inverse(spectrum []complex128, real []float64) {
	col := make([]complex128, p.Width)
	intermediate := make([]complex128, p.Width*p.HalfHeight)
	copy(intermediate, spectrum)

	for h := 0; h < p.HalfHeight; h++ {
		for x := 0; x < p.Width; x++ {
			col[x] = intermediate[x*p.HalfHeight+h]
		}
		out := p.colFFT.Sequence(p.colScratch, col)
		for x := 0; x < p.Width; x++ {
			intermediate[x*p.HalfHeight+h] = out[x]
		}
	}

	for x := 0; x < p.Width; x++ {
		half := intermediate[x*p.HalfHeight : (x+1)*p.HalfHeight]
		row := p.rowFFT.Sequence(nil, half)
		copy(real[x*p.Height:(x+1)*p.Height], row)
	}
}
