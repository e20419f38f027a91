package spectral

import "gonum.org/v1/gonum/dsp/fourier"

// Plan3D is the volumetric analogue of Plan2D: a (2*RadiusX) x (2*RadiusY)
// x (2*RadiusZ) real buffer transforms to a (2*RadiusX) x (2*RadiusY) x
// (RadiusZ+1) Hermitian complex spectrum, real FFT along z followed by
// full complex FFT along y then x. A Plan3D is not safe for concurrent
// use; callers draw one per worker from a Pool3D.
type Plan3D struct {
	RadiusX, RadiusY, RadiusZ int
	Width, Height, Depth      int // 2*RadiusX, 2*RadiusY, 2*RadiusZ
	HalfDepth                 int // RadiusZ + 1

	zFFT *fourier.FFT
	yFFT *fourier.CmplxFFT
	xFFT *fourier.CmplxFFT

	zScratch []complex128
	yScratch []complex128
	xScratch []complex128
}

// NewPlan3D constructs a plan for the given subset radii. Construction is
// serialized across the package with planMu, as in NewPlan2D; gonum's FFT
// constructors do not themselves require the lock.
func NewPlan3D(radiusX, radiusY, radiusZ int) *Plan3D {
	planMu.Lock()
	defer planMu.Unlock()

	width, height, depth := 2*radiusX, 2*radiusY, 2*radiusZ
	return &Plan3D{
		RadiusX: radiusX, RadiusY: radiusY, RadiusZ: radiusZ,
		Width: width, Height: height, Depth: depth, HalfDepth: radiusZ + 1,
		zFFT: fourier.NewFFT(depth),
		yFFT: fourier.NewCmplxFFT(height),
		xFFT: fourier.NewCmplxFFT(width),

		zScratch: make([]complex128, radiusZ+1),
		yScratch: make([]complex128, height),
		xScratch: make([]complex128, width),
	}
}

func (p *Plan3D) planeSize() int { return p.Width * p.Height }

// Forward computes the real-to-complex spectrum of real (length
// Width*Height*Depth, row-major z-fastest) into spectrum (length
// Width*Height*HalfDepth, row-major with the halved axis fastest).
func (p *Plan3D) Forward(real []float64, spectrum []complex128) {
	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			base := x*p.Height*p.Depth + y*p.Depth
			line := real[base : base+p.Depth]
			coeffs := p.zFFT.Coefficients(p.zScratch, line)
			dst := x*p.Height*p.HalfDepth + y*p.HalfDepth
			copy(spectrum[dst:dst+p.HalfDepth], coeffs)
		}
	}

	col := make([]complex128, p.Height)
	for x := 0; x < p.Width; x++ {
		for h := 0; h < p.HalfDepth; h++ {
			for y := 0; y < p.Height; y++ {
				col[y] = spectrum[x*p.Height*p.HalfDepth+y*p.HalfDepth+h]
			}
			out := p.yFFT.Coefficients(p.yScratch, col)
			for y := 0; y < p.Height; y++ {
				spectrum[x*p.Height*p.HalfDepth+y*p.HalfDepth+h] = out[y]
			}
		}
	}

	row := make([]complex128, p.Width)
	for y := 0; y < p.Height; y++ {
		for h := 0; h < p.HalfDepth; h++ {
			for x := 0; x < p.Width; x++ {
				row[x] = spectrum[x*p.Height*p.HalfDepth+y*p.HalfDepth+h]
			}
			out := p.xFFT.Coefficients(p.xScratch, row)
			for x := 0; x < p.Width; x++ {
				spectrum[x*p.Height*p.HalfDepth+y*p.HalfDepth+h] = out[x]
			}
		}
	}
}

// Inverse computes the complex-to-real inverse transform of spectrum back
// into real. The result is unnormalized; callers that need a properly
// scaled signal must divide by Width*Height*Depth themselves.
func (p *Plan3D) Inverse(spectrum []complex128, real []float64) {
	intermediate := make([]complex128, len(spectrum))
	copy(intermediate, spectrum)

	row := make([]complex128, p.Width)
	for y := 0; y < p.Height; y++ {
		for h := 0; h < p.HalfDepth; h++ {
			for x := 0; x < p.Width; x++ {
				row[x] = intermediate[x*p.Height*p.HalfDepth+y*p.HalfDepth+h]
			}
			out := p.xFFT.Sequence(p.xScratch, row)
			for x := 0; x < p.Width; x++ {
				intermediate[x*p.Height*p.HalfDepth+y*p.HalfDepth+h] = out[x]
			}
		}
	}

	col := make([]complex128, p.Height)
	for x := 0; x < p.Width; x++ {
		for h := 0; h < p.HalfDepth; h++ {
			for y := 0; y < p.Height; y++ {
				col[y] = intermediate[x*p.Height*p.HalfDepth+y*p.HalfDepth+h]
			}
			out := p.yFFT.Sequence(p.yScratch, col)
			for y := 0; y < p.Height; y++ {
				intermediate[x*p.Height*p.HalfDepth+y*p.HalfDepth+h] = out[y]
			}
		}
	}

	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			half := intermediate[x*p.Height*p.HalfDepth+y*p.HalfDepth : x*p.Height*p.HalfDepth+y*p.HalfDepth+p.HalfDepth]
			out := p.zFFT.Sequence(nil, half)
			dst := x*p.Height*p.Depth + y*p.Depth
			copy(real[dst:dst+p.Depth], out)
		}
	}
}
