package spectral

// Scratch2D is the 2D FFT scratch instance spec.md's FFT scratch pool
// component describes: three real buffers (ref, tar, output), their three
// complex spectra, and the plan used to transform between them. One
// instance is acquired per POI compute call, never indexed by a worker ID.
type Scratch2D struct {
	Plan *Plan2D

	RefSubset, TarSubset, Output            []float64
	RefSpectrum, TarSpectrum, CrossSpectrum []complex128
}

func newScratch2D(radiusX, radiusY int) *Scratch2D {
	plan := NewPlan2D(radiusX, radiusY)
	size := plan.Width * plan.Height
	specSize := plan.Width * plan.HalfHeight
	return &Scratch2D{
		Plan:      plan,
		RefSubset: make([]float64, size), TarSubset: make([]float64, size), Output: make([]float64, size),
		RefSpectrum: make([]complex128, specSize), TarSpectrum: make([]complex128, specSize), CrossSpectrum: make([]complex128, specSize),
	}
}

// Pool2D is a bounded channel-backed pool of Scratch2D instances. It
// replaces indexing scratch buffers by worker ID — which is only correct
// if the runtime guarantees stable worker IDs 0..N-1 — with a queue any
// worker can draw a slot from for the duration of one POI.
type Pool2D struct {
	slots chan *Scratch2D
}

// NewPool2D builds a pool of size scratch instances, each sized for
// subsets of radius (radiusX, radiusY).
func NewPool2D(size, radiusX, radiusY int) *Pool2D {
	slots := make(chan *Scratch2D, size)
	for i := 0; i < size; i++ {
		slots <- newScratch2D(radiusX, radiusY)
	}
	return &Pool2D{slots: slots}
}

// Acquire blocks until a scratch instance is available.
func (p *Pool2D) Acquire() *Scratch2D {
	return <-p.slots
}

// Release returns a scratch instance to the pool.
func (p *Pool2D) Release(s *Scratch2D) {
	p.slots <- s
}

// Scratch3D is the volumetric analogue of Scratch2D.
type Scratch3D struct {
	Plan *Plan3D

	RefSubset, TarSubset, Output            []float64
	RefSpectrum, TarSpectrum, CrossSpectrum []complex128
}

func newScratch3D(radiusX, radiusY, radiusZ int) *Scratch3D {
	plan := NewPlan3D(radiusX, radiusY, radiusZ)
	size := plan.Width * plan.Height * plan.Depth
	specSize := plan.Width * plan.Height * plan.HalfDepth
	return &Scratch3D{
		Plan:      plan,
		RefSubset: make([]float64, size), TarSubset: make([]float64, size), Output: make([]float64, size),
		RefSpectrum: make([]complex128, specSize), TarSpectrum: make([]complex128, specSize), CrossSpectrum: make([]complex128, specSize),
	}
}

// Pool3D is the volumetric analogue of Pool2D.
type Pool3D struct {
	slots chan *Scratch3D
}

// NewPool3D builds a pool of size scratch instances, each sized for
// subsets of radius (radiusX, radiusY, radiusZ).
func NewPool3D(size, radiusX, radiusY, radiusZ int) *Pool3D {
	slots := make(chan *Scratch3D, size)
	for i := 0; i < size; i++ {
		slots <- newScratch3D(radiusX, radiusY, radiusZ)
	}
	return &Pool3D{slots: slots}
}

// Acquire blocks until a scratch instance is available.
func (p *Pool3D) Acquire() *Scratch3D {
	return <-p.slots
}

// Release returns a scratch instance to the pool.
func (p *Pool3D) Release(s *Scratch3D) {
	p.slots <- s
}
