// Package poi drives correlation estimators over batches of points of
// interest: fixed-worker parallel dispatch, neighbor-seeded initial
// guesses, and post-batch quality summaries.
package poi

import (
	"sync"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

// Estimator2D is implemented by every stage a POI2D batch can be run
// through: fftcc.Estimator2D for the coarse integer guess, and
// icgn.Estimator2D1/icgn.Estimator2D2 for sub-pixel refinement.
type Estimator2D interface {
	Compute(ref, tar *imageview.Image2D, poi *models.POI2D)
}

// Estimator3D is the volumetric analogue of Estimator2D.
type Estimator3D interface {
	Compute(ref, tar *imageview.Image3D, poi *models.POI3D)
}

// ComputeBatch2D runs every stage of the pipeline, in order, over every POI
// in pois. Work is divided into workerCount contiguous chunks, one
// goroutine per chunk, joined with a WaitGroup; each POI is independent, so
// no communication happens between workers once they start. Scratch
// buffers needed by an individual stage are acquired per-POI from that
// stage's own pool rather than indexed by a worker ID.
func ComputeBatch2D(ref, tar *imageview.Image2D, pois []*models.POI2D, stages []Estimator2D, workerCount int) {
	if workerCount < 1 {
		workerCount = 1
	}
	n := len(pois)
	if n == 0 {
		return
	}
	chunk := (n + workerCount - 1) / workerCount

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				for _, stage := range stages {
					stage.Compute(ref, tar, pois[i])
				}
			}
		}(start, end)
	}
	wg.Wait()
}

// ComputeBatch3D is the volumetric analogue of ComputeBatch2D.
func ComputeBatch3D(ref, tar *imageview.Image3D, pois []*models.POI3D, stages []Estimator3D, workerCount int) {
	if workerCount < 1 {
		workerCount = 1
	}
	n := len(pois)
	if n == 0 {
		return
	}
	chunk := (n + workerCount - 1) / workerCount

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				for _, stage := range stages {
					stage.Compute(ref, tar, pois[i])
				}
			}
		}(start, end)
	}
	wg.Wait()
}
