package poi

import (
	"gonum.org/v1/gonum/stat"

	"speckledic/internal/models"
)

// BatchSummary is the POI-level analogue of a validation-metrics report:
// aggregate quality statistics computed once per batch rather than
// per-POI.
type BatchSummary struct {
	Converged    int
	Rejected     int
	MeanZNCC     float64
	StdDevZNCC   float64
	MeanIters    float64
	MeanConvNorm float64
}

// Summarize2D computes aggregate statistics over every converged (FlagOK)
// POI in pois. Rejected POIs are counted but excluded from the ZNCC,
// iteration and convergence-norm statistics since those fields are not
// meaningful for a withheld result.
func Summarize2D(pois []*models.POI2D) BatchSummary {
	var zncc, iters, conv []float64
	rejected := 0
	for _, p := range pois {
		if p.Result.Flag != models.FlagOK {
			rejected++
			continue
		}
		zncc = append(zncc, p.Result.ZNCC)
		iters = append(iters, float64(p.Result.Iterations))
		conv = append(conv, p.Result.Convergence)
	}
	return summarize(zncc, iters, conv, rejected)
}

// Summarize3D is the volumetric analogue of Summarize2D.
func Summarize3D(pois []*models.POI3D) BatchSummary {
	var zncc, iters, conv []float64
	rejected := 0
	for _, p := range pois {
		if p.Result.Flag != models.FlagOK {
			rejected++
			continue
		}
		zncc = append(zncc, p.Result.ZNCC)
		iters = append(iters, float64(p.Result.Iterations))
		conv = append(conv, p.Result.Convergence)
	}
	return summarize(zncc, iters, conv, rejected)
}

func summarize(zncc, iters, conv []float64, rejected int) BatchSummary {
	if len(zncc) == 0 {
		return BatchSummary{Rejected: rejected}
	}
	meanZNCC, stdZNCC := stat.MeanStdDev(zncc, nil)
	return BatchSummary{
		Converged:    len(zncc),
		Rejected:     rejected,
		MeanZNCC:     meanZNCC,
		StdDevZNCC:   stdZNCC,
		MeanIters:    stat.Mean(iters, nil),
		MeanConvNorm: stat.Mean(conv, nil),
	}
}
