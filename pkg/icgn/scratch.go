package icgn

import (
	"gonum.org/v1/gonum/mat"

	"speckledic/internal/models"
)

// assembleHessian builds the P x P Hessian from the steepest-descent rows
// of every pixel/voxel in a subset, following the standard Gauss-Newton
// normal-equations form H[i][j] = sum over pixels of sd[i]*sd[j].
func assembleHessian(rows [][]float64, p int) *mat.Dense {
	h := mat.NewDense(p, p, nil)
	for _, row := range rows {
		for i := 0; i < p; i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j < p; j++ {
				h.Set(i, j, h.At(i, j)+row[i]*row[j])
			}
		}
	}
	return h
}

// invertHessian inverts h and reports the flag a POI should carry if the
// inversion is untrustworthy: FlagSingularHessian if h could not be
// inverted at all, FlagIllConditioned if it inverted but its condition
// number exceeds maxCondition, FlagOK otherwise.
func invertHessian(h *mat.Dense, maxCondition float64) (inv *mat.Dense, condNumber float64, flag models.ResultFlag) {
	condNumber = mat.Cond(h, 2)

	var inverse mat.Dense
	if err := inverse.Inverse(h); err != nil {
		return nil, condNumber, models.FlagSingularHessian
	}

	if maxCondition > 0 && condNumber > maxCondition {
		return &inverse, condNumber, models.FlagIllConditioned
	}
	return &inverse, condNumber, models.FlagOK
}

// matVec computes h*v for a square Dense h and a vector v of matching
// length.
func matVec(h *mat.Dense, v []float64) []float64 {
	p := len(v)
	out := make([]float64, p)
	for i := 0; i < p; i++ {
		var sum float64
		for j := 0; j < p; j++ {
			sum += h.At(i, j) * v[j]
		}
		out[i] = sum
	}
	return out
}
