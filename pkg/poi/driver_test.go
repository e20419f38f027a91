package poi

import (
	"testing"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

type constEstimator2D struct{ x, y float64 }

func (c constEstimator2D) Compute(ref, tar *imageview.Image2D, poi *models.POI2D) {
	poi.Result.Flag = models.FlagOK
	poi.Result.Displacement = models.Point2D{X: c.x, Y: c.y}
}

func TestComputeBatch2DRunsEveryPOI(t *testing.T) {
	data := make([]float64, 16*16)
	img, _ := imageview.NewImage2D(data, 16, 16)

	pois := make([]*models.POI2D, 37)
	for i := range pois {
		pois[i] = &models.POI2D{Location: models.Point2D{X: float64(i % 16), Y: float64(i / 16)}}
	}

	ComputeBatch2D(img, img, pois, []Estimator2D{constEstimator2D{x: 1.5, y: -0.5}}, 4)

	for i, p := range pois {
		if p.Result.Flag != models.FlagOK {
			t.Fatalf("poi %d: expected FlagOK, got %v", i, p.Result.Flag)
		}
		if p.Result.Displacement.X != 1.5 || p.Result.Displacement.Y != -0.5 {
			t.Errorf("poi %d: unexpected displacement %v", i, p.Result.Displacement)
		}
	}
}

func TestComputeBatch2DEmptyBatch(t *testing.T) {
	data := make([]float64, 4*4)
	img, _ := imageview.NewImage2D(data, 4, 4)
	ComputeBatch2D(img, img, nil, []Estimator2D{constEstimator2D{}}, 4)
}

func TestSeedFromNeighbors2D(t *testing.T) {
	pois := []*models.POI2D{
		{Location: models.Point2D{X: 0, Y: 0}},
		{Location: models.Point2D{X: 10, Y: 0}},
		{Location: models.Point2D{X: 5, Y: 0}},
	}
	pois[0].Result.Flag = models.FlagOK
	pois[0].Result.Displacement = models.Point2D{X: 1, Y: 1}
	pois[1].Result.Flag = models.FlagOK
	pois[1].Result.Displacement = models.Point2D{X: 3, Y: -1}
	pois[2].Result.Flag = models.FlagDiverged

	SeedFromNeighbors2D(pois, 2)

	if pois[2].Result.Deformation.U == 0 && pois[2].Result.Deformation.V == 0 {
		t.Errorf("expected seeded displacement, got zero deformation")
	}
}

func TestSummarize2D(t *testing.T) {
	pois := []*models.POI2D{
		{Result: models.Result2D{Flag: models.FlagOK, ZNCC: 0.9, Iterations: 3, Convergence: 1e-5}},
		{Result: models.Result2D{Flag: models.FlagOK, ZNCC: 0.8, Iterations: 5, Convergence: 2e-5}},
		{Result: models.Result2D{Flag: models.FlagOutOfROI}},
	}
	summary := Summarize2D(pois)
	if summary.Converged != 2 || summary.Rejected != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.MeanZNCC <= 0.84 || summary.MeanZNCC >= 0.86 {
		t.Errorf("unexpected mean ZNCC: %v", summary.MeanZNCC)
	}
}
