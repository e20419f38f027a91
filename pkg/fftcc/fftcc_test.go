package fftcc

import (
	"math"
	"testing"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

func syntheticSpeckle(width, height int) []float64 {
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = 128 + 64*math.Sin(float64(x)*0.7) + 64*math.Cos(float64(y)*0.9)
		}
	}
	return data
}

func TestEstimator2DPureIntegerTranslation(t *testing.T) {
	width, height := 128, 128
	refData := syntheticSpeckle(width, height)
	ref, err := imageview.NewImage2D(refData, width, height)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	tx, ty := 3, -2
	tarData := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := x-tx, y-ty
			if sx < 0 {
				sx = 0
			}
			if sx >= width {
				sx = width - 1
			}
			if sy < 0 {
				sy = 0
			}
			if sy >= height {
				sy = height - 1
			}
			tarData[y*width+x] = refData[sy*width+sx]
		}
	}
	tar, err := imageview.NewImage2D(tarData, width, height)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	est := NewEstimator2D(16, 16, 1, 1e-6)
	poi := &models.POI2D{Location: models.Point2D{X: 64, Y: 64}}
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOK {
		t.Fatalf("expected FlagOK, got %v", poi.Result.Flag)
	}
	if poi.Result.Deformation.U != float64(tx) || poi.Result.Deformation.V != float64(ty) {
		t.Errorf("expected displacement (%d,%d), got (%v,%v)", tx, ty, poi.Result.Deformation.U, poi.Result.Deformation.V)
	}
	if poi.Result.ZNCC < 0.99 {
		t.Errorf("expected near-unity ZNCC for an exact integer shift, got %v", poi.Result.ZNCC)
	}
}

func TestEstimator2DDegenerateSubset(t *testing.T) {
	width, height := 64, 64
	flat := make([]float64, width*height)
	for i := range flat {
		flat[i] = 50.0
	}
	img, _ := imageview.NewImage2D(flat, width, height)

	est := NewEstimator2D(8, 8, 1, 1e-6)
	poi := &models.POI2D{Location: models.Point2D{X: 32, Y: 32}}
	est.Compute(img, img, poi)

	if poi.Result.Flag != models.FlagDegenerateSubset {
		t.Fatalf("expected FlagDegenerateSubset for a flat subset, got %v", poi.Result.Flag)
	}
}

func TestEstimator3DPureIntegerTranslation(t *testing.T) {
	width, height, depth := 48, 48, 48
	refData := make([]float64, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				refData[z*width*height+y*width+x] = 128 + 32*math.Sin(float64(x)*0.6) + 32*math.Cos(float64(y)*0.8) + 32*math.Sin(float64(z)*0.5)
			}
		}
	}
	ref, err := imageview.NewImage3D(refData, width, height, depth)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	tx, ty, tz := 2, -1, 1
	tarData := make([]float64, width*height*depth)
	clamp := func(v, limit int) int {
		if v < 0 {
			return 0
		}
		if v >= limit {
			return limit - 1
		}
		return v
	}
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				sx, sy, sz := clamp(x-tx, width), clamp(y-ty, height), clamp(z-tz, depth)
				tarData[z*width*height+y*width+x] = refData[sz*width*height+sy*width+sx]
			}
		}
	}
	tar, err := imageview.NewImage3D(tarData, width, height, depth)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	est := NewEstimator3D(8, 8, 8, 1, 1e-6)
	poi := &models.POI3D{Location: models.Point3D{X: 24, Y: 24, Z: 24}}
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOK {
		t.Fatalf("expected FlagOK, got %v", poi.Result.Flag)
	}
	got := poi.Result.Deformation
	if got.U != float64(tx) || got.V != float64(ty) || got.W != float64(tz) {
		t.Errorf("expected displacement (%d,%d,%d), got (%v,%v,%v)", tx, ty, tz, got.U, got.V, got.W)
	}
}
