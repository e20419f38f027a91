package icgn

import (
	"math"
	"testing"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

func sinusoid2D(x, y float64) float64 {
	return 128 + 64*math.Sin(x*0.35) + 64*math.Cos(y*0.41)
}

func sampledImage2D(width, height int, shiftX, shiftY float64) *imageview.Image2D {
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = sinusoid2D(float64(x)-shiftX, float64(y)-shiftY)
		}
	}
	img, err := imageview.NewImage2D(data, width, height)
	if err != nil {
		panic(err)
	}
	return img
}

func TestEstimator2D1RecoversSubPixelTranslation(t *testing.T) {
	width, height := 96, 96
	ref := sampledImage2D(width, height, 0, 0)
	shiftX, shiftY := 1.37, -0.62
	tar := sampledImage2D(width, height, shiftX, shiftY)

	est := NewEstimator2D1(12, 12, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI2D{Location: models.Point2D{X: 48, Y: 48}}
	poi.Result.Deformation = *models.NewDeformation2D2()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOK {
		t.Fatalf("expected FlagOK, got %v", poi.Result.Flag)
	}
	if math.Abs(poi.Result.Displacement.X-shiftX) > 0.01 {
		t.Errorf("u: expected %v, got %v", shiftX, poi.Result.Displacement.X)
	}
	if math.Abs(poi.Result.Displacement.Y-shiftY) > 0.01 {
		t.Errorf("v: expected %v, got %v", shiftY, poi.Result.Displacement.Y)
	}
	if poi.Result.ZNCC < 0.99 {
		t.Errorf("expected near-unity ZNCC, got %v", poi.Result.ZNCC)
	}
}

func TestEstimator2D2RecoversSubPixelTranslation(t *testing.T) {
	width, height := 96, 96
	ref := sampledImage2D(width, height, 0, 0)
	shiftX, shiftY := -0.84, 0.29
	tar := sampledImage2D(width, height, shiftX, shiftY)

	est := NewEstimator2D2(12, 12, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI2D{Location: models.Point2D{X: 48, Y: 48}}
	poi.Result.Deformation = *models.NewDeformation2D2()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOK {
		t.Fatalf("expected FlagOK, got %v", poi.Result.Flag)
	}
	if math.Abs(poi.Result.Displacement.X-shiftX) > 0.01 {
		t.Errorf("u: expected %v, got %v", shiftX, poi.Result.Displacement.X)
	}
	if math.Abs(poi.Result.Displacement.Y-shiftY) > 0.01 {
		t.Errorf("v: expected %v, got %v", shiftY, poi.Result.Displacement.Y)
	}
}

func TestEstimator2D1OutOfROI(t *testing.T) {
	width, height := 32, 32
	ref := sampledImage2D(width, height, 0, 0)
	tar := sampledImage2D(width, height, 0.5, 0.5)

	est := NewEstimator2D1(12, 12, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI2D{Location: models.Point2D{X: 2, Y: 2}}
	poi.Result.Deformation = *models.NewDeformation2D2()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOutOfROI {
		t.Fatalf("expected FlagOutOfROI, got %v", poi.Result.Flag)
	}
	if poi.Result.ZNCC != -1 {
		t.Errorf("expected ZNCC == -1, got %v", poi.Result.ZNCC)
	}
}

func TestEstimator2D1NaNInitialGuess(t *testing.T) {
	width, height := 96, 96
	ref := sampledImage2D(width, height, 0, 0)
	tar := sampledImage2D(width, height, 0.5, 0.5)

	est := NewEstimator2D1(12, 12, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI2D{Location: models.Point2D{X: 48, Y: 48}}
	poi.Result.Deformation = *models.NewDeformation2D2()
	poi.Result.Deformation.U = math.NaN()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOutOfROI {
		t.Fatalf("expected FlagOutOfROI, got %v", poi.Result.Flag)
	}
	if poi.Result.ZNCC != -1 {
		t.Errorf("expected ZNCC == -1, got %v", poi.Result.ZNCC)
	}
}

func TestEstimator2D1DegenerateTargetSubset(t *testing.T) {
	width, height := 96, 96
	ref := sampledImage2D(width, height, 0, 0)

	flatData := make([]float64, width*height)
	for i := range flatData {
		flatData[i] = 100
	}
	tar, err := imageview.NewImage2D(flatData, width, height)
	if err != nil {
		t.Fatal(err)
	}

	est := NewEstimator2D1(12, 12, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI2D{Location: models.Point2D{X: 48, Y: 48}}
	poi.Result.Deformation = *models.NewDeformation2D2()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagDegenerateSubset {
		t.Fatalf("expected FlagDegenerateSubset, got %v", poi.Result.Flag)
	}
	if poi.Result.ZNCC != -1 {
		t.Errorf("expected ZNCC == -1, got %v", poi.Result.ZNCC)
	}
}

func sinusoid3D(x, y, z float64) float64 {
	return 128 + 48*math.Sin(x*0.3) + 48*math.Cos(y*0.35) + 32*math.Sin(z*0.4)
}

func sampledImage3D(n int, shiftX, shiftY, shiftZ float64) *imageview.Image3D {
	data := make([]float64, n*n*n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				data[z*n*n+y*n+x] = sinusoid3D(float64(x)-shiftX, float64(y)-shiftY, float64(z)-shiftZ)
			}
		}
	}
	vol, err := imageview.NewImage3D(data, n, n, n)
	if err != nil {
		panic(err)
	}
	return vol
}

func TestEstimator3D1RecoversSubPixelTranslation(t *testing.T) {
	n := 40
	ref := sampledImage3D(n, 0, 0, 0)
	shiftX, shiftY, shiftZ := 0.48, -0.33, 0.21
	tar := sampledImage3D(n, shiftX, shiftY, shiftZ)

	est := NewEstimator3D1(10, 10, 10, 1e-6, 20, 1e6, 1e-6)
	est.Prepare(ref, tar)

	poi := &models.POI3D{Location: models.Point3D{X: 20, Y: 20, Z: 20}}
	poi.Result.Deformation = *models.NewDeformation3D1()
	est.Compute(ref, tar, poi)

	if poi.Result.Flag != models.FlagOK {
		t.Fatalf("expected FlagOK, got %v", poi.Result.Flag)
	}
	if math.Abs(poi.Result.Displacement.X-shiftX) > 0.02 {
		t.Errorf("u: expected %v, got %v", shiftX, poi.Result.Displacement.X)
	}
	if math.Abs(poi.Result.Displacement.Y-shiftY) > 0.02 {
		t.Errorf("v: expected %v, got %v", shiftY, poi.Result.Displacement.Y)
	}
	if math.Abs(poi.Result.Displacement.Z-shiftZ) > 0.02 {
		t.Errorf("w: expected %v, got %v", shiftZ, poi.Result.Displacement.Z)
	}
}
