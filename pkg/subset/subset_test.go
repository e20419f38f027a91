package subset

import (
	"math"
	"testing"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

func TestSubset2DFillAndZeroMeanNorm(t *testing.T) {
	data := make([]float64, 32*32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			data[y*32+x] = float64(x + y)
		}
	}
	img, err := imageview.NewImage2D(data, 32, 32)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	s := NewSubset2D(models.Point2D{X: 16, Y: 16}, 3, 3)
	s.Fill(img)

	if s.At(0, 0) != 32 {
		t.Errorf("expected center value 32, got %v", s.At(0, 0))
	}

	norm := s.ZeroMeanNorm()
	if norm <= 0 {
		t.Fatalf("expected positive norm for a non-flat subset, got %v", norm)
	}

	var sum float64
	for _, v := range s.Data {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("expected zero sum after ZeroMeanNorm, got %v", sum)
	}
}

func TestSubset2DZeroMeanNormFlatSubset(t *testing.T) {
	data := make([]float64, 16*16)
	for i := range data {
		data[i] = 42.0
	}
	img, _ := imageview.NewImage2D(data, 16, 16)

	s := NewSubset2D(models.Point2D{X: 8, Y: 8}, 2, 2)
	s.Fill(img)
	norm := s.ZeroMeanNorm()

	if norm > 1e-9 {
		t.Errorf("expected near-zero norm for flat subset, got %v", norm)
	}
}

func TestSubset3DFillAndZeroMeanNorm(t *testing.T) {
	data := make([]float64, 16*16*16)
	for z := 0; z < 16; z++ {
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				data[z*16*16+y*16+x] = float64(x + y + z)
			}
		}
	}
	vol, err := imageview.NewImage3D(data, 16, 16, 16)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	s := NewSubset3D(models.Point3D{X: 8, Y: 8, Z: 8}, 2, 2, 2)
	s.Fill(vol)

	if s.At(0, 0, 0) != 24 {
		t.Errorf("expected center value 24, got %v", s.At(0, 0, 0))
	}

	norm := s.ZeroMeanNorm()
	var sum float64
	for _, v := range s.Data {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("expected zero sum after ZeroMeanNorm, got %v", sum)
	}
	if norm <= 0 {
		t.Fatalf("expected positive norm, got %v", norm)
	}
}
