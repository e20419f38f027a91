package imageview

import (
	"testing"

	"speckledic/internal/models"
)

func TestImage2DRegion(t *testing.T) {
	data := make([]float64, 4*4)
	for i := range data {
		data[i] = float64(i)
	}
	im, err := NewImage2D(data, 4, 4)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	region, err := im.Region(1, 1, 2, 2)
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}

	want := []float64{5, 6, 9, 10}
	for i := range want {
		if region[i] != want[i] {
			t.Errorf("region[%d] = %v, want %v", i, region[i], want[i])
		}
	}
}

func TestImage2DRegionOutOfBounds(t *testing.T) {
	im, _ := NewImage2D(make([]float64, 16), 4, 4)
	if _, err := im.Region(3, 3, 2, 2); err == nil {
		t.Fatal("expected error extracting region beyond bounds")
	}
}

func TestImage2DContainsSubset(t *testing.T) {
	im, _ := NewImage2D(make([]float64, 32*32), 32, 32)

	if !im.ContainsSubset(models.Point2D{X: 16, Y: 16}, 10, 10) {
		t.Error("expected subset centered at (16,16) with radius 10 to fit")
	}
	if im.ContainsSubset(models.Point2D{X: 2, Y: 2}, 10, 10) {
		t.Error("expected subset centered at (2,2) with radius 10 to be rejected")
	}
}

func TestImage3DRegion(t *testing.T) {
	data := make([]float64, 3*3*3)
	for i := range data {
		data[i] = float64(i)
	}
	im, err := NewImage3D(data, 3, 3, 3)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	region, err := im.Region(0, 0, 0, 2, 2, 2)
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}
	if len(region) != 8 {
		t.Fatalf("expected region of length 8, got %d", len(region))
	}
	if region[0] != im.At(0, 0, 0) {
		t.Errorf("region[0] = %v, want %v", region[0], im.At(0, 0, 0))
	}
}

func TestNewImage2DDimensionMismatch(t *testing.T) {
	if _, err := NewImage2D(make([]float64, 10), 4, 4); err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}
