package gradient

import (
	"math"
	"testing"

	"speckledic/pkg/imageview"
)

func TestCompute2D4LinearRamp(t *testing.T) {
	width, height := 32, 32
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = 3.0*float64(x) + 5.0*float64(y)
		}
	}
	img, err := imageview.NewImage2D(data, width, height)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	f := Compute2D4(img)
	gx, gy := f.At(16, 16)
	if math.Abs(gx-3.0) > 1e-9 {
		t.Errorf("expected gx=3, got %v", gx)
	}
	if math.Abs(gy-5.0) > 1e-9 {
		t.Errorf("expected gy=5, got %v", gy)
	}
}

func TestCompute3D4LinearRamp(t *testing.T) {
	width, height, depth := 16, 16, 16
	data := make([]float64, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[z*width*height+y*width+x] = 2.0*float64(x) + 4.0*float64(y) + 6.0*float64(z)
			}
		}
	}
	vol, err := imageview.NewImage3D(data, width, height, depth)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	f := Compute3D4(vol)
	gx, gy, gz := f.At(8, 8, 8)
	if math.Abs(gx-2.0) > 1e-9 || math.Abs(gy-4.0) > 1e-9 || math.Abs(gz-6.0) > 1e-9 {
		t.Errorf("expected (2,4,6), got (%v,%v,%v)", gx, gy, gz)
	}
}
