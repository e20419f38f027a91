package bspline

import (
	"math"
	"testing"

	"speckledic/internal/models"
	"speckledic/pkg/imageview"
)

func TestSpline2DReproducesLinearRamp(t *testing.T) {
	width, height := 32, 32
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = 2.0*float64(x) + 3.0*float64(y) + 1.0
		}
	}
	img, err := imageview.NewImage2D(data, width, height)
	if err != nil {
		t.Fatalf("NewImage2D failed: %v", err)
	}

	sp := NewSpline2D(img)
	sp.Prepare(img)

	got := sp.At(models.Point2D{X: 15.5, Y: 20.25})
	want := 2.0*15.5 + 3.0*20.25 + 1.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("At(15.5,20.25) = %v, want %v", got, want)
	}
}

func TestSpline2DIntegerCoordinatesMatchSource(t *testing.T) {
	width, height := 16, 16
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i % 7)
	}
	img, _ := imageview.NewImage2D(data, width, height)

	sp := NewSpline2D(img)
	sp.Prepare(img)

	got := sp.At(models.Point2D{X: 8, Y: 8})
	want := img.At(8, 8)
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("At(8,8) = %v, want approximately %v", got, want)
	}
}

func TestSpline3DReproducesLinearRamp(t *testing.T) {
	width, height, depth := 16, 16, 16
	data := make([]float64, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				data[z*width*height+y*width+x] = float64(x) + 2.0*float64(y) + 3.0*float64(z)
			}
		}
	}
	vol, err := imageview.NewImage3D(data, width, height, depth)
	if err != nil {
		t.Fatalf("NewImage3D failed: %v", err)
	}

	sp := NewSpline3D(vol)
	sp.Prepare(vol)

	got := sp.At(models.Point3D{X: 7.5, Y: 7.25, Z: 7.0})
	want := 7.5 + 2.0*7.25 + 3.0*7.0
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("At(7.5,7.25,7.0) = %v, want %v", got, want)
	}
}
