// Package imageview provides read-only strided views over reference and
// target image/volume data, used by the subset, gradient and B-spline
// packages to index pixel/voxel intensities without copying.
package imageview

import (
	"fmt"

	"speckledic/internal/models"
)

// Image2D is a read-only row-major view over a single-channel grayscale
// image: pixel (x, y) lives at Data[y*Width+x].
type Image2D struct {
	Data   []float64
	Width  int
	Height int
}

// NewImage2D wraps data as a Width x Height view. It takes ownership of
// data; callers must not mutate it afterward.
func NewImage2D(data []float64, width, height int) (*Image2D, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageview: width and height must be positive, got %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("imageview: data length %d does not match %dx%d", len(data), width, height)
	}
	return &Image2D{Data: data, Width: width, Height: height}, nil
}

// InBounds reports whether (x, y) is a valid pixel index.
func (im *Image2D) InBounds(x, y int) bool {
	return x >= 0 && x < im.Width && y >= 0 && y < im.Height
}

// At returns the intensity at (x, y) without bounds checking; callers must
// have already confirmed InBounds.
func (im *Image2D) At(x, y int) float64 {
	return im.Data[y*im.Width+x]
}

// Region extracts a rectangular sub-image starting at (startX, startY) with
// the given size, mirroring the strided-copy idiom used to extract
// sub-volumes from a larger dense buffer.
func (im *Image2D) Region(startX, startY, sizeX, sizeY int) ([]float64, error) {
	if startX < 0 || startY < 0 {
		return nil, fmt.Errorf("imageview: start coordinates must be non-negative")
	}
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("imageview: size dimensions must be positive")
	}
	if startX+sizeX > im.Width || startY+sizeY > im.Height {
		return nil, fmt.Errorf("imageview: region extends beyond image boundaries")
	}

	region := make([]float64, sizeX*sizeY)
	for y := 0; y < sizeY; y++ {
		srcRow := (startY + y) * im.Width
		dstRow := y * sizeX
		copy(region[dstRow:dstRow+sizeX], im.Data[srcRow+startX:srcRow+startX+sizeX])
	}
	return region, nil
}

// ContainsSubset reports whether a subset of the given radius centered on
// center fits entirely within the image.
func (im *Image2D) ContainsSubset(center models.Point2D, radiusX, radiusY int) bool {
	x0, y0 := center.Truncated()
	return x0-radiusX >= 0 && x0+radiusX < im.Width && y0-radiusY >= 0 && y0+radiusY < im.Height
}
