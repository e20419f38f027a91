package imageview

import (
	"fmt"

	"speckledic/internal/models"
)

// Image3D is a read-only row-major view over a single-channel grayscale
// volume: voxel (x, y, z) lives at Data[z*Width*Height+y*Width+x].
type Image3D struct {
	Data   []float64
	Width  int
	Height int
	Depth  int
}

// NewImage3D wraps data as a Width x Height x Depth view. It takes
// ownership of data; callers must not mutate it afterward.
func NewImage3D(data []float64, width, height, depth int) (*Image3D, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("imageview: dimensions must be positive, got %dx%dx%d", width, height, depth)
	}
	if len(data) != width*height*depth {
		return nil, fmt.Errorf("imageview: data length %d does not match %dx%dx%d", len(data), width, height, depth)
	}
	return &Image3D{Data: data, Width: width, Height: height, Depth: depth}, nil
}

// InBounds reports whether (x, y, z) is a valid voxel index.
func (im *Image3D) InBounds(x, y, z int) bool {
	return x >= 0 && x < im.Width && y >= 0 && y < im.Height && z >= 0 && z < im.Depth
}

// At returns the intensity at (x, y, z) without bounds checking; callers
// must have already confirmed InBounds.
func (im *Image3D) At(x, y, z int) float64 {
	return im.Data[z*im.Width*im.Height+y*im.Width+x]
}

// Region extracts a rectangular sub-volume starting at (startX, startY,
// startZ) with the given size.
func (im *Image3D) Region(startX, startY, startZ, sizeX, sizeY, sizeZ int) ([]float64, error) {
	if startX < 0 || startY < 0 || startZ < 0 {
		return nil, fmt.Errorf("imageview: start coordinates must be non-negative")
	}
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("imageview: size dimensions must be positive")
	}
	if startX+sizeX > im.Width || startY+sizeY > im.Height || startZ+sizeZ > im.Depth {
		return nil, fmt.Errorf("imageview: region extends beyond volume boundaries")
	}

	region := make([]float64, sizeX*sizeY*sizeZ)
	for z := 0; z < sizeZ; z++ {
		for y := 0; y < sizeY; y++ {
			srcRow := (startZ+z)*im.Width*im.Height + (startY+y)*im.Width
			dstRow := z*sizeX*sizeY + y*sizeX
			copy(region[dstRow:dstRow+sizeX], im.Data[srcRow+startX:srcRow+startX+sizeX])
		}
	}
	return region, nil
}

// ContainsSubset reports whether a subset of the given radius centered on
// center fits entirely within the volume.
func (im *Image3D) ContainsSubset(center models.Point3D, radiusX, radiusY, radiusZ int) bool {
	x0, y0, z0 := center.Truncated()
	return x0-radiusX >= 0 && x0+radiusX < im.Width &&
		y0-radiusY >= 0 && y0+radiusY < im.Height &&
		z0-radiusZ >= 0 && z0+radiusZ < im.Depth
}
