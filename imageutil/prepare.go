package imageutil

import (
	"image"

	"github.com/nfnt/resize"
)

// CapDimensions bounds an image to maxDim pixels on its longer side,
// preserving aspect ratio. Images already within the cap come back
// unchanged, as does everything when maxDim is zero or negative.
// Scaling is nearest-neighbor so flat block colors survive without
// being averaged into new shades.
func CapDimensions(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}
	if width >= height {
		return resize.Resize(uint(maxDim), 0, img, resize.NearestNeighbor)
	}
	return resize.Resize(0, uint(maxDim), img, resize.NearestNeighbor)
}
