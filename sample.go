package pixelshuffle

import (
	"image"
)

// Sample reads one pixel per block from img and returns the resulting
// grid. For each block position whose top-left corner lies inside the
// image, the pixel at (col*blockSize, row*blockSize) is taken verbatim
// as the block color; there is no averaging or interpolation. Pixels
// matching the Background sentinel are omitted. Trailing partial blocks
// sample their available top-left pixel like any other block.
//
// Sampling is deterministic: the same image and block size always
// produce the same grid.
func Sample(img image.Image, blockSize int) (*BlockGrid, error) {
	bounds := img.Bounds()
	grid, err := NewBlockGrid(blockSize, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for row := 0; row*blockSize < grid.pixelHeight; row++ {
		for col := 0; col*blockSize < grid.pixelWidth; col++ {
			x := bounds.Min.X + col*blockSize
			y := bounds.Min.Y + row*blockSize
			grid.Set(Coord{Col: col, Row: row}, rgbFromColor(img.At(x, y)))
		}
	}
	return grid, nil
}
