package pixelshuffle

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/hellolucient/pixel-shuffle/imageutil"
)

// Reconstruct paints the grid back into a raster image of the grid's
// pixel dimensions. The canvas starts out entirely in the Background
// sentinel color; every stored cell then fills its block square,
// clipped to the image bounds, so trailing partial blocks paint only
// the pixels that exist. Positions without a cell stay background.
func Reconstruct(g *BlockGrid) *imageutil.RGBAImage {
	img := imageutil.NewRGBAImage(g.pixelWidth, g.pixelHeight)
	bg := color.RGBA{R: Background.R, G: Background.G, B: Background.B, A: 255}
	draw.Draw(img.RGBA, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for at, c := range g.cells {
		fillBlock(img, g, at, c)
	}
	return img
}

// fillBlock paints one block square with c, clipping to the image
// bounds.
func fillBlock(img *imageutil.RGBAImage, g *BlockGrid, at Coord, c RGB) {
	x0 := at.Col * g.blockSize
	y0 := at.Row * g.blockSize
	x1 := min(x0+g.blockSize, g.pixelWidth)
	y1 := min(y0+g.blockSize, g.pixelHeight)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGB(x, y, imageutil.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
}
