package web

import (
	"fmt"
	"math/rand/v2"
	"strings"

	pixelshuffle "github.com/hellolucient/pixel-shuffle"
)

// buildGridHTML renders a grid as a square CSS-grid fragment. The side
// length floors to full blocks of the longer image dimension, so cells
// in trailing partial blocks are dropped from the view and shorter
// dimensions pad with background cells. Every cell carries an inline
// background color; stored cells add the colored class. When animating,
// every cell also gets the initializing class and a random entry delay
// under 0.2s.
func buildGridHTML(g *pixelshuffle.BlockGrid, animate bool) string {
	gridSize := max(g.PixelWidth(), g.PixelHeight()) / g.BlockSize()

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pixel-grid" style="grid-template-columns: repeat(%d, 1fr);">`, gridSize)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			color, ok := g.At(pixelshuffle.Coord{Col: col, Row: row})
			if !ok {
				color = pixelshuffle.Background
			}
			classes := "pixel"
			if ok {
				classes += " colored"
			}
			if animate {
				classes += " initializing"
				fmt.Fprintf(&b, `<div class="%s" style="background-color: %s; animation-delay: %.3fs;"></div>`,
					classes, color, rand.Float64()*0.2)
			} else {
				fmt.Fprintf(&b, `<div class="%s" style="background-color: %s;"></div>`, classes, color)
			}
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}
