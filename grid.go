package pixelshuffle

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrBlockSize reports a non-positive block size.
	ErrBlockSize = errors.New("block size must be positive")

	// ErrEmptyImage reports a raster with zero width or height.
	ErrEmptyImage = errors.New("image has no pixels")
)

// Coord identifies a block position as a (column, row) pair. Columns
// grow rightward, rows downward, both zero-based.
type Coord struct {
	Col, Row int
}

// BlockGrid is the sparse mapping of block coordinates to colors, plus
// the grid geometry. Only non-background cells are stored; an absent
// coordinate means the block shows the Background sentinel. The
// geometry is fixed at creation and transforms always return a new
// grid, so a BlockGrid handed to another component never changes
// underneath it.
type BlockGrid struct {
	blockSize   int
	pixelWidth  int
	pixelHeight int
	cells       map[Coord]RGB
}

// NewBlockGrid creates an empty grid for a pixelWidth x pixelHeight
// raster divided into blockSize-squared blocks. Trailing partial blocks
// count as full positions.
func NewBlockGrid(blockSize, pixelWidth, pixelHeight int) (*BlockGrid, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBlockSize, blockSize)
	}
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, pixelWidth, pixelHeight)
	}
	return &BlockGrid{
		blockSize:   blockSize,
		pixelWidth:  pixelWidth,
		pixelHeight: pixelHeight,
		cells:       make(map[Coord]RGB),
	}, nil
}

// BlockSize returns the block edge length in source pixels.
func (g *BlockGrid) BlockSize() int { return g.blockSize }

// PixelWidth returns the source raster width in pixels.
func (g *BlockGrid) PixelWidth() int { return g.pixelWidth }

// PixelHeight returns the source raster height in pixels.
func (g *BlockGrid) PixelHeight() int { return g.pixelHeight }

// Cols returns the number of block columns, counting a trailing partial
// column as a full position.
func (g *BlockGrid) Cols() int {
	return (g.pixelWidth + g.blockSize - 1) / g.blockSize
}

// Rows returns the number of block rows, counting a trailing partial
// row as a full position.
func (g *BlockGrid) Rows() int {
	return (g.pixelHeight + g.blockSize - 1) / g.blockSize
}

// Positions returns the total number of block positions, Cols*Rows.
func (g *BlockGrid) Positions() int {
	return g.Cols() * g.Rows()
}

// Len returns the number of stored (non-background) cells.
func (g *BlockGrid) Len() int { return len(g.cells) }

// At returns the color stored at c. The second result is false when the
// position is background.
func (g *BlockGrid) At(c Coord) (RGB, bool) {
	rgb, ok := g.cells[c]
	return rgb, ok
}

// Set stores color at c, replacing any previous value. Setting the
// Background sentinel clears the position instead, keeping the
// invariant that background cells are omitted rather than stored. Set
// reports whether c lies inside the grid; out-of-bounds writes store
// nothing.
func (g *BlockGrid) Set(c Coord, color RGB) bool {
	if c.Col < 0 || c.Col >= g.Cols() || c.Row < 0 || c.Row >= g.Rows() {
		return false
	}
	if color == Background {
		delete(g.cells, c)
		return true
	}
	g.cells[c] = color
	return true
}

// Cells returns a copy of the stored cells.
func (g *BlockGrid) Cells() map[Coord]RGB {
	out := make(map[Coord]RGB, len(g.cells))
	for c, rgb := range g.cells {
		out[c] = rgb
	}
	return out
}

// Colors returns the stored colors as a multiset, sorted by channel so
// repeated calls iterate in the same order.
func (g *BlockGrid) Colors() []RGB {
	colors := make([]RGB, 0, len(g.cells))
	for _, rgb := range g.cells {
		colors = append(colors, rgb)
	}
	sort.Sort(sortableRGB(colors))
	return colors
}

// Clone returns a deep copy of the grid.
func (g *BlockGrid) Clone() *BlockGrid {
	return &BlockGrid{
		blockSize:   g.blockSize,
		pixelWidth:  g.pixelWidth,
		pixelHeight: g.pixelHeight,
		cells:       g.Cells(),
	}
}
