package pixelshuffle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// gridDocument is the wire shape of a grid: geometry under "metadata"
// and the sparse cells under "pixels", keyed by "col,row" strings with
// "rgb(r,g,b)" values. The textual forms exist only here.
type gridDocument struct {
	Metadata gridMetadata      `json:"metadata"`
	Pixels   map[string]string `json:"pixels"`
}

type gridMetadata struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	PixelSize int `json:"pixel_size"`
}

// MarshalJSON encodes the grid as its wire document.
func (g *BlockGrid) MarshalJSON() ([]byte, error) {
	doc := gridDocument{
		Metadata: gridMetadata{
			Width:     g.pixelWidth,
			Height:    g.pixelHeight,
			PixelSize: g.blockSize,
		},
		Pixels: make(map[string]string, len(g.cells)),
	}
	for c, rgb := range g.cells {
		doc.Pixels[fmt.Sprintf("%d,%d", c.Col, c.Row)] = rgb.String()
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a wire document, validating it fully: the
// metadata must describe a non-empty grid, every pixel key must be a
// well-formed in-bounds coordinate, and every value a well-formed
// color. Entries carrying the Background sentinel are normalized to
// omission. On error the receiver is left unchanged.
func (g *BlockGrid) UnmarshalJSON(data []byte) error {
	var doc gridDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	grid, err := NewBlockGrid(doc.Metadata.PixelSize, doc.Metadata.Width, doc.Metadata.Height)
	if err != nil {
		return fmt.Errorf("grid metadata: %w", err)
	}
	for key, value := range doc.Pixels {
		c, err := parseCoord(key)
		if err != nil {
			return err
		}
		rgb, err := ParseRGB(value)
		if err != nil {
			return fmt.Errorf("pixel %q: %w", key, err)
		}
		if !grid.Set(c, rgb) {
			return fmt.Errorf("pixel %q: coordinate outside %dx%d grid",
				key, grid.Cols(), grid.Rows())
		}
	}
	*g = *grid
	return nil
}

// parseCoord parses a "col,row" key into a Coord.
func parseCoord(s string) (Coord, error) {
	colStr, rowStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("malformed coordinate %q", s)
	}
	col, errCol := strconv.Atoi(colStr)
	row, errRow := strconv.Atoi(rowStr)
	if errCol != nil || errRow != nil {
		return Coord{}, fmt.Errorf("malformed coordinate %q", s)
	}
	return Coord{Col: col, Row: row}, nil
}
