package pixelshuffle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrGridCapacity reports a shuffle asked to place more colors than the
// grid has positions.
var ErrGridCapacity = errors.New("more colors than grid positions")

// Shuffle returns a new grid with the same geometry in which the stored
// colors occupy a uniformly random injective selection of positions
// drawn from the whole coordinate space, occupied or not. The color
// multiset is preserved exactly; the input grid is never modified.
//
// rng supplies the randomness so callers can seed reproducible
// shuffles; nil uses the shared math/rand/v2 source. A grid whose color
// count exceeds its position count cannot arise from Sample, but
// composed inputs are rejected with ErrGridCapacity rather than
// silently truncated.
func Shuffle(g *BlockGrid, rng *rand.Rand) (*BlockGrid, error) {
	out, err := NewBlockGrid(g.blockSize, g.pixelWidth, g.pixelHeight)
	if err != nil {
		return nil, err
	}
	placed, err := placeColors(g.Colors(), g.Cols(), g.Rows(), rng)
	if err != nil {
		return nil, err
	}
	out.cells = placed
	return out, nil
}

// placeColors assigns each color a distinct position chosen uniformly
// at random from the cols x rows coordinate space: the full position
// list is permuted and the first len(colors) entries are used.
func placeColors(colors []RGB, cols, rows int, rng *rand.Rand) (map[Coord]RGB, error) {
	total := cols * rows
	if len(colors) > total {
		return nil, fmt.Errorf("%w: %d colors for %d positions",
			ErrGridCapacity, len(colors), total)
	}

	positions := make([]Coord, 0, total)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			positions = append(positions, Coord{Col: col, Row: row})
		}
	}
	swap := func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	}
	if rng != nil {
		rng.Shuffle(len(positions), swap)
	} else {
		rand.Shuffle(len(positions), swap)
	}

	placed := make(map[Coord]RGB, len(colors))
	for i, c := range colors {
		placed[positions[i]] = c
	}
	return placed, nil
}
