package imageutil

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"sort"
)

// ErrNoFrames reports an animation encode with an empty frame list.
var ErrNoFrames = errors.New("no frames to encode")

// EncodeAnimatedGIF writes frames to w as a looping GIF with the given
// per-frame delay in hundredths of a second. Block art carries a small
// set of flat colors, so a single shared palette built from the frames
// serves the whole animation; any color beyond the 256-entry GIF limit
// maps to its nearest palette entry while drawing.
func EncodeAnimatedGIF(w io.Writer, frames []image.Image, delayCS int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	pal := buildPalette(frames)
	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		bounds := frame.Bounds()
		paletted := image.NewPaletted(bounds, pal)
		draw.Draw(paletted, bounds, frame, bounds.Min, draw.Src)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delayCS)
	}
	return gif.EncodeAll(w, anim)
}

// buildPalette collects the distinct colors across all frames, sorted
// by packed value so encoding is deterministic, capped at the GIF limit
// of 256 entries.
func buildPalette(frames []image.Image) color.Palette {
	seen := make(map[uint32]color.RGBA)
	for _, frame := range frames {
		bounds := frame.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
				key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
				if _, ok := seen[key]; !ok {
					seen[key] = c
				}
			}
		}
	}

	keys := make([]uint32, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > 256 {
		keys = keys[:256]
	}

	pal := make(color.Palette, 0, len(keys))
	for _, k := range keys {
		pal = append(pal, seen[k])
	}
	return pal
}
