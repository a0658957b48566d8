package pixelshuffle

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255. It is the canonical color
// representation of the package; the textual "rgb(r,g,b)" form exists
// only at serialization boundaries.
type RGB struct {
	R, G, B uint8
}

// Background is the reserved sentinel color meaning "no block placed
// here". It matches the #292929 page background the HTML grid sits on,
// so absent blocks blend into the page.
var Background = RGB{R: 41, G: 41, B: 41}

// ToUint32 packs an RGB color into a 32-bit unsigned integer of the
// form 0xRRGGBB, usable as a map or sort key.
func (c RGB) ToUint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBFromUint32 unpacks a 0xRRGGBB integer into an RGB color.
func RGBFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// String renders the color in the textual "rgb(r,g,b)" form used by
// the grid document and the HTML grid.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseRGB parses the textual "rgb(r,g,b)" form. Channels must be
// decimal integers in [0,255]; spaces after the commas are tolerated.
func ParseRGB(s string) (RGB, error) {
	inner, ok := strings.CutPrefix(s, "rgb(")
	if !ok {
		return RGB{}, fmt.Errorf("malformed color %q", s)
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return RGB{}, fmt.Errorf("malformed color %q", s)
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("malformed color %q", s)
	}
	var channels [3]uint8
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("malformed color %q", s)
		}
		channels[i] = uint8(v)
	}
	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// rgbFromColor coerces any color.Color to RGB, discarding alpha. The
// conversion goes through the non-premultiplied NRGBA model so that a
// transparent pixel keeps its raw channel values rather than collapsing
// to black.
func rgbFromColor(c color.Color) RGB {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: nc.R, G: nc.G, B: nc.B}
}

type sortableRGB []RGB

func (s sortableRGB) Len() int      { return len(s) }
func (s sortableRGB) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s sortableRGB) Less(i, j int) bool {
	if s[i].R != s[j].R {
		return s[i].R < s[j].R
	}
	if s[i].G != s[j].G {
		return s[i].G < s[j].G
	}
	return s[i].B < s[j].B
}
