package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 32-bit color in 0xAARRGGBB layout.
// Alpha occupies bits 24-31, red 16-23, green 8-15 and blue 0-7.
type Color uint32

// Predefined colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF

	// PlaceholderColor is the flat color painted by DrawSolidBlock when the
	// caller has nothing better to show.
	PlaceholderColor Color = 0xFFFF0000
)

// NewColor packs four 8-bit channels into a Color.
func NewColor(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Opaque packs an RGB triple with full alpha.
func Opaque(r, g, b uint8) Color {
	return NewColor(r, g, b, 0xFF)
}

// RGBA unpacks the color into its four channels using exact bit masks.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16 & 0xFF), uint8(c >> 8 & 0xFF), uint8(c & 0xFF), uint8(c >> 24)
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 {
	return uint8(c >> 24)
}

// NRGBA converts to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ColorFrom converts any color.Color into a packed Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NewColor(n.R, n.G, n.B, n.A)
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB".
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("render: invalid color %q: %w", s, err)
	}

	switch len(hex) {
	case 6:
		return Color(v) | 0xFF000000, nil
	case 8:
		return Color(v), nil
	default:
		return 0, fmt.Errorf("render: invalid color %q: want #RRGGBB or #AARRGGBB", s)
	}
}
