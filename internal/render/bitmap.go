package render

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidBitmapDimensions is returned when a bitmap's color count does
// not match its width times its height.
var ErrInvalidBitmapDimensions = errors.New("render: invalid bitmap dimensions")

// DimensionError describes a bitmap whose declared size and color count disagree.
type DimensionError struct {
	Width, Height int
	Colors        int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("render: invalid bitmap dimensions: %dx%d with %d colors",
		e.Width, e.Height, e.Colors)
}

func (e *DimensionError) Unwrap() error {
	return ErrInvalidBitmapDimensions
}

// Bitmap is a row-major grid of packed colors produced by the engine.
// The bridge only reads it and never keeps it past a call.
type Bitmap struct {
	Width  int
	Height int
	Colors []Color
}

// NewBitmap wraps the given colors without copying them.
func NewBitmap(width, height int, colors []Color) *Bitmap {
	return &Bitmap{Width: width, Height: height, Colors: colors}
}

// BlankBitmap allocates a bitmap filled with one color.
func BlankBitmap(width, height int, fill Color) *Bitmap {
	colors := make([]Color, width*height)
	for i := range colors {
		colors[i] = fill
	}
	return NewBitmap(width, height, colors)
}

// BitmapFromImage copies an image into a new bitmap.
func BitmapFromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	b := BlankBitmap(w, h, Transparent)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Colors[y*w+x] = ColorFrom(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return b
}

// Len returns the number of pixels described by the dimensions.
func (b *Bitmap) Len() int {
	return b.Width * b.Height
}

// Validate checks that the color slice matches the dimensions.
func (b *Bitmap) Validate() error {
	return CheckDimensions(b.Width, b.Height, len(b.Colors))
}

// CheckDimensions reports whether width by height pixels are exactly colors
// entries. Sizes whose product does not fit in an int are rejected.
func CheckDimensions(width, height, colors int) error {
	if width < 0 || height < 0 ||
		(height != 0 && width > math.MaxInt/height) ||
		width*height != colors {
		return &DimensionError{Width: width, Height: height, Colors: colors}
	}
	return nil
}

// At returns the color at (x, y), or Transparent when out of bounds.
func (b *Bitmap) At(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Transparent
	}
	return b.Colors[y*b.Width+x]
}

// Set writes a color at (x, y). Out-of-bounds writes are ignored.
func (b *Bitmap) Set(x, y int, c Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Colors[y*b.Width+x] = c
}

func (b *Bitmap) String() string {
	return fmt.Sprintf("Bitmap(%d,%d)", b.Width, b.Height)
}
