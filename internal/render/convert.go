package render

import "image"

// BytesPerPixel is the stride of one pixel in an ImageBuffer.
const BytesPerPixel = 4

// ImageBuffer holds pixels in the drawing surface's native layout:
// interleaved 8-bit R, G, B, A, row-major, not premultiplied.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// Image exposes the buffer as an *image.NRGBA sharing the same memory.
func (buf ImageBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
}

// Validate checks that Pix holds exactly Width*Height pixels.
func (buf ImageBuffer) Validate() error {
	if len(buf.Pix)%BytesPerPixel != 0 {
		return &DimensionError{Width: buf.Width, Height: buf.Height, Colors: len(buf.Pix) / BytesPerPixel}
	}
	return CheckDimensions(buf.Width, buf.Height, len(buf.Pix)/BytesPerPixel)
}

// Convert decodes every packed color of b into a freshly allocated ImageBuffer.
// A bitmap whose color count does not match its dimensions is rejected with
// ErrInvalidBitmapDimensions before anything is allocated.
func Convert(b *Bitmap) (ImageBuffer, error) {
	if err := b.Validate(); err != nil {
		return ImageBuffer{}, err
	}
	pix := make([]uint8, len(b.Colors)*BytesPerPixel)
	decodeInto(pix, b.Colors)
	return ImageBuffer{Width: b.Width, Height: b.Height, Pix: pix}, nil
}

// ConvertInto is Convert writing into dst, which is grown only when its
// capacity is too small. The returned slice must be used in place of dst.
func ConvertInto(dst []uint8, b *Bitmap) (ImageBuffer, []uint8, error) {
	if err := b.Validate(); err != nil {
		return ImageBuffer{}, dst, err
	}
	n := len(b.Colors) * BytesPerPixel
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	decodeInto(dst, b.Colors)
	return ImageBuffer{Width: b.Width, Height: b.Height, Pix: dst}, dst, nil
}

func decodeInto(pix []uint8, colors []Color) {
	for i, c := range colors {
		r, g, b, a := c.RGBA()
		o := i * BytesPerPixel
		pix[o+0] = r
		pix[o+1] = g
		pix[o+2] = b
		pix[o+3] = a
	}
}
