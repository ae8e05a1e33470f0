package render

// Surface is a 2D drawing target that presents pixels to the user.
// Implementations clip writes to Bounds.
type Surface interface {
	// Bounds returns the drawable area, normally anchored at (0, 0).
	Bounds() Rect

	// PutImage copies buf onto the surface with its top-left corner at (x, y).
	PutImage(buf ImageBuffer, x, y int) error

	// FillRect paints every pixel of r with c.
	FillRect(r Rect, c Color) error
}

// Draw converts b and blits it onto dst at (x, y).
// Nothing is drawn when the bitmap is malformed.
func Draw(dst Surface, b *Bitmap, x, y int) error {
	buf, err := Convert(b)
	if err != nil {
		return err
	}
	return dst.PutImage(buf, x, y)
}

// Clear fills the whole surface with c.
func Clear(dst Surface, c Color) error {
	return dst.FillRect(dst.Bounds(), c)
}

// DrawSolidBlock paints the block r with the uniform color c.
// Pixels outside r are left alone and an empty block is a no-op.
//
// Painting a block from a caller-supplied pixel buffer is the job of Draw;
// this call only covers the flat-color case.
func DrawSolidBlock(dst Surface, r Rect, c Color) error {
	if r.Empty() {
		return nil
	}
	return dst.FillRect(r, c)
}
