package render

import "image"

// Framebuffer is an off-screen RGBA surface.
// The terminal frontends present it; tests use it in place of a canvas.
type Framebuffer struct {
	width  int
	height int
	pix    []uint8
}

// NewFramebuffer creates a transparent framebuffer.
// Negative sizes are treated as zero.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Width returns the framebuffer width in pixels.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the framebuffer height in pixels.
func (f *Framebuffer) Height() int {
	return f.height
}

// Bounds implements Surface.
func (f *Framebuffer) Bounds() Rect {
	return NewRect(0, 0, f.width, f.height)
}

// Pix returns the raw RGBA bytes.
func (f *Framebuffer) Pix() []uint8 {
	return f.pix
}

// Resize changes the dimensions, preserving content where both sizes overlap.
// Negative sizes are treated as zero.
func (f *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == f.width && height == f.height {
		return
	}

	old, oldW := f.pix, f.width
	copyW := min(f.width, width)
	copyH := min(f.height, height)

	f.width, f.height = width, height
	f.pix = make([]uint8, width*height*BytesPerPixel)

	for y := 0; y < copyH; y++ {
		src := old[y*oldW*BytesPerPixel : (y*oldW+copyW)*BytesPerPixel]
		copy(f.pix[y*width*BytesPerPixel:], src)
	}
}

// PutImage implements Surface. Rows and columns outside the framebuffer are clipped.
func (f *Framebuffer) PutImage(buf ImageBuffer, x, y int) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	dst := NewRect(x, y, buf.Width, buf.Height).Intersect(f.Bounds())
	if dst.Empty() {
		return nil
	}

	for row := dst.Y; row < dst.Bottom(); row++ {
		srcOff := ((row-y)*buf.Width + (dst.X - x)) * BytesPerPixel
		dstOff := (row*f.width + dst.X) * BytesPerPixel
		n := dst.W * BytesPerPixel
		copy(f.pix[dstOff:dstOff+n], buf.Pix[srcOff:srcOff+n])
	}
	return nil
}

// FillRect implements Surface.
func (f *Framebuffer) FillRect(r Rect, c Color) error {
	area := r.Intersect(f.Bounds())
	if area.Empty() {
		return nil
	}

	cr, cg, cb, ca := c.RGBA()
	for y := area.Y; y < area.Bottom(); y++ {
		off := (y*f.width + area.X) * BytesPerPixel
		for x := 0; x < area.W; x++ {
			f.pix[off+0] = cr
			f.pix[off+1] = cg
			f.pix[off+2] = cb
			f.pix[off+3] = ca
			off += BytesPerPixel
		}
	}
	return nil
}

// At returns the color at (x, y), or Transparent when out of bounds.
func (f *Framebuffer) At(x, y int) Color {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Transparent
	}
	o := (y*f.width + x) * BytesPerPixel
	return NewColor(f.pix[o], f.pix[o+1], f.pix[o+2], f.pix[o+3])
}

// Snapshot copies the current contents into a new Bitmap.
func (f *Framebuffer) Snapshot() *Bitmap {
	b := BlankBitmap(f.width, f.height, Transparent)
	for i := range b.Colors {
		o := i * BytesPerPixel
		b.Colors[i] = NewColor(f.pix[o], f.pix[o+1], f.pix[o+2], f.pix[o+3])
	}
	return b
}

// Image returns an *image.NRGBA view of the framebuffer memory.
func (f *Framebuffer) Image() *image.NRGBA {
	return ImageBuffer{Width: f.width, Height: f.height, Pix: f.pix}.Image()
}

var _ Surface = (*Framebuffer)(nil)
