package render

import (
	"errors"
	"testing"
)

func TestNewFramebuffer(t *testing.T) {
	fb := NewFramebuffer(8, 6)

	if fb.Width() != 8 || fb.Height() != 6 {
		t.Errorf("size = %dx%d, expected 8x6", fb.Width(), fb.Height())
	}
	if len(fb.Pix()) != 8*6*4 {
		t.Errorf("len(Pix()) = %d, expected %d", len(fb.Pix()), 8*6*4)
	}
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.At(x, y) != Transparent {
				t.Fatalf("new framebuffer should be transparent, got %v at (%d, %d)", fb.At(x, y), x, y)
			}
		}
	}
}

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	b := NewBitmap(2, 2, []Color{0xFF000001, 0xFF000002, 0xFF000003, 0xFF000004})

	if err := Draw(fb, b, 1, 1); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	expected := map[[2]int]Color{
		{1, 1}: 0xFF000001,
		{2, 1}: 0xFF000002,
		{1, 2}: 0xFF000003,
		{2, 2}: 0xFF000004,
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want, ok := expected[[2]int{x, y}]
			if !ok {
				want = Transparent
			}
			if got := fb.At(x, y); got != want {
				t.Errorf("At(%d, %d) = %v, expected %v", x, y, got, want)
			}
		}
	}
}

func TestFramebufferDrawClipped(t *testing.T) {
	fb := NewFramebuffer(3, 3)
	b := BlankBitmap(3, 3, White)

	// Only the bottom-right 2x2 of the bitmap lands on screen
	if err := Draw(fb, b, -1, -1); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := Transparent
			if x < 2 && y < 2 {
				want = White
			}
			if got := fb.At(x, y); got != want {
				t.Errorf("At(%d, %d) = %v, expected %v", x, y, got, want)
			}
		}
	}

	// Completely off-screen is not an error
	if err := Draw(fb, b, 10, 10); err != nil {
		t.Errorf("Draw() off-screen returned error: %v", err)
	}
}

func TestFramebufferDrawInvalidBitmap(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	err := Draw(fb, NewBitmap(2, 2, []Color{White}), 0, 0)
	if !errors.Is(err, ErrInvalidBitmapDimensions) {
		t.Fatalf("Draw() error = %v, expected ErrInvalidBitmapDimensions", err)
	}
	if fb.At(0, 0) != Transparent {
		t.Error("a rejected bitmap should leave the surface untouched")
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.FillRect(NewRect(0, 0, 2, 2), White)

	fb.Resize(3, 2)
	if fb.Width() != 3 || fb.Height() != 2 {
		t.Fatalf("after Resize size = %dx%d, expected 3x2", fb.Width(), fb.Height())
	}
	if fb.At(1, 1) != White || fb.At(2, 1) != Transparent {
		t.Error("Resize should preserve the overlapping content")
	}

	fb.Resize(6, 6)
	if fb.At(0, 0) != White || fb.At(5, 5) != Transparent {
		t.Error("content should survive enlarging")
	}
}

func TestFramebufferSnapshot(t *testing.T) {
	fb := NewFramebuffer(2, 1)
	fb.FillRect(NewRect(1, 0, 1, 1), 0x7F123456)

	snap := fb.Snapshot()
	if err := snap.Validate(); err != nil {
		t.Fatalf("Snapshot() produced invalid bitmap: %v", err)
	}
	if snap.At(0, 0) != Transparent || snap.At(1, 0) != 0x7F123456 {
		t.Errorf("Snapshot() = %v", snap.Colors)
	}

	// The snapshot is a copy
	fb.FillRect(fb.Bounds(), Black)
	if snap.At(1, 0) != 0x7F123456 {
		t.Error("Snapshot() should not alias the framebuffer")
	}
}

func TestFramebufferNegativeSize(t *testing.T) {
	fb := NewFramebuffer(-3, 2)
	if fb.Width() != 0 || fb.Height() != 2 || len(fb.Pix()) != 0 {
		t.Errorf("NewFramebuffer(-3, 2) = %dx%d with %d bytes, expected 0x2 with 0 bytes",
			fb.Width(), fb.Height(), len(fb.Pix()))
	}

	fb = NewFramebuffer(2, 2)
	fb.Resize(4, -1)
	if fb.Width() != 4 || fb.Height() != 0 || len(fb.Pix()) != 0 {
		t.Errorf("Resize(4, -1) = %dx%d with %d bytes, expected 4x0 with 0 bytes",
			fb.Width(), fb.Height(), len(fb.Pix()))
	}
	if err := DrawSolidBlock(fb, NewRect(0, 0, 4, 4), White); err != nil {
		t.Errorf("DrawSolidBlock() on an empty framebuffer = %v, expected nil", err)
	}
}

func TestFramebufferPutImageShortBuffer(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	bufs := []ImageBuffer{
		{Width: 2, Height: 2, Pix: make([]uint8, 12)},
		{Width: 2, Height: 2, Pix: make([]uint8, 15)},
		{Width: 1 << 30, Height: 1 << 30, Pix: nil},
	}
	for _, buf := range bufs {
		if err := fb.PutImage(buf, 0, 0); !errors.Is(err, ErrInvalidBitmapDimensions) {
			t.Errorf("PutImage(%dx%d, %d bytes) error = %v, expected ErrInvalidBitmapDimensions",
				buf.Width, buf.Height, len(buf.Pix), err)
		}
	}
}
