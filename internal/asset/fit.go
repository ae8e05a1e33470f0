package asset

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// FitBitmap resamples b to exactly width x height pixels using nearest-neighbour
// scaling, which keeps pixel art crisp. Invalid or empty input yields a
// transparent bitmap of the requested size.
func FitBitmap(b *render.Bitmap, width, height int) *render.Bitmap {
	if width <= 0 || height <= 0 {
		return render.NewBitmap(0, 0, nil)
	}
	if b.Width == width && b.Height == height {
		return b
	}

	src, err := render.Convert(b)
	if err != nil || src.Width == 0 || src.Height == 0 {
		return render.BlankBitmap(width, height, render.Transparent)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src.Image(), src.Image().Bounds(), draw.Src, nil)

	return render.BitmapFromImage(dst)
}
