// Package asset loads images from disk into engine bitmaps.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// ErrResourceNotFound is returned when nothing exists at the requested path.
var ErrResourceNotFound = errors.New("asset: resource not found")

// LoadError reports a failure specific to reading or decoding one asset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: cannot load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader loads bitmap assets for the frontend.
type Loader interface {
	LoadBitmap(ctx context.Context, path string) (*render.Bitmap, error)
}

// FileLoader reads assets from the local filesystem.
// Relative paths are resolved against Root when it is set.
type FileLoader struct {
	Root string
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Root: dir}
}

// LoadBitmap decodes the image at path.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF and WebP.
func (l *FileLoader) LoadBitmap(ctx context.Context, path string) (*render.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := l.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: full, Err: ErrResourceNotFound}
		}
		return nil, &LoadError{Path: full, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: full, Err: err}
	}

	return render.BitmapFromImage(img), nil
}

func (l *FileLoader) resolve(path string) string {
	if l.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

var _ Loader = (*FileLoader)(nil)
