package asset

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// HTTPLoader fetches assets relative to a base URL. In the browser build
// net/http goes through fetch, so this is how the page's assets are read.
type HTTPLoader struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPLoader creates a loader resolving paths against base.
func NewHTTPLoader(base string) (*HTTPLoader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("asset: invalid base URL %q: %w", base, err)
	}
	return &HTTPLoader{Base: u, Client: http.DefaultClient}, nil
}

// LoadBitmap downloads and decodes the image at path.
func (l *HTTPLoader) LoadBitmap(ctx context.Context, path string) (*render.Bitmap, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	full := l.Base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &LoadError{Path: full, Err: err}
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, &LoadError{Path: full, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &LoadError{Path: full, Err: ErrResourceNotFound}
	case resp.StatusCode != http.StatusOK:
		return nil, &LoadError{Path: full, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, &LoadError{Path: full, Err: err}
	}

	return render.BitmapFromImage(img), nil
}

var _ Loader = (*HTTPLoader)(nil)
