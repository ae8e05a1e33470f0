package asset

import (
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/asset/example.png":
			w.Header().Set("Content-Type", "image/png")
			png.Encode(w, testImage())
		case "/asset/broken.png":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader, err := NewHTTPLoader(srv.URL + "/asset/")
	if err != nil {
		t.Fatalf("NewHTTPLoader() failed: %v", err)
	}

	b, err := loader.LoadBitmap(context.Background(), "example.png")
	if err != nil {
		t.Fatalf("LoadBitmap() failed: %v", err)
	}
	if b.Width != 2 || b.Height != 2 || b.Colors[3] != 0xFFFF0000 {
		t.Errorf("LoadBitmap() = %v %v, expected the 2x2 test image", b, b.Colors)
	}

	_, err = loader.LoadBitmap(context.Background(), "missing.png")
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("LoadBitmap(missing) error = %v, expected ErrResourceNotFound", err)
	}

	_, err = loader.LoadBitmap(context.Background(), "broken.png")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || errors.Is(err, ErrResourceNotFound) {
		t.Errorf("LoadBitmap(broken) error = %v, expected a LoadError other than not found", err)
	}
}

func TestHTTPLoaderCancelled(t *testing.T) {
	loader, err := NewHTTPLoader("http://127.0.0.1:1/")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadBitmap(ctx, "example.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadBitmap() error = %v, expected context.Canceled", err)
	}
}
