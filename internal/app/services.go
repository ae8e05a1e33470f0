// Package app wires the frontend services together and runs the frame loop.
package app

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/render"
)

var (
	// ErrAlreadyRegistered is returned when a service slot is filled twice.
	ErrAlreadyRegistered = errors.New("app: service already registered")
	// ErrNotRegistered is returned when a required service is missing.
	ErrNotRegistered = errors.New("app: service not registered")
)

// RenderContext draws visuals to the screen.
type RenderContext interface {
	// Draw presents the bitmap with its top-left corner at (x, y).
	Draw(b *render.Bitmap, x, y int) error
	// Clear fills the whole screen with c.
	Clear(c render.Color) error
}

// InputManager reports whether the user or window wants to close.
type InputManager interface {
	IsRequestingClose() bool
	RequestClose()
}

// SurfaceContext is a RenderContext backed by any render.Surface.
// One conversion buffer is reused across frames, so it must not be used
// from more than one goroutine at a time. Give each independent caller,
// such as a frame loop and a page callback, its own SurfaceContext.
type SurfaceContext struct {
	surface render.Surface
	scratch []uint8
}

// NewSurfaceContext wraps a surface.
func NewSurfaceContext(s render.Surface) *SurfaceContext {
	return &SurfaceContext{surface: s}
}

// Surface returns the wrapped drawing surface.
func (c *SurfaceContext) Surface() render.Surface {
	return c.surface
}

// Draw implements RenderContext.
func (c *SurfaceContext) Draw(b *render.Bitmap, x, y int) error {
	buf, scratch, err := render.ConvertInto(c.scratch, b)
	c.scratch = scratch
	if err != nil {
		return err
	}
	return c.surface.PutImage(buf, x, y)
}

// Clear implements RenderContext.
func (c *SurfaceContext) Clear(col render.Color) error {
	return render.Clear(c.surface, col)
}

// CloseFlag is an InputManager that only tracks close requests.
// It is safe to flip from callbacks or signal handlers.
type CloseFlag struct {
	closing atomic.Bool
}

// IsRequestingClose implements InputManager.
func (f *CloseFlag) IsRequestingClose() bool {
	return f.closing.Load()
}

// RequestClose implements InputManager.
func (f *CloseFlag) RequestClose() {
	f.closing.Store(true)
}

// Services holds the services a frontend registers before running.
// Each slot can be filled exactly once.
type Services struct {
	mu            sync.RWMutex
	renderContext RenderContext
	assetLoader   asset.Loader
	inputManager  InputManager
}

// NewServices creates an empty container.
func NewServices() *Services {
	return &Services{}
}

// RegisterRenderContext registers the render context.
func (s *Services) RegisterRenderContext(rc RenderContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderContext != nil {
		return ErrAlreadyRegistered
	}
	s.renderContext = rc
	return nil
}

// RenderContext returns the registered render context.
func (s *Services) RenderContext() (RenderContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.renderContext == nil {
		return nil, ErrNotRegistered
	}
	return s.renderContext, nil
}

// RegisterAssetLoader registers the asset loader.
func (s *Services) RegisterAssetLoader(l asset.Loader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assetLoader != nil {
		return ErrAlreadyRegistered
	}
	s.assetLoader = l
	return nil
}

// AssetLoader returns the registered asset loader.
func (s *Services) AssetLoader() (asset.Loader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assetLoader == nil {
		return nil, ErrNotRegistered
	}
	return s.assetLoader, nil
}

// RegisterInputManager registers the input manager.
func (s *Services) RegisterInputManager(im InputManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputManager != nil {
		return ErrAlreadyRegistered
	}
	s.inputManager = im
	return nil
}

// InputManager returns the registered input manager.
func (s *Services) InputManager() (InputManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inputManager == nil {
		return nil, ErrNotRegistered
	}
	return s.inputManager, nil
}
