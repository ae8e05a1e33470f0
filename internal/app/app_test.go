package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
)

// flakyScene produces a malformed frame on every tick listed in bad.
type flakyScene struct {
	cfg  render.RuntimeConfig
	tick int
	bad  map[int]bool
}

func (s *flakyScene) ID() string                     { return "flaky" }
func (s *flakyScene) Title() string                  { return "Flaky" }
func (s *flakyScene) Reset(cfg render.RuntimeConfig) { s.cfg = cfg; s.tick = 0 }
func (s *flakyScene) Step()                          { s.tick++ }

func (s *flakyScene) Frame() *render.Bitmap {
	if s.bad[s.tick] {
		return render.NewBitmap(s.cfg.Width, s.cfg.Height, nil)
	}
	return render.BlankBitmap(s.cfg.Width, s.cfg.Height, render.White)
}

func newTestServices(t *testing.T, fb *render.Framebuffer) *Services {
	t.Helper()
	s := NewServices()
	if err := s.RegisterRenderContext(NewSurfaceContext(fb)); err != nil {
		t.Fatalf("RegisterRenderContext() failed: %v", err)
	}
	return s
}

func headless(w, h, frames int) LoopConfig {
	return LoopConfig{
		Runtime:    render.RuntimeConfig{Width: w, Height: h, TickRate: 0, Seed: 1},
		Background: render.Black,
		MaxFrames:  frames,
	}
}

func TestServicesRegisterOnce(t *testing.T) {
	s := NewServices()

	if _, err := s.RenderContext(); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("RenderContext() error = %v, expected ErrNotRegistered", err)
	}
	if _, err := s.AssetLoader(); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("AssetLoader() error = %v, expected ErrNotRegistered", err)
	}
	if _, err := s.InputManager(); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("InputManager() error = %v, expected ErrNotRegistered", err)
	}

	rc := NewSurfaceContext(render.NewFramebuffer(1, 1))
	if err := s.RegisterRenderContext(rc); err != nil {
		t.Fatalf("RegisterRenderContext() failed: %v", err)
	}
	if err := s.RegisterRenderContext(rc); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second RegisterRenderContext() error = %v, expected ErrAlreadyRegistered", err)
	}
	if err := s.RegisterAssetLoader(asset.NewFileLoader("")); err != nil {
		t.Fatalf("RegisterAssetLoader() failed: %v", err)
	}
	if err := s.RegisterAssetLoader(asset.NewFileLoader("")); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second RegisterAssetLoader() error = %v, expected ErrAlreadyRegistered", err)
	}
	if err := s.RegisterInputManager(&CloseFlag{}); err != nil {
		t.Fatalf("RegisterInputManager() failed: %v", err)
	}
	if err := s.RegisterInputManager(&CloseFlag{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second RegisterInputManager() error = %v, expected ErrAlreadyRegistered", err)
	}

	got, err := s.RenderContext()
	if err != nil || got != rc {
		t.Errorf("RenderContext() = %v, %v; expected the registered context", got, err)
	}
}

func TestSurfaceContextDraw(t *testing.T) {
	fb := render.NewFramebuffer(4, 4)
	rc := NewSurfaceContext(fb)

	if err := rc.Clear(render.Black); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if err := rc.Draw(render.BlankBitmap(2, 2, render.White), 2, 2); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if fb.At(3, 3) != render.White || fb.At(1, 1) != render.Black {
		t.Error("Draw() should blit at the requested offset over the cleared surface")
	}

	err := rc.Draw(render.NewBitmap(2, 2, []render.Color{render.White}), 0, 0)
	if !errors.Is(err, render.ErrInvalidBitmapDimensions) {
		t.Errorf("Draw() error = %v, expected ErrInvalidBitmapDimensions", err)
	}
	if fb.At(0, 0) != render.Black {
		t.Error("a rejected frame should not touch the surface")
	}
	if rc.Surface() != fb {
		t.Error("Surface() should return the wrapped surface")
	}
}

func TestCloseFlag(t *testing.T) {
	var f CloseFlag
	if f.IsRequestingClose() {
		t.Error("new CloseFlag should not be closing")
	}
	f.RequestClose()
	if !f.IsRequestingClose() {
		t.Error("RequestClose() should be observed")
	}
}

func TestLoopRunsFrames(t *testing.T) {
	fb := render.NewFramebuffer(16, 8)
	sc, err := scene.Create("bars")
	if err != nil {
		t.Fatal(err)
	}

	loop, err := NewLoop(newTestServices(t, fb), sc, headless(16, 8, 5), nil)
	if err != nil {
		t.Fatalf("NewLoop() failed: %v", err)
	}

	stats, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if stats.Frames != 5 || stats.Dropped != 0 {
		t.Errorf("Run() stats = %+v, expected 5 frames and no drops", stats)
	}
	if fb.At(0, 0) != sc.Frame().At(0, 0) {
		t.Error("the last frame should be on the surface")
	}
}

func TestLoopSkipsBadFrames(t *testing.T) {
	fb := render.NewFramebuffer(4, 4)
	sc := &flakyScene{bad: map[int]bool{2: true, 4: true}}

	var logs bytes.Buffer
	loop, err := NewLoop(newTestServices(t, fb), sc, headless(4, 4, 6), NewLogger(&logs, "test"))
	if err != nil {
		t.Fatalf("NewLoop() failed: %v", err)
	}

	stats, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if stats.Frames != 4 || stats.Dropped != 2 {
		t.Errorf("Run() stats = %+v, expected 4 frames and 2 dropped", stats)
	}
	if !strings.Contains(logs.String(), "frame dropped") {
		t.Errorf("dropped frames should be logged, got %q", logs.String())
	}
}

func TestLoopAbortOnError(t *testing.T) {
	fb := render.NewFramebuffer(4, 4)
	sc := &flakyScene{bad: map[int]bool{3: true}}

	cfg := headless(4, 4, 10)
	cfg.AbortOnError = true
	loop, err := NewLoop(newTestServices(t, fb), sc, cfg, nil)
	if err != nil {
		t.Fatalf("NewLoop() failed: %v", err)
	}

	stats, err := loop.Run(context.Background())
	if !errors.Is(err, render.ErrInvalidBitmapDimensions) {
		t.Fatalf("Run() error = %v, expected ErrInvalidBitmapDimensions", err)
	}
	if stats.Frames != 2 || stats.Dropped != 1 {
		t.Errorf("Run() stats = %+v, expected 2 frames then 1 dropped", stats)
	}
}

func TestLoopStopsOnCloseRequest(t *testing.T) {
	fb := render.NewFramebuffer(2, 2)
	services := newTestServices(t, fb)
	input := &CloseFlag{}
	if err := services.RegisterInputManager(input); err != nil {
		t.Fatal(err)
	}
	input.RequestClose()

	sc, _ := scene.Create("checker")
	loop, err := NewLoop(services, sc, headless(2, 2, 0), nil)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if stats.Frames != 0 {
		t.Errorf("Run() drew %d frames after close was requested", stats.Frames)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	fb := render.NewFramebuffer(2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc, _ := scene.Create("gradient")
	cfg := headless(2, 2, 0)
	cfg.Runtime.TickRate = 60
	loop, err := NewLoop(newTestServices(t, fb), sc, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := loop.Run(ctx); err != nil {
		t.Errorf("Run() on a cancelled context returned %v", err)
	}
}

func TestLoopSplash(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(filepath.Join(dir, "example.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	fb := render.NewFramebuffer(4, 4)
	services := newTestServices(t, fb)
	if err := services.RegisterAssetLoader(asset.NewFileLoader(dir)); err != nil {
		t.Fatal(err)
	}

	cfg := headless(4, 4, 1)
	cfg.SplashPath = "example.png"
	sc := &flakyScene{bad: map[int]bool{1: true}}
	loop, err := NewLoop(services, sc, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	// The only scene frame was dropped, so the splash is still showing
	if fb.At(1, 1) != render.White || fb.At(3, 3) != render.Black {
		t.Error("splash should be drawn at the origin over the background")
	}

	cfg.SplashPath = "missing.png"
	loop, err = NewLoop(services, sc, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loop.Run(context.Background()); !errors.Is(err, asset.ErrResourceNotFound) {
		t.Errorf("Run() error = %v, expected ErrResourceNotFound", err)
	}
}

func TestLoopSplashGoesToOwnScene(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(filepath.Join(dir, "example.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	fb := render.NewFramebuffer(8, 8)
	services := newTestServices(t, fb)
	if err := services.RegisterAssetLoader(asset.NewFileLoader(dir)); err != nil {
		t.Fatal(err)
	}

	withImage, _ := scene.Create("splash")
	cfg := headless(8, 8, 1)
	cfg.SplashPath = "example.png"
	loop, err := NewLoop(services, withImage, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := withImage.Frame().At(4, 4); got != render.White {
		t.Errorf("splash scene centre = %v, expected the loaded image", got)
	}

	// A second scene driven without a splash must not see the first one's image
	without, _ := scene.Create("splash")
	loop, err = NewLoop(services, without, headless(8, 8, 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := without.Frame().At(4, 4); got != render.PlaceholderColor {
		t.Errorf("second splash scene centre = %v, expected placeholder", got)
	}
}

func TestNewLoopWithoutRenderContext(t *testing.T) {
	sc, _ := scene.Create("bars")
	if _, err := NewLoop(NewServices(), sc, headless(1, 1, 1), nil); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("NewLoop() error = %v, expected ErrNotRegistered", err)
	}
}
