package scene

import "github.com/vovakirdan/druid-frontend/internal/render"

// SplashSetter is implemented by scenes that show the loaded splash image.
// The frame loop hands the image over before the first Reset.
type SplashSetter interface {
	SetSplash(b *render.Bitmap)
}

// Splash centres the splash image on a dark background.
// Without an image it shows the placeholder block instead.
type Splash struct {
	image *render.Bitmap
	frame *render.Bitmap
}

func init() {
	Register("splash", func() Scene { return &Splash{} })
}

// ID implements Scene.
func (s *Splash) ID() string { return "splash" }

// Title implements Scene.
func (s *Splash) Title() string { return "Splash Image" }

// SetSplash implements SplashSetter. It takes effect on the next Reset.
func (s *Splash) SetSplash(b *render.Bitmap) { s.image = b }

// Reset implements Scene.
func (s *Splash) Reset(cfg render.RuntimeConfig) {
	s.frame = render.BlankBitmap(cfg.Width, cfg.Height, render.Opaque(0x00, 0x11, 0x11))

	img := s.image
	if img == nil || img.Validate() != nil {
		// Placeholder block in the middle quarter
		for y := cfg.Height / 4; y < cfg.Height*3/4; y++ {
			for x := cfg.Width / 4; x < cfg.Width*3/4; x++ {
				s.frame.Set(x, y, render.PlaceholderColor)
			}
		}
		return
	}

	ox := (cfg.Width - img.Width) / 2
	oy := (cfg.Height - img.Height) / 2
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			s.frame.Set(ox+x, oy+y, img.At(x, y))
		}
	}
}

// Step implements Scene. The splash is static.
func (s *Splash) Step() {}

// Frame implements Scene.
func (s *Splash) Frame() *render.Bitmap { return s.frame }
