package scene

import "github.com/vovakirdan/druid-frontend/internal/render"

// barColors are 75% intensity color bars, left to right.
var barColors = []render.Color{
	0xFFBFBFBF, // white
	0xFFBFBF00, // yellow
	0xFF00BFBF, // cyan
	0xFF00BF00, // green
	0xFFBF00BF, // magenta
	0xFFBF0000, // red
	0xFF0000BF, // blue
}

// Bars draws static vertical color bars.
// Useful for checking channel order on a new surface.
type Bars struct {
	frame *render.Bitmap
}

func init() {
	Register("bars", func() Scene { return &Bars{} })
}

// ID implements Scene.
func (s *Bars) ID() string { return "bars" }

// Title implements Scene.
func (s *Bars) Title() string { return "Color Bars" }

// Reset implements Scene.
func (s *Bars) Reset(cfg render.RuntimeConfig) {
	s.frame = render.BlankBitmap(cfg.Width, cfg.Height, render.Black)
	if cfg.Width == 0 {
		return
	}
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			s.frame.Set(x, y, barColors[x*len(barColors)/cfg.Width])
		}
	}
}

// Step implements Scene. The bars never change.
func (s *Bars) Step() {}

// Frame implements Scene.
func (s *Bars) Frame() *render.Bitmap { return s.frame }
