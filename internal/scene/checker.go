package scene

import "github.com/vovakirdan/druid-frontend/internal/render"

const checkerCell = 16

// Checker scrolls a two-color checkerboard diagonally, one pixel per tick.
type Checker struct {
	frame *render.Bitmap
	tick  int
	dark  render.Color
	light render.Color
}

func init() {
	Register("checker", func() Scene {
		return &Checker{dark: render.Opaque(0x00, 0x11, 0x99), light: render.Opaque(0xEE, 0xEE, 0xDD)}
	})
}

// ID implements Scene.
func (s *Checker) ID() string { return "checker" }

// Title implements Scene.
func (s *Checker) Title() string { return "Scrolling Checkerboard" }

// Reset implements Scene.
func (s *Checker) Reset(cfg render.RuntimeConfig) {
	s.frame = render.BlankBitmap(cfg.Width, cfg.Height, s.dark)
	s.tick = 0
	s.paint()
}

// Step implements Scene.
func (s *Checker) Step() {
	s.tick = (s.tick + 1) % (checkerCell * 2)
	s.paint()
}

// Frame implements Scene.
func (s *Checker) Frame() *render.Bitmap { return s.frame }

func (s *Checker) paint() {
	for y := 0; y < s.frame.Height; y++ {
		cy := (y + s.tick) / checkerCell
		for x := 0; x < s.frame.Width; x++ {
			cx := (x + s.tick) / checkerCell
			c := s.dark
			if (cx+cy)%2 == 1 {
				c = s.light
			}
			s.frame.Set(x, y, c)
		}
	}
}
