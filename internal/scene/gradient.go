package scene

import "github.com/vovakirdan/druid-frontend/internal/render"

// Gradient scrolls a hue ramp horizontally and darkens it towards the bottom.
type Gradient struct {
	frame *render.Bitmap
	tick  int
}

func init() {
	Register("gradient", func() Scene { return &Gradient{} })
}

// ID implements Scene.
func (s *Gradient) ID() string { return "gradient" }

// Title implements Scene.
func (s *Gradient) Title() string { return "Hue Gradient" }

// Reset implements Scene.
func (s *Gradient) Reset(cfg render.RuntimeConfig) {
	s.frame = render.BlankBitmap(cfg.Width, cfg.Height, render.Black)
	s.tick = 0
	s.paint()
}

// Step implements Scene.
func (s *Gradient) Step() {
	s.tick++
	s.paint()
}

// Frame implements Scene.
func (s *Gradient) Frame() *render.Bitmap { return s.frame }

func (s *Gradient) paint() {
	w, h := s.frame.Width, s.frame.Height
	if w == 0 || h == 0 {
		return
	}
	for y := 0; y < h; y++ {
		value := 255 - y*191/h
		for x := 0; x < w; x++ {
			hue := (x*360/w + s.tick*2) % 360
			s.frame.Set(x, y, hsv(hue, value))
		}
	}
}

// hsv converts a fully saturated hue in degrees and a value in [0, 255].
func hsv(hue, value int) render.Color {
	sector := hue / 60
	f := (hue % 60) * value / 60
	v := uint8(value)
	rise, fall := uint8(f), uint8(value-f)

	switch sector {
	case 0:
		return render.Opaque(v, rise, 0)
	case 1:
		return render.Opaque(fall, v, 0)
	case 2:
		return render.Opaque(0, v, rise)
	case 3:
		return render.Opaque(0, fall, v)
	case 4:
		return render.Opaque(rise, 0, v)
	default:
		return render.Opaque(v, 0, fall)
	}
}
