// Package render is the pixel bridge between the engine and a drawing surface.
// It converts packed-color bitmaps into interleaved RGBA image buffers and
// draws them onto an injected Surface. It has no external dependencies so
// frontends of every kind can share it.
package render

// RuntimeConfig is handed to frame sources at reset time.
type RuntimeConfig struct {
	Width    int   // Frame width in pixels
	Height   int   // Frame height in pixels
	TickRate int   // Frames per second (default 60)
	Seed     int64 // Seed for sources that animate pseudo-randomly
}

// DefaultConfig returns the engine's native resolution at 60 frames per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:    256,
		Height:   240,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}
