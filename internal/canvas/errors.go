// Package canvas presents frames on an HTML canvas element when the frontend
// is built for js/wasm.
package canvas

import (
	"errors"
	"fmt"
)

// DefaultElementID is the id of the canvas the browser page provides.
const DefaultElementID = "canvas"

// ErrMissingDrawingSurface is matched by every failure to obtain the canvas.
// Nothing can be rendered without it, so callers treat it as fatal.
var ErrMissingDrawingSurface = errors.New("canvas: missing drawing surface")

// Specific reasons the drawing surface could not be obtained.
var (
	// ErrNoCanvas means no element has the requested id.
	ErrNoCanvas = fmt.Errorf("%w: no element with that id", ErrMissingDrawingSurface)
	// ErrWrongElementType means the element exists but is not a <canvas>.
	ErrWrongElementType = fmt.Errorf("%w: element is not a canvas", ErrMissingDrawingSurface)
	// ErrWrongContextType means getContext("2d") returned nothing.
	ErrWrongContextType = fmt.Errorf("%w: no 2d rendering context", ErrMissingDrawingSurface)
)

// ErrDraw is returned when the browser rejects a draw call.
var ErrDraw = errors.New("canvas: draw call failed")

// CanvasError ties a lookup failure to the element id that was requested.
type CanvasError struct {
	ID  string
	Err error
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("canvas %q: %v", e.ID, e.Err)
}

func (e *CanvasError) Unwrap() error {
	return e.Err
}
