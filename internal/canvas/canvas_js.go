//go:build js && wasm

package canvas

import (
	"fmt"
	"syscall/js"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// Surface draws onto a canvas 2D rendering context.
type Surface struct {
	id     string
	canvas js.Value
	ctx    js.Value
}

// Open looks up the canvas element by id and requests its 2D context.
// Every failure matches ErrMissingDrawingSurface.
func Open(id string) (*Surface, error) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, &CanvasError{ID: id, Err: ErrNoCanvas}
	}

	// Find canvas
	el := doc.Call("getElementById", id)
	if !el.Truthy() {
		return nil, &CanvasError{ID: id, Err: ErrNoCanvas}
	}
	if !el.InstanceOf(js.Global().Get("HTMLCanvasElement")) {
		return nil, &CanvasError{ID: id, Err: ErrWrongElementType}
	}

	// Request context
	ctx := el.Call("getContext", "2d")
	if !ctx.Truthy() {
		return nil, &CanvasError{ID: id, Err: ErrWrongContextType}
	}

	return &Surface{id: id, canvas: el, ctx: ctx}, nil
}

// ID returns the element id this surface was opened with.
func (s *Surface) ID() string {
	return s.id
}

// Bounds implements render.Surface using the canvas' pixel size.
func (s *Surface) Bounds() render.Rect {
	return render.NewRect(0, 0, s.canvas.Get("width").Int(), s.canvas.Get("height").Int())
}

// Resize sets the canvas' backing store size in pixels.
func (s *Surface) Resize(width, height int) {
	s.canvas.Set("width", width)
	s.canvas.Set("height", height)
}

// PutImage implements render.Surface with putImageData.
func (s *Surface) PutImage(buf render.ImageBuffer, x, y int) (err error) {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Width == 0 || buf.Height == 0 {
		return nil
	}
	defer recoverDraw(&err)

	data := js.Global().Get("Uint8ClampedArray").New(len(buf.Pix))
	js.CopyBytesToJS(data, buf.Pix)

	img := js.Global().Get("ImageData").New(data, buf.Width, buf.Height)
	s.ctx.Call("putImageData", img, x, y)
	return nil
}

// FillRect implements render.Surface with fillRect.
func (s *Surface) FillRect(r render.Rect, c render.Color) (err error) {
	if r.Empty() {
		return nil
	}
	defer recoverDraw(&err)

	s.ctx.Set("fillStyle", cssColor(c))
	s.ctx.Call("fillRect", r.X, r.Y, r.W, r.H)
	return nil
}

// recoverDraw turns a JavaScript exception thrown by a draw call into ErrDraw.
func recoverDraw(err *error) {
	if r := recover(); r != nil {
		if jsErr, ok := r.(js.Error); ok {
			*err = fmt.Errorf("%w: %s", ErrDraw, jsErr.Error())
			return
		}
		panic(r)
	}
}

func cssColor(c render.Color) string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("rgba(%d,%d,%d,%.4f)", r, g, b, float64(a)/255)
}

var _ render.Surface = (*Surface)(nil)
