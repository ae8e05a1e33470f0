//go:build js && wasm

// druid-wasm presents engine frames on the page's canvas element.
//
// The page loads the module with wasm_exec.js and can then call:
//
//	druidDrawBitmap(width, height, colors)  - colors is a Uint32Array of 0xAARRGGBB values;
//	                                          returns null or an error message
//	druidDrawSolidBlock(x, y, width, height) - paints the placeholder block
//	druidStop()                              - stops the frame loop and exits
//
// When the page URL carries ?scene=<id>, that scene is played at the
// configured tick rate; otherwise the module only serves the calls above.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path"
	"syscall/js"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/druid-frontend/internal/app"
	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/canvas"
	"github.com/vovakirdan/druid-frontend/internal/config"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
)

func main() {
	logger := app.NewLogger(os.Stderr, "druid-wasm")

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	surface, err := canvas.Open(cfg.Canvas.ElementID)
	if err != nil {
		// Nothing can be drawn without the canvas.
		logger.Fatal("no drawing surface", "error", err)
	}
	surface.Resize(cfg.Canvas.Width, cfg.Canvas.Height)

	rc := app.NewSurfaceContext(surface)
	closing := &app.CloseFlag{}
	services := app.NewServices()
	if err := services.RegisterRenderContext(rc); err != nil {
		logger.Fatal("register render context", "error", err)
	}
	if err := services.RegisterInputManager(closing); err != nil {
		logger.Fatal("register input manager", "error", err)
	}

	location := js.Global().Get("location")
	if loader, err := asset.NewHTTPLoader(location.Get("href").String()); err != nil {
		logger.Warn("assets unavailable", "error", err)
	} else if err := services.RegisterAssetLoader(loader); err != nil {
		logger.Fatal("register asset loader", "error", err)
	}

	stopped := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Page calls get their own conversion buffer so they never share one
	// with the scene loop.
	direct := app.NewSurfaceContext(surface)

	funcs := map[string]js.Func{
		"druidDrawBitmap": js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) != 3 {
				return "druidDrawBitmap: want (width, height, colors)"
			}
			size, err := intArgs("druidDrawBitmap", args[:2])
			if err != nil {
				return err.Error()
			}
			b, err := bitmapFromJS(size[0], size[1], args[2])
			if err == nil {
				err = direct.Draw(b, 0, 0)
			}
			if err != nil {
				// Reported to the caller and skipped; the engine decides what to do.
				logger.Warn("frame rejected", "error", err)
				return err.Error()
			}
			return nil
		}),
		"druidDrawSolidBlock": js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) != 4 {
				return "druidDrawSolidBlock: want (x, y, width, height)"
			}
			v, err := intArgs("druidDrawSolidBlock", args)
			if err != nil {
				return err.Error()
			}
			r := render.NewRect(v[0], v[1], v[2], v[3])
			if err := render.DrawSolidBlock(surface, r, cfg.BlockColor()); err != nil {
				return err.Error()
			}
			return nil
		}),
		"druidStop": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			closing.RequestClose()
			cancel()
			select {
			case <-stopped:
			default:
				close(stopped)
			}
			return nil
		}),
	}
	for name, fn := range funcs {
		js.Global().Set(name, fn)
		defer fn.Release()
	}

	sceneID := js.Global().Get("URLSearchParams").New(location.Get("search")).Call("get", "scene")
	if sceneID.Truthy() && scene.Exists(sceneID.String()) {
		runScene(ctx, services, cfg, sceneID.String(), logger)
	} else {
		logger.Info("waiting for engine frames", "canvas", surface.ID())
	}

	<-stopped
	logger.Info("stopped")
}

// runScene plays a registered scene in the background until stopped.
func runScene(ctx context.Context, services *app.Services, cfg config.Config, id string, logger *log.Logger) {
	sc, err := scene.Create(id)
	if err != nil {
		logger.Error("unknown scene", "scene", id, "error", err)
		return
	}
	splash := ""
	if _, err := services.AssetLoader(); err == nil && cfg.Asset.Splash != "" {
		splash = path.Join(cfg.Asset.Root, cfg.Asset.Splash)
	}

	loop, err := app.NewLoop(services, sc, app.LoopConfig{
		Runtime:      cfg.Runtime(),
		Background:   cfg.Background(),
		SplashPath:   splash,
		AbortOnError: cfg.Frame.AbortOnError,
	}, logger)
	if err != nil {
		logger.Error("cannot start loop", "error", err)
		return
	}

	go func() {
		if _, err := loop.Run(ctx); err != nil {
			logger.Error("frame loop failed", "scene", id, "error", err)
		}
	}()
}

// intArgs converts JS numbers to ints, rejecting any other type.
func intArgs(name string, args []js.Value) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		if a.Type() != js.TypeNumber {
			return nil, fmt.Errorf("%s: argument %d must be a number, got %s", name, i, a.Type())
		}
		out[i] = a.Int()
	}
	return out, nil
}

// bitmapFromJS copies a Uint32Array of packed colors into a bitmap.
// Typed arrays use the platform byte order, which is little-endian in
// every browser wasm runs in.
func bitmapFromJS(width, height int, colors js.Value) (*render.Bitmap, error) {
	if colors.Type() != js.TypeObject || !colors.InstanceOf(js.Global().Get("Uint32Array")) {
		return nil, fmt.Errorf("colors must be a Uint32Array")
	}

	n := colors.Get("length").Int()
	if err := render.CheckDimensions(width, height, n); err != nil {
		return nil, err
	}

	raw := make([]byte, n*4)
	view := js.Global().Get("Uint8Array").New(colors.Get("buffer"), colors.Get("byteOffset"), n*4)
	js.CopyBytesToGo(raw, view)

	packed := make([]render.Color, n)
	for i := range packed {
		packed[i] = render.Color(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return render.NewBitmap(width, height, packed), nil
}
