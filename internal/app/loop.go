package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
)

// LoopConfig controls a frame loop run.
type LoopConfig struct {
	Runtime render.RuntimeConfig

	// Background is painted once before the first frame.
	Background render.Color

	// SplashPath, when set, is loaded through the asset loader and drawn
	// before the scene starts.
	SplashPath string

	// MaxFrames stops the loop after this many ticks. Zero means no limit.
	MaxFrames int

	// AbortOnError stops the loop on the first frame that fails to draw.
	// Otherwise bad frames are logged, counted and skipped.
	AbortOnError bool
}

// Stats summarises a loop run.
type Stats struct {
	Frames   int // Frames presented
	Dropped  int // Frames that failed to draw and were skipped
	Duration time.Duration
}

// Loop drives a scene at a fixed tick rate and presents every frame through
// the registered render context.
type Loop struct {
	services *Services
	rc       RenderContext
	scene    scene.Scene
	cfg      LoopConfig
	logger   *log.Logger
	stats    Stats
}

// NewLoop prepares a loop. The render context must already be registered.
func NewLoop(services *Services, sc scene.Scene, cfg LoopConfig, logger *log.Logger) (*Loop, error) {
	rc, err := services.RenderContext()
	if err != nil {
		return nil, fmt.Errorf("app: render context: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Runtime.Seed == 0 {
		cfg.Runtime.Seed = time.Now().UnixNano()
	}

	return &Loop{
		services: services,
		rc:       rc,
		scene:    sc,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Stats returns the counters so far.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Scene returns the scene being driven.
func (l *Loop) Scene() scene.Scene {
	return l.scene
}

// Start clears the screen, shows the splash if configured and resets the scene.
func (l *Loop) Start(ctx context.Context) error {
	if err := l.rc.Clear(l.cfg.Background); err != nil {
		return fmt.Errorf("app: clear: %w", err)
	}

	if l.cfg.SplashPath != "" {
		loader, err := l.services.AssetLoader()
		if err != nil {
			return fmt.Errorf("app: asset loader: %w", err)
		}
		splash, err := loader.LoadBitmap(ctx, l.cfg.SplashPath)
		if err != nil {
			return fmt.Errorf("app: problem loading bitmap: %w", err)
		}
		if err := l.rc.Draw(splash, 0, 0); err != nil {
			return fmt.Errorf("app: draw splash: %w", err)
		}
		if setter, ok := l.scene.(scene.SplashSetter); ok {
			setter.SetSplash(splash)
		}
	}

	l.scene.Reset(l.cfg.Runtime)
	return nil
}

// Tick advances the scene and presents its frame.
// A frame that cannot be drawn is reported and skipped; the error is only
// returned when AbortOnError is set.
func (l *Loop) Tick() error {
	l.scene.Step()

	if err := l.rc.Draw(l.scene.Frame(), 0, 0); err != nil {
		l.stats.Dropped++
		l.logger.Warn("frame dropped",
			"scene", l.scene.ID(),
			"frame", l.stats.Frames+l.stats.Dropped,
			"error", err,
		)
		if l.cfg.AbortOnError {
			return fmt.Errorf("app: draw frame: %w", err)
		}
		return nil
	}

	l.stats.Frames++
	return nil
}

// Run starts the loop and blocks until the context is cancelled, the input
// manager requests close, MaxFrames is reached or a frame aborts the run.
// A non-positive tick rate runs frames back to back.
func (l *Loop) Run(ctx context.Context) (Stats, error) {
	started := time.Now()

	if err := l.Start(ctx); err != nil {
		return l.stats, err
	}

	input, _ := l.services.InputManager()

	var tick <-chan time.Time
	if l.cfg.Runtime.TickRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(l.cfg.Runtime.TickRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	l.logger.Info("frame loop started",
		"scene", l.scene.ID(),
		"width", l.cfg.Runtime.Width,
		"height", l.cfg.Runtime.Height,
		"fps", l.cfg.Runtime.TickRate,
	)

	for {
		if input != nil && input.IsRequestingClose() {
			break
		}
		if l.cfg.MaxFrames > 0 && l.stats.Frames+l.stats.Dropped >= l.cfg.MaxFrames {
			break
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return l.finish(started), nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return l.finish(started), nil
		}

		if err := l.Tick(); err != nil {
			return l.finish(started), err
		}
	}

	return l.finish(started), nil
}

func (l *Loop) finish(started time.Time) Stats {
	l.stats.Duration = time.Since(started)
	l.logger.Info("frame loop stopped",
		"scene", l.scene.ID(),
		"frames", l.stats.Frames,
		"dropped", l.stats.Dropped,
		"duration", l.stats.Duration.Round(time.Millisecond),
	)
	return l.stats
}
