package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/app"
	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

var (
	flagFrames   int
	flagOut      string
	flagRealtime bool
	flagSplash   bool
	flagNoSave   bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <scene>",
	Short: "Run a scene headless and capture the last frame",
	Long: `Run the frame loop for a scene into an off-screen framebuffer, then
store the final frame as a capture and record the session stats.

Frames run back to back unless --realtime is given. Bad frames are logged
and skipped unless frame.abort_on_error is set in the config.

Examples:
  druid snapshot bars
  druid snapshot gradient --frames 300 --out gradient.png
  druid snapshot splash --splash --no-save --out splash.png`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&flagFrames, "frames", 60, "Number of frames to run")
	snapshotCmd.Flags().StringVar(&flagOut, "out", "", "Also write the last frame to this PNG file")
	snapshotCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Run at the configured tick rate")
	snapshotCmd.Flags().BoolVar(&flagSplash, "splash", false, "Load and draw the configured splash image first")
	snapshotCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the capture or session")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	sceneID := args[0]
	if flagFrames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", flagFrames)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.NewLogger(os.Stderr, "druid")

	sc, err := scene.Create(sceneID)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(cfg.Canvas.Width, cfg.Canvas.Height)
	services := app.NewServices()
	if err := services.RegisterRenderContext(app.NewSurfaceContext(fb)); err != nil {
		return err
	}
	if err := services.RegisterAssetLoader(asset.NewFileLoader(cfg.Asset.Root)); err != nil {
		return err
	}

	loopCfg := app.LoopConfig{
		Runtime:      cfg.Runtime(),
		Background:   cfg.Background(),
		MaxFrames:    flagFrames,
		AbortOnError: cfg.Frame.AbortOnError,
	}
	if !flagRealtime {
		loopCfg.Runtime.TickRate = 0
	}
	if flagSplash {
		loopCfg.SplashPath = cfg.Asset.Splash
	}

	loop, err := app.NewLoop(services, sc, loopCfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := loop.Run(ctx)
	if runErr != nil {
		return runErr
	}

	fmt.Printf("%s: %d frames, %d dropped in %s\n",
		sc.Title(), stats.Frames, stats.Dropped, stats.Duration.Round(time.Millisecond))

	if flagOut != "" {
		if err := writePNG(flagOut, fb); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", flagOut)
	}

	if flagNoSave {
		return nil
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveCapture(sceneID, fb.Snapshot())
	if err != nil {
		return err
	}
	if _, err := store.SaveSession(storage.SessionRecord{
		SceneID:  sceneID,
		Frontend: "snapshot",
		Frames:   stats.Frames,
		Dropped:  stats.Dropped,
		Duration: stats.Duration,
	}); err != nil {
		return err
	}
	fmt.Printf("Saved capture #%d\n", id)
	return nil
}

// writePNG encodes the framebuffer's current contents to path.
func writePNG(path string, fb *render.Framebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.Image()); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	return f.Close()
}
