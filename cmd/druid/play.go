package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/druid-frontend/internal/app"
	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/config"
	"github.com/vovakirdan/druid-frontend/internal/platform/tui"
	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

const (
	minCols = 20
	minRows = 6
)

var (
	flagLogFile  string
	flagNoSplash bool
)

var playCmd = &cobra.Command{
	Use:   "play <scene>",
	Short: "Play a scene in the terminal",
	Long: `Run the frame loop for the given scene and present every frame in the
terminal, two pixels per character cell.

Controls:
  P/Space       - Pause
  N/Tab         - Next scene
  Shift+Tab     - Previous scene
  C/Ctrl+S      - Capture the current frame
  X             - Draw the placeholder block
  Esc/B         - Back (quits outside the menu)
  ?             - Toggle help
  Q/Ctrl+C      - Quit

Examples:
  druid play bars
  druid play splash --config ./druid.yaml
  druid play gradient --fps 30 --log druid.log`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenes interactively",
	Long:  `Start the scene picker. The same menu is shown to SSH clients.`,
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagLogFile, "log", "", "Write logs to this file (the screen is owned by the player)")
		c.Flags().BoolVar(&flagNoSplash, "no-splash", false, "Skip the splash image")
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	sceneID := args[0]

	if !scene.Exists(sceneID) {
		return fmt.Errorf("unknown scene %q; run 'druid list' to see available scenes", sceneID)
	}

	if _, _, err := terminalSize(); err != nil {
		return err
	}

	opts, cleanup, err := playerOptions(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(sceneID, opts)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	width, height, err := terminalSize()
	if err != nil {
		return err
	}

	opts, cleanup, err := playerOptions(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.RunSession(opts, width, height)
}

// terminalSize returns the size of stdout, or a default when it is not a terminal.
func terminalSize() (int, int, error) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if width < minCols || height < minRows {
		return 0, 0, fmt.Errorf("terminal too small: %dx%d, need at least %dx%d", width, height, minCols, minRows)
	}
	return width, height, nil
}

// playerOptions assembles the terminal player dependencies. The returned
// cleanup closes the store and the log file.
func playerOptions(cmd *cobra.Command) (tui.Options, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return tui.Options{}, nil, err
	}
	if flagNoSplash {
		cfg.Asset.Splash = ""
	}

	var logOut io.Writer = io.Discard
	var logFile *os.File
	if flagLogFile != "" {
		logFile, err = os.OpenFile(config.ExpandHome(flagLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return tui.Options{}, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		logOut = logFile
	}
	logger := app.NewLogger(logOut, "druid")

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open capture database", "error", err)
		// Continue without storage - frames still play
	}

	cleanup := func() {
		if store != nil {
			store.Close()
		}
		if logFile != nil {
			logFile.Close()
		}
	}

	return tui.Options{
		Config:   cfg,
		Store:    store,
		Loader:   asset.NewFileLoader(cfg.Asset.Root),
		Logger:   logger,
		Frontend: "terminal",
	}, cleanup, nil
}
