// druid runs the frame-presentation frontends of the druid engine.
//
// Usage:
//
//	druid list                   - List available scenes
//	druid play <scene>           - Play a scene in the terminal
//	druid menu                   - Pick scenes interactively
//	druid serve                  - Start SSH server for remote viewing
//	druid snapshot <scene>       - Run a scene headless and capture the last frame
//	druid convert <image> <out>  - Convert an image to a raw RGBA buffer
//	druid captures [scene]       - List, export or browse stored captures
//	druid sessions               - Show recent session stats
//
// Global flags:
//
//	--fps <rate>      - Override the tick rate
//	--config <path>   - Use a specific config file
//	--db <path>       - Override the database path
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/config"
)

var (
	// Global flags
	flagFPS    int
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "druid",
	Short: "Druid - present engine frames in the terminal, over SSH or headless",
	Long: `Druid turns the engine's packed-color bitmaps into pixels.

Available commands:
  list      - Show all available scenes
  play      - Play a scene in the terminal
  menu      - Interactive scene picker
  serve     - Start SSH server for remote viewing
  snapshot  - Run a scene headless and store the last frame
  convert   - Convert an image into a raw RGBA buffer
  captures  - Manage stored frame captures
  sessions  - Show frame statistics of past runs

Examples:
  druid list
  druid play bars
  druid serve --ssh :2222
  druid snapshot checker --frames 120 --out checker.png
  druid captures --browse`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.druid/druid.db", "Path to capture database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(capturesCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// loadConfig loads the configuration and applies the global flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Frame.TickRate = flagFPS
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}

	return cfg, cfg.Validate()
}
