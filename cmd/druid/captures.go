package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/platform/tui"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

var (
	flagExportID  int64
	flagExportOut string
	flagBrowse    bool
	flagClear     bool
	flagLimit     int
)

var capturesCmd = &cobra.Command{
	Use:   "captures [scene]",
	Short: "List, export or browse stored frame captures",
	Long: `Show the most recent frame captures, optionally for one scene.

Examples:
  druid captures
  druid captures bars
  druid captures --export 3 --out frame.png
  druid captures --browse
  druid captures bars --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCaptures,
}

func init() {
	capturesCmd.Flags().Int64Var(&flagExportID, "export", 0, "Write the capture with this ID to --out")
	capturesCmd.Flags().StringVar(&flagExportOut, "out", "capture.png", "PNG file for --export")
	capturesCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive capture browser")
	capturesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the listed captures")
	capturesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of captures to list")
}

func runCaptures(cmd *cobra.Command, args []string) error {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		if !scene.Exists(sceneID) {
			return fmt.Errorf("unknown scene %q; run 'druid list' to see available scenes", sceneID)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening capture database: %w", err)
	}
	defer store.Close()

	switch {
	case flagExportID > 0:
		return exportCapture(store, flagExportID, flagExportOut)

	case flagBrowse:
		width, height, err := terminalSize()
		if err != nil {
			return err
		}
		return tui.RunCaptures(store, sceneID, width, height)

	case flagClear:
		n, err := store.ClearCaptures(sceneID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d captures\n", n)
		return nil
	}

	captures, err := store.Captures(sceneID, flagLimit)
	if err != nil {
		return err
	}

	if len(captures) == 0 {
		fmt.Println("No captures recorded yet.")
		fmt.Println()
		fmt.Println("Press c while a scene plays, or run 'druid snapshot <scene>'.")
		return nil
	}

	fmt.Printf("  %-6s  %-10s  %-9s  %-8s  %s\n", "ID", "Scene", "Size", "Bytes", "Date")
	fmt.Printf("  %-6s  %-10s  %-9s  %-8s  %s\n", "--", "-----", "----", "-----", "----")
	for _, c := range captures {
		fmt.Printf("  %-6d  %-10s  %-9s  %-8d  %s\n",
			c.ID, c.SceneID, fmt.Sprintf("%dx%d", c.Width, c.Height), c.Size,
			c.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func exportCapture(store *storage.Store, id int64, out string) error {
	meta, bmp, err := store.Capture(id)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(bmp.Width, bmp.Height)
	if err := render.Draw(fb, bmp, 0, 0); err != nil {
		return err
	}
	if err := writePNG(out, fb); err != nil {
		return err
	}

	fmt.Printf("Exported capture #%d (%s, %dx%d) to %s\n", meta.ID, meta.SceneID, meta.Width, meta.Height, out)
	return nil
}
