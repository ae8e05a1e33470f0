package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show frame statistics of past runs",
	Long: `Display the most recent sessions and per-scene totals.

Examples:
  druid sessions
  druid sessions --limit 50`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of sessions to list")
}

func runSessions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening capture database: %w", err)
	}
	defer store.Close()

	sessions, err := store.RecentSessions(flagLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Println("Recent sessions")
	fmt.Println()
	fmt.Printf("  %-10s  %-9s  %8s  %8s  %10s  %s\n", "Scene", "Frontend", "Frames", "Dropped", "Duration", "Date")
	for _, s := range sessions {
		fmt.Printf("  %-10s  %-9s  %8d  %8d  %10s  %s\n",
			s.SceneID, s.Frontend, s.Frames, s.Dropped, s.Duration, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Per scene")
	fmt.Println()
	for _, info := range scene.List() {
		stats, err := store.SceneStats(info.ID)
		if err != nil {
			return err
		}
		if stats.Sessions == 0 {
			continue
		}
		fmt.Printf("  %-10s  %d runs, %d frames, %d dropped, last %s\n",
			info.ID, stats.Sessions, stats.TotalFrames, stats.TotalDropped,
			stats.LastRun.Format("2006-01-02 15:04"))
	}
	return nil
}
