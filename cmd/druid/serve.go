package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the druid SSH server",
	Long: `Start an SSH server that lets users connect and watch scenes.

Each SSH connection gets its own session with a scene picker menu and its
own framebuffer. Captures and session stats go to the shared database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key from the config (~/.druid/host_key)

Examples:
  druid serve                           # Listen on the configured address
  druid serve --ssh :2222               # Listen on port 2222
  druid serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	serverCfg := tui.SSHServerConfigFrom(cfg)
	if flagSSHAddr != "" {
		serverCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		serverCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		serverCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(serverCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting druid SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
