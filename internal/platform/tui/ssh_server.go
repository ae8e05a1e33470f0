package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/druid-frontend/internal/app"
	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/config"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.druid/host_key.
	HostKeyPath string

	// DBPath is the path to the capture database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Frontend carries the canvas, frame and asset settings for every session.
	Frontend config.Config
}

// SSHServerConfigFrom builds the server configuration from the loaded config.
func SSHServerConfigFrom(cfg config.Config) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: config.ExpandHome(cfg.Server.HostKey),
		DBPath:      cfg.Storage.DBPath,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeoutMinutes) * time.Minute,
		Frontend:    cfg,
	}
}

// SSHServer wraps a Wish SSH server that plays scenes for each session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	loader asset.Loader
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := app.NewLogger(os.Stderr, "druid-ssh")

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open capture database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		loader: asset.NewFileLoader(cfg.Frontend.Asset.Root),
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".druid", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	opts := Options{
		Config:   s.config.Frontend,
		Store:    s.store,
		Loader:   s.loader,
		Logger:   s.logger.With("user", sshSession.User()),
		Frontend: "ssh",
		Renderer: bubbletea.MakeRenderer(sshSession),
	}
	model := NewSessionModel(opts, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlayer
	screenCaptures
)

// SessionModel manages the full SSH session flow: menu -> player or
// capture browser -> menu.
type SessionModel struct {
	opts     Options
	width    int
	height   int
	screen   sessionScreen
	menu     MenuModel
	player   Model
	captures CapturesModel
	status   string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts Options, width, height int) SessionModel {
	opts.Embedded = true
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts:   opts,
		width:  width,
		height: height,
		menu:   NewMenuModel(opts.Store, opts.Renderer, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlayer:
		return m.updatePlayer(msg)
	case screenCaptures:
		return m.updateCaptures(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsCaptures() {
		m.captures = NewCapturesModel(m.opts.Store, m.opts.Renderer, "", m.width, m.height).Embedded()
		m.screen = screenCaptures
		m.resetMenu()
		return m, m.captures.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		player, err := NewModel(selected.ID, m.opts)
		m.resetMenu()
		if err != nil {
			m.status = fmt.Sprintf("cannot start %s: %v", selected.Title, err)
			m.opts.Logger.Error("player start failed", "scene", selected.ID, "error", err)
			return m, nil
		}
		updated, _ := player.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.player = updated.(Model)
		m.screen = screenPlayer
		m.status = ""
		return m, m.player.Init()
	}

	return m, cmd
}

// updatePlayer handles updates when a scene is playing.
func (m SessionModel) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.player.Update(msg)
	if player, ok := newModel.(Model); ok {
		m.player = player
	}

	if m.player.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.player.BackToMenu() {
		m.screen = screenMenu
		m.resetMenu()
		return m, nil
	}

	return m, cmd
}

// updateCaptures handles updates in the capture browser.
func (m SessionModel) updateCaptures(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.captures.Update(msg)
	if captures, ok := newModel.(CapturesModel); ok {
		m.captures = captures
	}

	if m.captures.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.captures.IsGoingBack() {
		m.screen = screenMenu
		m.resetMenu()
		return m, nil
	}

	return m, cmd
}

func (m *SessionModel) resetMenu() {
	m.menu = NewMenuModel(m.opts.Store, m.opts.Renderer, m.width, m.height)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlayer:
		return m.player.View()
	case screenCaptures:
		return m.captures.View()
	}

	if m.status != "" {
		return m.menu.View() + "\n" + centerText(m.status, m.width)
	}
	return m.menu.View()
}

// Screen reports which screen the session shows: "menu", "player" or "captures".
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenPlayer:
		return "player"
	case screenCaptures:
		return "captures"
	default:
		return "menu"
	}
}

var _ tea.Model = SessionModel{}
