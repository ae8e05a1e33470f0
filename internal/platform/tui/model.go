package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/druid-frontend/internal/app"
	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/config"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

// Options configures a player model.
type Options struct {
	Config config.Config
	Store  *storage.Store // optional; captures and session stats are skipped without it
	Loader asset.Loader   // optional; required only when a splash is configured
	Logger *log.Logger

	// Frontend is recorded with the session stats ("terminal", "ssh").
	Frontend string

	// Renderer styles the output. Nil uses the default renderer.
	Renderer *lipgloss.Renderer

	// Embedded players hand control back to a menu instead of quitting.
	Embedded bool
}

// Model is the Bubble Tea model that plays scenes in the terminal.
// Every tick the scene's frame goes through the same render context the
// browser uses, into a framebuffer that is then printed with half blocks.
type Model struct {
	id         int64
	opts       Options
	fb         *render.Framebuffer
	services   *app.Services
	loop       *app.Loop
	keys       PlayerKeyMap
	help       help.Model
	width      int
	height     int
	paused     bool
	status     string
	started    time.Time
	quitting   bool
	backToMenu bool
	err        error
}

// NewModel creates a player for the given scene and shows the splash
// if one is configured.
func NewModel(sceneID string, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if err := opts.Config.Validate(); err != nil {
		return Model{}, err
	}

	fb := render.NewFramebuffer(opts.Config.Canvas.Width, opts.Config.Canvas.Height)
	services := app.NewServices()
	if err := services.RegisterRenderContext(app.NewSurfaceContext(fb)); err != nil {
		return Model{}, err
	}
	if opts.Loader != nil {
		if err := services.RegisterAssetLoader(opts.Loader); err != nil {
			return Model{}, err
		}
	}

	m := Model{
		id:       nextPlayerID(),
		opts:     opts,
		fb:       fb,
		services: services,
		keys:     DefaultPlayerKeyMap(),
		help:     help.New(),
	}
	if err := m.startScene(sceneID, opts.Config.Asset.Splash); err != nil {
		return Model{}, err
	}
	return m, nil
}

// startScene replaces the running loop with one driving sceneID.
func (m *Model) startScene(sceneID, splash string) error {
	sc, err := scene.Create(sceneID)
	if err != nil {
		return err
	}
	if m.opts.Loader == nil {
		splash = ""
	}

	loop, err := app.NewLoop(m.services, sc, app.LoopConfig{
		Runtime:      m.opts.Config.Runtime(),
		Background:   m.opts.Config.Background(),
		SplashPath:   splash,
		AbortOnError: m.opts.Config.Frame.AbortOnError,
	}, m.opts.Logger)
	if err != nil {
		return err
	}
	if err := loop.Start(context.Background()); err != nil {
		return err
	}

	m.loop = loop
	m.started = time.Now()
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.id, m.opts.Config.Frame.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.id {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveSession()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.saveSession()
		m.backToMenu = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.status = ""

	case key.Matches(msg, m.keys.Next):
		m.switchScene(1)

	case key.Matches(msg, m.keys.Prev):
		m.switchScene(-1)

	case key.Matches(msg, m.keys.Capture):
		m.capture()

	case key.Matches(msg, m.keys.Block):
		m.drawBlock()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleTick advances the scene one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if !m.paused {
		if err := m.loop.Tick(); err != nil {
			m.err = err
			m.saveSession()
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, tickCmd(m.id, m.opts.Config.Frame.TickRate)
}

func (m *Model) switchScene(step int) {
	m.saveSession()
	next := scene.Next(m.loop.Scene().ID(), step)
	if err := m.startScene(next, ""); err != nil {
		m.status = fmt.Sprintf("cannot start %s: %v", next, err)
		m.opts.Logger.Error("scene switch failed", "scene", next, "error", err)
		return
	}
	m.status = ""
}

func (m *Model) capture() {
	if m.opts.Store == nil {
		m.status = "no capture store"
		return
	}
	id, err := m.opts.Store.SaveCapture(m.loop.Scene().ID(), m.fb.Snapshot())
	if err != nil {
		m.status = "capture failed"
		m.opts.Logger.Error("capture failed", "scene", m.loop.Scene().ID(), "error", err)
		return
	}
	m.status = fmt.Sprintf("saved capture #%d", id)
}

// drawBlock paints the placeholder block over the middle of the frame and
// pauses so it stays visible.
func (m *Model) drawBlock() {
	w, h := m.fb.Width()/4, m.fb.Height()/4
	block := render.NewRect((m.fb.Width()-w)/2, (m.fb.Height()-h)/2, w, h)
	if err := render.DrawSolidBlock(m.fb, block, m.opts.Config.BlockColor()); err != nil {
		m.status = "block failed"
		return
	}
	m.paused = true
	m.status = "placeholder block drawn"
}

// saveSession records the current scene's run once.
func (m *Model) saveSession() {
	stats := m.loop.Stats()
	if m.opts.Store == nil || stats.Frames+stats.Dropped == 0 {
		return
	}
	rec := storage.SessionRecord{
		SceneID:  m.loop.Scene().ID(),
		Frontend: m.opts.Frontend,
		Frames:   stats.Frames,
		Dropped:  stats.Dropped,
		Duration: time.Since(m.started),
	}
	if _, err := m.opts.Store.SaveSession(rec); err != nil {
		m.opts.Logger.Warn("could not save session", "scene", rec.SceneID, "error", err)
	}
}

// View renders the current frame with a status line and help bar.
func (m Model) View() string {
	if m.quitting || (m.backToMenu && m.opts.Embedded) {
		return ""
	}

	cols, rows := m.width, m.height-2
	if m.help.ShowAll {
		rows -= 2
	}
	if m.width == 0 || m.height == 0 {
		cols, rows = m.fb.Width(), m.fb.Height()/2
	}

	var b strings.Builder
	b.WriteString(RenderFramebufferWith(m.opts.Renderer, m.fb, cols, rows))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.opts.Renderer.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	stats := m.loop.Stats()
	parts := []string{
		m.opts.Renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(m.loop.Scene().Title()),
		fmt.Sprintf("frames %d", stats.Frames),
	}
	if stats.Dropped > 0 {
		parts = append(parts, m.opts.Renderer.NewStyle().
			Foreground(lipgloss.Color("9")).
			Render(fmt.Sprintf("dropped %d", stats.Dropped)))
	}
	if m.paused {
		parts = append(parts, "PAUSED")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, "  ")
}

// SceneID returns the scene being played.
func (m Model) SceneID() string {
	return m.loop.Scene().ID()
}

// Stats returns the current scene's frame counters.
func (m Model) Stats() app.Stats {
	return m.loop.Stats()
}

// Paused reports whether frames are frozen.
func (m Model) Paused() bool {
	return m.paused
}

// Framebuffer returns the surface frames are drawn to.
func (m Model) Framebuffer() *render.Framebuffer {
	return m.fb
}

// Err returns the error that stopped the player, if any.
func (m Model) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the terminal player for the given scene.
func Run(sceneID string, opts Options) error {
	model, err := NewModel(sceneID, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
