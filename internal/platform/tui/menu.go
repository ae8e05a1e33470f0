package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

// MenuModel is the Bubble Tea model for the scene picker.
type MenuModel struct {
	items        []scene.Info
	cursor       int
	width        int
	height       int
	store        *storage.Store
	renderer     *lipgloss.Renderer
	keys         MenuKeyMap
	help         help.Model
	quitting     bool
	selected     *scene.Info // Set when user selects a scene
	openCaptures bool        // True if user pressed Tab for captures
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, r *lipgloss.Renderer, width, height int) MenuModel {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return MenuModel{
		items:    scene.List(),
		width:    width,
		height:   height,
		store:    store,
		renderer: r,
		keys:     DefaultMenuKeyMap(),
		help:     help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.Captures):
		m.openCaptures = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := m.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
		Render("  D R U I D  ")
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scene", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := m.renderer.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		line := fmt.Sprintf("%s%s", cursor, item.Title)
		if m.store != nil {
			if stats, err := m.store.SceneStats(item.ID); err == nil && stats.Sessions > 0 {
				line += fmt.Sprintf("  (%d runs)", stats.Sessions)
			}
		}
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scene, or nil if none selected.
func (m MenuModel) Selected() *scene.Info {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsCaptures returns true if user requested the capture browser.
func (m MenuModel) WantsCaptures() bool {
	return m.openCaptures
}

// RunSession runs the menu-driven session flow in the local terminal.
func RunSession(opts Options, width, height int) error {
	p := tea.NewProgram(
		NewSessionModel(opts, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
