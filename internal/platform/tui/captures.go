package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/scene"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

const (
	maxCaptures  = 100
	previewCols  = 32
	previewRows  = 12
	allScenesTab = "All scenes"
)

// CapturesKeyMap defines the key bindings for the capture browser.
type CapturesKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Preview   key.Binding
	NextScene key.Binding
	PrevScene key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k CapturesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Preview, k.NextScene, k.PrevScene, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k CapturesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Preview},
		{k.NextScene, k.PrevScene},
		{k.Back, k.Quit},
	}
}

// DefaultCapturesKeyMap returns the default key bindings.
func DefaultCapturesKeyMap() CapturesKeyMap {
	return CapturesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Preview: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		NextScene: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scene"),
		),
		PrevScene: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scene"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// CapturesModel is the Bubble Tea model for browsing stored frame captures.
type CapturesModel struct {
	scenes      []string // scene ids; "" lists every scene
	sceneCursor int
	store       *storage.Store
	captures    []storage.Capture
	preview     *render.Framebuffer
	previewID   int64
	status      string
	table       table.Model
	help        help.Model
	keys        CapturesKeyMap
	renderer    *lipgloss.Renderer
	width       int
	height      int
	quitting    bool
	goingBack   bool
	embedded    bool // back returns to a parent model instead of quitting
}

// NewCapturesModel creates a capture browser starting at sceneID
// ("" for every scene).
func NewCapturesModel(store *storage.Store, r *lipgloss.Renderer, sceneID string, width, height int) CapturesModel {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	scenes := []string{""}
	for _, info := range scene.List() {
		scenes = append(scenes, info.ID)
	}

	m := CapturesModel{
		scenes:   scenes,
		store:    store,
		keys:     DefaultCapturesKeyMap(),
		help:     help.New(),
		renderer: r,
		width:    width,
		height:   height,
	}
	for i, id := range scenes {
		if id == sceneID {
			m.sceneCursor = i
		}
	}

	m.table = m.createTable()
	m.loadCaptures()
	return m
}

// createTable creates a new table with the capture columns.
func (m *CapturesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Scene", Width: 10},
		{Title: "Size", Width: 9},
		{Title: "Bytes", Width: 8},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadCaptures loads captures for the current scene tab.
func (m *CapturesModel) loadCaptures() {
	m.captures = nil
	m.preview = nil
	if m.store != nil {
		captures, err := m.store.Captures(m.scenes[m.sceneCursor], maxCaptures)
		if err != nil {
			m.status = fmt.Sprintf("cannot list captures: %v", err)
		} else {
			m.captures = captures
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current captures.
func (m *CapturesModel) updateTableRows() {
	rows := make([]table.Row, len(m.captures))
	for i, c := range m.captures {
		rows[i] = table.Row{
			strconv.FormatInt(c.ID, 10),
			c.SceneID,
			fmt.Sprintf("%dx%d", c.Width, c.Height),
			strconv.Itoa(c.Size),
			c.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// loadPreview decodes the selected capture into the preview surface.
func (m *CapturesModel) loadPreview() {
	if m.store == nil || len(m.captures) == 0 {
		return
	}
	c := m.captures[m.table.Cursor()]
	_, bmp, err := m.store.Capture(c.ID)
	if err != nil {
		m.status = fmt.Sprintf("cannot load capture #%d: %v", c.ID, err)
		return
	}

	fb := render.NewFramebuffer(bmp.Width, bmp.Height)
	if err := render.Draw(fb, bmp, 0, 0); err != nil {
		m.status = fmt.Sprintf("cannot draw capture #%d: %v", c.ID, err)
		return
	}
	m.preview = fb
	m.previewID = c.ID
	m.status = ""
}

// Init initializes the capture browser.
func (m CapturesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the capture browser.
func (m CapturesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScene):
			m.sceneCursor = (m.sceneCursor + 1) % len(m.scenes)
			m.loadCaptures()
			return m, nil

		case key.Matches(msg, m.keys.PrevScene):
			m.sceneCursor--
			if m.sceneCursor < 0 {
				m.sceneCursor = len(m.scenes) - 1
			}
			m.loadCaptures()
			return m, nil

		case key.Matches(msg, m.keys.Preview):
			m.loadPreview()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the capture browser.
func (m CapturesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := m.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText("CAPTURES - "+m.sceneTitle(), m.width)))
	b.WriteString("\n\n")

	boxStyle := m.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.preview != nil {
		preview := fmt.Sprintf("#%d\n%s", m.previewID,
			RenderFramebufferWith(m.renderer, m.preview, previewCols, previewRows))
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", boxStyle.Render(preview))
	}
	b.WriteString(content)

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	helpStyle := m.renderer.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m CapturesModel) sceneTitle() string {
	id := m.scenes[m.sceneCursor]
	if id == "" {
		return allScenesTab
	}
	for _, info := range scene.List() {
		if info.ID == id {
			return info.Title
		}
	}
	return id
}

// renderTableContent renders the table or empty message.
func (m CapturesModel) renderTableContent() string {
	if len(m.captures) == 0 {
		emptyStyle := m.renderer.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No captures yet.\nPress c while a scene plays to save one.")
	}

	return m.table.View()
}

// Embedded returns a copy that hands control back to its parent on back.
func (m CapturesModel) Embedded() CapturesModel {
	m.embedded = true
	return m
}

// SceneID returns the scene tab being shown ("" for every scene).
func (m CapturesModel) SceneID() string {
	return m.scenes[m.sceneCursor]
}

// Rows returns the number of captures listed.
func (m CapturesModel) Rows() int {
	return len(m.captures)
}

// PreviewID returns the capture being previewed, or 0.
func (m CapturesModel) PreviewID() int64 {
	if m.preview == nil {
		return 0
	}
	return m.previewID
}

// IsGoingBack returns true if user wants to go back to menu.
func (m CapturesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m CapturesModel) IsQuitting() bool {
	return m.quitting
}

// RunCaptures runs the capture browser.
func RunCaptures(store *storage.Store, sceneID string, width, height int) error {
	model := NewCapturesModel(store, nil, sceneID, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
