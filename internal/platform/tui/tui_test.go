package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/druid-frontend/internal/config"
	"github.com/vovakirdan/druid-frontend/internal/render"
	"github.com/vovakirdan/druid-frontend/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 32, 24
	cfg.Asset.Splash = ""
	return Options{Config: cfg, Store: store, Frontend: "terminal"}
}

func newTestModel(t *testing.T, sceneID string) Model {
	t.Helper()
	m, err := NewModel(sceneID, testOptions(t))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return model
}

func tick(m Model) TickMsg {
	return TickMsg{ID: m.id, Time: time.Now()}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
		ew, eh     int
	}{
		{"exact", 80, 48, 80, 24, 80, 48},
		{"wide source", 256, 128, 80, 40, 80, 40},
		{"tall source", 100, 200, 80, 25, 25, 50},
		{"shrink keeps aspect", 256, 240, 64, 20, 42, 40},
		{"empty source", 0, 10, 80, 24, 0, 0},
		{"no room", 10, 10, 0, 24, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := FitSize(tc.w, tc.h, tc.cols, tc.rows)
			if w != tc.ew || h != tc.eh {
				t.Errorf("FitSize() = %dx%d, expected %dx%d", w, h, tc.ew, tc.eh)
			}
		})
	}
}

func TestRenderFramebuffer(t *testing.T) {
	fb := render.NewFramebuffer(8, 6)
	if err := render.Clear(fb, render.White); err != nil {
		t.Fatal(err)
	}

	out := RenderFramebuffer(fb, 8, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderFramebuffer() produced %d lines, expected 3", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 8 {
			t.Errorf("line %d width = %d, expected 8", i, w)
		}
		if !strings.Contains(line, upperHalf) {
			t.Errorf("line %d should be drawn with half blocks", i)
		}
	}

	if out := RenderFramebuffer(fb, 0, 0); out != "" {
		t.Errorf("RenderFramebuffer() with no room = %q, expected empty", out)
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		c        render.Color
		expected string
	}{
		{render.White, "#FFFFFF"},
		{render.Black, "#000000"},
		{0xFF123456, "#123456"},
		{0x00FFFFFF, "#000000"},
		{0x80FF0000, "#800000"},
	}
	for _, tc := range tests {
		if got := hexColor(tc.c); got != tc.expected {
			t.Errorf("hexColor(%v) = %q, expected %q", tc.c, got, tc.expected)
		}
	}
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t, "bars")

	for i := 0; i < 3; i++ {
		m = update(t, m, tick(m))
	}
	if got := m.Stats().Frames; got != 3 {
		t.Errorf("Frames = %d after 3 ticks, expected 3", got)
	}

	// Ticks addressed to another player are ignored
	m = update(t, m, TickMsg{ID: m.id + 1000})
	if got := m.Stats().Frames; got != 3 {
		t.Errorf("Frames = %d after a foreign tick, expected 3", got)
	}

	m = update(t, m, runes("p"))
	if !m.Paused() {
		t.Fatal("p should pause")
	}
	m = update(t, m, tick(m))
	if got := m.Stats().Frames; got != 3 {
		t.Errorf("Frames = %d while paused, expected 3", got)
	}
}

func TestModelSwitchScene(t *testing.T) {
	m := newTestModel(t, "bars")
	m = update(t, m, tick(m))

	m = update(t, m, runes("n"))
	if m.SceneID() == "bars" {
		t.Error("n should move to the next scene")
	}
	next := m.SceneID()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.SceneID() != "bars" {
		t.Errorf("shift+tab from %q = %q, expected bars", next, m.SceneID())
	}

	sessions, err := m.opts.Store.RecentSessions(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].SceneID != "bars" || sessions[0].Frames != 1 {
		t.Errorf("sessions = %+v, expected one bars session with 1 frame", sessions)
	}
}

func TestModelCapture(t *testing.T) {
	m := newTestModel(t, "checker")
	m = update(t, m, tick(m))
	m = update(t, m, runes("c"))

	captures, err := m.opts.Store.Captures("checker", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(captures) != 1 {
		t.Fatalf("Captures() = %d, expected 1", len(captures))
	}
	if captures[0].Width != 32 || captures[0].Height != 24 {
		t.Errorf("capture size = %dx%d, expected 32x24", captures[0].Width, captures[0].Height)
	}
	if !strings.Contains(m.View(), "saved capture") {
		t.Error("status line should confirm the capture")
	}
}

func TestModelPlaceholderBlock(t *testing.T) {
	m := newTestModel(t, "bars")
	m = update(t, m, tick(m))
	m = update(t, m, runes("x"))

	if got := m.Framebuffer().At(16, 12); got != render.PlaceholderColor {
		t.Errorf("centre pixel = %v, expected the placeholder color", got)
	}
	if m.Framebuffer().At(0, 0) == render.PlaceholderColor {
		t.Error("placeholder block should not cover the corner")
	}
	if !m.Paused() {
		t.Error("drawing the block should pause so it stays visible")
	}
}

func TestModelQuitSavesSession(t *testing.T) {
	m := newTestModel(t, "gradient")
	m = update(t, m, tick(m))
	m = update(t, m, tick(m))

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}

	stats, err := m.opts.Store.SceneStats("gradient")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sessions != 1 || stats.TotalFrames != 2 {
		t.Errorf("SceneStats() = %+v, expected 1 session with 2 frames", stats)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "bars")
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 14})
	m = update(t, m, tick(m))

	view := m.View()
	if !strings.Contains(view, "Color Bars") || !strings.Contains(view, "frames 1") {
		t.Errorf("View() should show the status line, got %q", view)
	}
	if lines := strings.Count(view, "\n") + 1; lines > 14 {
		t.Errorf("View() has %d lines, expected at most the terminal height", lines)
	}
}

func TestCapturesModel(t *testing.T) {
	opts := testOptions(t)
	frame := render.BlankBitmap(4, 4, render.White)
	for _, id := range []string{"bars", "bars", "checker"} {
		if _, err := opts.Store.SaveCapture(id, frame); err != nil {
			t.Fatal(err)
		}
	}

	m := NewCapturesModel(opts.Store, nil, "", 100, 30)
	if m.Rows() != 3 {
		t.Errorf("Rows() = %d, expected 3 across all scenes", m.Rows())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(CapturesModel)
	if m.SceneID() == "" {
		t.Fatal("tab should move to the first scene tab")
	}
	if m.SceneID() == "bars" && m.Rows() != 2 {
		t.Errorf("Rows() for bars = %d, expected 2", m.Rows())
	}

	m = NewCapturesModel(opts.Store, nil, "checker", 100, 30)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(CapturesModel)
	if m.PreviewID() == 0 {
		t.Error("enter should preview the selected capture")
	}
	if !strings.Contains(m.View(), upperHalf) {
		t.Error("preview should be drawn with half blocks")
	}

	next, cmd := m.Embedded().Update(runes("b"))
	m = next.(CapturesModel)
	if !m.IsGoingBack() || cmd != nil {
		t.Error("an embedded browser should go back without quitting")
	}
}

func TestSessionModelFlow(t *testing.T) {
	opts := testOptions(t)
	var s tea.Model = NewSessionModel(opts, 80, 24)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	session := s.(SessionModel)
	if session.Screen() != "player" {
		t.Fatalf("Screen() = %q after enter, expected player", session.Screen())
	}

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := s.(SessionModel).Screen(); got != "menu" {
		t.Fatalf("Screen() = %q after esc, expected menu", got)
	}

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := s.(SessionModel).Screen(); got != "captures" {
		t.Fatalf("Screen() = %q after tab, expected captures", got)
	}

	s, _ = s.Update(runes("b"))
	if got := s.(SessionModel).Screen(); got != "menu" {
		t.Fatalf("Screen() = %q after back, expected menu", got)
	}

	s, cmd := s.Update(runes("q"))
	if cmd == nil || s.View() != "" {
		t.Error("q in the menu should end the session")
	}
}

func TestKeyMapsHaveHelp(t *testing.T) {
	for _, b := range DefaultPlayerKeyMap().ShortHelp() {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("player binding %v has no help", b.Keys())
		}
	}
	for _, b := range DefaultMenuKeyMap().ShortHelp() {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("menu binding %v has no help", b.Keys())
		}
	}
}
