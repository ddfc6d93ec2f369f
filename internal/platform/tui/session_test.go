package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/core"
	_ "github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func newGameModel(t *testing.T, id string) Model {
	t.Helper()
	game, err := registry.Create(id)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", id, err)
	}
	m := NewModel(game, testConfig())
	m.Init()
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(m Model, at time.Time) Model {
	return send(m, TickMsg{At: at, Loop: m.loop})
}

func TestHomeMenuItems(t *testing.T) {
	items := homeItems()

	want := []MenuItem{
		{Kind: MenuItemGame, GameID: "flappy_auto", Title: "Flappy Bird (Auto)"},
		{Kind: MenuItemGame, GameID: "flappy", Title: "Flappy Bird"},
		{Kind: MenuItemRuns, Title: "Recorded runs"},
		{Kind: MenuItemQuit, Title: "Quit"},
	}
	if len(items) != len(want) {
		t.Fatalf("homeItems() = %+v, expected %d items", items, len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, expected %+v", i, items[i], want[i])
		}
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(testConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	if sel := m.Selected(); sel == nil || sel.GameID != "flappy" {
		t.Errorf("Selected() = %+v, expected the manual game", sel)
	}

	m = NewMenuModel(testConfig())
	for i := 0; i < 10; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !next.(MenuModel).IsQuitting() {
		t.Error("selecting Quit should quit")
	}
}

func TestMenuShowsSessionBest(t *testing.T) {
	cfg := testConfig()
	cfg.HighScores = core.NewHighScores()
	cfg.HighScores.Record("flappy", 12.7)

	view := NewMenuModel(cfg).View()
	if !strings.Contains(view, "(best 12)") {
		t.Errorf("menu does not show the session best:\n%s", view)
	}
}

func TestModelLeavesAfterExit(t *testing.T) {
	m := newGameModel(t, "flappy_auto")
	start := time.Now()

	for i := 0; i < 5; i++ {
		m = tick(m, start.Add(time.Duration(i)*16*time.Millisecond))
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back should wait for the next tick while running")
	}

	m = tick(m, start.Add(100*time.Millisecond))
	if !m.BackToMenu() || m.IsQuitting() {
		t.Errorf("BackToMenu() = %v IsQuitting() = %v, expected true and false", m.BackToMenu(), m.IsQuitting())
	}
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	m := newGameModel(t, "flappy_auto")

	m = send(m, TickMsg{At: time.Now(), Loop: m.loop + 1000})
	if m.GameState() != (core.GameState{}) {
		t.Errorf("stale tick stepped the game: %+v", m.GameState())
	}

	m = tick(m, time.Now())
	if m.GameState().Waiting {
		t.Error("auto game should be running after a tick")
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	m := newGameModel(t, "flappy")
	now := time.Now()

	m = send(m, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i < 400 && !m.GameState().GameOver; i++ {
		now = now.Add(16 * time.Millisecond)
		m = tick(m, now)
	}
	if !m.GameState().GameOver {
		t.Fatal("manual game never ended")
	}

	m = send(m, runeKey("r"))
	m = tick(m, now.Add(16*time.Millisecond))
	if s := m.GameState(); s.GameOver || !s.Waiting {
		t.Errorf("after restart state = %+v, expected a waiting game", s)
	}
}

func TestModelScreenshot(t *testing.T) {
	m := newGameModel(t, "flappy")
	m.screenshotDir = filepath.Join(t.TempDir(), "shots")

	path, err := m.SaveScreenshot()
	if err != nil {
		t.Fatalf("SaveScreenshot() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading screenshot: %v", err)
	}
	if !strings.Contains(string(data), "Press SPACE to start") {
		t.Errorf("screenshot missing the start prompt:\n%s", data)
	}
}

func TestSessionFlow(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "tester")

	update := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	// Enter the autopilot game
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if s.current != screenGame || s.game == nil {
		t.Fatalf("session did not start a game, current = %v", s.current)
	}
	if s.game.config.HighScores != s.HighScores() {
		t.Error("game does not share the session's high score table")
	}

	update(TickMsg{At: time.Now(), Loop: s.game.loop})
	update(tea.KeyMsg{Type: tea.KeyEsc})
	update(TickMsg{At: time.Now(), Loop: s.game.loop})
	if s.current != screenMenu {
		t.Fatalf("session did not return home, current = %v", s.current)
	}
	if best := s.HighScores().Best("flappy_auto"); best != 0 {
		t.Errorf("Best() after leaving early = %v, expected 0", best)
	}

	// Open the run log without a store, then go back
	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if s.current != screenRuns {
		t.Fatalf("session did not open the run log, current = %v", s.current)
	}
	if !strings.Contains(s.View(), "Run log unavailable") {
		t.Errorf("run log view without a store:\n%s", s.View())
	}
	update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.current != screenMenu {
		t.Errorf("session did not return from the run log, current = %v", s.current)
	}
}

func TestRunsModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()

	records := []storage.RunRecord{
		{RunID: "a", Mode: "auto", Strategy: "predictive", Seed: 101, Score: 12, Gates: 10, InBand: 10},
		{RunID: "a", Mode: "auto", Strategy: "steering", Seed: 202, Score: 9, Gates: 10, InBand: 6},
	}
	if err := store.SaveRuns(records); err != nil {
		t.Fatalf("SaveRuns() error: %v", err)
	}

	m := NewRunsModel(store, 120, 30)
	if len(m.runs) != 2 {
		t.Fatalf("loaded %d runs, expected 2", len(m.runs))
	}
	if view := m.View(); !strings.Contains(view, "predictive: 1 runs") || !strings.Contains(view, "steering") {
		t.Errorf("view missing strategy stats:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RunsModel)
	if len(m.runs) != 1 || m.runs[0].Strategy != "predictive" {
		t.Errorf("predictive tab shows %+v", m.runs)
	}
	if view := m.View(); strings.Contains(view, "steering:") {
		t.Errorf("predictive tab shows steering stats:\n%s", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(RunsModel)
	if len(m.runs) != 2 {
		t.Errorf("all tab shows %d runs, expected 2", len(m.runs))
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(RunsModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "flap", core.ColorYellow)
	s.DrawText(0, 1, "bird")

	out := RenderScreen(s)
	if !strings.Contains(out, "flap") || !strings.Contains(out, "bird") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() produced %d line breaks, expected 1", strings.Count(out, "\n"))
	}
}
