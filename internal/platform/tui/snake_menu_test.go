package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
)

func updateMenu(t *testing.T, m DifficultyModel, msg tea.Msg) (DifficultyModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(DifficultyModel)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}
	return next, cmd
}

func TestDifficultyMenuSelect(t *testing.T) {
	m := NewDifficultyModel(80, 24)
	if m.presets[m.cursor] != config.DifficultyNormal {
		t.Fatalf("preselected %s, want normal", m.presets[m.cursor])
	}

	m, _ = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := updateMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if sel := m.Selected(); sel == nil || *sel != config.DifficultyHard {
		t.Fatalf("Selected() = %v, want hard", sel)
	}
	if cmd == nil {
		t.Error("standalone menu should quit after choosing")
	}
}

func TestDifficultyMenuBounds(t *testing.T) {
	m := NewDifficultyModel(80, 24)
	for range 10 {
		m, _ = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	for range 10 {
		m, _ = updateMenu(t, m, runeKey('j'))
	}
	if m.cursor != len(m.presets)-1 {
		t.Errorf("cursor = %d, want last", m.cursor)
	}
}

func TestDifficultyMenuScoresAndQuit(t *testing.T) {
	m := NewDifficultyModel(80, 24)
	m.embedded = true
	m, cmd := updateMenu(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsScores() || cmd != nil {
		t.Error("tab should request the scoreboard without quitting when embedded")
	}

	m = NewDifficultyModel(80, 24)
	m, cmd = updateMenu(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestDifficultyMenuView(t *testing.T) {
	view := NewDifficultyModel(80, 24).View()
	for _, p := range config.Presets() {
		if !strings.Contains(view, p.Description()) {
			t.Errorf("view missing %s", p)
		}
	}
	if !strings.Contains(view, "> normal") {
		t.Error("cursor should mark normal")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("abcd", 10); got != "   abcd" {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("too long", 4); got != "too long" {
		t.Errorf("overflow should be returned as is, got %q", got)
	}
}
