package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamehost/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestScoreboardBrowsesBoards(t *testing.T) {
	store := openStore(t)
	for _, s := range []struct {
		board, player string
		score         int
	}{
		{"tapper", "ada", 30},
		{"tapper", "bob", 50},
		{"paint", "eve", 7},
	} {
		if _, err := store.SaveScore(s.board, s.player, s.score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, []string{"tapper", "paint"}, 100, 30)
	if m.Board() != "tapper" {
		t.Fatalf("Board() = %q, expected tapper", m.Board())
	}
	scores := m.Scores()
	if len(scores) != 2 || scores[0].Player != "bob" {
		t.Errorf("Scores() = %+v, expected bob first", scores)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.Board() != "paint" || len(m.Scores()) != 1 {
		t.Errorf("after tab: Board() = %q with %d scores, expected paint with 1", m.Board(), len(m.Scores()))
	}
}

func TestScoreboardBack(t *testing.T) {
	tests := []struct {
		name     string
		embedded bool
		quits    bool
	}{
		{"standalone", false, true},
		{"embedded", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBoardView("tapper", nil, 80, 24)
			m.embedded = tt.embedded

			next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			m = next.(ScoreboardModel)
			if !m.IsGoingBack() {
				t.Error("IsGoingBack() = false after esc")
			}
			if quits := cmd != nil; quits != tt.quits {
				t.Errorf("esc returned a command = %v, expected %v", quits, tt.quits)
			}
		})
	}
}

func TestMenuListsRegisteredApps(t *testing.T) {
	m := NewMenuModel(80, 24)
	view := m.View()
	for _, title := range []string{"Finger Paint", "Select an app"} {
		if !strings.Contains(view, title) {
			t.Errorf("menu is missing %q:\n%s", title, view)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(80, 24)
	if len(m.items) == 0 {
		t.Fatal("no apps registered")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().AppID != m.items[0].AppID {
		t.Errorf("Selected() = %v, expected %q", m.Selected(), m.items[0].AppID)
	}
	if cmd == nil {
		t.Error("selecting should end the menu program")
	}
}

func TestSessionScoreboardAndBack(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveScore("tapper", "ada", 12); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	var m tea.Model = NewSessionModel(context.Background(), Options{Store: store}, 100, 30)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd != nil {
		t.Error("opening the scoreboard must not quit the session")
	}
	if view := m.View(); !strings.Contains(view, "HIGH SCORES - tapper") {
		t.Errorf("session view is not the scoreboard:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if view := m.View(); !strings.Contains(view, "Select an app") {
		t.Errorf("esc should return to the menu:\n%s", view)
	}

	m, cmd = m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q in the menu should end the session")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q in the menu should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("a finished session should render nothing")
	}
}

func TestSessionUnknownAppShowsError(t *testing.T) {
	m := NewSessionModel(context.Background(), Options{}, 80, 24)
	next, _ := m.startApp("no-such-app")
	s := next.(SessionModel)
	if s.app != nil {
		t.Error("unknown app should not start")
	}
	if !strings.Contains(s.View(), "error:") {
		t.Errorf("View() should report the error:\n%s", s.View())
	}
}
