package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamehost/internal/touch"
)

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestPointersSingleButton(t *testing.T) {
	var p pointers

	steps := []struct {
		msg      tea.MouseMsg
		action   touch.Action
		pointers int
	}{
		{mouse(tea.MouseActionPress, tea.MouseButtonLeft, 2, 3), touch.ActionDown, 1},
		{mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 4, 3), touch.ActionMove, 1},
		{mouse(tea.MouseActionRelease, tea.MouseButtonNone, 5, 3), touch.ActionUp, 1},
	}

	for i, s := range steps {
		ev, ok := p.handle(s.msg)
		if !ok {
			t.Fatalf("step %d: handle() reported no event", i)
		}
		if ev.Action != s.action {
			t.Errorf("step %d: action = %v, expected %v", i, ev.Action, s.action)
		}
		if len(ev.Pointers) != s.pointers {
			t.Errorf("step %d: pointers = %d, expected %d", i, len(ev.Pointers), s.pointers)
		}
	}

	if len(p.active) != 0 {
		t.Errorf("active = %d after release, expected 0", len(p.active))
	}
}

func TestPointersUseCellCenters(t *testing.T) {
	var p pointers
	ev, _ := p.handle(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 7, 2))

	ptr := ev.Pointers[0]
	if ptr.X != 7.5 || ptr.Y != 2.5 {
		t.Errorf("pointer at (%v, %v), expected (7.5, 2.5)", ptr.X, ptr.Y)
	}
}

func TestPointersTwoButtons(t *testing.T) {
	var p pointers

	p.handle(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 1, 1))
	ev, ok := p.handle(mouse(tea.MouseActionPress, tea.MouseButtonRight, 9, 1))
	if !ok {
		t.Fatal("second press reported no event")
	}
	if ev.Action != touch.ActionPointerDown || ev.Index != 1 {
		t.Errorf("second press = %v index %d, expected PointerDown index 1", ev.Action, ev.Index)
	}
	if ev.Pointers[1].ID != 1 {
		t.Errorf("right button pointer id = %d, expected 1", ev.Pointers[1].ID)
	}

	// Same button pressed twice is ignored.
	if _, ok := p.handle(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 1, 1)); ok {
		t.Error("repeated press should be ignored")
	}

	ev, _ = p.handle(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 9, 1))
	if ev.Action != touch.ActionPointerUp {
		t.Errorf("first release = %v, expected PointerUp", ev.Action)
	}
	ev, _ = p.handle(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 1, 1))
	if ev.Action != touch.ActionUp {
		t.Errorf("last release = %v, expected Up", ev.Action)
	}
}

func TestPointersIgnoreIdleMotion(t *testing.T) {
	var p pointers
	if _, ok := p.handle(mouse(tea.MouseActionMotion, tea.MouseButtonNone, 3, 3)); ok {
		t.Error("motion without a pressed button should be ignored")
	}
	if _, ok := p.handle(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 3, 3)); ok {
		t.Error("release without a pressed button should be ignored")
	}
}

func TestPointersCancel(t *testing.T) {
	var p pointers
	if _, ok := p.cancel(); ok {
		t.Error("cancel() with no pointers should report nothing")
	}

	p.handle(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 1, 1))
	p.handle(mouse(tea.MouseActionPress, tea.MouseButtonMiddle, 2, 2))

	ev, ok := p.cancel()
	if !ok || ev.Action != touch.ActionCancel {
		t.Fatalf("cancel() = %v, %v, expected Cancel", ev.Action, ok)
	}
	if len(ev.Pointers) != 2 {
		t.Errorf("cancel pointers = %d, expected 2", len(ev.Pointers))
	}
	if len(p.active) != 0 {
		t.Errorf("active = %d after cancel, expected 0", len(p.active))
	}
}
