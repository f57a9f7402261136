package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/touch"
)

// pointers turns mouse messages into motion events. Each mouse button is a
// separate finger, so holding left and right gives a two-pointer gesture.
type pointers struct {
	active []touch.Pointer
}

func buttonPointer(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return 0, true
	case tea.MouseButtonRight:
		return 1, true
	case tea.MouseButtonMiddle:
		return 2, true
	}
	return 0, false
}

func (p *pointers) index(id int) int {
	for i, ptr := range p.active {
		if ptr.ID == id {
			return i
		}
	}
	return -1
}

func (p *pointers) snapshot() []touch.Pointer {
	return append([]touch.Pointer(nil), p.active...)
}

// handle maps msg to a motion event in window space. It reports false for
// messages that do not change any pointer.
func (p *pointers) handle(msg tea.MouseMsg) (touch.MotionEvent, bool) {
	id, isButton := buttonPointer(msg.Button)
	x, y := core.CellCenter(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if !isButton || p.index(id) >= 0 {
			return touch.MotionEvent{}, false
		}
		action := touch.ActionDown
		if len(p.active) > 0 {
			action = touch.ActionPointerDown
		}
		p.active = append(p.active, touch.Pointer{ID: id, X: x, Y: y})
		return touch.MotionEvent{Action: action, Index: len(p.active) - 1, Pointers: p.snapshot()}, true

	case tea.MouseActionMotion:
		if len(p.active) == 0 {
			return touch.MotionEvent{}, false
		}
		i := -1
		if isButton {
			i = p.index(id)
		}
		if i < 0 {
			i = 0
		}
		p.active[i].X, p.active[i].Y = x, y
		return touch.MotionEvent{Action: touch.ActionMove, Pointers: p.snapshot()}, true

	case tea.MouseActionRelease:
		// Most terminals do not say which button was released.
		i := -1
		if isButton {
			i = p.index(id)
		}
		if i < 0 {
			i = len(p.active) - 1
		}
		if i < 0 {
			return touch.MotionEvent{}, false
		}
		p.active[i].X, p.active[i].Y = x, y
		ev := touch.MotionEvent{Action: touch.ActionPointerUp, Index: i, Pointers: p.snapshot()}
		if len(p.active) == 1 {
			ev.Action = touch.ActionUp
		}
		p.active = append(p.active[:i], p.active[i+1:]...)
		return ev, true
	}
	return touch.MotionEvent{}, false
}

// cancel releases every pointer, e.g. when a dialog takes over the screen.
func (p *pointers) cancel() (touch.MotionEvent, bool) {
	if len(p.active) == 0 {
		return touch.MotionEvent{}, false
	}
	ev := touch.MotionEvent{Action: touch.ActionCancel, Pointers: p.snapshot()}
	p.active = p.active[:0]
	return ev, true
}
