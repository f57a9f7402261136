package touch

import (
	mtouch "golang.org/x/mobile/event/touch"
)

// MobileTracker turns golang.org/x/mobile touch events, which report one
// sequence at a time, into whole-gesture motion events.
type MobileTracker struct {
	pointers []Pointer
}

// Convert maps a single x/mobile touch event. The first contact becomes
// ActionDown, later ones ActionPointerDown; releases mirror that.
func (m *MobileTracker) Convert(e mtouch.Event) MotionEvent {
	p := Pointer{ID: int(e.Sequence), X: e.X, Y: e.Y}

	switch e.Type {
	case mtouch.TypeBegin:
		m.set(p)
		action := ActionPointerDown
		if len(m.pointers) == 1 {
			action = ActionDown
		}
		return MotionEvent{Action: action, Index: m.index(p.ID), Pointers: m.snapshot()}

	case mtouch.TypeEnd:
		m.set(p)
		action := ActionPointerUp
		if len(m.pointers) == 1 {
			action = ActionUp
		}
		ev := MotionEvent{Action: action, Index: m.index(p.ID), Pointers: m.snapshot()}
		m.drop(p.ID)
		return ev

	default:
		m.set(p)
		return MotionEvent{Action: ActionMove, Index: m.index(p.ID), Pointers: m.snapshot()}
	}
}

// Reset forgets every tracked contact and returns a cancel event for them.
func (m *MobileTracker) Reset() MotionEvent {
	ev := MotionEvent{Action: ActionCancel, Pointers: m.snapshot()}
	m.pointers = m.pointers[:0]
	return ev
}

func (m *MobileTracker) set(p Pointer) {
	if i := m.index(p.ID); i >= 0 {
		m.pointers[i] = p
		return
	}
	m.pointers = append(m.pointers, p)
}

func (m *MobileTracker) index(id int) int {
	for i, p := range m.pointers {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *MobileTracker) drop(id int) {
	if i := m.index(id); i >= 0 {
		m.pointers = append(m.pointers[:i], m.pointers[i+1:]...)
	}
}

func (m *MobileTracker) snapshot() []Pointer {
	return append([]Pointer(nil), m.pointers...)
}
