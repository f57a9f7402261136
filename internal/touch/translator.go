// Package touch converts host motion events into per-pointer engine events
// and delivers them to the render goroutine through the event queue.
package touch

import (
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
)

// Action is the kind of a host motion event.
type Action int

const (
	ActionDown Action = iota
	ActionPointerDown
	ActionMove
	ActionUp
	ActionPointerUp
	ActionOutside
	ActionCancel
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionDown:
		return "Down"
	case ActionPointerDown:
		return "PointerDown"
	case ActionMove:
		return "Move"
	case ActionUp:
		return "Up"
	case ActionPointerUp:
		return "PointerUp"
	case ActionOutside:
		return "Outside"
	case ActionCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Pointer is one contact in host space (origin top-left).
type Pointer struct {
	ID   int
	X, Y float32
}

// MotionEvent is a host motion event. Index selects the pointer that changed
// for Down, PointerDown, Up, PointerUp and Outside.
type MotionEvent struct {
	Action   Action
	Index    int
	Pointers []Pointer
}

// Sink receives translated events on the render goroutine.
// engine.Core satisfies it.
type Sink interface {
	OnTouchDown(x, y float32, id int)
	OnTouchMoved(x, y float32, id int)
	OnTouchUp(x, y float32, id int)
}

// Translator tracks active pointers and turns motion events into queued
// engine events. Handle must be called from a single goroutine (the UI one).
type Translator struct {
	queue  *eventqueue.Queue
	sink   Sink
	height func() float32
	active []Pointer
}

// NewTranslator creates a translator. height reports the current surface
// height and is read when an event is translated.
func NewTranslator(q *eventqueue.Queue, sink Sink, height func() float32) *Translator {
	return &Translator{queue: q, sink: sink, height: height}
}

// Handle translates ev and returns the number of engine events enqueued.
func (t *Translator) Handle(ev MotionEvent) int {
	h := t.height()

	switch ev.Action {
	case ActionDown, ActionPointerDown:
		p, ok := ev.pointer()
		if !ok {
			return 0
		}
		t.upsert(p)
		t.emit(core.PointerEvent{ID: p.ID, X: p.X, Y: h - p.Y, Phase: core.PhaseDown})
		return 1

	case ActionMove:
		for _, p := range ev.Pointers {
			t.update(p)
		}
		for _, p := range t.active {
			t.emit(core.PointerEvent{ID: p.ID, X: p.X, Y: h - p.Y, Phase: core.PhaseMoved})
		}
		return len(t.active)

	case ActionUp, ActionPointerUp, ActionOutside:
		p, ok := ev.pointer()
		if !ok {
			return 0
		}
		t.remove(p.ID)
		t.emit(core.PointerEvent{ID: p.ID, X: p.X, Y: h - p.Y, Phase: core.PhaseUp})
		return 1

	case ActionCancel:
		for _, p := range ev.Pointers {
			t.update(p)
		}
		n := len(t.active)
		for _, p := range t.active {
			t.emit(core.PointerEvent{ID: p.ID, X: p.X, Y: h - p.Y, Phase: core.PhaseUp})
		}
		t.active = t.active[:0]
		return n
	}
	return 0
}

// Active returns a copy of the currently active pointers in activation order.
func (t *Translator) Active() []Pointer {
	return append([]Pointer(nil), t.active...)
}

func (t *Translator) emit(e core.PointerEvent) {
	sink := t.sink
	switch e.Phase {
	case core.PhaseDown:
		t.queue.Enqueue(func() { sink.OnTouchDown(e.X, e.Y, e.ID) })
	case core.PhaseMoved:
		t.queue.Enqueue(func() { sink.OnTouchMoved(e.X, e.Y, e.ID) })
	case core.PhaseUp:
		t.queue.Enqueue(func() { sink.OnTouchUp(e.X, e.Y, e.ID) })
	}
}

func (ev MotionEvent) pointer() (Pointer, bool) {
	if ev.Index < 0 || ev.Index >= len(ev.Pointers) {
		return Pointer{}, false
	}
	return ev.Pointers[ev.Index], true
}

func (t *Translator) upsert(p Pointer) {
	if !t.update(p) {
		t.active = append(t.active, p)
	}
}

// update refreshes the position of an active pointer. Unknown ids are ignored.
func (t *Translator) update(p Pointer) bool {
	for i := range t.active {
		if t.active[i].ID == p.ID {
			t.active[i] = p
			return true
		}
	}
	return false
}

func (t *Translator) remove(id int) {
	for i := range t.active {
		if t.active[i].ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}
