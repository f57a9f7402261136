package lifecycle

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Broadcaster keeps an ordered set of listeners and delivers transitions to
// each of them. Delivery iterates a snapshot, so listeners may register or
// unregister (themselves or others) from inside a callback.
type Broadcaster struct {
	mu        sync.Mutex
	listeners []Listener
	logger    *log.Logger
}

// NewBroadcaster creates an empty broadcaster. A nil logger discards failures.
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Broadcaster{logger: logger}
}

// Register appends l. Registering a listener that is already present is a no-op.
// Listeners are compared by identity, so register pointers.
func (b *Broadcaster) Register(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.listeners {
		if existing == l {
			return
		}
	}
	b.listeners = append(b.listeners, l)
}

// Unregister removes l if present.
func (b *Broadcaster) Unregister(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.listeners {
		if existing == l {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Broadcaster) snapshot() []Listener {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Listener(nil), b.listeners...)
}

// Dispatch delivers a simple transition to every listener in registration order.
func (b *Broadcaster) Dispatch(t Transition) {
	for i, l := range b.snapshot() {
		b.call(t.String(), i, func() bool {
			switch t {
			case Start:
				l.OnStart()
			case Resume:
				l.OnResume()
			case Pause:
				l.OnPause()
			case Stop:
				l.OnStop()
			case Destroy:
				l.OnDestroy()
			}
			return false
		})
	}
}

// Start, Resume, Pause, Stop and Destroy are shorthands for Dispatch.
func (b *Broadcaster) Start()   { b.Dispatch(Start) }
func (b *Broadcaster) Resume()  { b.Dispatch(Resume) }
func (b *Broadcaster) Pause()   { b.Dispatch(Pause) }
func (b *Broadcaster) Stop()    { b.Dispatch(Stop) }
func (b *Broadcaster) Destroy() { b.Dispatch(Destroy) }

// BackPressed asks every listener and reports whether any consumed the action.
// No listener is skipped once another has returned true.
func (b *Broadcaster) BackPressed() bool {
	handled := false
	for i, l := range b.snapshot() {
		if b.call("back", i, l.OnBackPressed) {
			handled = true
		}
	}
	return handled
}

// ActivityResult offers r to every listener and reports whether any owned it.
func (b *Broadcaster) ActivityResult(r ActivityResult) bool {
	handled := false
	for i, l := range b.snapshot() {
		if b.call("activity result", i, func() bool { return l.OnActivityResult(r) }) {
			handled = true
		}
	}
	return handled
}

// NetworkStateChanged delivers a connectivity edge to every listener.
func (b *Broadcaster) NetworkStateChanged(connected bool) {
	for i, l := range b.snapshot() {
		b.call("network", i, func() bool {
			l.OnNetworkStateChanged(connected)
			return false
		})
	}
}

// call runs one listener callback. A panic is logged and reported as false.
func (b *Broadcaster) call(event string, index int, fn func() bool) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener failed",
				"event", event,
				"listener", index,
				"panic", fmt.Sprint(r),
			)
			handled = false
		}
	}()
	return fn()
}
