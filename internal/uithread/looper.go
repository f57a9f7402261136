// Package uithread provides the host's UI goroutine: a serial executor for
// lifecycle fan-out, dialog presentation and SDK callbacks.
package uithread

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/eventqueue"
)

// Poster schedules work on the UI goroutine.
type Poster interface {
	Post(fn func())
}

// Looper runs posted funcs one at a time on the goroutine that calls Run.
type Looper struct {
	queue *eventqueue.Queue
	done  chan struct{}
}

// NewLooper creates a looper. Nothing runs until Run is called.
func NewLooper(logger *log.Logger) *Looper {
	if logger != nil {
		logger = logger.WithPrefix("ui")
	}
	return &Looper{
		queue: eventqueue.New(logger),
		done:  make(chan struct{}),
	}
}

// Post schedules fn. It never blocks. Funcs posted after Run returned are dropped.
func (l *Looper) Post(fn func()) {
	l.queue.Enqueue(eventqueue.Task(fn))
}

// Run executes posted funcs until ctx is cancelled. Funcs still queued at
// cancellation are run before Run returns.
func (l *Looper) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.queue.Close()
			for l.queue.Len() > 0 {
				l.queue.Drain()
			}
			return
		case <-l.queue.Ready():
			for l.queue.Len() > 0 {
				l.queue.Drain()
			}
		}
	}
}

// Done is closed once Run has returned.
func (l *Looper) Done() <-chan struct{} {
	return l.done
}

// Sync blocks until every func posted before the call has run.
func (l *Looper) Sync(ctx context.Context) error {
	reached := make(chan struct{})
	if !l.queue.Enqueue(func() { close(reached) }) {
		return context.Canceled
	}
	select {
	case <-reached:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs posted funcs immediately on the caller's goroutine.
// Useful in tests and for hosts that already serialize their callbacks.
type Inline struct{}

// Post runs fn now.
func (Inline) Post(fn func()) {
	fn()
}
