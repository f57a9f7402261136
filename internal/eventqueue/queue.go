// Package eventqueue is the hand-off point between the UI goroutine and the
// render goroutine. Any goroutine may enqueue; only the render goroutine drains.
package eventqueue

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Task is a unit of work to run on the draining goroutine. It must capture
// everything it needs when it is created.
type Task func()

// Queue is a multi-producer, single-consumer FIFO of tasks.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	spare  []Task
	closed bool
	ready  chan struct{}
	logger *log.Logger
}

// New creates an empty queue. A nil logger discards task failures.
func New(logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Queue{
		ready:  make(chan struct{}, 1),
		logger: logger,
	}
}

// Enqueue appends a task. It never blocks and is safe from any goroutine.
// It returns false when the task is nil or the queue was closed.
func (q *Queue) Enqueue(t Task) bool {
	if t == nil {
		return false
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain runs every task that was queued when Drain started, in order, and
// returns how many ran. Tasks enqueued while draining wait for the next call.
// A panicking task is logged and the drain moves on to the next one.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = q.spare[:0]
	q.spare = nil
	q.mu.Unlock()

	for i, t := range batch {
		q.run(i, len(batch), t)
		batch[i] = nil
	}

	q.mu.Lock()
	if q.spare == nil {
		q.spare = batch[:0]
	}
	q.mu.Unlock()

	return len(batch)
}

func (q *Queue) run(i, n int, t Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task failed", "position", fmt.Sprintf("%d/%d", i+1, n), "panic", r)
		}
	}()
	t()
}

// Len returns the number of tasks waiting for the next drain.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Ready signals after one or more Enqueue calls. Signals coalesce, so a
// receiver must drain everything once woken.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Close rejects further tasks. Tasks already queued can still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Closed reports whether Close was called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
