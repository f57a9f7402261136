package services

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

var (
	// ErrNotificationsDisabled is returned when notifications are switched off.
	ErrNotificationsDisabled = errors.New("notifications: disabled")
	// ErrInvalidDelay is returned for non-positive delays.
	ErrInvalidDelay = errors.New("notifications: delay must be positive")
)

type pending struct {
	timer   clock.Timer
	message string
}

// Notifications schedules local notifications by id. A notification that
// fires while the host is in the foreground is dropped.
type Notifications struct {
	lifecycle.Base

	enabled    bool
	clock      clock.WithDelayedExecution
	ui         uithread.Poster
	foreground func() bool
	notify     func(message string)
	logger     *log.Logger

	mu      sync.Mutex
	pending map[int]*pending
}

// NewNotifications creates the notification service.
func NewNotifications(env Env, logger *log.Logger) *Notifications {
	return &Notifications{
		enabled:    env.Config.Notifications.Enabled,
		clock:      env.Clock,
		ui:         env.UI,
		foreground: env.Foreground,
		notify:     env.Notify,
		logger:     logger,
		pending:    make(map[int]*pending),
	}
}

// Schedule shows message after secondsFromNow. Scheduling an id again
// replaces the earlier notification.
func (n *Notifications) Schedule(message string, secondsFromNow int, id int) error {
	if !n.enabled {
		return ErrNotificationsDisabled
	}
	if secondsFromNow <= 0 {
		return ErrInvalidDelay
	}

	n.Cancel(id)

	p := &pending{message: message}
	// The timer callback may run with the clock locked; it only hands off.
	t := n.clock.AfterFunc(time.Duration(secondsFromNow)*time.Second, func() {
		n.ui.Post(func() { n.fire(id, p) })
	})

	n.mu.Lock()
	p.timer = t
	n.pending[id] = p
	n.mu.Unlock()
	n.logger.Debug("notification scheduled", "id", id, "in", secondsFromNow)
	return nil
}

// Cancel drops a scheduled notification. Unknown ids are ignored.
func (n *Notifications) Cancel(id int) {
	n.mu.Lock()
	p, ok := n.pending[id]
	delete(n.pending, id)
	n.mu.Unlock()

	if ok && p.timer != nil {
		p.timer.Stop()
	}
}

// Pending returns the number of scheduled notifications.
func (n *Notifications) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

func (n *Notifications) fire(id int, p *pending) {
	n.mu.Lock()
	current, ok := n.pending[id]
	if ok && current == p {
		delete(n.pending, id)
	}
	n.mu.Unlock()
	if !ok || current != p {
		return
	}

	if n.foreground() {
		n.logger.Debug("notification suppressed in foreground", "id", id)
		return
	}
	if n.notify == nil {
		n.logger.Info("notification", "id", id, "message", p.message)
		return
	}
	n.notify(p.message)
}

// OnDestroy cancels everything still scheduled.
func (n *Notifications) OnDestroy() {
	n.mu.Lock()
	ids := make([]int, 0, len(n.pending))
	for id := range n.pending {
		ids = append(ids, id)
	}
	n.mu.Unlock()

	for _, id := range ids {
		n.Cancel(id)
	}
}
