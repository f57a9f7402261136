// Package netstate debounces host connectivity reports before they reach
// lifecycle listeners, and optionally probes the OS for connectivity.
package netstate

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/uithread"
)

// DefaultDelay is how long a connected report must hold before it is delivered.
const DefaultDelay = 100 * time.Millisecond

// State is the last delivered connectivity state.
type State int

const (
	StateUnknown State = iota
	StateConnected
	StateDisconnected
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Monitor delivers connectivity edges. Disconnects are delivered at once;
// connects only after they have held for the settle delay. Only changes of
// the delivered state reach the deliver func, always on the UI goroutine.
type Monitor struct {
	clock   clock.WithDelayedExecution
	delay   time.Duration
	ui      uithread.Poster
	deliver func(connected bool)
	logger  *log.Logger

	mu        sync.Mutex
	delivered State
	pending   clock.Timer
	gen       uint64
}

// Options configures a Monitor. Zero values pick the defaults.
type Options struct {
	Clock  clock.WithDelayedExecution
	Delay  time.Duration
	Logger *log.Logger
}

// NewMonitor creates a monitor that posts deliveries through ui.
func NewMonitor(ui uithread.Poster, deliver func(connected bool), opts Options) *Monitor {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Monitor{
		clock:   opts.Clock,
		delay:   opts.Delay,
		ui:      ui,
		deliver: deliver,
		logger:  opts.Logger,
	}
}

// Report feeds a raw connectivity observation. Call it on the UI goroutine.
func (m *Monitor) Report(connected bool) {
	if !connected {
		m.disconnected()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil || m.delivered == StateConnected {
		return
	}

	m.gen++
	gen := m.gen
	// The timer callback may run on the clock's goroutine; it only posts.
	m.pending = m.clock.AfterFunc(m.delay, func() {
		m.ui.Post(func() { m.settle(gen) })
	})
	m.logger.Debug("connect pending", "delay", m.delay)
}

func (m *Monitor) disconnected() {
	m.mu.Lock()
	m.cancelLocked()
	changed := m.delivered != StateDisconnected
	m.delivered = StateDisconnected
	m.mu.Unlock()

	if changed {
		m.logger.Info("network state changed", "state", StateDisconnected)
		m.deliver(false)
	}
}

func (m *Monitor) settle(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.pending == nil {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	changed := m.delivered != StateConnected
	m.delivered = StateConnected
	m.mu.Unlock()

	if changed {
		m.logger.Info("network state changed", "state", StateConnected)
		m.deliver(true)
	}
}

func (m *Monitor) cancelLocked() {
	m.gen++
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// Stop cancels any pending connect delivery.
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.cancelLocked()
	m.mu.Unlock()
}

// State returns the last delivered state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delivered
}

// Pending reports whether a connect delivery is waiting for the settle delay.
func (m *Monitor) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}
