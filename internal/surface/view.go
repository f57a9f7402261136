package surface

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
)

// ErrRunning is returned by Step while Run owns the render goroutine.
var ErrRunning = errors.New("surface: render loop is running")

// ViewConfig configures a View.
type ViewConfig struct {
	FPS    int
	Clock  clock.WithTicker
	Logger *log.Logger
}

// View is the render goroutine together with the surface state the UI
// goroutine reports to it. UI-side methods never block.
type View struct {
	ctrl   *Controller
	queue  *eventqueue.Queue
	clock  clock.WithTicker
	fps    int
	logger *log.Logger

	width   atomic.Int32
	height  atomic.Int32
	paused  atomic.Bool
	running atomic.Bool

	mu      sync.Mutex
	created bool
	resized bool
	wake    chan struct{}

	lastErr error
}

// NewView creates a view for e. The returned view owns a new event queue.
func NewView(e engine.Core, info HostInfo, cfg ViewConfig) *View {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	q := eventqueue.New(cfg.Logger.WithPrefix("queue"))
	return &View{
		ctrl:   NewController(e, q, info, cfg.Logger),
		queue:  q,
		clock:  cfg.Clock,
		fps:    cfg.FPS,
		logger: cfg.Logger,
		wake:   make(chan struct{}, 1),
	}
}

// Queue returns the event queue drained by this view.
func (v *View) Queue() *eventqueue.Queue {
	return v.queue
}

// Controller exposes the controller, e.g. to install an OnFrame hook
// before Run starts.
func (v *View) Controller() *Controller {
	return v.ctrl
}

// QueueEvent runs t on the render goroutine before the next frame.
func (v *View) QueueEvent(t eventqueue.Task) bool {
	return v.queue.Enqueue(t)
}

// SurfaceCreated reports that the drawing surface exists (again).
func (v *View) SurfaceCreated() {
	v.mu.Lock()
	v.created = true
	v.mu.Unlock()
	v.signal()
}

// Resize reports the current surface size.
func (v *View) Resize(width, height int) {
	v.width.Store(int32(width))
	v.height.Store(int32(height))
	v.mu.Lock()
	v.resized = true
	v.mu.Unlock()
	v.signal()
}

// Height returns the last reported surface height, for flipping pointer
// coordinates on the UI goroutine.
func (v *View) Height() float32 {
	return float32(v.height.Load())
}

// Width returns the last reported surface width.
func (v *View) Width() int {
	return int(v.width.Load())
}

// Pause stops frames from being drawn. Queued tasks wait.
func (v *View) Pause() {
	v.paused.Store(true)
}

// Resume restarts frame drawing.
func (v *View) Resume() {
	v.paused.Store(false)
	v.signal()
}

// Paused reports whether drawing is paused.
func (v *View) Paused() bool {
	return v.paused.Load()
}

// Running reports whether Run is active.
func (v *View) Running() bool {
	return v.running.Load()
}

func (v *View) signal() {
	select {
	case v.wake <- struct{}{}:
	default:
	}
}

// Run is the render goroutine. It applies surface changes as they are
// reported and draws a frame on every tick until ctx is cancelled.
func (v *View) Run(ctx context.Context) {
	if v.queue.Closed() {
		v.logger.Warn("render loop already shut down")
		return
	}
	v.running.Store(true)
	defer v.running.Store(false)

	ticker := v.clock.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()

	v.logger.Debug("render loop started", "fps", v.fps)
	for {
		select {
		case <-ctx.Done():
			v.queue.Close()
			v.logger.Debug("render loop stopped", "frames", v.ctrl.Frames())
			return
		case <-v.wake:
			v.applySurface()
		case <-ticker.C():
			v.applySurface()
			if !v.paused.Load() {
				v.report(v.ctrl.DrawFrame())
			}
		}
	}
}

// Step applies pending surface changes and draws one frame on the caller's
// goroutine. It is meant for hosts that drive frames themselves and for tests;
// it must not be mixed with Run.
func (v *View) Step() error {
	if v.Running() {
		return ErrRunning
	}
	v.applySurface()
	if v.paused.Load() {
		return nil
	}
	return v.ctrl.DrawFrame()
}

func (v *View) applySurface() {
	v.mu.Lock()
	created, resized := v.created, v.resized
	v.created, v.resized = false, false
	v.mu.Unlock()

	if created {
		v.report(v.ctrl.SurfaceCreated())
	}
	if resized {
		v.report(v.ctrl.SurfaceChanged(int(v.width.Load()), int(v.height.Load())))
	}
}

// report logs a surface error once per distinct message so deferred init
// does not flood the log on every frame.
func (v *View) report(err error) {
	if err == nil {
		v.lastErr = nil
		return
	}
	if v.lastErr != nil && v.lastErr.Error() == err.Error() {
		return
	}
	v.lastErr = err
	if errors.Is(err, ErrInitDeferred) {
		v.logger.Debug("waiting for surface parameters", "reason", err)
		return
	}
	v.logger.Error("surface error", "error", err)
}
