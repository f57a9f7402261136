// Package surface owns the render goroutine: it performs the one-time engine
// initialization handshake, reloads assets when the surface is recreated and
// drains the event queue before every frame.
package surface

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
)

// ErrInitDeferred means initialization is waiting for host parameters
// (surface size or storage path) that have not arrived yet.
var ErrInitDeferred = errors.New("surface: initialization deferred")

// HostInfo is the part of the init parameters that does not come from the surface.
type HostInfo struct {
	AppName     string
	AssetPath   string
	StoragePath string
	Locale      string
}

// Controller drives an engine core. Every method must be called from the
// render goroutine.
type Controller struct {
	engine  engine.Core
	queue   *eventqueue.Queue
	info    HostInfo
	logger  *log.Logger
	onFrame func()

	width, height int
	pendingInit   bool
	frames        uint64
}

// NewController creates a controller for e that drains q each frame.
func NewController(e engine.Core, q *eventqueue.Queue, info HostInfo, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{engine: e, queue: q, info: info, logger: logger}
}

// OnFrame sets a hook that runs after each MainLoop, e.g. to present the frame.
func (c *Controller) OnFrame(fn func()) {
	c.onFrame = fn
}

// SurfaceCreated handles a new (or recreated) drawing surface. The first
// creation on an uninitialized engine starts the init handshake; any later
// one only reloads assets.
func (c *Controller) SurfaceCreated() error {
	if c.engine.IsInitialized() {
		c.logger.Debug("surface recreated, reloading assets")
		c.engine.ReloadAssets()
		return nil
	}
	c.pendingInit = true
	return c.tryInit()
}

// SurfaceChanged records the current surface size. A size that arrives
// before the surface exists is cached and used at initialization.
func (c *Controller) SurfaceChanged(width, height int) error {
	c.width, c.height = width, height
	if c.pendingInit {
		return c.tryInit()
	}
	if c.engine.IsInitialized() {
		if r, ok := c.engine.(engine.Resizer); ok {
			r.OnResize(width, height)
		}
	}
	return nil
}

// DrawFrame drains the event queue and then runs one engine frame, so tasks
// drained here are visible to this frame's update. Nothing runs, and tasks
// stay queued, until the engine is initialized.
func (c *Controller) DrawFrame() error {
	if c.pendingInit {
		if err := c.tryInit(); err != nil {
			return err
		}
	}
	if !c.engine.IsInitialized() {
		return ErrInitDeferred
	}

	c.queue.Drain()
	c.engine.MainLoop()
	c.frames++

	if c.onFrame != nil {
		c.onFrame()
	}
	return nil
}

// Params returns the init parameters the controller would use right now.
func (c *Controller) Params() core.InitParams {
	return core.InitParams{
		Width:       c.width,
		Height:      c.height,
		AppName:     c.info.AppName,
		AssetPath:   c.info.AssetPath,
		StoragePath: c.info.StoragePath,
		Locale:      c.info.Locale,
	}
}

// Frames returns how many frames have been drawn.
func (c *Controller) Frames() uint64 {
	return c.frames
}

func (c *Controller) tryInit() error {
	params := c.Params()
	if err := params.Validate(); err != nil {
		c.logger.Debug("init deferred", "reason", err)
		return fmt.Errorf("%w: %w", ErrInitDeferred, err)
	}

	c.pendingInit = false
	if err := c.engine.Initialize(params); err != nil {
		c.logger.Error("engine initialization failed", "error", err)
		return fmt.Errorf("surface: initialize engine: %w", err)
	}
	c.logger.Info("engine initialized",
		"app", params.AppName,
		"size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"locale", params.Locale,
	)
	return nil
}
