// Package host is the application root. It owns the UI goroutine, the render
// view, the lifecycle broadcaster, the connectivity monitor, the touch
// translator, the dialog bridge and the SDK services for one engine core,
// and exposes the window-system entry points that feed them.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/netstate"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/services"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/surface"
	"github.com/vovakirdan/gamehost/internal/touch"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// ErrFinished is returned by Run once the host was destroyed.
var ErrFinished = errors.New("host: finished")

// Options configures a Host. Config is required.
type Options struct {
	Config *config.Config
	Store  *storage.Store // Prefs, scores and purchases; services degrade without it
	Clock  clock.WithTickerAndDelayedExecution
	Logger *log.Logger

	// UI runs UI-goroutine work. When nil the host owns a Looper driven by Run.
	UI uithread.Poster

	Presenter       dialog.Presenter
	Notify          func(message string)
	ShowLeaderboard func(board string, entries []storage.ScoreEntry)
	Clipboard       io.Writer
	OpenURL         func(url string) error
	Player          string
	Locale          string

	// Probe overrides the connectivity probe used when polling is enabled.
	Probe netstate.Probe

	// Quit runs once, on the UI goroutine, after the host was destroyed.
	Quit func()
}

// Host ties one engine core to the window system.
type Host struct {
	cfg    *config.Config
	clock  clock.WithTickerAndDelayedExecution
	logger *log.Logger
	probe  netstate.Probe
	quit   func()

	looper *uithread.Looper
	ui     uithread.Poster

	engine     engine.Core
	view       *surface.View
	broadcast  *lifecycle.Broadcaster
	network    *netstate.Monitor
	translator *touch.Translator
	mobile     touch.MobileTracker
	dialogs    *dialog.Bridge
	services   *services.Services

	visible    atomic.Bool
	foreground atomic.Bool
	destroyed  atomic.Bool
	finishing  atomic.Bool
	done       chan struct{}
}

var _ registry.Platform = (*Host)(nil)

// New creates a host and the engine core produced by factory.
func New(factory registry.Factory, opts Options) (*Host, error) {
	if opts.Config == nil {
		return nil, errors.New("host: config is required")
	}
	if factory == nil {
		return nil, errors.New("host: no engine factory")
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = OpenURL
	}
	if opts.Locale == "" {
		opts.Locale = SystemLocale()
	}

	h := &Host{
		cfg:    opts.Config,
		clock:  opts.Clock,
		logger: opts.Logger,
		probe:  opts.Probe,
		quit:   opts.Quit,
		ui:     opts.UI,
		done:   make(chan struct{}),
	}
	if h.ui == nil {
		h.looper = uithread.NewLooper(h.logger)
		h.ui = h.looper
	}
	h.broadcast = lifecycle.NewBroadcaster(h.logger.WithPrefix("lifecycle"))

	h.engine = factory(h)
	if h.engine == nil {
		return nil, errors.New("host: factory returned no engine")
	}

	storagePath, err := h.cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	h.view = surface.NewView(h.engine, surface.HostInfo{
		AppName:     h.cfg.App.Name,
		AssetPath:   h.cfg.App.AssetPath,
		StoragePath: storagePath,
		Locale:      opts.Locale,
	}, surface.ViewConfig{
		FPS:    h.cfg.Render.FPS,
		Clock:  h.clock,
		Logger: h.logger.WithPrefix("render"),
	})
	q := h.view.Queue()

	h.dialogs = dialog.NewBridge(h.ui, q, h.engine, h.logger.WithPrefix("dialog"))
	h.dialogs.SetPresenter(opts.Presenter)
	h.translator = touch.NewTranslator(q, h.engine, h.view.Height)

	h.services = services.New(services.Env{
		UI:              h.ui,
		Queue:           q,
		Dialogs:         h.dialogs,
		Store:           opts.Store,
		Config:          h.cfg.Services,
		Package:         h.cfg.App.Package,
		AppName:         h.cfg.App.Name,
		Player:          opts.Player,
		Clock:           h.clock,
		Logger:          h.logger.WithPrefix("services"),
		Foreground:      h.Foreground,
		OpenURL:         opts.OpenURL,
		Notify:          opts.Notify,
		ShowLeaderboard: opts.ShowLeaderboard,
		Clipboard:       opts.Clipboard,
		ActivityResult:  h.ActivityResult,
	}, h.engine)
	for _, l := range h.services.Listeners() {
		h.broadcast.Register(l)
	}

	h.network = netstate.NewMonitor(h.ui, h.broadcast.NetworkStateChanged, netstate.Options{
		Clock:  h.clock,
		Delay:  h.cfg.Network.Debounce,
		Logger: h.logger.WithPrefix("network"),
	})
	return h, nil
}

// Engine returns the hosted core.
func (h *Host) Engine() engine.Core { return h.engine }

// View returns the render view.
func (h *Host) View() *surface.View { return h.view }

// Dialogs returns the dialog bridge.
func (h *Host) Dialogs() *dialog.Bridge { return h.dialogs }

// Network returns the connectivity monitor.
func (h *Host) Network() *netstate.Monitor { return h.network }

// Config implements registry.Platform.
func (h *Host) Config() engine.ConfigReader { return h.cfg.Values }

// Services implements registry.Platform.
func (h *Host) Services() *services.Services { return h.services }

// Logger implements registry.Platform.
func (h *Host) Logger() *log.Logger { return h.logger }

// ShowMessage implements registry.Platform.
func (h *Host) ShowMessage(title, message string) {
	h.dialogs.ShowMessage(title, message)
}

// ShowConfirm implements registry.Platform.
func (h *Host) ShowConfirm(title, message string) {
	h.dialogs.ShowConfirm(title, message)
}

// AddListener implements registry.Platform.
func (h *Host) AddListener(l lifecycle.Listener) {
	h.broadcast.Register(l)
}

// Foreground reports whether the host is resumed.
func (h *Host) Foreground() bool { return h.foreground.Load() }

// Done is closed once the host was destroyed.
func (h *Host) Done() <-chan struct{} { return h.done }

// Run drives the UI looper (when owned), the render goroutine and the
// connectivity poller until ctx is cancelled or the host is destroyed.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if h.looper != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.looper.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.view.Run(ctx)
	}()

	if h.cfg.Network.Probe {
		poller := &netstate.Poller{
			Clock:    h.clock,
			Interval: h.cfg.Network.ProbeInterval,
			Probe:    h.probe,
			Report:   h.ConnectivityChanged,
			Logger:   h.logger.WithPrefix("probe"),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	}

	h.logger.Info("host running", "app", h.cfg.App.Name, "fps", h.cfg.Render.FPS)

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-h.done:
		err = ErrFinished
	}
	cancel()
	wg.Wait()
	h.network.Stop()

	h.logger.Info("host stopped", "frames", h.view.Controller().Frames())
	return err
}

// Start reports that the host became visible.
func (h *Host) Start() { h.ui.Post(h.start) }

// Resume reports that the host gained focus.
func (h *Host) Resume() { h.ui.Post(h.resume) }

// Pause reports that the host lost focus.
func (h *Host) Pause() { h.ui.Post(h.pause) }

// Stop reports that the host is no longer visible.
func (h *Host) Stop() { h.ui.Post(h.stop) }

// Destroy tears the host down.
func (h *Host) Destroy() { h.ui.Post(h.destroy) }

// Finish walks the host down through pause and stop to destroy, the way a
// window closed by the user goes away.
func (h *Host) Finish() {
	if !h.finishing.CompareAndSwap(false, true) {
		return
	}
	h.ui.Post(func() {
		if h.foreground.Load() {
			h.pause()
		}
		if h.visible.Load() {
			h.stop()
		}
		h.destroy()
	})
}

func (h *Host) alive() bool {
	return !h.destroyed.Load()
}

func (h *Host) start() {
	if !h.alive() || !h.visible.CompareAndSwap(false, true) {
		return
	}
	h.broadcast.Start()
}

func (h *Host) resume() {
	if !h.alive() || !h.foreground.CompareAndSwap(false, true) {
		return
	}
	h.view.Resume()
	h.broadcast.Resume()
}

func (h *Host) pause() {
	if !h.alive() || !h.foreground.CompareAndSwap(true, false) {
		return
	}
	h.broadcast.Pause()
	h.view.Pause()
	h.logger.Debug("paused", "pointers", len(h.translator.Active()), "dialogs", h.dialogs.Open())
}

func (h *Host) stop() {
	if !h.alive() || !h.visible.CompareAndSwap(true, false) {
		return
	}
	h.broadcast.Stop()
}

func (h *Host) destroy() {
	if !h.destroyed.CompareAndSwap(false, true) {
		return
	}
	if n := h.dialogs.DismissAll(); n > 0 {
		h.logger.Debug("dismissed open dialogs", "count", n)
	}
	h.broadcast.Destroy()
	if h.network.Pending() {
		h.logger.Debug("dropping pending connectivity change")
	}
	h.network.Stop()
	close(h.done)
	h.logger.Info("host destroyed")
	if h.quit != nil {
		h.quit()
	}
}

// BackPressed offers the back action to every listener. When nobody
// consumed it the host finishes.
func (h *Host) BackPressed() {
	h.ui.Post(func() {
		if !h.alive() {
			return
		}
		if h.broadcast.BackPressed() {
			return
		}
		h.logger.Debug("back not handled, finishing")
		h.Finish()
	})
}

// ActivityResult hands the result of a launched flow to the listeners.
func (h *Host) ActivityResult(r lifecycle.ActivityResult) {
	h.ui.Post(func() {
		if !h.alive() {
			return
		}
		if !h.broadcast.ActivityResult(r) {
			h.logger.Warn("unhandled activity result", "request", r.RequestCode, "result", r.ResultCode)
		}
	})
}

// ConnectivityChanged feeds a raw connectivity observation to the debounced
// monitor.
func (h *Host) ConnectivityChanged(connected bool) {
	h.ui.Post(func() {
		if h.alive() {
			h.network.Report(connected)
		}
	})
}

// Touch translates a motion event into queued engine touch events.
func (h *Host) Touch(ev touch.MotionEvent) {
	h.ui.Post(func() {
		if h.alive() {
			h.translator.Handle(ev)
		}
	})
}

// Resize reports the surface size. It is ordered with touch events so a
// touch is always flipped against the size it was reported under.
func (h *Host) Resize(width, height int) {
	h.ui.Post(func() {
		if h.alive() {
			h.view.Resize(width, height)
		}
	})
}

// RecreateSurface reports that the drawing surface was (re)created.
func (h *Host) RecreateSurface() {
	h.ui.Post(func() {
		if h.alive() {
			h.view.SurfaceCreated()
		}
	})
}
