// Package engine defines the boundary between the host layer and an engine core.
//
// Every Core method is called from the render goroutine only. The host never
// calls into a core from the UI goroutine; it enqueues a task instead.
package engine

import "github.com/vovakirdan/gamehost/internal/core"

// Core is the opaque engine: scene graph, renderer and game logic live behind it.
type Core interface {
	// IsInitialized is the single source of truth for whether Initialize
	// has completed. The host keeps no shadow flag.
	IsInitialized() bool

	// Initialize performs the one-time setup with the gathered host parameters.
	Initialize(params core.InitParams) error

	// ReloadAssets restores GPU-side (or surface-side) resources after the
	// surface was recreated.
	ReloadAssets()

	// MainLoop runs one frame of update and draw.
	MainLoop()

	OnTouchDown(x, y float32, id int)
	OnTouchMoved(x, y float32, id int)
	OnTouchUp(x, y float32, id int)

	OnMessageDialogClosed()
	OnConfirmDialogClosed(confirmed bool)
}

// Renderer is implemented by cores that draw into a cell surface.
type Renderer interface {
	Render(dst *core.Screen)
}

// Resizer is implemented by cores that want to hear about surface size
// changes after initialization.
type Resizer interface {
	OnResize(width, height int)
}

// ConfigReader gives services read-only access to the application config.
// Implementations must be safe to call from any goroutine.
type ConfigReader interface {
	HasConfigValue(name string) bool
	ConfigString(name string) string
	ConfigInt(name string) int
	ConfigFloat(name string) float64
	ConfigBool(name string) bool
}
