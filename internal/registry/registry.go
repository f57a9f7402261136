// Package registry provides a global registry for engine core factories.
// Apps register themselves in init() functions, allowing hosts to discover
// and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/services"
)

// Platform is what a host offers an engine core. Factories should only keep
// the platform; Services is available once the core is initialized.
type Platform interface {
	// Config returns the application's free-form values.
	Config() engine.ConfigReader

	// ShowMessage and ShowConfirm request dialogs; outcomes arrive through
	// the core's OnMessageDialogClosed and OnConfirmDialogClosed.
	ShowMessage(title, message string)
	ShowConfirm(title, message string)

	Services() *services.Services

	// AddListener registers a lifecycle listener. Listeners run on the UI
	// goroutine and must hand work to the core through the event queue.
	AddListener(l lifecycle.Listener)

	Logger() *log.Logger
}

// AppInfo contains metadata about a registered app.
type AppInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new engine core bound to a platform.
type Factory func(p Platform) engine.Core

type entry struct {
	info    AppInfo
	factory Factory
}

var (
	apps = make(map[string]entry)
	mu   sync.RWMutex
)

// Register adds an app factory to the registry.
// Typically called from an app's init() function.
// Panics if an app with the same ID is already registered.
func Register(info AppInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if info.ID == "" {
		panic("registry: app without ID")
	}
	if _, exists := apps[info.ID]; exists {
		panic(fmt.Sprintf("registry: app %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	apps[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered apps, sorted by ID.
func List() []AppInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]AppInfo, 0, len(apps))
	for _, e := range apps {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the metadata of a registered app.
func Lookup(id string) (AppInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := apps[id]
	return e.info, ok
}

// FactoryFor returns the factory registered under id.
// Returns an error if the app ID is not registered.
func FactoryFor(id string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := apps[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown app %q", id)
	}
	return e.factory, nil
}

// Exists checks if an app with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := apps[id]
	return ok
}
