// Package paint implements a multi-touch finger painting core. Every active
// pointer paints in its own color; the toolbar clears the canvas (after a
// confirmation), shares it to the clipboard and shows an about box.
package paint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/gamehost/internal/apps"
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/registry"
)

// ID is the registry id of the app.
const ID = "paint"

// Defaults used when the config has no value.
const (
	DefaultBrush = '●'
	CursorChar   = '+'
)

// Toolbar buttons.
const (
	buttonClear = "clear"
	buttonShare = "share"
	buttonAbout = "about"
)

type point struct {
	x, y float32
}

// App is the paint core. All methods run on the render goroutine.
type App struct {
	platform registry.Platform

	initialized bool
	width       int
	height      int
	brush       rune
	trail       bool

	canvas  *core.Screen
	toolbar *apps.Toolbar
	active  map[int]point
	pressed map[int]string // Pointer id to toolbar button it went down on

	status  string
	reloads int
	frames  uint64
}

var (
	_ engine.Core     = (*App)(nil)
	_ engine.Renderer = (*App)(nil)
	_ engine.Resizer  = (*App)(nil)
)

// New creates the paint core.
func New(p registry.Platform) *App {
	return &App{
		platform: p,
		active:   make(map[int]point),
		pressed:  make(map[int]string),
	}
}

func init() {
	registry.Register(registry.AppInfo{
		ID:          ID,
		Title:       "Finger Paint",
		Description: "Multi-touch painting with clear/share/about dialogs",
	}, func(p registry.Platform) engine.Core { return New(p) })
}

func (a *App) IsInitialized() bool { return a.initialized }

// Initialize sets up the canvas and reads the brush settings.
func (a *App) Initialize(params core.InitParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	a.brush = DefaultBrush
	a.trail = true
	if cfg := a.platform.Config(); cfg != nil {
		if s := cfg.ConfigString("paint.brush"); s != "" {
			a.brush = []rune(s)[0]
		}
		if cfg.HasConfigValue("paint.trail") {
			a.trail = cfg.ConfigBool("paint.trail")
		}
	}

	a.width, a.height = params.Width, params.Height
	a.canvas = core.NewScreen(a.width, a.height)
	a.toolbar = apps.NewToolbar(0, []string{buttonClear, buttonShare, buttonAbout}, []string{"clear", "share", "about"})
	a.status = "touch to paint"
	a.initialized = true
	return nil
}

// ReloadAssets has nothing to restore; the canvas lives in memory.
func (a *App) ReloadAssets() {
	a.reloads++
}

func (a *App) MainLoop() {
	a.frames++
}

// OnResize keeps the top-left part of the canvas.
func (a *App) OnResize(width, height int) {
	a.width, a.height = width, height
	a.canvas.Resize(width, height)
}

func (a *App) OnTouchDown(x, y float32, id int) {
	if b := a.toolbar.Hit(x, y, a.height); b != "" {
		a.pressed[id] = b
		return
	}
	a.active[id] = point{x, y}
	a.canvas.Plot(x, y, a.brush, core.ColorForPointer(id))
}

func (a *App) OnTouchMoved(x, y float32, id int) {
	if _, ok := a.pressed[id]; ok {
		return
	}
	if _, ok := a.active[id]; !ok {
		return
	}
	a.active[id] = point{x, y}
	if a.trail {
		a.canvas.Plot(x, y, a.brush, core.ColorForPointer(id))
	}
}

func (a *App) OnTouchUp(x, y float32, id int) {
	if b, ok := a.pressed[id]; ok {
		delete(a.pressed, id)
		// A button fires only when released over itself.
		if a.toolbar.Hit(x, y, a.height) == b {
			a.press(b)
		}
		return
	}
	if _, ok := a.active[id]; ok {
		a.canvas.Plot(x, y, a.brush, core.ColorForPointer(id))
		delete(a.active, id)
	}
}

func (a *App) press(button string) {
	switch button {
	case buttonClear:
		a.platform.ShowConfirm("Clear canvas", "Erase the whole painting?")
	case buttonShare:
		a.share()
	case buttonAbout:
		a.platform.ShowMessage("Finger Paint", "Paint with one or more pointers. Each pointer has its own color.")
	}
}

func (a *App) share() {
	svc := a.platform.Services()
	if svc == nil || svc.Sharing == nil {
		a.status = "sharing unavailable"
		return
	}
	if err := svc.Sharing.Text(a.Picture()); err != nil {
		a.status = "share failed: " + err.Error()
		return
	}
	a.status = "copied to " + svc.Sharing.Name()
	if svc.Analytics != nil {
		svc.Analytics.Send("paint_shared", map[string]string{"cells": fmt.Sprint(a.painted())})
	}
}

func (a *App) OnMessageDialogClosed() {
	a.status = "about closed"
}

func (a *App) OnConfirmDialogClosed(confirmed bool) {
	if !confirmed {
		a.status = "kept the painting"
		return
	}
	a.canvas.Clear()
	a.status = "canvas cleared"
}

// Picture returns the painted cells as text, trailing blank rows trimmed.
func (a *App) Picture() string {
	if a.canvas == nil {
		return ""
	}
	rows := strings.Split(a.canvas.String(), "\n")
	for i := range rows {
		rows[i] = strings.TrimRight(rows[i], " ")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

func (a *App) painted() int {
	n := 0
	for y := 0; y < a.canvas.Height(); y++ {
		for x := 0; x < a.canvas.Width(); x++ {
			if a.canvas.Get(x, y) != ' ' {
				n++
			}
		}
	}
	return n
}

// Status returns the status line text.
func (a *App) Status() string {
	return a.status
}

// Render draws the canvas, active pointers, toolbar and status line.
func (a *App) Render(dst *core.Screen) {
	if !a.initialized {
		dst.DrawTextCentered(dst.Height()/2, "waiting for surface...", core.ColorGray)
		return
	}

	for y := 0; y < a.canvas.Height(); y++ {
		for x := 0; x < a.canvas.Width(); x++ {
			if c := a.canvas.GetCell(x, y); c.Rune != ' ' {
				dst.SetCell(x, y, c)
			}
		}
	}

	ids := make([]int, 0, len(a.active))
	for id := range a.active {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		p := a.active[id]
		dst.Plot(p.x, p.y, CursorChar, core.ColorWhite)
	}

	var pressed string
	for _, b := range a.pressed {
		pressed = b
	}
	a.toolbar.Draw(dst, pressed)

	line := fmt.Sprintf(" pointers: %d | %s", len(a.active), a.status)
	dst.DrawText(0, dst.Height()-1, line, core.ColorGray)
}
