// Package tapper implements a timed tap-the-target core that exercises the
// SDK services: scores go to the leaderboard, a rewarded video grants bonus
// points, an interstitial runs between rounds and "no ads" is a purchase.
package tapper

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/gamehost/internal/apps"
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/services"
)

// ID is the registry id of the app and its default leaderboard.
const ID = "tapper"

// Gameplay defaults, overridable through tapper.* config values.
const (
	DefaultGoal        = 50
	DefaultBonus       = 10
	DefaultSpeed       = 1.0 // Target jumps per second
	DefaultRoundFrames = 900 // 30 seconds at 30 FPS
	FramesPerSecond    = 30
	TargetW            = 5
	TargetH            = 3
	TargetChar         = '█'
)

// Product aliases.
const (
	ProductRemoveAds = "remove_ads"
	ProductCoins     = "coins"
	coinsPerPack     = 100
)

// Toolbar buttons.
const (
	buttonBonus  = "bonus"
	buttonNoAds  = "noads"
	buttonScores = "scores"
	buttonReset  = "reset"
)

type phase int

const (
	phasePlaying phase = iota
	phaseOver          // Waiting for the round-over message to close
)

// App is the tapper core. All methods run on the render goroutine.
type App struct {
	platform registry.Platform
	rng      *rand.Rand

	initialized bool
	width       int
	height      int

	goal        int
	bonus       int
	moveEvery   int
	roundFrames int

	phase      phase
	score      int
	best       int
	framesLeft int
	frames     uint64
	target     core.Rect
	goalHit    bool

	coins     int
	noAds     bool
	available map[string]bool

	toolbar *apps.Toolbar
	pressed map[int]string
	status  string
}

var (
	_ engine.Core            = (*App)(nil)
	_ engine.Renderer        = (*App)(nil)
	_ engine.Resizer         = (*App)(nil)
	_ services.AdsSink       = (*App)(nil)
	_ services.PurchasesSink = (*App)(nil)
)

// New creates the tapper core with a fixed seed.
func New(p registry.Platform, seed int64) *App {
	return &App{
		platform:  p,
		rng:       rand.New(rand.NewSource(seed)),
		pressed:   make(map[int]string),
		available: make(map[string]bool),
	}
}

func init() {
	registry.Register(registry.AppInfo{
		ID:          ID,
		Title:       "Tapper",
		Description: "Tap the moving target; leaderboards, ads and purchases",
	}, func(p registry.Platform) engine.Core { return New(p, 1) })
}

func (a *App) IsInitialized() bool { return a.initialized }

// Initialize reads the tuning values and starts the services the game uses.
func (a *App) Initialize(params core.InitParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	a.goal, a.bonus = DefaultGoal, DefaultBonus
	speed := DefaultSpeed
	a.roundFrames = DefaultRoundFrames
	if cfg := a.platform.Config(); cfg != nil {
		if cfg.HasConfigValue("tapper.goal") {
			a.goal = cfg.ConfigInt("tapper.goal")
		}
		if cfg.HasConfigValue("tapper.bonus") {
			a.bonus = cfg.ConfigInt("tapper.bonus")
		}
		if cfg.HasConfigValue("tapper.speed") {
			speed = cfg.ConfigFloat("tapper.speed")
		}
		if cfg.HasConfigValue("tapper.round_frames") {
			a.roundFrames = cfg.ConfigInt("tapper.round_frames")
		}
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	a.moveEvery = core.Max(1, int(FramesPerSecond/speed))

	a.width, a.height = params.Width, params.Height
	a.toolbar = apps.NewToolbar(0,
		[]string{buttonBonus, buttonNoAds, buttonScores, buttonReset},
		[]string{"bonus", "no ads", "scores", "reset"})
	a.initialized = true

	thanked := false
	if svc := a.platform.Services(); svc != nil {
		if err := svc.Purchases.FetchProducts(); err != nil {
			a.platform.Logger().Warn("purchases unavailable", "error", err)
		}
		svc.Ads.ShowBanner()
		svc.Ads.CacheInterstitial()
		svc.Ads.CacheRewardedVideo()
		if shown, err := svc.Store.RequestRateApp(); err == nil && shown {
			thanked = true
		}
	}

	// The banner must be up before the first target is placed.
	a.newRound()
	if thanked {
		a.status = "thanks for playing"
	}
	return nil
}

func (a *App) newRound() {
	a.phase = phasePlaying
	a.score = 0
	a.goalHit = false
	a.framesLeft = a.roundFrames
	a.moveTarget()
	a.status = "tap the target"
}

// field is the area the target moves in: below the toolbar and banner,
// above the status line.
func (a *App) field() core.Rect {
	top := 2 + a.bannerHeight()
	return core.NewRect(0, top, a.width, core.Max(TargetH, a.height-top-1))
}

func (a *App) bannerHeight() int {
	if svc := a.platform.Services(); svc != nil && !a.noAds {
		return svc.Ads.BannerHeight()
	}
	return 0
}

func (a *App) moveTarget() {
	f := a.field()
	x := f.X + a.rng.Intn(core.Max(1, f.W-TargetW+1))
	y := f.Y + a.rng.Intn(core.Max(1, f.H-TargetH+1))
	a.target = core.NewRect(x, y, TargetW, TargetH)
}

// Target returns the current target rectangle in surface cells.
func (a *App) Target() core.Rect { return a.target }

// Score returns the current round score.
func (a *App) Score() int { return a.score }

// Coins returns the purchased coin balance.
func (a *App) Coins() int { return a.coins }

// Status returns the status line text.
func (a *App) Status() string { return a.status }

func (a *App) ReloadAssets() {
	a.status = "welcome back"
}

func (a *App) OnResize(width, height int) {
	a.width, a.height = width, height
	if !a.field().Contains(a.target.X, a.target.Y) {
		a.moveTarget()
	}
}

// MainLoop advances the round clock and moves the target.
func (a *App) MainLoop() {
	a.frames++
	if a.phase != phasePlaying {
		return
	}

	a.framesLeft--
	if a.framesLeft <= 0 {
		a.endRound()
		return
	}
	if a.frames%uint64(a.moveEvery) == 0 {
		a.moveTarget()
	}
}

func (a *App) endRound() {
	a.phase = phaseOver
	if a.score > a.best {
		a.best = a.score
	}

	svc := a.platform.Services()
	if svc != nil {
		if err := svc.Leaderboards.SubmitScore(ID, a.score); err != nil {
			a.platform.Logger().Debug("score not submitted", "error", err)
		}
		svc.Analytics.Send("round_over", map[string]string{"score": fmt.Sprint(a.score)})
	}
	a.platform.ShowMessage("Round over", fmt.Sprintf("You scored %d (best %d).", a.score, a.best))
}

func (a *App) OnTouchDown(x, y float32, id int) {
	if b := a.toolbar.Hit(x, y, a.height); b != "" {
		a.pressed[id] = b
		return
	}
	if a.phase != phasePlaying {
		return
	}

	col, row := core.CellAt(x, y, a.height)
	if !a.target.Contains(col, row) {
		return
	}
	a.score++
	a.moveTarget()
	if !a.goalHit && a.score >= a.goal {
		a.goalHit = true
		a.status = "goal reached!"
		if svc := a.platform.Services(); svc != nil {
			svc.Analytics.Send("goal_reached", map[string]string{"goal": fmt.Sprint(a.goal)})
		}
	}
}

func (a *App) OnTouchMoved(x, y float32, id int) {}

func (a *App) OnTouchUp(x, y float32, id int) {
	b, ok := a.pressed[id]
	if !ok {
		return
	}
	delete(a.pressed, id)
	if a.toolbar.Hit(x, y, a.height) == b {
		a.press(b)
	}
}

func (a *App) press(button string) {
	svc := a.platform.Services()
	switch button {
	case buttonReset:
		a.platform.ShowConfirm("Reset", "Start a new round? The current score is lost.")
	case buttonBonus:
		if svc == nil {
			return
		}
		if err := svc.Ads.ShowRewardedVideo(); err != nil {
			a.status = "no bonus available"
			svc.Ads.CacheRewardedVideo()
		}
	case buttonNoAds:
		if svc == nil {
			return
		}
		if a.noAds {
			a.status = "ads already removed"
			return
		}
		if err := svc.Purchases.PurchaseProduct(ProductRemoveAds); err != nil {
			a.status = "store unavailable"
		}
	case buttonScores:
		if svc == nil {
			return
		}
		if err := svc.Leaderboards.Open(ID); err != nil {
			a.status = "leaderboard unavailable"
		}
	}
}

// OnMessageDialogClosed follows the round-over message.
func (a *App) OnMessageDialogClosed() {
	if a.phase != phaseOver {
		return
	}
	if svc := a.platform.Services(); svc != nil && !a.noAds {
		if err := svc.Ads.ShowInterstitial(); err == nil {
			a.status = "ad break"
			return
		}
	}
	a.newRound()
}

// OnConfirmDialogClosed follows the reset confirmation.
func (a *App) OnConfirmDialogClosed(confirmed bool) {
	if confirmed {
		a.newRound()
		a.status = "round restarted"
	}
}

func (a *App) OnInterstitialClosed() {
	if svc := a.platform.Services(); svc != nil {
		svc.Ads.CacheInterstitial()
	}
	if a.phase == phaseOver {
		a.newRound()
	}
}

func (a *App) OnRewardedVideoSuccess() {
	if a.phase == phasePlaying {
		a.score += a.bonus
	}
	a.status = fmt.Sprintf("bonus +%d", a.bonus)
	if svc := a.platform.Services(); svc != nil {
		svc.Ads.CacheRewardedVideo()
	}
}

func (a *App) OnRewardedVideoFail() {
	a.status = "no bonus this time"
	if svc := a.platform.Services(); svc != nil {
		svc.Ads.CacheRewardedVideo()
	}
}

// OnProductsFetched restores earlier purchases once the catalog is known.
func (a *App) OnProductsFetched(aliases []string) {
	clear(a.available)
	for _, alias := range aliases {
		a.available[alias] = true
	}
	if svc := a.platform.Services(); svc != nil {
		if err := svc.Purchases.RestoreProducts(); err != nil {
			a.platform.Logger().Warn("cannot restore purchases", "error", err)
		}
	}
}

func (a *App) OnProductPurchased(alias string) {
	switch alias {
	case ProductRemoveAds:
		a.noAds = true
		if svc := a.platform.Services(); svc != nil {
			svc.Ads.Suppress()
		}
		a.status = "ads removed"
	case ProductCoins:
		a.coins += coinsPerPack
		a.status = fmt.Sprintf("+%d coins", coinsPerPack)
	}
}

// Render draws the toolbar, banner, target and status line.
func (a *App) Render(dst *core.Screen) {
	if !a.initialized {
		dst.DrawTextCentered(dst.Height()/2, "waiting for surface...", core.ColorGray)
		return
	}

	var pressed string
	for _, b := range a.pressed {
		pressed = b
	}
	a.toolbar.Draw(dst, pressed)

	if h := a.bannerHeight(); h > 0 {
		banner := core.NewRect(0, 1, dst.Width(), h)
		dst.DrawRect(banner, '░', core.ColorGray)
		dst.DrawTextCentered(1, " your ad here ", core.ColorYellow)
	}

	if a.phase == phasePlaying {
		dst.DrawRect(a.target, TargetChar, core.ColorBrightGreen)
	} else {
		dst.DrawTextCentered(dst.Height()/2, "ROUND OVER", core.ColorBrightRed)
	}

	secs := (core.Max(a.framesLeft, 0) + FramesPerSecond - 1) / FramesPerSecond
	line := fmt.Sprintf(" score %d/%d | best %d | %2ds | coins %d | %s",
		a.score, a.goal, a.best, secs, a.coins, a.status)
	dst.DrawText(0, dst.Height()-1, line, core.ColorGray)
}
