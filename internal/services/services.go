// Package services implements the SDK services an engine core can call:
// ads, in-app purchases, leaderboards, notifications, sharing, store links
// and analytics. Each service that reacts to the host lifecycle is a
// lifecycle.Listener; results travel back to the engine through the event
// queue so they arrive on the render goroutine.
package services

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// ErrDisabled is returned by services switched off in the configuration.
var ErrDisabled = errors.New("services: disabled")

// Env is everything the services need from the host.
type Env struct {
	UI      uithread.Poster
	Queue   *eventqueue.Queue
	Dialogs *dialog.Bridge
	Store   *storage.Store
	Config  config.ServicesConfig
	Package string // Store package id
	AppName string
	Player  string // Name scores are submitted under

	Clock  clock.WithDelayedExecution
	Logger *log.Logger

	// Foreground reports whether the host window is visible and focused.
	Foreground func() bool
	// OpenURL opens a link outside the host.
	OpenURL func(url string) error
	// Notify shows a notification that fired while the host was in the background.
	Notify func(message string)
	// ShowLeaderboard displays a board. Called on the UI goroutine.
	ShowLeaderboard func(board string, entries []storage.ScoreEntry)
	// Clipboard receives OSC 52 sequences for sharing.
	Clipboard io.Writer
	// ActivityResult feeds results of launched flows back into the host.
	ActivityResult func(r lifecycle.ActivityResult)
}

func (e *Env) setDefaults() {
	if e.UI == nil {
		e.UI = uithread.Inline{}
	}
	if e.Clock == nil {
		e.Clock = clock.RealClock{}
	}
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	if e.Foreground == nil {
		e.Foreground = func() bool { return true }
	}
	if e.Player == "" {
		e.Player = "player"
	}
}

// Services bundles the service implementations for one host.
type Services struct {
	Ads           *DialogAds
	Purchases     *Purchases
	Leaderboards  *LocalLeaderboards
	Notifications *Notifications
	Sharing       *ClipboardSharing
	Store         *StoreLinks
	Analytics     *LogAnalytics
}

// New builds every service from env. Engine-facing callbacks are delivered
// to sink through env.Queue; sink may implement any subset of AdsSink and
// PurchasesSink.
func New(env Env, sink any) *Services {
	env.setDefaults()
	logger := env.Logger

	adsSink, _ := sink.(AdsSink)
	purchasesSink, _ := sink.(PurchasesSink)

	s := &Services{
		Ads:           NewDialogAds(env, adsSink, logger.WithPrefix("ads")),
		Leaderboards:  NewLocalLeaderboards(env, logger.WithPrefix("leaderboards")),
		Notifications: NewNotifications(env, logger.WithPrefix("notifications")),
		Sharing:       NewClipboardSharing(env.Clipboard),
		Store:         NewStoreLinks(env, logger.WithPrefix("store")),
		Analytics:     NewLogAnalytics(logger.WithPrefix("analytics")),
	}

	var billing BillingBackend
	if env.Store != nil {
		billing = NewLocalBilling(env, logger.WithPrefix("billing"))
	}
	s.Purchases = NewPurchases(env, billing, purchasesSink, logger.WithPrefix("purchases"))
	return s
}

// Listeners returns the services that follow the host lifecycle, in
// registration order.
func (s *Services) Listeners() []lifecycle.Listener {
	return []lifecycle.Listener{s.Purchases, s.Leaderboards, s.Notifications}
}
