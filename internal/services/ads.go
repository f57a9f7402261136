package services

import (
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
)

// ErrAdNotReady is returned when showing an ad that was not cached.
var ErrAdNotReady = errors.New("ads: not cached")

// AdsProvider is the ads API exposed to engine cores.
type AdsProvider interface {
	BannerHeight() int
	BannerShown() bool
	ShowBanner()
	HideBanner()

	InterstitialReady() bool
	CacheInterstitial()
	ShowInterstitial() error

	RewardedVideoReady() bool
	CacheRewardedVideo()
	ShowRewardedVideo() error
}

// AdsSink receives ad outcomes on the render goroutine.
type AdsSink interface {
	OnInterstitialClosed()
	OnRewardedVideoSuccess()
	OnRewardedVideoFail()
}

// DialogAds shows house ads as host dialogs.
type DialogAds struct {
	cfg     config.AdsConfig
	dialogs *dialog.Bridge
	queue   *eventqueue.Queue
	sink    AdsSink
	logger  *log.Logger

	banner       atomic.Bool
	interstitial atomic.Bool
	rewarded     atomic.Bool
	suppressed   atomic.Bool
}

var _ AdsProvider = (*DialogAds)(nil)

// NewDialogAds creates the house-ads provider. sink may be nil.
func NewDialogAds(env Env, sink AdsSink, logger *log.Logger) *DialogAds {
	return &DialogAds{
		cfg:     env.Config.Ads,
		dialogs: env.Dialogs,
		queue:   env.Queue,
		sink:    sink,
		logger:  logger,
	}
}

func (a *DialogAds) enabled() bool {
	return a.cfg.Enabled && !a.suppressed.Load() && a.dialogs != nil
}

// Suppress turns ads off for the rest of the session, e.g. after a
// "remove ads" purchase. Rewarded videos stay available.
func (a *DialogAds) Suppress() {
	a.suppressed.Store(true)
	a.banner.Store(false)
	a.interstitial.Store(false)
}

// BannerHeight returns the rows the banner occupies while shown.
func (a *DialogAds) BannerHeight() int {
	if !a.BannerShown() {
		return 0
	}
	return a.cfg.BannerHeight
}

func (a *DialogAds) BannerShown() bool { return a.banner.Load() }

func (a *DialogAds) ShowBanner() {
	if !a.enabled() {
		return
	}
	a.banner.Store(true)
}

func (a *DialogAds) HideBanner() { a.banner.Store(false) }

func (a *DialogAds) InterstitialReady() bool { return a.interstitial.Load() }

func (a *DialogAds) CacheInterstitial() {
	if a.enabled() && a.cfg.Interstitial != "" {
		a.interstitial.Store(true)
	}
}

// ShowInterstitial presents the cached interstitial. OnInterstitialClosed
// follows once it is closed.
func (a *DialogAds) ShowInterstitial() error {
	if !a.interstitial.CompareAndSwap(true, false) {
		return ErrAdNotReady
	}
	a.logger.Debug("showing interstitial")
	a.dialogs.Tell("Advertisement", a.cfg.Interstitial, func() {
		a.deliver(func(s AdsSink) { s.OnInterstitialClosed() })
	})
	return nil
}

func (a *DialogAds) RewardedVideoReady() bool { return a.rewarded.Load() }

func (a *DialogAds) CacheRewardedVideo() {
	if a.cfg.Enabled && a.dialogs != nil && a.cfg.Rewarded != "" {
		a.rewarded.Store(true)
	}
}

// ShowRewardedVideo offers the cached rewarded video. Accepting it reports
// OnRewardedVideoSuccess; skipping or dismissing reports OnRewardedVideoFail.
// Showing an uncached video reports OnRewardedVideoFail right away.
func (a *DialogAds) ShowRewardedVideo() error {
	if !a.rewarded.CompareAndSwap(true, false) {
		a.deliver(func(s AdsSink) { s.OnRewardedVideoFail() })
		return ErrAdNotReady
	}
	a.logger.Debug("showing rewarded video")
	a.dialogs.Ask("Bonus", a.cfg.Rewarded, "Watch", "Skip", func(watched bool) {
		if watched {
			a.deliver(func(s AdsSink) { s.OnRewardedVideoSuccess() })
			return
		}
		a.deliver(func(s AdsSink) { s.OnRewardedVideoFail() })
	})
	return nil
}

func (a *DialogAds) deliver(fn func(AdsSink)) {
	if a.sink == nil || a.queue == nil {
		return
	}
	sink := a.sink
	a.queue.Enqueue(func() { fn(sink) })
}
