package services

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	testclock "k8s.io/utils/clock/testing"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/eventqueue"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// engineSink records every callback the services deliver to the engine.
type engineSink struct {
	calls   []string
	fetched []string
}

func (s *engineSink) OnMessageDialogClosed()       {}
func (s *engineSink) OnConfirmDialogClosed(c bool) {}

func (s *engineSink) OnInterstitialClosed()   { s.calls = append(s.calls, "interstitial") }
func (s *engineSink) OnRewardedVideoSuccess() { s.calls = append(s.calls, "reward") }
func (s *engineSink) OnRewardedVideoFail()    { s.calls = append(s.calls, "no-reward") }

func (s *engineSink) OnProductsFetched(aliases []string) {
	s.fetched = aliases
	s.calls = append(s.calls, "fetched")
}

func (s *engineSink) OnProductPurchased(alias string) {
	s.calls = append(s.calls, "purchased:"+alias)
}

type capture struct {
	dialogs []*dialog.Dialog
}

func (c *capture) Present(d *dialog.Dialog) error {
	c.dialogs = append(c.dialogs, d)
	return nil
}

func (c *capture) last(t *testing.T) *dialog.Dialog {
	t.Helper()
	if len(c.dialogs) == 0 {
		t.Fatal("no dialog presented")
	}
	return c.dialogs[len(c.dialogs)-1]
}

type harness struct {
	env       Env
	svc       *Services
	queue     *eventqueue.Queue
	sink      *engineSink
	presenter *capture
	clock     *testclock.FakeClock
	store     *storage.Store
	clipboard *bytes.Buffer
	opened    []string
	notified  []string
	boards    []string
	fg        bool
}

func testConfig() config.ServicesConfig {
	return config.ServicesConfig{
		Ads: config.AdsConfig{
			Enabled:      true,
			BannerHeight: 2,
			Interstitial: "Break time",
			Rewarded:     "Bonus?",
		},
		Purchases: config.PurchasesConfig{
			PublicKey: "test",
			Products: map[string]config.ProductConfig{
				"remove_ads": {ID: "game.removeads", Title: "Remove ads", Price: "$1"},
				"coins":      {ID: "game.coins", Title: "Coins", Price: "$2", Consumable: true},
			},
		},
		Leaderboards:  config.LeaderboardsConfig{Default: "taps", Limit: 5},
		Notifications: config.NotificationsConfig{Enabled: true},
		Store: config.StoreConfig{
			URLPrefix:            "https://store.example/app?id=",
			RateAppDays:          0,
			RateAppLaunches:      2,
			RateAppRemindingDays: 2,
		},
	}
}

func openStore(t *testing.T, path string) *storage.Store {
	t.Helper()
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newHarness(t *testing.T, cfg config.ServicesConfig) *harness {
	t.Helper()
	return newHarnessWithStore(t, cfg, openStore(t, filepath.Join(t.TempDir(), "services.db")))
}

func newHarnessWithStore(t *testing.T, cfg config.ServicesConfig, store *storage.Store) *harness {
	t.Helper()
	h := &harness{
		queue:     eventqueue.New(nil),
		sink:      &engineSink{},
		presenter: &capture{},
		clock:     testclock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		store:     store,
		clipboard: &bytes.Buffer{},
		fg:        true,
	}
	bridge := dialog.NewBridge(uithread.Inline{}, h.queue, h.sink, nil)
	bridge.SetPresenter(h.presenter)

	h.env = Env{
		UI:         uithread.Inline{},
		Queue:      h.queue,
		Dialogs:    bridge,
		Store:      store,
		Config:     cfg,
		Package:    "io.example.game",
		AppName:    "Game",
		Player:     "tester",
		Clock:      h.clock,
		Foreground: func() bool { return h.fg },
		OpenURL: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
		Notify: func(msg string) { h.notified = append(h.notified, msg) },
		ShowLeaderboard: func(board string, entries []storage.ScoreEntry) {
			h.boards = append(h.boards, board)
		},
		Clipboard: h.clipboard,
		ActivityResult: func(r lifecycle.ActivityResult) {
			h.svc.Purchases.OnActivityResult(r)
		},
	}
	h.svc = New(h.env, h.sink)
	return h
}

func (h *harness) drain() {
	h.queue.Drain()
}

func (h *harness) expectCalls(t *testing.T, expected string) {
	t.Helper()
	if got := strings.Join(h.sink.calls, " "); got != expected {
		t.Errorf("engine calls = %q, expected %q", got, expected)
	}
}

func TestListenersOrder(t *testing.T) {
	h := newHarness(t, testConfig())
	ls := h.svc.Listeners()
	if len(ls) != 3 {
		t.Fatalf("Listeners() returned %d, expected 3", len(ls))
	}
	if ls[0] != lifecycle.Listener(h.svc.Purchases) {
		t.Error("purchases should be registered first")
	}
}

func TestInterstitialClosedReachesEngine(t *testing.T) {
	h := newHarness(t, testConfig())
	ads := h.svc.Ads

	if err := ads.ShowInterstitial(); !errors.Is(err, ErrAdNotReady) {
		t.Errorf("ShowInterstitial() before caching = %v, expected ErrAdNotReady", err)
	}

	ads.CacheInterstitial()
	if !ads.InterstitialReady() {
		t.Fatal("InterstitialReady() = false after caching")
	}
	if err := ads.ShowInterstitial(); err != nil {
		t.Fatalf("ShowInterstitial() failed: %v", err)
	}
	if ads.InterstitialReady() {
		t.Error("interstitial should be used up after showing")
	}

	d := h.presenter.last(t)
	if d.Kind != dialog.KindMessage || d.Message != "Break time" {
		t.Errorf("dialog = %v %q, expected the interstitial message", d, d.Message)
	}
	d.Dismiss()
	h.drain()
	h.expectCalls(t, "interstitial")
}

func TestRewardedVideoOutcomes(t *testing.T) {
	h := newHarness(t, testConfig())
	ads := h.svc.Ads

	ads.CacheRewardedVideo()
	ads.ShowRewardedVideo()
	h.presenter.last(t).Confirm()

	ads.CacheRewardedVideo()
	ads.ShowRewardedVideo()
	h.presenter.last(t).Cancel()

	if err := ads.ShowRewardedVideo(); !errors.Is(err, ErrAdNotReady) {
		t.Errorf("ShowRewardedVideo() uncached = %v, expected ErrAdNotReady", err)
	}

	h.drain()
	h.expectCalls(t, "reward no-reward no-reward")
}

func TestBannerAndSuppress(t *testing.T) {
	h := newHarness(t, testConfig())
	ads := h.svc.Ads

	if ads.BannerHeight() != 0 {
		t.Errorf("BannerHeight() hidden = %d, expected 0", ads.BannerHeight())
	}
	ads.ShowBanner()
	if !ads.BannerShown() || ads.BannerHeight() != 2 {
		t.Errorf("banner shown=%v height=%d, expected true 2", ads.BannerShown(), ads.BannerHeight())
	}

	ads.Suppress()
	if ads.BannerShown() {
		t.Error("Suppress() should hide the banner")
	}
	ads.ShowBanner()
	ads.CacheInterstitial()
	if ads.BannerShown() || ads.InterstitialReady() {
		t.Error("suppressed ads should not show or cache")
	}
	ads.CacheRewardedVideo()
	if !ads.RewardedVideoReady() {
		t.Error("rewarded videos should survive Suppress()")
	}
}

func TestAdsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Ads.Enabled = false
	h := newHarness(t, cfg)

	h.svc.Ads.ShowBanner()
	h.svc.Ads.CacheInterstitial()
	h.svc.Ads.CacheRewardedVideo()
	if h.svc.Ads.BannerShown() || h.svc.Ads.InterstitialReady() || h.svc.Ads.RewardedVideoReady() {
		t.Error("disabled ads should never become ready")
	}
}
