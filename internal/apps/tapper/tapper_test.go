package tapper

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/host"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/touch"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

type fixture struct {
	host    *host.Host
	app     *App
	dialogs []*dialog.Dialog
	boards  []string
}

func testConfig(t *testing.T, roundFrames int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.App.StorageDir = t.TempDir()
	cfg.Network.Probe = false
	cfg.Services.Ads.Interstitial = "Break"
	cfg.Services.Ads.Rewarded = "Bonus?"
	cfg.Services.Purchases.PublicKey = "test"
	cfg.Services.Purchases.Products = map[string]config.ProductConfig{
		ProductRemoveAds: {ID: "tapper.removeads", Title: "Remove ads", Price: "$1"},
		ProductCoins:     {ID: "tapper.coins", Title: "Coins", Price: "$2", Consumable: true},
	}
	cfg.Values = config.Values{
		"tapper.goal":         2,
		"tapper.bonus":        5,
		"tapper.speed":        0.5,
		"tapper.round_frames": roundFrames,
	}
	return &cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tapper.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newFixture(t *testing.T, cfg *config.Config, store *storage.Store) *fixture {
	t.Helper()

	f := &fixture{}
	h, err := host.New(func(p registry.Platform) engine.Core {
		f.app = New(p, 7)
		return f.app
	}, host.Options{
		Config: cfg,
		Store:  store,
		UI:     uithread.Inline{},
		Locale: "en",
		Presenter: dialog.PresenterFunc(func(d *dialog.Dialog) error {
			f.dialogs = append(f.dialogs, d)
			return nil
		}),
		ShowLeaderboard: func(board string, entries []storage.ScoreEntry) {
			f.boards = append(f.boards, board)
		},
	})
	if err != nil {
		t.Fatalf("host.New() failed: %v", err)
	}
	f.host = h

	h.Start()
	h.Resume()
	h.Resize(60, 20)
	h.RecreateSurface()
	f.step(t)
	if !f.app.IsInitialized() {
		t.Fatal("tapper not initialized")
	}
	return f
}

func (f *fixture) step(t *testing.T) {
	t.Helper()
	if err := f.host.View().Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
}

func (f *fixture) tap(col, row int) {
	x, y := core.CellCenter(col, row)
	p := []touch.Pointer{{ID: 0, X: x, Y: y}}
	f.host.Touch(touch.MotionEvent{Action: touch.ActionDown, Pointers: p})
	f.host.Touch(touch.MotionEvent{Action: touch.ActionUp, Pointers: p})
}

func (f *fixture) press(t *testing.T, id string) {
	t.Helper()
	for _, b := range f.app.toolbar.Buttons {
		if b.ID == id {
			f.tap(b.Rect.X+1, b.Rect.Y)
			return
		}
	}
	t.Fatalf("no button %q", id)
}

func (f *fixture) hitTarget() {
	r := f.app.Target()
	f.tap(r.X+1, r.Y+1)
}

func (f *fixture) lastDialog(t *testing.T) *dialog.Dialog {
	t.Helper()
	if len(f.dialogs) == 0 {
		t.Fatal("no dialog presented")
	}
	return f.dialogs[len(f.dialogs)-1]
}

func TestInitializeReadsConfig(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))

	if f.app.goal != 2 || f.app.bonus != 5 || f.app.roundFrames != 100 {
		t.Errorf("goal, bonus, frames = %d, %d, %d, expected 2, 5, 100", f.app.goal, f.app.bonus, f.app.roundFrames)
	}
	if f.app.moveEvery != 60 {
		t.Errorf("moveEvery = %d, expected 60", f.app.moveEvery)
	}
	if h := f.host.Services().Ads.BannerHeight(); h != 1 {
		t.Errorf("BannerHeight() = %d, expected 1", h)
	}
	if r := f.app.Target(); r.Y < 3 || r.Bottom() > 19 {
		t.Errorf("target %+v overlaps the toolbar, banner or status line", r)
	}
}

func TestHitsScoreUntilGoal(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))
	sent := f.host.Services().Analytics.Sent()

	f.hitTarget()
	f.step(t)
	if f.app.Score() != 1 {
		t.Fatalf("Score() = %d after a hit", f.app.Score())
	}

	f.hitTarget()
	f.step(t)
	if f.app.Status() != "goal reached!" {
		t.Errorf("Status() = %q, expected goal reached", f.app.Status())
	}
	if got := f.host.Services().Analytics.Sent() - sent; got != 1 {
		t.Errorf("analytics events = %d, expected 1", got)
	}
}

func TestRoundOverSubmitsScoreAndShowsInterstitial(t *testing.T) {
	f := newFixture(t, testConfig(t, 3), openStore(t))
	f.hitTarget()
	f.step(t)
	f.step(t)

	if f.app.phase != phaseOver {
		t.Fatalf("phase = %d, expected round over", f.app.phase)
	}
	top, err := f.host.Services().Leaderboards.Top(ID)
	if err != nil {
		t.Fatalf("Top() failed: %v", err)
	}
	if len(top) != 1 || top[0].Score != 1 {
		t.Errorf("Top() = %+v, expected one score of 1", top)
	}

	over := f.lastDialog(t)
	if over.Title != "Round over" {
		t.Fatalf("dialog title = %q, expected %q", over.Title, "Round over")
	}
	over.Confirm()
	f.step(t)

	ad := f.lastDialog(t)
	if ad.Title != "Advertisement" {
		t.Fatalf("dialog title = %q, expected the interstitial", ad.Title)
	}
	ad.Confirm()
	f.step(t)

	if f.app.phase != phasePlaying || f.app.Score() != 0 {
		t.Errorf("phase, score = %d, %d, expected a new round", f.app.phase, f.app.Score())
	}
	if !f.host.Services().Ads.InterstitialReady() {
		t.Error("interstitial not cached again")
	}
}

func TestRewardedVideo(t *testing.T) {
	tests := []struct {
		name   string
		watch  bool
		score  int
		status string
	}{
		{"watched", true, 5, "bonus +5"},
		{"skipped", false, 0, "no bonus this time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConfig(t, 100), openStore(t))
			f.press(t, buttonBonus)
			f.step(t)

			d := f.lastDialog(t)
			if d.Positive != "Watch" {
				t.Fatalf("dialog positive button = %q, expected Watch", d.Positive)
			}
			if tt.watch {
				d.Confirm()
			} else {
				d.Cancel()
			}
			f.step(t)

			if f.app.Score() != tt.score || f.app.Status() != tt.status {
				t.Errorf("score, status = %d, %q, expected %d, %q", f.app.Score(), f.app.Status(), tt.score, tt.status)
			}
			if !f.host.Services().Ads.RewardedVideoReady() {
				t.Error("rewarded video not cached again")
			}
		})
	}
}

func TestRemoveAdsIsRestored(t *testing.T) {
	store := openStore(t)
	f := newFixture(t, testConfig(t, 100), store)
	f.step(t) // Products fetched

	f.press(t, buttonNoAds)
	f.step(t)
	buy := f.lastDialog(t)
	if buy.Title != "Purchase" {
		t.Fatalf("dialog title = %q, expected Purchase", buy.Title)
	}
	buy.Confirm()
	f.step(t)

	if !f.app.noAds || f.app.Status() != "ads removed" {
		t.Fatalf("noAds, status = %v, %q", f.app.noAds, f.app.Status())
	}
	if f.host.Services().Ads.BannerHeight() != 0 {
		t.Error("banner still shown after removing ads")
	}

	// A new session restores the purchase from the ledger.
	g := newFixture(t, testConfig(t, 100), store)
	g.step(t)
	g.step(t)
	if !g.app.noAds {
		t.Error("remove_ads not restored")
	}
}

func TestCoinsAreConsumable(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))
	f.step(t)

	for i := 0; i < 2; i++ {
		if err := f.host.Services().Purchases.PurchaseProduct(ProductCoins); err != nil {
			t.Fatalf("PurchaseProduct() failed: %v", err)
		}
		f.lastDialog(t).Confirm()
		f.step(t)
	}
	if f.app.Coins() != 2*coinsPerPack {
		t.Errorf("Coins() = %d, expected %d", f.app.Coins(), 2*coinsPerPack)
	}
}

func TestResetAsksFirst(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))
	f.hitTarget()
	f.step(t)

	f.press(t, buttonReset)
	f.step(t)
	f.lastDialog(t).Cancel()
	f.step(t)
	if f.app.Score() == 0 {
		t.Fatal("declined reset cleared the score")
	}

	f.press(t, buttonReset)
	f.step(t)
	f.lastDialog(t).Confirm()
	f.step(t)
	if f.app.Score() != 0 || f.app.Status() != "round restarted" {
		t.Errorf("score, status = %d, %q after reset", f.app.Score(), f.app.Status())
	}
}

func TestScoresOpensLeaderboard(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))
	f.press(t, buttonScores)
	f.step(t)

	if len(f.boards) != 1 || f.boards[0] != ID {
		t.Errorf("boards shown = %v, expected [%s]", f.boards, ID)
	}
}

func TestScoresWhileStoppedFails(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))
	f.host.Pause()
	f.host.Stop()

	f.app.press(buttonScores)
	if f.app.Status() != "leaderboard unavailable" {
		t.Errorf("Status() = %q, expected leaderboard unavailable", f.app.Status())
	}
}

func TestRenderShowsBannerAndStatus(t *testing.T) {
	f := newFixture(t, testConfig(t, 100), openStore(t))

	dst := core.NewScreen(60, 20)
	f.app.Render(dst)

	if !strings.Contains(dst.Row(0), "[bonus] [no ads] [scores] [reset]") {
		t.Errorf("toolbar row = %q", dst.Row(0))
	}
	if !strings.Contains(dst.Row(1), "your ad here") {
		t.Errorf("banner row = %q", dst.Row(1))
	}
	if !strings.Contains(dst.Row(19), "score 0/2") {
		t.Errorf("status row = %q", dst.Row(19))
	}
	r := f.app.Target()
	if dst.Get(r.X, r.Y) != TargetChar {
		t.Errorf("target cell = %q, expected %q", dst.Get(r.X, r.Y), TargetChar)
	}
}
