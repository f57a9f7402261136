package host

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mlifecycle "golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/size"
	mtouch "golang.org/x/mobile/event/touch"
	testclock "k8s.io/utils/clock/testing"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/services"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/touch"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

type fakeCore struct {
	platform    registry.Platform
	initialized bool
	params      core.InitParams
	events      []string
}

func (f *fakeCore) IsInitialized() bool { return f.initialized }

func (f *fakeCore) Initialize(p core.InitParams) error {
	f.initialized = true
	f.params = p
	return nil
}

func (f *fakeCore) ReloadAssets() { f.events = append(f.events, "reload") }
func (f *fakeCore) MainLoop()     {}

func (f *fakeCore) OnTouchDown(x, y float32, id int) {
	f.events = append(f.events, fmt.Sprintf("down(%g,%g,%d)", x, y, id))
}

func (f *fakeCore) OnTouchMoved(x, y float32, id int) {
	f.events = append(f.events, fmt.Sprintf("move(%g,%g,%d)", x, y, id))
}

func (f *fakeCore) OnTouchUp(x, y float32, id int) {
	f.events = append(f.events, fmt.Sprintf("up(%g,%g,%d)", x, y, id))
}

func (f *fakeCore) OnProductsFetched([]string) { f.events = append(f.events, "fetched") }

func (f *fakeCore) OnProductPurchased(alias string) {
	f.events = append(f.events, "purchased:"+alias)
}

func (f *fakeCore) OnMessageDialogClosed() { f.events = append(f.events, "message-closed") }

func (f *fakeCore) OnConfirmDialogClosed(c bool) {
	f.events = append(f.events, fmt.Sprintf("confirm-closed(%v)", c))
}

type recorder struct {
	lifecycle.Base
	calls []string
	back  bool
}

func (r *recorder) OnStart()   { r.calls = append(r.calls, "start") }
func (r *recorder) OnResume()  { r.calls = append(r.calls, "resume") }
func (r *recorder) OnPause()   { r.calls = append(r.calls, "pause") }
func (r *recorder) OnStop()    { r.calls = append(r.calls, "stop") }
func (r *recorder) OnDestroy() { r.calls = append(r.calls, "destroy") }

func (r *recorder) OnBackPressed() bool {
	r.calls = append(r.calls, "back")
	return r.back
}

func (r *recorder) OnNetworkStateChanged(connected bool) {
	r.calls = append(r.calls, fmt.Sprintf("network(%v)", connected))
}

type fixture struct {
	host  *Host
	core  *fakeCore
	rec   *recorder
	clock *testclock.FakeClock
	quits int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.App.StorageDir = t.TempDir()
	cfg.Network.Probe = false
	cfg.Services.Purchases.PublicKey = "test"
	cfg.Services.Purchases.Products = map[string]config.ProductConfig{
		"remove_ads": {ID: "game.removeads", Title: "Remove ads", Price: "$1"},
	}

	store, err := storage.Open(filepath.Join(cfg.App.StorageDir, "host.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		core:  &fakeCore{},
		rec:   &recorder{},
		clock: testclock.NewFakeClock(time.Unix(1000, 0)),
	}
	factory := func(p registry.Platform) engine.Core {
		f.core.platform = p
		p.AddListener(f.rec)
		return f.core
	}

	h, err := New(factory, Options{
		Config: &cfg,
		Store:  store,
		Clock:  f.clock,
		UI:     uithread.Inline{},
		Locale: "en-GB",
		Quit:   func() { f.quits++ },
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	f.host = h
	return f
}

func (f *fixture) expectCalls(t *testing.T, expected string) {
	t.Helper()
	if got := strings.Join(f.rec.calls, " "); got != expected {
		t.Errorf("listener calls = %q, expected %q", got, expected)
	}
}

func TestNewRequiresConfigAndFactory(t *testing.T) {
	cfg := config.Default()
	if _, err := New(nil, Options{Config: &cfg}); err == nil {
		t.Error("New() without factory should fail")
	}
	if _, err := New(func(registry.Platform) engine.Core { return &fakeCore{} }, Options{}); err == nil {
		t.Error("New() without config should fail")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	f := newFixture(t)
	h := f.host

	h.Start()
	h.Resume()
	if !h.Foreground() {
		t.Error("Foreground() = false after Resume")
	}
	h.Resume() // repeated transitions are ignored
	h.Pause()
	if h.Foreground() {
		t.Error("Foreground() = true after Pause")
	}
	h.Stop()
	h.Destroy()
	h.Start()

	f.expectCalls(t, "start resume pause stop destroy")
	if f.quits != 1 {
		t.Errorf("quit ran %d times, expected 1", f.quits)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Destroy")
	}
}

func TestUnhandledBackFinishes(t *testing.T) {
	f := newFixture(t)
	f.host.Start()
	f.host.Resume()

	f.host.BackPressed()

	f.expectCalls(t, "start resume back pause stop destroy")
	if f.quits != 1 {
		t.Errorf("quit ran %d times, expected 1", f.quits)
	}
}

func TestHandledBackKeepsRunning(t *testing.T) {
	f := newFixture(t)
	f.rec.back = true
	f.host.Start()

	f.host.BackPressed()

	f.expectCalls(t, "start back")
	if f.quits != 0 {
		t.Error("consumed back should not finish the host")
	}
}

func TestSurfaceInitAndTouchFlip(t *testing.T) {
	f := newFixture(t)
	h := f.host

	h.Touch(touch.MotionEvent{Action: touch.ActionDown, Pointers: []touch.Pointer{{ID: 1, X: 3, Y: 3}}})
	h.Resize(80, 24)
	h.RecreateSurface()
	h.Touch(touch.MotionEvent{Action: touch.ActionDown, Pointers: []touch.Pointer{{ID: 2, X: 10, Y: 4}}})

	if err := h.View().Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if !f.core.initialized {
		t.Fatal("engine not initialized")
	}
	p := f.core.params
	if p.Width != 80 || p.Height != 24 || p.Locale != "en-GB" || p.StoragePath == "" {
		t.Errorf("init params = %+v", p)
	}

	// The first touch arrived before any size was known.
	expected := "down(3,-3,1) down(10,20,2)"
	if got := strings.Join(f.core.events, " "); got != expected {
		t.Errorf("engine events = %q, expected %q", got, expected)
	}

	h.RecreateSurface()
	h.View().Step()
	if f.core.events[len(f.core.events)-1] != "reload" {
		t.Errorf("recreated surface should reload assets, events = %v", f.core.events)
	}
}

func TestConnectivityIsDebounced(t *testing.T) {
	f := newFixture(t)
	h := f.host

	h.ConnectivityChanged(true)
	h.ConnectivityChanged(false)
	h.ConnectivityChanged(true)
	f.clock.Step(50 * time.Millisecond)
	f.expectCalls(t, "network(false)")

	f.clock.Step(50 * time.Millisecond)
	f.expectCalls(t, "network(false) network(true)")
}

func TestPlatformDialogsWithoutPresenter(t *testing.T) {
	f := newFixture(t)
	h := f.host

	h.Resize(10, 10)
	h.RecreateSurface()
	h.View().Step()

	f.core.platform.ShowConfirm("Reset?", "Lose progress?")
	f.core.platform.ShowMessage("Hi", "there")
	h.View().Step()

	expected := "confirm-closed(false) message-closed"
	if got := strings.Join(f.core.events, " "); got != expected {
		t.Errorf("engine events = %q, expected %q", got, expected)
	}
}

func TestPlatformExposesConfigAndServices(t *testing.T) {
	f := newFixture(t)
	p := f.core.platform

	if p.Config() == nil || p.Logger() == nil {
		t.Fatal("platform config or logger missing")
	}
	if p.Services() == nil || p.Services().Purchases == nil {
		t.Fatal("platform services missing")
	}
}

func TestActivityResultReachesPurchases(t *testing.T) {
	f := newFixture(t)
	h := f.host
	h.Resize(10, 10)
	h.RecreateSurface()

	svc := f.core.platform.Services()
	if err := svc.Purchases.FetchProducts(); err != nil {
		t.Fatalf("FetchProducts() failed: %v", err)
	}
	if svc.Purchases.State() != services.StateQueried {
		t.Fatalf("State() = %s, expected queried", svc.Purchases.State())
	}

	h.ActivityResult(lifecycle.ActivityResult{RequestCode: 5, ResultCode: lifecycle.ResultOK})
	h.ActivityResult(lifecycle.ActivityResult{
		RequestCode: services.PurchaseRequestCode,
		ResultCode:  lifecycle.ResultOK,
		Data:        map[string]string{services.DataProductID: "game.removeads", services.DataOrderID: "o-1"},
	})
	h.View().Step()

	expected := "fetched purchased:remove_ads"
	if got := strings.Join(f.core.events, " "); got != expected {
		t.Errorf("engine events = %q, expected %q", got, expected)
	}
}

func TestMobileEvents(t *testing.T) {
	f := newFixture(t)
	h := f.host

	handled := h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageDead, To: mlifecycle.StageFocused})
	if !handled {
		t.Fatal("lifecycle event not handled")
	}
	h.HandleMobileEvent(size.Event{WidthPx: 100, HeightPx: 50})
	h.HandleMobileEvent(mtouch.Event{X: 5, Y: 10, Sequence: 7, Type: mtouch.TypeBegin})
	h.HandleMobileEvent(mtouch.Event{X: 6, Y: 11, Sequence: 7, Type: mtouch.TypeEnd})
	if h.HandleMobileEvent("paint") {
		t.Error("unknown events should not be handled")
	}

	if err := h.View().Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	expected := "down(5,40,7) up(6,39,7)"
	if got := strings.Join(f.core.events, " "); got != expected {
		t.Errorf("engine events = %q, expected %q", got, expected)
	}

	h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageFocused, To: mlifecycle.StageDead})
	f.expectCalls(t, "start resume pause stop destroy")
}

func TestMobileDeathDestroysHost(t *testing.T) {
	tests := []struct {
		name     string
		from     mlifecycle.Stage
		expected string
	}{
		{"from focused", mlifecycle.StageFocused, "start resume pause stop destroy"},
		{"from visible", mlifecycle.StageVisible, "start stop destroy"},
		{"from alive", mlifecycle.StageAlive, "destroy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := f.host

			h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageDead, To: tt.from})
			h.HandleMobileEvent(mlifecycle.Event{From: tt.from, To: mlifecycle.StageDead})

			f.expectCalls(t, tt.expected)
			select {
			case <-h.Done():
			default:
				t.Error("Done() not closed after the app died")
			}
		})
	}
}

func TestMobileFocusLossCancelsTouches(t *testing.T) {
	f := newFixture(t)
	h := f.host

	h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageDead, To: mlifecycle.StageFocused})
	h.HandleMobileEvent(size.Event{WidthPx: 100, HeightPx: 50})
	h.HandleMobileEvent(mtouch.Event{X: 5, Y: 10, Sequence: 7, Type: mtouch.TypeBegin})
	if err := h.View().Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageFocused, To: mlifecycle.StageVisible})
	h.HandleMobileEvent(mlifecycle.Event{From: mlifecycle.StageVisible, To: mlifecycle.StageFocused})
	if err := h.View().Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	expected := "down(5,40,7) up(5,40,7)"
	if got := strings.Join(f.core.events, " "); got != expected {
		t.Errorf("engine events = %q, expected %q", got, expected)
	}
	if n := len(h.translator.Active()); n != 0 {
		t.Errorf("%d pointers still active after focus loss", n)
	}
}

func TestRunStopsWhenFinished(t *testing.T) {
	f := newFixture(t)
	h := f.host

	errc := make(chan error, 1)
	go func() { errc <- h.Run(t.Context()) }()

	h.Finish()
	select {
	case err := <-errc:
		if !errors.Is(err, ErrFinished) {
			t.Errorf("Run() = %v, expected ErrFinished", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Finish")
	}
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"de_DE.UTF-8", "de-DE", true},
		{"pt_BR@euro", "pt-BR", true},
		{"en", "en", true},
		{"C", "", false},
		{"POSIX", "", false},
		{"", "", false},
		{"not a locale!", "", false},
	}
	for _, tt := range tests {
		got, ok := parseLocale(tt.in)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("parseLocale(%q) = %q, %v, expected %q, %v", tt.in, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestSystemLocaleFromEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "fr_CA.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")
	if got := SystemLocale(); got != "fr-CA" {
		t.Errorf("SystemLocale() = %q, expected fr-CA", got)
	}

	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "C")
	if got := SystemLocale(); got != "en" {
		t.Errorf("SystemLocale() = %q, expected en fallback", got)
	}
}

func TestLocaleFromEnv(t *testing.T) {
	tests := []struct {
		env      []string
		expected string
	}{
		{[]string{"TERM=xterm", "LANG=de_DE.UTF-8"}, "de-DE"},
		{[]string{"LANG=de_DE.UTF-8", "LC_ALL=pt_BR"}, "pt-BR"},
		{[]string{"LANG=POSIX"}, "en"},
		{nil, "en"},
	}
	for _, tt := range tests {
		if got := LocaleFromEnv(tt.env); got != tt.expected {
			t.Errorf("LocaleFromEnv(%v) = %q, expected %q", tt.env, got, tt.expected)
		}
	}
}

func TestOpenURLRejectsEmpty(t *testing.T) {
	if err := OpenURL(""); err == nil {
		t.Error("OpenURL(\"\") should fail")
	}
}
