package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"k8s.io/utils/clock"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/storage"
)

// Rate-app bookkeeping keys.
const (
	prefRateLaunches    = "gamehost.rate.launch_count"
	prefRateFirstLaunch = "gamehost.rate.first_launch"
	prefRateReminder    = "gamehost.rate.reminder_pressed"
	prefRateClicked     = "gamehost.rate.clicked"
)

const day = 24 * time.Hour

// StoreLinks opens the application's store page and runs the rate-app prompt.
type StoreLinks struct {
	cfg     config.StoreConfig
	pkg     string
	appName string
	prefs   storage.Prefs
	dialogs *dialog.Bridge
	clock   clock.PassiveClock
	openURL func(string) error
	logger  *log.Logger
}

// NewStoreLinks creates the store service.
func NewStoreLinks(env Env, logger *log.Logger) *StoreLinks {
	s := &StoreLinks{
		cfg:     env.Config.Store,
		pkg:     env.Package,
		appName: env.AppName,
		dialogs: env.Dialogs,
		clock:   env.Clock,
		openURL: env.OpenURL,
		logger:  logger,
	}
	if env.Store != nil {
		s.prefs = env.Store
	}
	if s.appName == "" {
		s.appName = "this game"
	}
	return s
}

// URL returns the store page of the application.
func (s *StoreLinks) URL() string {
	return s.cfg.URLPrefix + s.pkg
}

// OpenPage opens the store page.
func (s *StoreLinks) OpenPage() error {
	if s.openURL == nil {
		return errors.New("store: cannot open links")
	}
	if err := s.openURL(s.URL()); err != nil {
		return fmt.Errorf("store: open %s: %w", s.URL(), err)
	}
	return nil
}

// RequestRateApp counts a launch and, once enough launches and days have
// passed, asks the user to rate the application. "Later" postpones the
// prompt by the reminding period; rating stops it for good. It reports
// whether the prompt was shown.
func (s *StoreLinks) RequestRateApp() (bool, error) {
	if s.prefs == nil || s.dialogs == nil {
		return false, ErrDisabled
	}

	clicked, err := s.prefs.GetBool(prefRateClicked)
	if err != nil || clicked {
		return false, err
	}

	launches, err := s.prefs.GetInt(prefRateLaunches)
	if err != nil {
		return false, err
	}
	launches++
	if err := s.prefs.SetInt(prefRateLaunches, launches); err != nil {
		return false, err
	}

	now := s.clock.Now()
	first, err := s.prefs.GetInt(prefRateFirstLaunch)
	if err != nil {
		return false, err
	}
	if first == 0 {
		first = int(now.Unix())
		if err := s.prefs.SetInt(prefRateFirstLaunch, first); err != nil {
			return false, err
		}
	}

	if launches < s.cfg.RateAppLaunches {
		return false, nil
	}
	if now.Before(time.Unix(int64(first), 0).Add(time.Duration(s.cfg.RateAppDays) * day)) {
		return false, nil
	}

	reminder, err := s.prefs.GetInt(prefRateReminder)
	if err != nil {
		return false, err
	}
	if reminder != 0 && now.Before(time.Unix(int64(reminder), 0).Add(time.Duration(s.cfg.RateAppRemindingDays)*day)) {
		return false, nil
	}

	s.prompt()
	return true, nil
}

func (s *StoreLinks) prompt() {
	title := fmt.Sprintf("Rate %s", s.appName)
	msg := fmt.Sprintf("If you enjoy playing %s, would you mind taking a moment to rate it?", s.appName)
	s.dialogs.Ask(title, msg, "Rate", "Later", func(rate bool) {
		if !rate {
			if err := s.prefs.SetInt(prefRateReminder, int(s.clock.Now().Unix())); err != nil {
				s.logger.Error("cannot save reminder", "error", err)
			}
			return
		}
		if err := s.prefs.SetBool(prefRateClicked, true); err != nil {
			s.logger.Error("cannot save rating", "error", err)
		}
		if err := s.OpenPage(); err != nil {
			s.logger.Error("cannot open store page", "error", err)
		}
	})
}
