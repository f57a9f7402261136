package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gamehost.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the built-in configuration, used when the embedded YAML
// cannot be parsed.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:       "gamehost",
			Package:    "io.github.vovakirdan.gamehost",
			AssetPath:  "assets",
			StorageDir: "~/.gamehost",
			Database:   "gamehost.db",
		},
		Render: RenderConfig{FPS: 30},
		Network: NetworkConfig{
			Debounce:      100 * time.Millisecond,
			Probe:         true,
			ProbeInterval: 2 * time.Second,
		},
		Services: ServicesConfig{
			Ads: AdsConfig{Enabled: true, BannerHeight: 1},
			Leaderboards: LeaderboardsConfig{
				Default: "taps",
				Limit:   10,
			},
			Notifications: NotificationsConfig{Enabled: true},
			Store: StoreConfig{
				URLPrefix:            "https://play.google.com/store/apps/details?id=",
				RateAppDays:          0,
				RateAppLaunches:      2,
				RateAppRemindingDays: 2,
			},
		},
		Values: Values{},
	}
}

// applyDefaults fills zero fields a partial user file left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.App.Name == "" {
		c.App.Name = d.App.Name
	}
	if c.App.Package == "" {
		c.App.Package = d.App.Package
	}
	if c.App.AssetPath == "" {
		c.App.AssetPath = d.App.AssetPath
	}
	if c.App.StorageDir == "" {
		c.App.StorageDir = d.App.StorageDir
	}
	if c.App.Database == "" {
		c.App.Database = d.App.Database
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = d.Render.FPS
	}
	if c.Network.Debounce <= 0 {
		c.Network.Debounce = d.Network.Debounce
	}
	if c.Network.ProbeInterval <= 0 {
		c.Network.ProbeInterval = d.Network.ProbeInterval
	}
	if c.Services.Leaderboards.Limit <= 0 {
		c.Services.Leaderboards.Limit = d.Services.Leaderboards.Limit
	}
	if c.Services.Store.URLPrefix == "" {
		c.Services.Store.URLPrefix = d.Services.Store.URLPrefix
	}
	if c.Values == nil {
		c.Values = Values{}
	}
}
