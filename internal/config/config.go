// Package config provides YAML-based host configuration: application
// identity, render rate, connectivity tuning, service settings and the
// free-form values engine cores and services read through engine.ConfigReader.
package config

import "time"

// Config is the complete host configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Render   RenderConfig   `yaml:"render"`
	Network  NetworkConfig  `yaml:"network"`
	Services ServicesConfig `yaml:"services"`
	Values   Values         `yaml:"values"`
}

// AppConfig identifies the application.
type AppConfig struct {
	Name       string `yaml:"name"`
	Package    string `yaml:"package"`     // Store package id, e.g. io.github.example.game
	AssetPath  string `yaml:"asset_path"`  // Bundled asset location passed to the engine
	StorageDir string `yaml:"storage_dir"` // Writable directory; ~ is expanded
	Database   string `yaml:"database"`    // SQLite file, relative to StorageDir unless absolute
}

// RenderConfig controls the render goroutine.
type RenderConfig struct {
	FPS int `yaml:"fps"`
}

// NetworkConfig tunes connectivity reporting.
type NetworkConfig struct {
	Debounce      time.Duration `yaml:"debounce"`       // Settle delay before "connected" is delivered
	Probe         bool          `yaml:"probe"`          // Poll OS interfaces for connectivity
	ProbeInterval time.Duration `yaml:"probe_interval"` // Poll period
}

// ServicesConfig holds per-service settings.
type ServicesConfig struct {
	Ads           AdsConfig           `yaml:"ads"`
	Purchases     PurchasesConfig     `yaml:"purchases"`
	Leaderboards  LeaderboardsConfig  `yaml:"leaderboards"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Store         StoreConfig         `yaml:"store"`
}

// AdsConfig configures the house-ads provider.
type AdsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BannerHeight int    `yaml:"banner_height"`
	Interstitial string `yaml:"interstitial"` // Text of the interstitial
	Rewarded     string `yaml:"rewarded"`     // Text of the rewarded video offer
}

// PurchasesConfig lists the product catalog.
type PurchasesConfig struct {
	PublicKey string                   `yaml:"public_key"`
	Products  map[string]ProductConfig `yaml:"products"` // Keyed by alias
}

// ProductConfig describes one purchasable product.
type ProductConfig struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Price      string `yaml:"price"`
	Consumable bool   `yaml:"consumable"`
}

// LeaderboardsConfig configures local leaderboards.
type LeaderboardsConfig struct {
	Default string `yaml:"default"`
	Limit   int    `yaml:"limit"`
}

// NotificationsConfig configures scheduled notifications.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig configures store links and the rate-app prompt.
type StoreConfig struct {
	URLPrefix            string `yaml:"url_prefix"`
	RateAppDays          int    `yaml:"rate_app_days"`           // Days since first launch before prompting
	RateAppLaunches      int    `yaml:"rate_app_launches"`       // Launches before prompting
	RateAppRemindingDays int    `yaml:"rate_app_reminding_time"` // Days to wait after "later"
}
