// gamehost runs engine cores in the terminal, locally or over SSH.
//
// Usage:
//
//	gamehost list              - List available apps
//	gamehost run <app>         - Run an app
//	gamehost menu              - Pick apps interactively
//	gamehost serve             - Start SSH server for remote sessions
//	gamehost scores [board]    - Show leaderboard scores
//	gamehost prefs <command>   - Inspect and edit stored preferences
//
// Global flags:
//
//	--fps <rate>     - Render rate (default: from config)
//	--db <path>      - Database path (default: from config)
//	--config <path>  - Config file
//	--debug          - Debug logging
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Import apps to register them
	_ "github.com/vovakirdan/gamehost/internal/apps/paint"
	_ "github.com/vovakirdan/gamehost/internal/apps/tapper"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagDBPath string
	flagConfig string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamehost",
	Short: "gamehost - run engine cores in your terminal",
	Long: `gamehost hosts engine cores behind a terminal window system.
The mouse stands in for touch, focus changes pause and resume the app,
and dialogs, ads, purchases and leaderboards are served locally.

Available commands:
  list     - Show all available apps
  run      - Run a specific app directly
  menu     - Interactive app picker
  serve    - Start SSH server for remote sessions
  scores   - View leaderboard scores
  prefs    - Inspect and edit stored preferences

Examples:
  gamehost list
  gamehost run paint
  gamehost menu
  gamehost serve --ssh :2222
  gamehost scores tapper`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Render rate in frames per second (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (default: from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(prefsCmd)
}

// loadConfig reads the config and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagFPS > 0 {
		cfg.Render.FPS = flagFPS
	}
	if flagDBPath != "" {
		cfg.App.Database = flagDBPath
	}
	return &cfg, nil
}

// openStore opens the database named by cfg.
func openStore(cfg *config.Config) (*storage.Store, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// fileLogger logs to gamehost.log in the storage directory. A terminal app
// cannot log to stderr without tearing the alt screen.
func fileLogger(cfg *config.Config) (*log.Logger, io.Closer) {
	dir, err := cfg.StoragePath()
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(filepath.Join(dir, "gamehost.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "gamehost",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, f
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// playerName names the local player on leaderboards.
func playerName() string {
	for _, name := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return "player"
}
