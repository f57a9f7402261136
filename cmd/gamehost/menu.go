package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamehost/internal/platform/tui"
	"github.com/vovakirdan/gamehost/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick apps from a menu",
	Long: `Start the host in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select an app.
When the app finishes, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select app
  Tab          - Leaderboards
  Q            - Quit

Examples:
  gamehost menu
  gamehost menu --fps 60
  gamehost menu --db ./gamehost.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer := fileLogger(cfg)
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Menu loop
	for ctx.Err() == nil {
		width, height := terminalSize()
		result, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}

		switch {
		case result.Quit:
			return nil

		case result.WantsScoreboard:
			if store == nil {
				fmt.Fprintln(os.Stderr, "No database, no scores.")
				continue
			}
			if err := tui.RunScoreboard(store, "", width, height); err != nil {
				return err
			}

		default:
			factory, err := registry.FactoryFor(result.AppID)
			if err != nil {
				return err
			}
			logger.Info("starting app", "app", result.AppID)
			if err := tui.Run(ctx, factory, tui.Options{
				Config: cfg,
				Store:  store,
				Logger: logger,
				Player: playerName(),
			}); err != nil {
				return fmt.Errorf("run %s: %w", result.AppID, err)
			}
		}
	}
	return nil
}
