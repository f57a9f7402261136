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

var runCmd = &cobra.Command{
	Use:   "run <app>",
	Short: "Run an app",
	Long: `Start the specified app in this terminal.

Controls:
  Mouse        - Touch (left, right and middle buttons are separate fingers)
  Esc          - Back (closes dialogs first)
  Y/Enter, N   - Answer dialogs
  Ctrl+R       - Recreate the drawing surface
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Examples:
  gamehost run paint
  gamehost run tapper --fps 60
  gamehost run tapper --config ./my-gamehost.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	appID := args[0]

	factory, err := registry.FactoryFor(appID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Run 'gamehost list' to see available apps.")
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer := fileLogger(cfg)
	defer closer.Close()
	if info, ok := registry.Lookup(appID); ok {
		logger.Info("starting app", "id", info.ID, "title", info.Title)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - services degrade
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, factory, tui.Options{
		Config: cfg,
		Store:  store,
		Logger: logger,
		Player: playerName(),
	})
}
