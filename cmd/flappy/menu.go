package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the home menu",
	Long: `Start the interactive home menu.

The menu offers the autopilot, the manual game, and the recorded benchmark
runs. After a game ends, R plays again and Esc returns home. Best scores
are kept for the whole session.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  flappy menu
  flappy menu --fps 30
  flappy menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger := newLogger()
	if _, err := flappy.LoadConfig(); err != nil {
		logger.Warn("using default configuration", "error", err)
	}

	store := openStore(logger)
	runErr := tui.RunSession(store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
