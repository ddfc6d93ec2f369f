// flappy is a terminal Flappy Bird with a manual mode and an autopilot.
//
// Usage:
//
//	flappy play [manual|auto]  - Play directly, or watch the autopilot
//	flappy menu                - Home menu (auto, manual, recorded runs)
//	flappy bench               - Benchmark autopilot strategies headlessly
//	flappy runs                - Show recorded benchmark runs
//	flappy config              - Print and validate the effective config
//	flappy list                - List game variants
//	flappy serve               - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set run log path (default: ~/.flappy/runs.db)
//	--config <path>       - Custom flappy YAML config
//	--difficulty <preset> - easy, normal, hard, fixed
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Bird in your terminal, with an autopilot",
	Long: `Flappy Bird rendered in the terminal. Fly it yourself, or let the
autopilot steer through the pipes and compare its strategies.

Available commands:
  play     - Play a variant directly
  menu     - Home menu
  bench    - Benchmark autopilot strategies
  runs     - Show recorded benchmark runs
  config   - Print the effective configuration
  list     - List game variants
  serve    - Start SSH server for remote play

Examples:
  flappy play
  flappy play auto --strategy steering
  flappy menu --difficulty hard
  flappy bench --episodes 50 --record
  flappy serve --ssh :2222`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		flappy.SetConfigPath(flagConfig)
		flappy.SetDifficultyPreset(flagDifficulty)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/runs.db", "Path to the run log database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom flappy config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates the CLI logger; --verbose enables debug output.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// runtimeConfig builds the platform config from the terminal size and
// global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the run log. A nil store is returned when it cannot be
// opened; the games work without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run log", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
