package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

var (
	flagStrategy     string
	flagInvulnerable bool
)

var playCmd = &cobra.Command{
	Use:   "play [manual|auto]",
	Short: "Play a game variant",
	Long: `Start the manual game (default) or watch the autopilot fly.

Controls:
  Space/Up/W - Flap (also starts a manual run)
  Esc/B      - Leave the game
  R          - Restart (after game over)
  Ctrl+S     - Save a text screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slower base speed, gentle ramp
  normal - Config as-is
  hard   - Faster base speed, steeper ramp
  fixed  - No speed ramp

Examples:
  flappy play
  flappy play auto
  flappy play auto --strategy steering --invulnerable=false
  flappy play --difficulty hard --config ./my-flappy.yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(flappy.ModeManual), string(flappy.ModeAuto)},
	Run:       runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Autopilot strategy: predictive, steering")
	playCmd.Flags().BoolVar(&flagInvulnerable, "invulnerable", true, "Autopilot ignores collisions")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := flappy.ManualID
	if len(args) == 1 {
		switch flappy.Mode(args[0]) {
		case flappy.ModeManual:
		case flappy.ModeAuto:
			gameID = flappy.AutoID
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q (expected manual or auto)\n", args[0])
			os.Exit(1)
		}
	}

	if flagStrategy != "" {
		if _, ok := config.ParseStrategy(flagStrategy); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", flagStrategy)
			os.Exit(1)
		}
		flappy.SetStrategy(flagStrategy)
	}
	if cmd.Flags().Changed("invulnerable") {
		flappy.SetInvulnerable(flagInvulnerable)
	}

	// Surface config problems before the screen switches
	if _, err := flappy.LoadConfig(); err != nil {
		newLogger().Warn("using default configuration", "error", err)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(game, runtimeConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
