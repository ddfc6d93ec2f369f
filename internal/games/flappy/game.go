// Package flappy implements a Flappy Bird-style game with an optional
// autopilot. The simulation runs in a fixed 800x600 pixel world and is
// scaled onto the terminal only when rendering.
package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/registry"
)

// Game IDs registered by this package.
const (
	ManualID = "flappy"
	AutoID   = "flappy_auto"
)

// Settings set from the CLI before any game is created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	strategy         config.Strategy
	invulnerable     *bool
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown values fall back
// to the config file's ramp.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		p = ""
	}
	difficultyPreset = p
}

// SetStrategy overrides the autopilot strategy. Empty or unknown values keep
// the configured one.
func SetStrategy(s string) {
	parsed, ok := config.ParseStrategy(s)
	if !ok {
		parsed = ""
	}
	strategy = parsed
}

// SetInvulnerable overrides whether autonomous episodes ignore collisions.
func SetInvulnerable(v bool) {
	invulnerable = &v
}

// LoadConfig loads the flappy configuration and applies the CLI overrides.
// On any error the returned config is still usable.
func LoadConfig() (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(configPath)
	config.ApplyFlappyPreset(&cfg, difficultyPreset)
	if strategy != "" {
		cfg.Autopilot.Strategy = strategy
	}
	if invulnerable != nil {
		cfg.Autopilot.Invulnerable = *invulnerable
	}
	if err != nil {
		return cfg, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.DefaultFlappyConfig(), err
	}
	return cfg, nil
}

// Game adapts an Episode to the platform's registry.Game interface.
type Game struct {
	id    string
	title string
	mode  Mode

	runtime core.RuntimeConfig
	cfg     config.FlappyConfig
	episode *Episode

	best float64 // Used when the platform supplies no high score table
}

// New creates a manual Flappy Bird game.
func New() *Game {
	return &Game{id: ManualID, title: "Flappy Bird", mode: ModeManual}
}

// NewAuto creates a Flappy Bird game flown by the autopilot.
func NewAuto() *Game {
	return &Game{id: AutoID, title: "Flappy Bird (Auto)", mode: ModeAuto}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, _ := LoadConfig()
	g.ResetWithConfig(runtime, cfg)
}

// ResetWithConfig restarts the game with an explicit configuration.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.FlappyConfig) {
	g.runtime = runtime
	g.cfg = cfg
	g.episode = NewEpisode(cfg, g.mode, runtime.Seed)
	g.episode.SetTickInterval(runtime.TickInterval())
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.episode == nil {
		g.Reset(core.DefaultConfig())
	}

	out := g.episode.Step(Input{
		Flap:    in.Has(core.ActionFlap),
		Quit:    in.Has(core.ActionBack),
		Elapsed: in.Elapsed,
	})
	// Leaving a run early does not count toward the best score.
	if out.Terminated {
		g.record()
	}

	return core.StepResult{State: g.State(), Ended: out.Terminated}
}

func (g *Game) record() {
	score := g.episode.Score()
	if g.runtime.HighScores != nil {
		g.runtime.HighScores.Record(g.id, score)
		return
	}
	g.best = math.Max(g.best, score)
}

// HighScore returns the best score of the session.
func (g *Game) HighScore() int {
	best := g.best
	if g.runtime.HighScores != nil {
		best = g.runtime.HighScores.Best(g.id)
	}
	return int(math.Floor(best))
}

// Episode returns the running episode.
func (g *Game) Episode() *Episode {
	return g.episode
}

// Snapshot returns a read-only view of the game.
func (g *Game) Snapshot() Snapshot {
	s := g.episode.Snapshot()
	s.HighScore = g.HighScore()
	return s
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.episode == nil {
		return core.GameState{Waiting: g.mode == ModeManual}
	}
	return core.GameState{
		Score:     g.episode.DisplayScore(),
		HighScore: g.HighScore(),
		Waiting:   g.episode.Phase() == PhaseWaiting,
		GameOver:  g.episode.Phase() == PhaseTerminated,
		Exited:    g.episode.Exited(),
	}
}

// Register both variants with the registry
func init() {
	registry.Register(ManualID, func() registry.Game {
		return New()
	})
	registry.Register(AutoID, func() registry.Game {
		return NewAuto()
	})
}
