// Package config provides YAML-based game configuration loading, validation
// and difficulty management for the flappy platform.
package config

// Strategy names the gap-tracking policy used by the autopilot.
type Strategy string

const (
	// StrategyPredictive issues discrete flaps after projecting the avatar
	// under true gravity.
	StrategyPredictive Strategy = "predictive"

	// StrategySteering sets the vertical velocity directly, proportional to
	// the remaining distance to the gap center.
	StrategySteering Strategy = "steering"
)

// Strategies lists every known strategy in display order.
var Strategies = []Strategy{StrategyPredictive, StrategySteering}

// ParseStrategy converts a CLI/YAML value to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyPredictive, StrategySteering:
		return Strategy(s), true
	}
	return "", false
}

// FlappyConfig contains all configuration for the Flappy Bird game.
type FlappyConfig struct {
	World      FlappyWorld      `yaml:"world"`
	Physics    FlappyPhysics    `yaml:"physics"`
	Obstacles  FlappyObstacles  `yaml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player"`
	Autopilot  AutopilotConfig  `yaml:"autopilot"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyWorld defines the simulated playfield in pixels.
type FlappyWorld struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	FloorHeight int `yaml:"floor_height"`
}

// FloorY returns the y-coordinate of the floor surface.
func (w FlappyWorld) FloorY() int {
	return w.Height - w.FloorHeight
}

// FlappyPhysics defines physics parameters for Flappy Bird.
type FlappyPhysics struct {
	Gravity     float64 `yaml:"gravity"`      // Downward acceleration per tick
	JumpImpulse float64 `yaml:"jump_impulse"` // Velocity set by a flap (negative = up)
	BaseSpeed   float64 `yaml:"base_speed"`   // Scroll speed before the ramp kicks in
}

// FlappyObstacles defines pipe parameters for Flappy Bird.
type FlappyObstacles struct {
	PipeWidth       int `yaml:"pipe_width"`
	GapHeight       int `yaml:"gap_height"`
	MinGapHeight    int `yaml:"min_gap_height"`
	GapTopMin       int `yaml:"gap_top_min"` // Safe range for the gap's upper edge
	GapTopMax       int `yaml:"gap_top_max"`
	SpawnIntervalMs int `yaml:"spawn_interval_ms"`
	SpawnOffset     int `yaml:"spawn_offset"`   // Distance past the right edge
	CleanupMargin   int `yaml:"cleanup_margin"` // Pipes whose right edge is at or left of this are dropped
}

// FlappyPlayer defines the avatar geometry. X is the fixed horizontal center.
type FlappyPlayer struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AutopilotConfig tunes the autonomous controller.
type AutopilotConfig struct {
	Strategy     Strategy `yaml:"strategy"`
	Invulnerable bool     `yaml:"invulnerable"`

	// Tier A: centering when no pipe is ahead. TargetY 0 means mid-screen.
	TargetY            float64 `yaml:"target_y"`
	CenteringGain      float64 `yaml:"centering_gain"`
	CenteringSmoothing float64 `yaml:"centering_smoothing"`
	CenteringMaxStep   float64 `yaml:"centering_max_step"`

	// Tier B1: proportional steering.
	SteeringSmoothing float64 `yaml:"steering_smoothing"`
	SteeringBaseStep  float64 `yaml:"steering_base_step"`
	SteeringSpeedStep float64 `yaml:"steering_speed_step"`

	// Tier B2: predictive flaps.
	MarginRatio    float64 `yaml:"margin_ratio"`
	CooldownTicks  int     `yaml:"cooldown_ticks"`
	CloseFrames    float64 `yaml:"close_frames"`
	FallThreshold  float64 `yaml:"fall_threshold"`
	LookaheadTicks float64 `yaml:"lookahead_ticks"` // Cap on the projection horizon
	Clearance      float64 `yaml:"clearance"`       // Extra room kept under the upper pipe

	// Vertical band the autopilot keeps the avatar in. ClampTop is measured
	// from the hitbox top, so the center never rises above ClampTop+Height/2.
	ClampTop      float64 `yaml:"clamp_top"`
	ClampFloorGap float64 `yaml:"clamp_floor_gap"`
}

// ScoringConfig defines the survival score.
type ScoringConfig struct {
	IncrementPerTick float64 `yaml:"increment_per_tick"`
}

// DifficultyConfig defines the step-wise speed ramp.
type DifficultyConfig struct {
	Enabled   bool    `yaml:"enabled"`
	StepEvery float64 `yaml:"step_every"` // Score points per speed step
	SpeedStep float64 `yaml:"speed_step"` // Pixels/tick added per step
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value to a preset. Empty input means "use the config as-is".
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	}
	return "", false
}
