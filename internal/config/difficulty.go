package config

import "math"

// Difficulty derives the scroll speed from the current score.
// The speed is a pure function of the score so that resetting or replaying a
// score never leaves a stale increment behind.
type Difficulty struct {
	cfg DifficultyConfig
}

// NewDifficulty creates a new difficulty ramp.
func NewDifficulty(cfg DifficultyConfig) *Difficulty {
	return &Difficulty{cfg: cfg}
}

// IsEnabled returns whether the ramp is active.
func (d *Difficulty) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.StepEvery > 0
}

// Level returns how many speed steps the score has earned.
func (d *Difficulty) Level(score float64) int {
	if !d.IsEnabled() || score <= 0 {
		return 0
	}
	return int(math.Floor(score / d.cfg.StepEvery))
}

// Speed returns base + floor(score/step_every) * speed_step.
func (d *Difficulty) Speed(baseSpeed, score float64) float64 {
	return baseSpeed + float64(d.Level(score))*d.cfg.SpeedStep
}
