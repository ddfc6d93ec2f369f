package config

import (
	"errors"
	"fmt"
)

// Validate checks the invariants the simulation relies on and reports every
// violation at once. A valid config always yields passable gaps.
func Validate(cfg FlappyConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	w, o, p, a := cfg.World, cfg.Obstacles, cfg.Player, cfg.Autopilot
	floorY := w.FloorY()

	if w.Width <= 0 || w.Height <= 0 {
		add("world: size must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.FloorHeight < 0 || floorY <= 0 {
		add("world: floor_height %d leaves no play area", w.FloorHeight)
	}

	if cfg.Physics.Gravity <= 0 {
		add("physics: gravity must be positive, got %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.JumpImpulse >= 0 {
		add("physics: jump_impulse must be negative (upward), got %v", cfg.Physics.JumpImpulse)
	}
	if cfg.Physics.BaseSpeed <= 0 {
		add("physics: base_speed must be positive, got %v", cfg.Physics.BaseSpeed)
	}

	if p.Width <= 0 || p.Height <= 0 {
		add("player: size must be positive, got %dx%d", p.Width, p.Height)
	}
	if o.PipeWidth <= 0 {
		add("obstacles: pipe_width must be positive, got %d", o.PipeWidth)
	}
	if o.MinGapHeight < p.Height {
		add("obstacles: min_gap_height %d is smaller than the player height %d", o.MinGapHeight, p.Height)
	}
	if o.GapHeight < o.MinGapHeight {
		add("obstacles: gap_height %d is below min_gap_height %d", o.GapHeight, o.MinGapHeight)
	}
	if o.GapTopMin > o.GapTopMax {
		add("obstacles: gap_top_min %d exceeds gap_top_max %d", o.GapTopMin, o.GapTopMax)
	}
	if o.GapTopMin < 0 || o.GapTopMax+o.GapHeight > floorY {
		add("obstacles: gaps [%d, %d] do not fit between ceiling and floor %d",
			o.GapTopMin, o.GapTopMax+o.GapHeight, floorY)
	}
	if o.SpawnIntervalMs <= 0 {
		add("obstacles: spawn_interval_ms must be positive, got %d", o.SpawnIntervalMs)
	}

	if _, ok := ParseStrategy(string(a.Strategy)); !ok {
		add("autopilot: unknown strategy %q", a.Strategy)
	}
	if a.CooldownTicks < 0 {
		add("autopilot: cooldown_ticks must not be negative, got %d", a.CooldownTicks)
	}
	if a.MarginRatio <= 0 || a.MarginRatio >= 0.5 {
		add("autopilot: margin_ratio must be in (0, 0.5), got %v", a.MarginRatio)
	}
	if a.CenteringMaxStep <= 0 || a.SteeringBaseStep <= 0 {
		add("autopilot: step limits must be positive")
	}
	if a.LookaheadTicks <= 0 {
		add("autopilot: lookahead_ticks must be positive, got %v", a.LookaheadTicks)
	}
	if a.Clearance < 0 {
		add("autopilot: clearance must not be negative, got %v", a.Clearance)
	}
	if top, bottom := a.ClampTop+float64(p.Height)/2, float64(floorY-p.Height)-a.ClampFloorGap; top >= bottom {
		add("autopilot: clamp band [%v, %v] is empty", top, bottom)
	}

	if cfg.Scoring.IncrementPerTick <= 0 {
		add("scoring: increment_per_tick must be positive, got %v", cfg.Scoring.IncrementPerTick)
	}
	if cfg.Difficulty.Enabled && cfg.Difficulty.StepEvery <= 0 {
		add("difficulty: step_every must be positive when enabled, got %v", cfg.Difficulty.StepEvery)
	}

	return errors.Join(errs...)
}
