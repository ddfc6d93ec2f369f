package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default Flappy Bird configuration.
// The numbers reproduce the classic 800x600 tuning.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: FlappyWorld{
			Width:       800,
			Height:      600,
			FloorHeight: 100,
		},
		Physics: FlappyPhysics{
			Gravity:     0.5,
			JumpImpulse: -10,
			BaseSpeed:   5,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:       80,
			GapHeight:       170,
			MinGapHeight:    120,
			GapTopMin:       40,
			GapTopMax:       230,
			SpawnIntervalMs: 1500,
			SpawnOffset:     100,
			CleanupMargin:   -50,
		},
		Player: FlappyPlayer{
			X:      200,
			Width:  50,
			Height: 40,
		},
		Autopilot: AutopilotConfig{
			Strategy:           StrategyPredictive,
			Invulnerable:       true,
			TargetY:            0,
			CenteringGain:      0.04,
			CenteringSmoothing: 0.85,
			CenteringMaxStep:   8,
			SteeringSmoothing:  0.7,
			SteeringBaseStep:   10,
			SteeringSpeedStep:  0.5,
			MarginRatio:        0.2,
			CooldownTicks:      4,
			CloseFrames:        6,
			FallThreshold:      4,
			LookaheadTicks:     20,
			Clearance:          2,
			ClampTop:           20,
			ClampFloorGap:      2,
		},
		Scoring: ScoringConfig{
			IncrementPerTick: 0.01,
		},
		Difficulty: DifficultyConfig{
			Enabled:   true,
			StepEvery: 20,
			SpeedStep: 1,
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
