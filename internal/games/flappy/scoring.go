package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Scoring tracks the survival score and derives the scroll speed from it.
// The score is kept as a base plus a tick count so that long runs do not
// accumulate floating point drift.
type Scoring struct {
	inc        float64
	baseSpeed  float64
	difficulty *config.Difficulty

	base  float64
	ticks int
}

// NewScoring creates a scoring policy for cfg.
func NewScoring(cfg config.FlappyConfig) *Scoring {
	return &Scoring{
		inc:        cfg.Scoring.IncrementPerTick,
		baseSpeed:  cfg.Physics.BaseSpeed,
		difficulty: config.NewDifficulty(cfg.Difficulty),
	}
}

// Tick adds one running tick's worth of score.
func (s *Scoring) Tick() {
	s.ticks++
}

// Score returns the exact score.
func (s *Scoring) Score() float64 {
	return s.base + float64(s.ticks)*s.inc
}

// Display returns the score shown to the player, floor(score).
func (s *Scoring) Display() int {
	return int(math.Floor(s.Score()))
}

// Speed returns the scroll speed for the current score.
func (s *Scoring) Speed() float64 {
	return s.difficulty.Speed(s.baseSpeed, s.Score())
}

// Level returns the number of speed steps earned so far.
func (s *Scoring) Level() int {
	return s.difficulty.Level(s.Score())
}

// SetScore replaces the score. Speed follows immediately.
func (s *Scoring) SetScore(score float64) {
	s.base = score
	s.ticks = 0
}

// Reset zeroes the score.
func (s *Scoring) Reset() {
	s.SetScore(0)
}
