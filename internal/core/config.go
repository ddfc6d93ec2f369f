package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay

	// HighScores is owned by the platform session and outlives every game
	// instance created during it. May be nil for headless runs.
	HighScores *HighScores
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickInterval returns the nominal duration of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current (displayed) score
	HighScore int  // Best score of the session
	Waiting   bool // Whether the game waits for the first input
	GameOver  bool // Whether the game has ended
	Exited    bool // Whether the player asked to return to the menu
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState

	// Ended is true only on the tick the game transitioned to game over.
	Ended bool
}

// HighScores keeps the best score per game for the lifetime of a session.
// Nothing here is persisted.
type HighScores struct {
	best map[string]float64
}

// NewHighScores creates an empty table.
func NewHighScores() *HighScores {
	return &HighScores{best: make(map[string]float64)}
}

// Record stores score if it beats the current best and returns the best.
func (h *HighScores) Record(gameID string, score float64) float64 {
	if h.best == nil {
		h.best = make(map[string]float64)
	}
	if score > h.best[gameID] {
		h.best[gameID] = score
	}
	return h.best[gameID]
}

// Best returns the best score recorded for gameID (0 when none).
func (h *HighScores) Best(gameID string) float64 {
	if h == nil {
		return 0
	}
	return h.best[gameID]
}
