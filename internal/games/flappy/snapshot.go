package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// PipeRects is the drawable geometry of one pipe.
type PipeRects struct {
	Top    core.Rect
	Bottom core.Rect
}

// Snapshot is a read-only view of an episode for rendering and tests.
// All geometry is in world pixels.
type Snapshot struct {
	Avatar    core.Rect
	AvatarVel float64
	Pipes     []PipeRects
	Score     int
	HighScore int
	Phase     Phase
	Mode      Mode
	Strategy  string
	Speed     float64
	Tick      int
	Distance  float64
	Exited    bool

	WorldW, WorldH, FloorY int
}

// Snapshot captures the episode's current state. HighScore is left zero;
// the session that owns the high score table fills it in.
func (e *Episode) Snapshot() Snapshot {
	w := e.track.PipeWidth()
	floorY := e.cfg.World.FloorY()

	pipes := make([]PipeRects, 0, e.track.Len())
	for _, p := range e.track.Pipes() {
		pipes = append(pipes, PipeRects{
			Top:    p.TopRect(w),
			Bottom: p.BottomRect(w, floorY),
		})
	}

	return Snapshot{
		Avatar:    e.avatar.Rect(),
		AvatarVel: e.avatar.Vel,
		Pipes:     pipes,
		Score:     e.DisplayScore(),
		Phase:     e.phase,
		Mode:      e.mode,
		Strategy:  string(e.Strategy()),
		Speed:     e.Speed(),
		Tick:      e.stats.Ticks,
		Distance:  e.distance,
		Exited:    e.exited,
		WorldW:    e.cfg.World.Width,
		WorldH:    e.cfg.World.Height,
		FloorY:    floorY,
	}
}
