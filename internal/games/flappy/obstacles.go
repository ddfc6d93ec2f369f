package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe is one gate: an upper rectangle hanging from the ceiling and a lower
// rectangle standing on the floor, separated by a vertical gap.
type Pipe struct {
	X         float64 // Left edge
	GapTop    float64 // Y where the gap starts (bottom edge of the upper pipe)
	GapHeight float64 // Height of the passable gap
	Passed    bool    // Whether the avatar has fully passed this pipe
}

// GapBottom returns the top edge of the lower pipe.
func (p Pipe) GapBottom() float64 {
	return p.GapTop + p.GapHeight
}

// GapCenter returns the vertical midpoint of the gap.
func (p Pipe) GapCenter() float64 {
	return (p.GapTop + p.GapBottom()) / 2
}

// CenterX returns the pipe's horizontal center.
func (p Pipe) CenterX(pipeWidth int) float64 {
	return p.X + float64(pipeWidth)/2
}

// Right returns the pipe's trailing edge.
func (p Pipe) Right(pipeWidth int) float64 {
	return p.X + float64(pipeWidth)
}

// TopRect returns the collision rectangle for the upper pipe.
func (p Pipe) TopRect(pipeWidth int) core.Rect {
	return core.NewRect(int(p.X), 0, pipeWidth, int(p.GapTop))
}

// BottomRect returns the collision rectangle for the lower pipe.
func (p Pipe) BottomRect(pipeWidth, floorY int) core.Rect {
	bottomY := int(p.GapBottom())
	return core.NewRect(int(p.X), bottomY, pipeWidth, floorY-bottomY)
}

// Track handles spawning, movement, and removal of pipes.
// Pipes are kept in spawn order, which is also ascending X because every
// pipe moves by the same amount each tick.
type Track struct {
	pipes []Pipe
	rng   *rand.Rand
	obs   config.FlappyObstacles
	world config.FlappyWorld
}

// NewTrack creates a new track with the given RNG seed.
func NewTrack(seed int64, cfg config.FlappyConfig) *Track {
	t := &Track{
		pipes: make([]Pipe, 0, 8),
		obs:   cfg.Obstacles,
		world: cfg.World,
	}
	t.Reset(seed)
	return t
}

// Reset clears all pipes and reseeds the RNG.
func (t *Track) Reset(seed int64) {
	t.pipes = t.pipes[:0]
	t.rng = rand.New(rand.NewSource(seed))
}

// Spawn appends a new pipe just past the right edge of the world with its gap
// placed uniformly inside the configured safe range.
func (t *Track) Spawn() Pipe {
	gapTop := t.obs.GapTopMin
	if span := t.obs.GapTopMax - t.obs.GapTopMin; span > 0 {
		gapTop += t.rng.Intn(span + 1)
	}

	pipe := Pipe{
		X:         float64(t.world.Width + t.obs.SpawnOffset),
		GapTop:    float64(gapTop),
		GapHeight: float64(t.obs.GapHeight),
	}
	t.pipes = append(t.pipes, pipe)
	return pipe
}

// Place inserts a pipe at an explicit position, keeping the X order.
// Used to stage scenarios; regular play only spawns.
func (t *Track) Place(p Pipe) {
	i := len(t.pipes)
	for i > 0 && t.pipes[i-1].X > p.X {
		i--
	}
	t.pipes = append(t.pipes, Pipe{})
	copy(t.pipes[i+1:], t.pipes[i:])
	t.pipes[i] = p
}

// Advance moves every pipe left by speed, marks pipes whose trailing edge
// passed refX, and drops pipes whose trailing edge reached the cleanup
// margin. It returns the pipes whose horizontal center crossed refX during
// this tick.
func (t *Track) Advance(speed, refX float64) []Pipe {
	var crossed []Pipe
	width := t.obs.PipeWidth

	for i := range t.pipes {
		p := &t.pipes[i]
		before := p.CenterX(width) - refX
		p.X -= speed
		if before > 0 && p.CenterX(width)-refX <= 0 {
			crossed = append(crossed, *p)
		}
		if !p.Passed && p.Right(width) < refX {
			p.Passed = true
		}
	}

	margin := float64(t.obs.CleanupMargin)
	live := t.pipes[:0]
	for _, p := range t.pipes {
		if p.Right(width) > margin {
			live = append(live, p)
		}
	}
	t.pipes = live

	return crossed
}

// NextAhead returns the pipe with the smallest strictly positive horizontal
// offset from refX, measured at the pipe's center.
func (t *Track) NextAhead(refX float64) (Pipe, bool) {
	var best Pipe
	found := false
	bestDX := 0.0
	for _, p := range t.pipes {
		dx := p.CenterX(t.obs.PipeWidth) - refX
		if dx > 0 && (!found || dx < bestDX) {
			best, bestDX, found = p, dx, true
		}
	}
	return best, found
}

// Upcoming returns the nearest pipe whose trailing edge is still right of
// left. A pipe the avatar overlaps stays upcoming until its back edge clears.
func (t *Track) Upcoming(left float64) (Pipe, bool) {
	return t.NextAhead(left - float64(t.obs.PipeWidth)/2)
}

// Collides reports whether r touches the ceiling, the floor, or any pipe.
func (t *Track) Collides(r core.Rect) bool {
	floorY := t.world.FloorY()
	if r.Y <= 0 || r.Bottom() >= floorY {
		return true
	}
	for _, p := range t.pipes {
		if r.Intersects(p.TopRect(t.obs.PipeWidth)) || r.Intersects(p.BottomRect(t.obs.PipeWidth, floorY)) {
			return true
		}
	}
	return false
}

// Pipes returns the live pipes. The slice must not be modified.
func (t *Track) Pipes() []Pipe {
	return t.pipes
}

// Len returns the number of live pipes.
func (t *Track) Len() int {
	return len(t.pipes)
}

// PipeWidth returns the configured pipe width.
func (t *Track) PipeWidth() int {
	return t.obs.PipeWidth
}
