package flappy

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// NominalTick is the tick length assumed when no elapsed time is supplied.
const NominalTick = time.Second / 60

// Mode selects who decides the flaps.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// Phase is the episode's lifecycle state.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseRunning
	PhaseTerminated
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Input is what the player (or platform) supplies for one tick.
type Input struct {
	Flap bool
	Quit bool // Return to menu; ends the episode from any phase

	// Elapsed is the wall-clock time since the previous tick.
	// Zero means one nominal tick.
	Elapsed time.Duration
}

// Outcome reports what happened during one Step.
type Outcome struct {
	Terminated bool // Collision ended the episode this tick
	Exited     bool // Quit was requested this tick
	Flapped    bool
	Crossed    int  // Gates whose center passed the avatar this tick
	InBand     int  // Of those, how many were crossed inside the margin band
	Contact    bool // Collision predicate held but was not applied
}

// Stats accumulates per-episode statistics.
type Stats struct {
	Ticks    int
	Flaps    int
	Gates    int
	InBand   int
	Contacts int
}

// Episode is one play-through from reset to termination or exit.
// It is stepped by a single goroutine.
type Episode struct {
	cfg  config.FlappyConfig
	mode Mode

	phase  Phase
	exited bool

	avatar  Avatar
	track   *Track
	scoring *Scoring
	pilot   *Autopilot

	tick       time.Duration
	spawnEvery time.Duration
	spawnAcc   time.Duration

	clampTop, clampBottom float64

	distance float64 // Total scroll, drives the floor animation
	stats    Stats
}

// NewEpisode creates a fresh episode. Manual episodes wait for the first
// flap; autonomous episodes start running immediately.
func NewEpisode(cfg config.FlappyConfig, mode Mode, seed int64) *Episode {
	e := &Episode{
		cfg:        cfg,
		mode:       mode,
		track:      NewTrack(seed, cfg),
		scoring:    NewScoring(cfg),
		tick:       NominalTick,
		spawnEvery: time.Duration(cfg.Obstacles.SpawnIntervalMs) * time.Millisecond,
		clampTop:   cfg.Autopilot.ClampTop + float64(cfg.Player.Height)/2,
		clampBottom: float64(cfg.World.FloorY()-cfg.Player.Height) -
			cfg.Autopilot.ClampFloorGap,
	}
	if mode == ModeAuto {
		e.pilot = NewAutopilot(cfg)
	}
	e.Reset(seed)
	return e
}

// Reset restarts the episode with a new seed.
func (e *Episode) Reset(seed int64) {
	e.exited = false
	e.phase = PhaseWaiting
	if e.mode == ModeAuto {
		e.phase = PhaseRunning
	}

	e.avatar = Avatar{
		X: float64(e.cfg.Player.X),
		Y: float64(e.cfg.World.Height) / 2,
		W: e.cfg.Player.Width,
		H: e.cfg.Player.Height,
	}
	e.track.Reset(seed)
	e.scoring.Reset()
	if e.pilot != nil {
		e.pilot.Reset()
	}
	e.spawnAcc = 0
	e.distance = 0
	e.stats = Stats{}
}

// SetTickInterval sets the tick length used when Input.Elapsed is zero.
func (e *Episode) SetTickInterval(d time.Duration) {
	if d > 0 {
		e.tick = d
	}
}

// Step advances the episode by one tick.
func (e *Episode) Step(in Input) Outcome {
	var out Outcome

	if in.Quit && !e.exited {
		e.exited = true
		out.Exited = true
		return out
	}
	if e.exited || e.phase == PhaseTerminated {
		return out
	}

	if e.phase == PhaseWaiting {
		if !in.Flap {
			return out
		}
		e.phase = PhaseRunning
	}

	speed := e.scoring.Speed()

	out.Flapped = e.move(in, speed)
	if out.Flapped {
		e.stats.Flaps++
	}
	if e.mode == ModeAuto {
		e.avatar.Clamp(e.clampTop, e.clampBottom)
	}

	e.distance += speed
	margin := e.margin()
	for _, p := range e.track.Advance(speed, e.avatar.X) {
		out.Crossed++
		if math.Abs(e.avatar.Y-p.GapCenter()) <= margin {
			out.InBand++
		}
	}
	e.stats.Gates += out.Crossed
	e.stats.InBand += out.InBand

	e.spawn(in.Elapsed)

	if e.track.Collides(e.avatar.Rect()) {
		if e.collisionsApply() {
			e.phase = PhaseTerminated
			out.Terminated = true
			return out
		}
		out.Contact = true
		e.stats.Contacts++
	}

	e.scoring.Tick()
	e.stats.Ticks++
	return out
}

// move applies this tick's vertical motion and reports whether a flap
// happened.
func (e *Episode) move(in Input, speed float64) bool {
	cmd := Command{Kind: CommandCoast}
	switch {
	case e.pilot != nil:
		cmd = e.pilot.Decide(SituationFor(e.avatar, e.track, speed))
	case in.Flap:
		cmd = Command{Kind: CommandFlap}
	}

	a := &e.avatar
	switch cmd.Kind {
	case CommandSteer:
		a.Vel = cmd.Velocity
		a.Y += a.Vel
	case CommandFlap:
		a.Vel = Impulse(e.cfg.Physics.JumpImpulse)
		a.Vel, a.Y = Advance(a.Vel, a.Y, e.cfg.Physics.Gravity)
	default:
		a.Vel, a.Y = Advance(a.Vel, a.Y, e.cfg.Physics.Gravity)
	}
	return cmd.Kind == CommandFlap
}

func (e *Episode) spawn(elapsed time.Duration) {
	if e.spawnEvery <= 0 {
		return
	}
	if elapsed <= 0 {
		elapsed = e.tick
	}
	e.spawnAcc += elapsed
	for e.spawnAcc >= e.spawnEvery {
		e.track.Spawn()
		e.spawnAcc -= e.spawnEvery
	}
}

func (e *Episode) collisionsApply() bool {
	return e.mode == ModeManual || !e.cfg.Autopilot.Invulnerable
}

func (e *Episode) margin() float64 {
	return float64(e.cfg.Obstacles.GapHeight) * e.cfg.Autopilot.MarginRatio
}

// Mode returns the episode's control mode.
func (e *Episode) Mode() Mode { return e.mode }

// Phase returns the current lifecycle phase.
func (e *Episode) Phase() Phase { return e.phase }

// Exited reports whether the player asked to leave.
func (e *Episode) Exited() bool { return e.exited }

// Avatar returns a copy of the avatar.
func (e *Episode) Avatar() Avatar { return e.avatar }

// Track returns the obstacle track. Callers must not mutate it while the
// episode is being stepped.
func (e *Episode) Track() *Track { return e.track }

// Score returns the exact score.
func (e *Episode) Score() float64 { return e.scoring.Score() }

// DisplayScore returns floor(score).
func (e *Episode) DisplayScore() int { return e.scoring.Display() }

// Speed returns the current scroll speed.
func (e *Episode) Speed() float64 { return e.scoring.Speed() }

// Distance returns how far the world has scrolled.
func (e *Episode) Distance() float64 { return e.distance }

// Stats returns the accumulated statistics.
func (e *Episode) Stats() Stats { return e.stats }

// Strategy returns the autopilot strategy, or "" in manual mode.
func (e *Episode) Strategy() config.Strategy {
	if e.pilot == nil {
		return ""
	}
	return e.pilot.Strategy()
}

// Config returns the configuration the episode runs with.
func (e *Episode) Config() config.FlappyConfig { return e.cfg }

// SetAvatar places the avatar, for staging scenarios.
func (e *Episode) SetAvatar(y, vel float64) {
	e.avatar.Y = y
	e.avatar.Vel = vel
}
