package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// minLookaheadSpeed keeps the frames-ahead estimate finite when the scroll
// speed is zero or negative.
const minLookaheadSpeed = 1.0

// CommandKind says how a Command changes the avatar.
type CommandKind int

const (
	// CommandCoast lets gravity act without an impulse.
	CommandCoast CommandKind = iota
	// CommandFlap applies the impulse, then gravity.
	CommandFlap
	// CommandSteer sets the velocity directly and moves by it, bypassing gravity.
	CommandSteer
)

// String returns a short name for logs and tests.
func (k CommandKind) String() string {
	switch k {
	case CommandCoast:
		return "coast"
	case CommandFlap:
		return "flap"
	case CommandSteer:
		return "steer"
	default:
		return "unknown"
	}
}

// Command is a policy's decision for one tick.
type Command struct {
	Kind     CommandKind
	Velocity float64 // Only meaningful for CommandSteer
}

// Gate describes the pipe the avatar has to pass next: the first one whose
// trailing edge it has not cleared.
type Gate struct {
	Distance  float64 // Avatar center to pipe center; <= 0 while inside the pipe
	GapCenter float64
	GapHeight float64
}

// Situation is everything a policy may look at.
type Situation struct {
	Y, Vel float64
	Speed  float64
	Gate   *Gate // nil when no pipe is ahead
}

// FramesAhead estimates the ticks until the avatar reaches the gate.
func (s Situation) FramesAhead() float64 {
	if s.Gate == nil {
		return 0
	}
	return math.Max(1, s.Gate.Distance/math.Max(minLookaheadSpeed, s.Speed))
}

// Policy decides the avatar's vertical motion for one tick.
type Policy interface {
	Decide(s Situation) Command
}

// CenteringPolicy glides toward a fixed height with an exponentially smoothed
// proportional controller. Used when nothing is ahead.
type CenteringPolicy struct {
	TargetY   float64
	Gain      float64
	Smoothing float64 // Weight kept from the previous velocity
	MaxStep   float64
}

// Decide implements Policy.
func (p CenteringPolicy) Decide(s Situation) Command {
	desired := (p.TargetY - s.Y) * p.Gain
	v := s.Vel*p.Smoothing + desired*(1-p.Smoothing)
	v = core.ClampF(v, -p.MaxStep, p.MaxStep)
	return Command{Kind: CommandSteer, Velocity: v}
}

// SteeringPolicy spreads the remaining vertical error evenly over the ticks
// left before the gate and blends that into the current velocity. It does
// not model gravity.
type SteeringPolicy struct {
	Smoothing float64
	BaseStep  float64
	SpeedStep float64
}

// Decide implements Policy.
func (p SteeringPolicy) Decide(s Situation) Command {
	if s.Gate == nil {
		return Command{Kind: CommandCoast}
	}
	maxStep := p.BaseStep + p.SpeedStep*s.Speed
	desired := (s.Gate.GapCenter - s.Y) / s.FramesAhead()
	desired = core.ClampF(desired, -maxStep, maxStep)

	v := s.Vel*p.Smoothing + desired*(1-p.Smoothing)
	v = core.ClampF(v, -maxStep, maxStep)
	return Command{Kind: CommandSteer, Velocity: v}
}

// PredictivePolicy projects the avatar toward the gate under true gravity,
// with and without a flap, and flaps only when that keeps it inside the gap
// band. The projection horizon is capped at Lookahead ticks. A flap is never
// issued if the top of its arc would reach the upper pipe. After a flap it
// stays quiet for Cooldown ticks.
type PredictivePolicy struct {
	Gravity       float64
	Impulse       float64
	MarginRatio   float64
	Cooldown      int
	CloseFrames   float64
	FallThreshold float64
	Lookahead     float64
	HalfHeight    float64 // Half the avatar hitbox
	Clearance     float64

	wait int
}

// Decide implements Policy. Rules are checked in order; the first that
// matches wins.
func (p *PredictivePolicy) Decide(s Situation) Command {
	if s.Gate == nil {
		p.Idle()
		return Command{Kind: CommandCoast}
	}
	if p.wait > 0 {
		p.wait--
		return Command{Kind: CommandCoast}
	}
	if p.wants(s) {
		p.wait = p.Cooldown
		return Command{Kind: CommandFlap}
	}
	return Command{Kind: CommandCoast}
}

// Idle lets one tick of cooldown pass without deciding anything.
func (p *PredictivePolicy) Idle() {
	if p.wait > 0 {
		p.wait--
	}
}

func (p *PredictivePolicy) horizon(s Situation) float64 {
	t := s.FramesAhead()
	if p.Lookahead > 0 {
		t = math.Min(t, p.Lookahead)
	}
	return t
}

// clearsTop reports whether a flap from y tops out below the upper pipe.
func (p *PredictivePolicy) clearsTop(y float64, g *Gate) bool {
	return Apex(y, p.Impulse, p.Gravity) >= g.GapCenter-g.GapHeight/2+p.HalfHeight+p.Clearance
}

func (p *PredictivePolicy) wants(s Situation) bool {
	g := s.Gate
	t := p.horizon(s)
	margin := g.GapHeight * p.MarginRatio

	coastY := Project(s.Y, s.Vel, p.Gravity, t)
	flapY := Project(s.Y, Impulse(p.Impulse), p.Gravity, t)
	safe := p.clearsTop(s.Y, g)

	switch {
	case s.Y+s.Vel+p.Gravity >= g.GapCenter+g.GapHeight/2-p.HalfHeight:
		// Next tick reaches the lower pipe.
		return safe
	case coastY > g.GapCenter+margin:
		// Heading below the band; flap unless the flap overshoots above it.
		return safe && flapY >= g.GapCenter-margin
	case s.Y < g.GapCenter-margin && s.Vel < 0:
		// Already high and still rising; gravity will bring it back.
		return false
	case t <= math.Max(p.CloseFrames, s.Speed*p.CloseFrames) &&
		s.Vel > p.FallThreshold && s.Y > g.GapCenter+margin/2:
		// Last chance before the gate.
		return safe
	}
	return false
}

// Reset clears the cooldown.
func (p *PredictivePolicy) Reset() {
	p.wait = 0
}

// Cooling reports how many ticks of cooldown remain.
func (p *PredictivePolicy) Cooling() int {
	return p.wait
}

// Autopilot picks the centering policy when nothing is ahead and the
// configured gap policy otherwise.
type Autopilot struct {
	strategy  config.Strategy
	centering Policy
	gap       Policy
}

// NewAutopilot builds the controller described by cfg.
func NewAutopilot(cfg config.FlappyConfig) *Autopilot {
	a := cfg.Autopilot

	targetY := a.TargetY
	if targetY == 0 {
		targetY = float64(cfg.World.Height) / 2
	}

	var gap Policy
	switch a.Strategy {
	case config.StrategySteering:
		gap = SteeringPolicy{
			Smoothing: a.SteeringSmoothing,
			BaseStep:  a.SteeringBaseStep,
			SpeedStep: a.SteeringSpeedStep,
		}
	default:
		gap = &PredictivePolicy{
			Gravity:       cfg.Physics.Gravity,
			Impulse:       cfg.Physics.JumpImpulse,
			MarginRatio:   a.MarginRatio,
			Cooldown:      a.CooldownTicks,
			CloseFrames:   a.CloseFrames,
			FallThreshold: a.FallThreshold,
			Lookahead:     a.LookaheadTicks,
			HalfHeight:    float64(cfg.Player.Height) / 2,
			Clearance:     a.Clearance,
		}
	}

	strategy := a.Strategy
	if strategy == "" {
		strategy = config.StrategyPredictive
	}

	return &Autopilot{
		strategy: strategy,
		centering: CenteringPolicy{
			TargetY:   targetY,
			Gain:      a.CenteringGain,
			Smoothing: a.CenteringSmoothing,
			MaxStep:   a.CenteringMaxStep,
		},
		gap: gap,
	}
}

// Strategy returns the configured gap strategy.
func (a *Autopilot) Strategy() config.Strategy {
	return a.strategy
}

// Decide returns the command for this tick.
func (a *Autopilot) Decide(s Situation) Command {
	if s.Gate == nil {
		if p, ok := a.gap.(*PredictivePolicy); ok {
			p.Idle()
		}
		return a.centering.Decide(s)
	}
	return a.gap.Decide(s)
}

// Reset clears controller state between episodes.
func (a *Autopilot) Reset() {
	if p, ok := a.gap.(*PredictivePolicy); ok {
		p.Reset()
	}
}

// SituationFor builds the policy input from the avatar and the track.
func SituationFor(av Avatar, track *Track, speed float64) Situation {
	s := Situation{Y: av.Y, Vel: av.Vel, Speed: speed}
	if p, ok := track.Upcoming(av.X - float64(av.W)/2); ok {
		s.Gate = &Gate{
			Distance:  p.CenterX(track.PipeWidth()) - av.X,
			GapCenter: p.GapCenter(),
			GapHeight: p.GapHeight,
		}
	}
	return s
}
