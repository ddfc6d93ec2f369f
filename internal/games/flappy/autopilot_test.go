package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

func newPredictive() *PredictivePolicy {
	cfg := config.DefaultFlappyConfig()
	return NewAutopilot(cfg).gap.(*PredictivePolicy)
}

func gateAt(distance, center float64) *Gate {
	return &Gate{Distance: distance, GapCenter: center, GapHeight: 170}
}

func TestFramesAhead(t *testing.T) {
	tests := []struct {
		name string
		s    Situation
		want float64
	}{
		{"distance over speed", Situation{Speed: 5, Gate: gateAt(50, 0)}, 10},
		{"at least one frame", Situation{Speed: 5, Gate: gateAt(2, 0)}, 1},
		{"zero speed", Situation{Speed: 0, Gate: gateAt(30, 0)}, 30},
		{"no gate", Situation{Speed: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.FramesAhead(); got != tt.want {
				t.Errorf("FramesAhead() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestPredictiveWithholdsWhenFlapOvershoots(t *testing.T) {
	// margin 34: coasting ends at 385 (> 354) but a flap ends at 225 (< 286)
	p := newPredictive()
	s := Situation{Y: 300, Vel: 6, Speed: 5, Gate: gateAt(50, 320)}

	if cmd := p.Decide(s); cmd.Kind != CommandCoast {
		t.Errorf("Decide() = %v, expected coast", cmd.Kind)
	}
}

func TestPredictiveRules(t *testing.T) {
	tests := []struct {
		name string
		s    Situation
		want CommandKind
	}{
		{"sinking below band", Situation{Y: 400, Vel: 2, Speed: 5, Gate: gateAt(50, 300)}, CommandFlap},
		{"high and rising", Situation{Y: 200, Vel: -3, Speed: 5, Gate: gateAt(50, 300)}, CommandCoast},
		{"last chance while falling", Situation{Y: 330, Vel: 5, Speed: 5, Gate: &Gate{Distance: 5, GapCenter: 300, GapHeight: 250}}, CommandFlap},
		{"last chance into the upper pipe", Situation{Y: 320, Vel: 5, Speed: 5, Gate: gateAt(5, 300)}, CommandCoast},
		{"flap would reach the upper pipe", Situation{Y: 320, Vel: 4, Speed: 5, Gate: gateAt(25, 300)}, CommandCoast},
		{"next tick hits the lower pipe", Situation{Y: 356, Vel: 9, Speed: 5, Gate: gateAt(-20, 300)}, CommandFlap},
		{"distant gate", Situation{Y: 350, Vel: 0, Speed: 5, Gate: gateAt(500, 300)}, CommandCoast},
		{"falling but centered", Situation{Y: 300, Vel: 5, Speed: 5, Gate: gateAt(5, 300)}, CommandCoast},
		{"slow fall near gate", Situation{Y: 320, Vel: 3, Speed: 5, Gate: gateAt(5, 300)}, CommandCoast},
		{"no gate", Situation{Y: 480, Vel: 9, Speed: 5}, CommandCoast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPredictive()
			if got := p.Decide(tt.s).Kind; got != tt.want {
				t.Errorf("Decide() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestPredictiveCooldown(t *testing.T) {
	p := newPredictive()
	sinking := Situation{Y: 400, Vel: 2, Speed: 5, Gate: gateAt(50, 300)}

	if cmd := p.Decide(sinking); cmd.Kind != CommandFlap {
		t.Fatalf("first Decide() = %v, expected flap", cmd.Kind)
	}
	for i := 0; i < 4; i++ {
		if cmd := p.Decide(sinking); cmd.Kind != CommandCoast {
			t.Fatalf("Decide() during cooldown tick %d = %v, expected coast", i+1, cmd.Kind)
		}
	}
	if cmd := p.Decide(sinking); cmd.Kind != CommandFlap {
		t.Errorf("Decide() after cooldown = %v, expected flap", cmd.Kind)
	}

	p.Reset()
	if p.Cooling() != 0 {
		t.Errorf("Cooling() after Reset = %d, expected 0", p.Cooling())
	}
}

func TestPredictiveLookaheadCap(t *testing.T) {
	// 100 ticks out even the flap arc has fallen past the band, so nothing
	// looks like an overshoot; 20 ticks out the flap still ends above it.
	s := Situation{Y: 350, Vel: 0, Speed: 5, Gate: gateAt(500, 300)}

	p := newPredictive()
	p.Lookahead = 0
	if cmd := p.Decide(s); cmd.Kind != CommandFlap {
		t.Errorf("uncapped Decide() = %v, expected flap", cmd.Kind)
	}

	p = newPredictive()
	if cmd := p.Decide(s); cmd.Kind != CommandCoast {
		t.Errorf("capped Decide() = %v, expected coast", cmd.Kind)
	}
}

func TestCooldownRunsWithoutGate(t *testing.T) {
	a := NewAutopilot(config.DefaultFlappyConfig())
	p := a.gap.(*PredictivePolicy)
	sinking := Situation{Y: 400, Vel: 2, Speed: 5, Gate: gateAt(50, 300)}

	if cmd := a.Decide(sinking); cmd.Kind != CommandFlap {
		t.Fatalf("Decide() = %v, expected flap", cmd.Kind)
	}
	for i := 0; i < 4; i++ {
		a.Decide(Situation{Y: 300})
	}
	if p.Cooling() != 0 {
		t.Fatalf("Cooling() after 4 open-sky ticks = %d, expected 0", p.Cooling())
	}
	if cmd := a.Decide(sinking); cmd.Kind != CommandFlap {
		t.Errorf("Decide() after cooldown = %v, expected flap", cmd.Kind)
	}
}

func TestSteeringPolicy(t *testing.T) {
	p := SteeringPolicy{Smoothing: 0.7, BaseStep: 10, SpeedStep: 0.5}

	// 100 px over 20 frames, blended 30%
	cmd := p.Decide(Situation{Y: 300, Vel: 0, Speed: 5, Gate: gateAt(100, 400)})
	if cmd.Kind != CommandSteer || !approx(cmd.Velocity, 1.5) {
		t.Errorf("Decide() = %+v, expected steer 1.5", cmd)
	}

	// Both the target and the blend are clamped to 10 + 0.5*5
	cmd = p.Decide(Situation{Y: 300, Vel: 20, Speed: 5, Gate: gateAt(5, 400)})
	if !approx(cmd.Velocity, 12.5) {
		t.Errorf("Decide() velocity = %v, expected 12.5", cmd.Velocity)
	}
	cmd = p.Decide(Situation{Y: 300, Vel: -20, Speed: 5, Gate: gateAt(5, 100)})
	if !approx(cmd.Velocity, -12.5) {
		t.Errorf("Decide() velocity = %v, expected -12.5", cmd.Velocity)
	}
}

func TestCenteringPolicy(t *testing.T) {
	p := CenteringPolicy{TargetY: 300, Gain: 0.04, Smoothing: 0.85, MaxStep: 8}

	cmd := p.Decide(Situation{Y: 200, Vel: 0})
	if cmd.Kind != CommandSteer || !approx(cmd.Velocity, 0.6) {
		t.Errorf("Decide() = %+v, expected steer 0.6", cmd)
	}

	cmd = p.Decide(Situation{Y: 200, Vel: 20})
	if !approx(cmd.Velocity, 8) {
		t.Errorf("Decide() velocity = %v, expected clamp at 8", cmd.Velocity)
	}

	cmd = p.Decide(Situation{Y: 300, Vel: 0})
	if cmd.Velocity != 0 {
		t.Errorf("Decide() at target = %v, expected 0", cmd.Velocity)
	}
}

func TestAutopilotSelectsPolicy(t *testing.T) {
	cfg := config.DefaultFlappyConfig()

	a := NewAutopilot(cfg)
	if a.Strategy() != config.StrategyPredictive {
		t.Errorf("Strategy() = %q, expected predictive", a.Strategy())
	}
	if cmd := a.Decide(Situation{Y: 200}); cmd.Kind != CommandSteer {
		t.Errorf("Decide() without gate = %v, expected steer", cmd.Kind)
	}
	if cmd := a.Decide(Situation{Y: 400, Vel: 2, Speed: 5, Gate: gateAt(50, 300)}); cmd.Kind != CommandFlap {
		t.Errorf("Decide() with gate = %v, expected flap", cmd.Kind)
	}

	cfg.Autopilot.Strategy = config.StrategySteering
	a = NewAutopilot(cfg)
	if cmd := a.Decide(Situation{Y: 400, Vel: 2, Speed: 5, Gate: gateAt(50, 300)}); cmd.Kind != CommandSteer {
		t.Errorf("steering Decide() = %v, expected steer", cmd.Kind)
	}
}

func TestSituationFor(t *testing.T) {
	tr := newTestTrack(Pipe{X: 100, GapTop: 215, GapHeight: 170}, Pipe{X: 300, GapTop: 365, GapHeight: 170})
	av := Avatar{X: 200, Y: 300, Vel: 1}

	s := SituationFor(av, tr, 5)
	if s.Gate == nil {
		t.Fatal("SituationFor() found no gate")
	}
	if s.Gate.Distance != 140 || s.Gate.GapCenter != 450 {
		t.Errorf("Gate = %+v, expected distance 140 and center 450", *s.Gate)
	}

	// A 50 px wide avatar still overlaps the first pipe's back edge at 180.
	av.W = 50
	s = SituationFor(av, tr, 5)
	if s.Gate == nil || s.Gate.Distance != -60 || s.Gate.GapCenter != 300 {
		t.Errorf("SituationFor() inside a pipe = %+v, expected distance -60 and center 300", s.Gate)
	}
	if got := s.FramesAhead(); got != 1 {
		t.Errorf("FramesAhead() inside a pipe = %v, expected 1", got)
	}

	s = SituationFor(av, newTestTrack(), 5)
	if s.Gate != nil {
		t.Errorf("SituationFor() on an empty track = %+v, expected no gate", *s.Gate)
	}
}
