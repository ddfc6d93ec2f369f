package flappy

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

func runTicks(e *Episode, n int, in Input) []Outcome {
	outs := make([]Outcome, 0, n)
	for i := 0; i < n; i++ {
		outs = append(outs, e.Step(in))
	}
	return outs
}

func TestManualEpisodeWaitsForFirstFlap(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeManual, 1)

	runTicks(e, 30, Input{Elapsed: time.Second})

	if e.Phase() != PhaseWaiting {
		t.Fatalf("Phase() = %v, expected waiting", e.Phase())
	}
	if a := e.Avatar(); a.Y != 300 || a.Vel != 0 {
		t.Errorf("avatar moved while waiting: y=%v vel=%v", a.Y, a.Vel)
	}
	if e.Track().Len() != 0 || e.Score() != 0 {
		t.Errorf("waiting episode spawned %d pipes and scored %v", e.Track().Len(), e.Score())
	}

	out := e.Step(Input{Flap: true})
	if e.Phase() != PhaseRunning || !out.Flapped {
		t.Fatalf("first flap: Phase() = %v Flapped = %v, expected running and flapped", e.Phase(), out.Flapped)
	}
	if a := e.Avatar(); a.Vel != -9.5 || a.Y != 290.5 {
		t.Errorf("after first flap y=%v vel=%v, expected 290.5 and -9.5", a.Y, a.Vel)
	}
	if !approx(e.Score(), 0.01) {
		t.Errorf("Score() = %v, expected 0.01", e.Score())
	}
}

func TestAutoEpisodeStartsRunning(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)
	if e.Phase() != PhaseRunning {
		t.Errorf("Phase() = %v, expected running", e.Phase())
	}
	if e.Strategy() != config.StrategyPredictive {
		t.Errorf("Strategy() = %q, expected predictive", e.Strategy())
	}
}

func TestManualEpisodeTerminatesOnFloor(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeManual, 1)
	e.Step(Input{Flap: true})

	terminated := false
	for i := 0; i < 200 && !terminated; i++ {
		terminated = e.Step(Input{}).Terminated
	}
	if !terminated || e.Phase() != PhaseTerminated {
		t.Fatalf("episode did not terminate, Phase() = %v", e.Phase())
	}

	score := e.Score()
	avatar := e.Avatar()
	out := e.Step(Input{Flap: true})
	if out != (Outcome{}) || e.Score() != score || e.Avatar() != avatar {
		t.Error("terminated episode reacted to input")
	}
}

func TestQuitExitsFromAnyPhase(t *testing.T) {
	for _, mode := range []Mode{ModeManual, ModeAuto} {
		t.Run(string(mode), func(t *testing.T) {
			e := NewEpisode(config.DefaultFlappyConfig(), mode, 1)
			runTicks(e, 10, Input{})

			out := e.Step(Input{Quit: true})
			if !out.Exited || !e.Exited() {
				t.Fatalf("Quit did not exit: %+v", out)
			}

			ticks := e.Stats().Ticks
			runTicks(e, 10, Input{Flap: true})
			if e.Stats().Ticks != ticks {
				t.Errorf("exited episode kept running")
			}
		})
	}
}

func TestInvulnerableAutoNeverTerminates(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 5)

	for i, out := range runTicks(e, 3000, Input{}) {
		if out.Terminated {
			t.Fatalf("auto episode terminated at tick %d", i)
		}
	}
	if e.Stats().Ticks != 3000 {
		t.Errorf("Stats().Ticks = %d, expected 3000", e.Stats().Ticks)
	}
	if e.Stats().Gates == 0 {
		t.Error("no gates crossed in 3000 ticks")
	}
}

func TestVulnerableAutoTerminates(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Autopilot.Invulnerable = false
	e := NewEpisode(cfg, ModeAuto, 1)

	// Lower pipe covers the avatar
	e.Track().Place(Pipe{X: 170, GapTop: 50, GapHeight: 170})

	if out := e.Step(Input{}); !out.Terminated {
		t.Errorf("Step() = %+v, expected termination", out)
	}
}

func TestAutopilotSurvivesWithCollisions(t *testing.T) {
	for _, strategy := range config.Strategies {
		for seed := int64(1); seed <= 8; seed++ {
			t.Run(fmt.Sprintf("%s/seed-%d", strategy, seed), func(t *testing.T) {
				cfg := config.DefaultFlappyConfig()
				cfg.Autopilot.Strategy = strategy
				cfg.Autopilot.Invulnerable = false
				e := NewEpisode(cfg, ModeAuto, seed)

				for i := 0; i < 3000; i++ {
					if out := e.Step(Input{}); out.Terminated {
						t.Fatalf("terminated at tick %d, y=%v, %d gates crossed", i, e.Avatar().Y, e.Stats().Gates)
					}
				}
				if e.Stats().Gates < 25 {
					t.Errorf("Stats().Gates = %d, expected at least 25", e.Stats().Gates)
				}
			})
		}
	}
}

func TestAutopilotAvoidsContactsWhenInvulnerable(t *testing.T) {
	for _, strategy := range config.Strategies {
		for _, preset := range []config.DifficultyPreset{config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard} {
			t.Run(fmt.Sprintf("%s/%s", strategy, preset), func(t *testing.T) {
				cfg := config.DefaultFlappyConfig()
				config.ApplyFlappyPreset(&cfg, preset)
				cfg.Autopilot.Strategy = strategy
				e := NewEpisode(cfg, ModeAuto, 11)

				runTicks(e, 3000, Input{})
				if e.Stats().Contacts != 0 {
					t.Errorf("Stats().Contacts = %d, expected 0", e.Stats().Contacts)
				}
			})
		}
	}
}

func TestInvulnerableAutoCountsContacts(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)
	e.Track().Place(Pipe{X: 170, GapTop: 50, GapHeight: 170})

	out := e.Step(Input{})
	if out.Terminated || !out.Contact {
		t.Errorf("Step() = %+v, expected a contact without termination", out)
	}
	if e.Stats().Contacts != 1 {
		t.Errorf("Stats().Contacts = %d, expected 1", e.Stats().Contacts)
	}
}

func TestAutoClampBounds(t *testing.T) {
	cfg := config.DefaultFlappyConfig()

	e := NewEpisode(cfg, ModeAuto, 1)
	e.SetAvatar(10, 0)
	e.Step(Input{})
	if a := e.Avatar(); a.Y != 40 || a.Vel != 0 {
		t.Errorf("top clamp: y=%v vel=%v, expected 40 and 0", a.Y, a.Vel)
	}

	e.SetAvatar(470, 0)
	e.Step(Input{})
	if a := e.Avatar(); a.Y != 458 || a.Vel != 0 {
		t.Errorf("bottom clamp: y=%v vel=%v, expected 458 and 0", a.Y, a.Vel)
	}

	for _, strategy := range config.Strategies {
		cfg.Autopilot.Strategy = strategy
		e := NewEpisode(cfg, ModeAuto, 3)
		for i := 0; i < 4000; i++ {
			e.Step(Input{})
			if y := e.Avatar().Y; y < 40 || y > 458 {
				t.Fatalf("%s: y=%v outside [40, 458] at tick %d", strategy, y, i)
			}
		}
	}
}

func TestPredictiveCrossesStagedGatesInBand(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)
	e.Track().Place(Pipe{X: 100, GapTop: 215, GapHeight: 170})
	e.Track().Place(Pipe{X: 300, GapTop: 365, GapHeight: 170})
	e.SetAvatar(300, 0)

	crossed, inBand := 0, 0
	for i := 0; i < 200; i++ {
		if e.Speed() != 5 {
			t.Fatalf("Speed() = %v at tick %d, expected 5", e.Speed(), i)
		}
		out := e.Step(Input{})
		if out.Terminated {
			t.Fatalf("terminated at tick %d", i)
		}
		crossed += out.Crossed
		inBand += out.InBand
	}

	if crossed != 1 {
		t.Errorf("crossed %d gates, expected 1", crossed)
	}
	if inBand != crossed {
		t.Errorf("%d of %d crossings inside the band", inBand, crossed)
	}
}

func TestScoreAfterRunningTicks(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 2)
	runTicks(e, 750, Input{})

	if !approx(e.Score(), 7.5) {
		t.Errorf("Score() = %v, expected 7.5", e.Score())
	}
	if e.DisplayScore() != 7 {
		t.Errorf("DisplayScore() = %d, expected 7", e.DisplayScore())
	}
}

func TestSpawnTimerUsesElapsed(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)

	e.Step(Input{Elapsed: 1400 * time.Millisecond})
	if e.Track().Len() != 0 {
		t.Fatalf("spawned before the interval: %d pipes", e.Track().Len())
	}
	e.Step(Input{Elapsed: 100 * time.Millisecond})
	if e.Track().Len() != 1 {
		t.Fatalf("Len() = %d, expected 1 after 1500ms", e.Track().Len())
	}
	e.Step(Input{Elapsed: 3 * time.Second})
	if e.Track().Len() != 3 {
		t.Errorf("Len() = %d, expected 3 after a 3s stall", e.Track().Len())
	}
}

func TestSpawnTimerFallsBackToTickInterval(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)
	e.SetTickInterval(500 * time.Millisecond)

	runTicks(e, 2, Input{})
	if e.Track().Len() != 0 {
		t.Fatalf("Len() = %d after 1s, expected 0", e.Track().Len())
	}
	e.Step(Input{})
	if e.Track().Len() != 1 {
		t.Errorf("Len() = %d after 1.5s, expected 1", e.Track().Len())
	}
}

func TestEpisodeDeterminism(t *testing.T) {
	for _, mode := range []Mode{ModeManual, ModeAuto} {
		t.Run(string(mode), func(t *testing.T) {
			a := NewEpisode(config.DefaultFlappyConfig(), mode, 12345)
			b := NewEpisode(config.DefaultFlappyConfig(), mode, 12345)

			for i := 0; i < 1500; i++ {
				in := Input{Flap: i%18 == 0}
				if oa, ob := a.Step(in), b.Step(in); oa != ob {
					t.Fatalf("outcomes differ at tick %d: %+v vs %+v", i, oa, ob)
				}
			}
			if a.Avatar() != b.Avatar() || a.Stats() != b.Stats() || a.Score() != b.Score() {
				t.Error("episodes diverged")
			}

			pa, pb := a.Track().Pipes(), b.Track().Pipes()
			if len(pa) != len(pb) {
				t.Fatalf("pipe counts differ: %d vs %d", len(pa), len(pb))
			}
			for i := range pa {
				if pa[i] != pb[i] {
					t.Errorf("pipe %d differs: %+v vs %+v", i, pa[i], pb[i])
				}
			}
		})
	}
}

func TestEpisodeResetRestoresStart(t *testing.T) {
	e := NewEpisode(config.DefaultFlappyConfig(), ModeAuto, 1)
	runTicks(e, 500, Input{})
	e.Reset(2)

	if e.Score() != 0 || e.Track().Len() != 0 || e.Stats() != (Stats{}) || e.Distance() != 0 {
		t.Error("Reset left state behind")
	}
	if a := e.Avatar(); a.Y != 300 || a.Vel != 0 || math.IsNaN(a.X) {
		t.Errorf("avatar after Reset = %+v", a)
	}
}
