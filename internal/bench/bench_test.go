package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

func testOptions() Options {
	return Options{
		Episodes:   3,
		Ticks:      600,
		Seed:       10,
		Strategies: config.Strategies,
		Config:     config.DefaultFlappyConfig(),
	}
}

func TestRunProducesOneResultPerEpisode(t *testing.T) {
	results, err := Run(context.Background(), testOptions(), nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("len(results) = %d, expected 6", len(results))
	}

	runID := results[0].RunID
	if runID == "" {
		t.Fatal("RunID is empty")
	}
	for i, r := range results {
		if r.RunID != runID {
			t.Errorf("results[%d].RunID = %q, expected %q", i, r.RunID, runID)
		}
		if r.Ticks != 600 || r.Terminated {
			t.Errorf("results[%d] ran %d ticks (terminated %v), expected 600", i, r.Ticks, r.Terminated)
		}
		if r.Seed != 10+int64(r.Episode) {
			t.Errorf("results[%d].Seed = %d, expected %d", i, r.Seed, 10+r.Episode)
		}
	}
	if results[0].Strategy != config.StrategyPredictive || results[5].Strategy != config.StrategySteering {
		t.Errorf("strategies out of order: %q ... %q", results[0].Strategy, results[5].Strategy)
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	opts := testOptions()
	opts.Strategies = []config.Strategy{config.StrategyPredictive}

	a, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	b, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for i := range a {
		if a[i].Stats != b[i].Stats || a[i].Score != b[i].Score {
			t.Errorf("episode %d differs: %+v vs %+v", i, a[i].Stats, b[i].Stats)
		}
		if a[i].RunID == b[i].RunID {
			t.Error("separate runs share a run ID")
		}
	}
}

func TestRunMatchesEpisode(t *testing.T) {
	opts := testOptions()
	opts.Episodes = 1
	opts.Strategies = []config.Strategy{config.StrategyPredictive}

	results, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	ep := flappy.NewEpisode(opts.Config, flappy.ModeAuto, opts.Seed)
	for i := 0; i < opts.Ticks; i++ {
		ep.Step(flappy.Input{})
	}
	if results[0].Stats != ep.Stats() {
		t.Errorf("Stats = %+v, expected %+v", results[0].Stats, ep.Stats())
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, testOptions(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, expected 0", len(results))
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	opts := testOptions()
	opts.Episodes = 0
	opts.Strategies = nil

	_, err := Run(context.Background(), opts, nil)
	if err == nil {
		t.Fatal("Run() accepted invalid options")
	}
	for _, want := range []string{"episodes", "strategies"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestRunLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	opts := testOptions()
	opts.Episodes = 1
	if _, err := Run(context.Background(), opts, logger); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"benchmarking", "episode done", "steering"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Strategy: config.StrategySteering, Score: 4, Stats: flappy.Stats{Gates: 2, InBand: 1}},
		{Strategy: config.StrategyPredictive, Score: 10, Stats: flappy.Stats{Gates: 5, InBand: 5, Flaps: 7}},
		{Strategy: config.StrategyPredictive, Score: 20, Terminated: true, Stats: flappy.Stats{Gates: 5, InBand: 4, Contacts: 2}},
	}

	sums := Summarize(results)
	if len(sums) != 2 {
		t.Fatalf("len(Summarize()) = %d, expected 2", len(sums))
	}

	p := sums[0]
	if p.Strategy != config.StrategyPredictive || p.Episodes != 2 || p.AvgScore != 15 || p.BestScore != 20 {
		t.Errorf("predictive summary = %+v", p)
	}
	if p.BandRate() != 0.9 || p.Terminated != 1 || p.Flaps != 7 || p.Contacts != 2 {
		t.Errorf("predictive summary = %+v (band %v)", p, p.BandRate())
	}
	if s := sums[1]; s.Strategy != config.StrategySteering || s.BandRate() != 0.5 {
		t.Errorf("steering summary = %+v", s)
	}
}

func TestRecords(t *testing.T) {
	r := Result{
		RunID:    "abc",
		Strategy: config.StrategySteering,
		Seed:     3,
		Ticks:    100,
		Score:    1,
		Stats:    flappy.Stats{Gates: 1, InBand: 1, Flaps: 0, Contacts: 4},
	}
	rec := Records([]Result{r})[0]

	if rec.RunID != "abc" || rec.Mode != "auto" || rec.Strategy != "steering" || rec.Contacts != 4 {
		t.Errorf("Record() = %+v", rec)
	}
}
