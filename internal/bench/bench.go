// Package bench runs headless autopilot episodes and collects per-strategy
// statistics.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// cancelCheckEvery is how many ticks run between context checks.
const cancelCheckEvery = 1000

// Options configures a benchmark.
type Options struct {
	Episodes   int
	Ticks      int   // Upper bound per episode
	Seed       int64 // Seed of the first episode; episode i uses Seed+i
	Strategies []config.Strategy
	Config     config.FlappyConfig
}

// Result is one benchmarked episode.
type Result struct {
	RunID      string
	Strategy   config.Strategy
	Episode    int
	Seed       int64
	Ticks      int
	Score      float64
	Terminated bool
	Stats      flappy.Stats
}

// Record converts the result into a run log row.
func (r Result) Record() storage.RunRecord {
	return storage.RunRecord{
		RunID:      r.RunID,
		Mode:       string(flappy.ModeAuto),
		Strategy:   string(r.Strategy),
		Seed:       r.Seed,
		Ticks:      r.Ticks,
		Score:      r.Score,
		Gates:      r.Stats.Gates,
		InBand:     r.Stats.InBand,
		Flaps:      r.Stats.Flaps,
		Contacts:   r.Stats.Contacts,
		Terminated: r.Terminated,
	}
}

// Summary aggregates results per strategy.
type Summary struct {
	Strategy   config.Strategy
	Episodes   int
	AvgScore   float64
	BestScore  float64
	Gates      int
	InBand     int
	Flaps      int
	Contacts   int
	Terminated int
}

// BandRate returns the share of gates crossed inside the margin band.
func (s Summary) BandRate() float64 {
	if s.Gates == 0 {
		return 0
	}
	return float64(s.InBand) / float64(s.Gates)
}

func (o Options) validate() error {
	var errs []error
	if o.Episodes <= 0 {
		errs = append(errs, fmt.Errorf("episodes must be positive, got %d", o.Episodes))
	}
	if o.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("ticks must be positive, got %d", o.Ticks))
	}
	if len(o.Strategies) == 0 {
		errs = append(errs, errors.New("no strategies selected"))
	}
	if err := config.Validate(o.Config); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run benchmarks every strategy over opts.Episodes episodes. All results of
// one call share a run ID. On cancellation the results gathered so far are
// returned together with the context's error.
func Run(ctx context.Context, opts Options, logger *log.Logger) ([]Result, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("bench: invalid options: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	runID := uuid.NewString()
	results := make([]Result, 0, opts.Episodes*len(opts.Strategies))

	for _, strategy := range opts.Strategies {
		cfg := opts.Config
		cfg.Autopilot.Strategy = strategy
		logger.Info("benchmarking", "strategy", strategy, "episodes", opts.Episodes, "ticks", opts.Ticks)

		for i := 0; i < opts.Episodes; i++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			seed := opts.Seed + int64(i)
			res, err := runEpisode(ctx, cfg, seed, opts.Ticks)
			if err != nil {
				return results, err
			}
			res.RunID = runID
			res.Strategy = strategy
			res.Episode = i
			results = append(results, res)

			logger.Debug("episode done",
				"strategy", strategy,
				"episode", i,
				"seed", seed,
				"score", fmt.Sprintf("%.2f", res.Score),
				"gates", res.Stats.Gates,
				"in_band", res.Stats.InBand,
				"contacts", res.Stats.Contacts,
			)
		}
	}

	return results, nil
}

func runEpisode(ctx context.Context, cfg config.FlappyConfig, seed int64, ticks int) (Result, error) {
	ep := flappy.NewEpisode(cfg, flappy.ModeAuto, seed)
	res := Result{Seed: seed}

	for t := 0; t < ticks; t++ {
		if t > 0 && t%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if out := ep.Step(flappy.Input{}); out.Terminated {
			res.Terminated = true
			break
		}
	}

	res.Stats = ep.Stats()
	res.Ticks = res.Stats.Ticks
	res.Score = ep.Score()
	return res, nil
}

// Summarize aggregates results per strategy, in strategy order.
func Summarize(results []Result) []Summary {
	byStrategy := make(map[config.Strategy]*Summary)
	for _, r := range results {
		s, ok := byStrategy[r.Strategy]
		if !ok {
			s = &Summary{Strategy: r.Strategy}
			byStrategy[r.Strategy] = s
		}
		s.Episodes++
		s.AvgScore += r.Score
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		s.Gates += r.Stats.Gates
		s.InBand += r.Stats.InBand
		s.Flaps += r.Stats.Flaps
		s.Contacts += r.Stats.Contacts
		if r.Terminated {
			s.Terminated++
		}
	}

	summaries := make([]Summary, 0, len(byStrategy))
	for _, s := range byStrategy {
		s.AvgScore /= float64(s.Episodes)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Strategy < summaries[j].Strategy
	})
	return summaries
}

// Records converts results to run log rows.
func Records(results []Result) []storage.RunRecord {
	records := make([]storage.RunRecord, len(results))
	for i, r := range results {
		records[i] = r.Record()
	}
	return records
}
