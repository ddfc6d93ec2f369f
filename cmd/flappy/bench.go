package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/bench"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagEpisodes      int
	flagTicks         int
	flagBenchStrategy string
	flagRecord        bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark autopilot strategies",
	Long: `Run autopilot episodes headlessly and compare strategies.

Episode i of every strategy uses seed --seed + i, so strategies face the
same pipes. Collisions follow the config's invulnerable setting.

Examples:
  flappy bench
  flappy bench --episodes 100 --ticks 7200
  flappy bench --strategy steering --seed 42 --record
  flappy bench --difficulty hard -v`,
	Run: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagEpisodes, "episodes", 20, "Episodes per strategy")
	benchCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Maximum ticks per episode")
	benchCmd.Flags().StringVar(&flagBenchStrategy, "strategy", "all", "Strategy: all, predictive, steering")
	benchCmd.Flags().BoolVar(&flagRecord, "record", false, "Store results in the run log")
}

func runBench(_ *cobra.Command, _ []string) {
	logger := newLogger()

	strategies := config.Strategies
	if flagBenchStrategy != "all" {
		s, ok := config.ParseStrategy(flagBenchStrategy)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", flagBenchStrategy)
			os.Exit(1)
		}
		strategies = []config.Strategy{s}
	}

	cfg, err := flappy.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results, err := bench.Run(ctx, bench.Options{
		Episodes:   flagEpisodes,
		Ticks:      flagTicks,
		Seed:       seed,
		Strategies: strategies,
		Config:     cfg,
	}, logger)
	if errors.Is(err, context.Canceled) {
		logger.Warn("benchmark interrupted", "episodes", len(results))
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(bench.Summarize(results), seed, time.Since(start))

	if !flagRecord || len(results) == 0 {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.SaveRuns(bench.Records(results)); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording runs: %v\n", err)
		return
	}
	logger.Info("recorded runs", "count", len(results), "run_id", results[0].RunID, "db", flagDBPath)
}

func printSummary(summaries []bench.Summary, seed int64, elapsed time.Duration) {
	fmt.Printf("Seed %d, finished in %s\n", seed, elapsed.Round(time.Millisecond))
	fmt.Println()

	if len(summaries) == 0 {
		fmt.Println("No episodes completed.")
		return
	}

	fmt.Printf("  %-11s  %8s  %9s  %9s  %8s  %8s  %8s  %10s\n",
		"Strategy", "Episodes", "Avg", "Best", "Gates", "In band", "Contacts", "Terminated")
	fmt.Printf("  %-11s  %8s  %9s  %9s  %8s  %8s  %8s  %10s\n",
		"--------", "--------", "---", "----", "-----", "-------", "--------", "----------")

	for _, s := range summaries {
		fmt.Printf("  %-11s  %8d  %9.2f  %9.2f  %8s  %7.1f%%  %8s  %10d\n",
			s.Strategy, s.Episodes, s.AvgScore, s.BestScore,
			humanize.Comma(int64(s.Gates)), s.BandRate()*100,
			humanize.Comma(int64(s.Contacts)), s.Terminated)
	}
}
