package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagLimit        int
	flagRunsStrategy string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded benchmark runs",
	Long: `Display the most recent benchmark runs and per-strategy aggregates.

Runs are recorded with 'flappy bench --record'.

Examples:
  flappy runs
  flappy runs --limit 50
  flappy runs --strategy predictive`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsStrategy, "strategy", "", "Only show one strategy")
}

func runRuns(_ *cobra.Command, _ []string) {
	if flagRunsStrategy != "" {
		if _, ok := config.ParseStrategy(flagRunsStrategy); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", flagRunsStrategy)
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run log: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []storage.RunRecord
	if flagRunsStrategy == "" {
		runs, err = store.RecentRuns(flagLimit)
	} else {
		runs, err = store.RunsByStrategy(flagRunsStrategy, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Println("Recorded runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Record some with 'flappy bench --record'.")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-11s  %-20s  %9s  %6s  %8s  %8s\n",
		"When", "Strategy", "Seed", "Score", "Gates", "In band", "Contacts")
	fmt.Printf("  %-16s  %-11s  %-20s  %9s  %6s  %8s  %8s\n",
		"----", "--------", "----", "-----", "-----", "-------", "--------")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-11s  %-20d  %9.2f  %6d  %7.1f%%  %8d\n",
			humanize.Time(r.CreatedAt), r.Strategy, r.Seed, r.Score, r.Gates, r.BandRate()*100, r.Contacts)
	}

	stats, err := store.StrategyStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error aggregating runs: %v\n", err)
		return
	}

	fmt.Println()
	for _, s := range stats {
		if flagRunsStrategy != "" && s.Strategy != flagRunsStrategy {
			continue
		}
		fmt.Printf("%s: %d runs, avg %.2f, best %.2f, %.1f%% in band, %d terminated, last %s\n",
			s.Strategy, s.Runs, s.AvgScore, s.BestScore, s.BandRate()*100, s.Terminated, humanize.Time(s.LastRun))
	}
}
