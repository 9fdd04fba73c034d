package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/theflywheel/lphash/bench"
)

// CompareCmd diffs two summaries written by the run command
type CompareCmd struct {
	Output string `short:"o" long:"output" default:"benchmark-comparison.json" description:"comparison JSON path"`
	Args   struct {
		Base    string `positional-arg-name:"base" required:"true"`
		Current string `positional-arg-name:"current" required:"true"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander
func (c *CompareCmd) Execute(_ []string) error {
	base, err := bench.LoadSummary(c.Args.Base)
	if err != nil {
		return err
	}
	current, err := bench.LoadSummary(c.Args.Current)
	if err != nil {
		return err
	}

	comparison := bench.Compare(base, current)
	printComparison(os.Stdout, comparison)

	if err := comparison.Save(c.Output); err != nil {
		return err
	}
	fmt.Printf("Comparison JSON written to %s\n", c.Output)

	if comparison.SignificantRegressions > 0 {
		return fmt.Errorf("%d workloads: %w", comparison.SignificantRegressions, ErrRegression)
	}
	return nil
}

// printComparison outputs a human-readable comparison report
func printComparison(w io.Writer, summary *bench.ComparisonSummary) {
	fmt.Fprintf(w, "Benchmark Comparison: %s vs %s\n\n", summary.BaseCommit, summary.CurrentCommit)
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "- Total benchmarks compared: %d\n", summary.TotalBenchmarks)
	fmt.Fprintf(w, "- Improvements: %d\n", summary.ImprovedBenchmarks)
	fmt.Fprintf(w, "- Regressions: %d (significant: %d)\n\n",
		summary.RegressionBenchmarks, summary.SignificantRegressions)

	if summary.TotalBenchmarks == 0 {
		fmt.Fprintln(w, "No matching benchmarks found for comparison")
		return
	}

	for _, comp := range summary.Comparisons {
		fmt.Fprintf(w, "%s %s (%s):\n", comp.OverallAssessment, comp.Name, comp.Category)

		metrics := append([]bench.MetricComparison(nil), comp.MetricComparisons...)
		sort.Slice(metrics, func(i, j int) bool {
			return math.Abs(metrics[i].PercentChange) > math.Abs(metrics[j].PercentChange)
		})
		for _, m := range metrics {
			if m.PercentChange == 0 {
				continue
			}
			indicator := " "
			if m.IsRegression && m.IsSignificant {
				indicator = "▼"
			} else if m.IsImprovement && m.IsSignificant {
				indicator = "▲"
			}
			fmt.Fprintf(w, "  %s %-20s: %+8.2f%% (%g → %g)\n",
				indicator, m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
		}
	}
}
