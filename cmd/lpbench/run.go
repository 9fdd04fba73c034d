package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/theflywheel/lphash/bench"
)

// RunCmd runs the workloads of a YAML file
type RunCmd struct {
	Workloads string `short:"w" long:"workloads" required:"true" description:"workload YAML path"`
	Output    string `short:"o" long:"output" default:"benchmark_history/latest.json" description:"summary JSON path"`
	RepoRoot  string `long:"repo" default:"." description:"repository root used for git info"`

	opts *Options
}

// Execute implements flags.Commander
func (c *RunCmd) Execute(_ []string) error {
	logger, err := c.opts.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	workloads, err := bench.LoadWorkloads(c.Workloads)
	if err != nil {
		return err
	}

	summary := bench.NewSummary(c.RepoRoot)
	for _, w := range workloads {
		logger.Info("running workload",
			zap.String("name", w.Name),
			zap.Int("keys", w.Keys),
			zap.String("key_kind", w.KeyKind))
		result, err := bench.Run(w, logger)
		if err != nil {
			return err
		}
		summary.Results = append(summary.Results, result)
		fmt.Printf("%-20s %12.0f inserts/sec %12.0f lookups/sec capacity=%.0f\n",
			result.Name,
			result.Metrics["insertion_rate"],
			result.Metrics["lookup_rate"],
			result.Metrics["final_capacity"])
	}

	if err := summary.Save(c.Output); err != nil {
		return err
	}
	logger.Info("summary written", zap.String("path", c.Output))
	return nil
}
