package bench

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// SignificanceThreshold is the percent change above which a metric
// difference counts as significant.
const SignificanceThreshold = 5.0

// Result holds the metrics of a single workload run
type Result struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Operations int                `json:"operations"`
	NsPerOp    float64            `json:"ns_per_op"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Summary represents all results of one run
type Summary struct {
	Timestamp string    `json:"timestamp"`
	CommitID  string    `json:"commit_id"`
	Branch    string    `json:"branch"`
	GoVersion string    `json:"go_version"`
	Results   []*Result `json:"results"`
}

// NewSummary returns an empty summary stamped with git info read from repoRoot.
func NewSummary(repoRoot string) *Summary {
	commitID, branch := gitInfo(repoRoot)
	return &Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
	}
}

// gitInfo reads the current branch and short commit ID from .git without
// shelling out. It falls back to "local" and "dev".
func gitInfo(repoRoot string) (commitID, branch string) {
	commitID, branch = "local", "dev"

	head, err := os.ReadFile(filepath.Join(repoRoot, ".git", "HEAD"))
	if err != nil {
		return commitID, branch
	}
	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, "ref: ") {
		// Detached HEAD holds the commit itself
		return truncateString(content, 8), branch
	}

	ref := strings.TrimPrefix(content, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(repoRoot, ".git", ref)); err == nil {
		commitID = truncateString(strings.TrimSpace(string(data)), 8)
	}
	return commitID, branch
}

// LoadSummary reads a summary written by Save
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %q: %w", path, err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse summary %q: %w", path, err)
	}
	return &s, nil
}

// Save writes the summary as indented JSON, creating parent directories.
func (s *Summary) Save(path string) error {
	return writeJSON(path, s)
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}

// MetricComparison represents a comparison between two metric values
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// Comparison compares one workload across two summaries
type Comparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	MetricComparisons []MetricComparison `json:"metric_comparisons"`
	OverallAssessment string             `json:"overall_assessment"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// ComparisonSummary represents the overall comparison result
type ComparisonSummary struct {
	BaseCommit             string        `json:"base_commit"`
	CurrentCommit          string        `json:"current_commit"`
	TotalBenchmarks        int           `json:"total_benchmarks"`
	ImprovedBenchmarks     int           `json:"improved_benchmarks"`
	RegressionBenchmarks   int           `json:"regression_benchmarks"`
	SignificantRegressions int           `json:"significant_regressions"`
	Comparisons            []*Comparison `json:"comparisons"`
}

// Save writes the comparison as indented JSON.
func (c *ComparisonSummary) Save(path string) error {
	return writeJSON(path, c)
}

// Compare matches results by name and classifies every shared metric.
// Comparisons are ordered worst first.
func Compare(base, current *Summary) *ComparisonSummary {
	baseResults := make(map[string]*Result, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	summary := &ComparisonSummary{
		BaseCommit:    base.CommitID,
		CurrentCommit: current.CommitID,
	}

	for _, cur := range current.Results {
		prev, ok := baseResults[cur.Name]
		if !ok {
			continue
		}

		comp := &Comparison{Name: cur.Name, Category: cur.Category}
		score := 0.0

		names := make([]string, 0, len(cur.Metrics))
		for name := range cur.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			baseValue, ok := prev.Metrics[name]
			if !ok {
				continue
			}
			mc := compareMetric(name, baseValue, cur.Metrics[name])
			if mc.IsRegression && mc.IsSignificant {
				comp.HasRegressions = true
			}
			switch {
			case mc.IsImprovement:
				score += math.Abs(mc.PercentChange)
			case mc.IsRegression:
				score -= math.Abs(mc.PercentChange)
			}
			comp.MetricComparisons = append(comp.MetricComparisons, mc)
		}
		if n := len(comp.MetricComparisons); n > 0 {
			comp.Score = score / float64(n)
		}

		switch {
		case comp.HasRegressions:
			comp.OverallAssessment = "REGRESSION"
			summary.RegressionBenchmarks++
			summary.SignificantRegressions++
		case comp.Score > 0:
			comp.OverallAssessment = "IMPROVEMENT"
			summary.ImprovedBenchmarks++
		default:
			comp.OverallAssessment = "NEUTRAL"
		}
		summary.Comparisons = append(summary.Comparisons, comp)
	}

	sort.SliceStable(summary.Comparisons, func(i, j int) bool {
		a, b := summary.Comparisons[i], summary.Comparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	summary.TotalBenchmarks = len(summary.Comparisons)
	return summary
}

func compareMetric(name string, baseValue, currentValue float64) MetricComparison {
	percentChange := 0.0
	if baseValue != 0 {
		percentChange = (currentValue - baseValue) / baseValue * 100
	}

	mc := MetricComparison{
		Name:          name,
		BaseValue:     baseValue,
		CurrentValue:  currentValue,
		PercentChange: percentChange,
		IsSignificant: math.Abs(percentChange) >= SignificanceThreshold,
	}
	if isHigherBetterMetric(name) {
		mc.IsRegression = percentChange < 0
		mc.IsImprovement = percentChange > 0
	} else {
		mc.IsRegression = percentChange > 0
		mc.IsImprovement = percentChange < 0
	}
	return mc
}

// isHigherBetterMetric determines if a higher value is better for a given metric
func isHigherBetterMetric(name string) bool {
	return strings.HasSuffix(name, "_rate") || name == "operations"
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
