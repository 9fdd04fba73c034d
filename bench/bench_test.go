// Package bench_test provides scale benchmarks for lphash.
//
// Scale benchmarks run each workload once regardless of -benchtime and
// append their metrics to benchmark_history/latest.json at the repository
// root, which cmd/lpbench compare can diff against a baseline.
package bench_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/theflywheel/lphash"
	"github.com/theflywheel/lphash/bench"
)

func BenchmarkPut(b *testing.B) {
	t := lphash.NewDefault[int, int]()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Put(i, i)
	}
}

func BenchmarkGet(b *testing.B) {
	const numKeys = 1 << 16
	t := lphash.NewDefault[int, int]()
	for i := 0; i < numKeys; i++ {
		t.Put(i, i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, found := t.Get(i & (numKeys - 1)); !found {
			b.Fatalf("key %d not found", i&(numKeys-1))
		}
	}
}

func BenchmarkGetString(b *testing.B) {
	const numKeys = 1 << 14
	keys := make([]string, numKeys)
	t := lphash.NewDefault[string, int]()
	for i := range keys {
		keys[i] = "key-" + strconv.Itoa(i)
		t.Put(keys[i], i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Get(keys[i&(numKeys-1)])
	}
}

func BenchmarkRemoveAndReinsert(b *testing.B) {
	const numKeys = 1 << 12
	t := lphash.NewDefault[int, int]()
	for i := 0; i < numKeys; i++ {
		t.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := i & (numKeys - 1)
		t.Remove(k)
		t.Put(k, i)
	}
}

func BenchmarkTenThousandKeys(b *testing.B) {
	runScale(b, &bench.Workload{Name: "TenThousandKeys", Keys: 10_000})
}

func BenchmarkMillionKeys(b *testing.B) {
	runScale(b, &bench.Workload{Name: "MillionKeys", Keys: 1_000_000, RemoveRatio: 0.25})
}

func BenchmarkStringKeys(b *testing.B) {
	runScale(b, &bench.Workload{Name: "StringKeys", Keys: 100_000, KeyKind: bench.KeyKindString})
}

func BenchmarkUUIDKeys(b *testing.B) {
	runScale(b, &bench.Workload{Name: "UUIDKeys", Keys: 100_000, KeyKind: bench.KeyKindUUID, LoadFactor: 0.7})
}

func runScale(b *testing.B, w *bench.Workload) {
	// Force benchmark to run only once regardless of -benchtime flag
	b.N = 1
	b.StopTimer()

	w.Init()
	if err := w.Validate(); err != nil {
		b.Fatal(err)
	}

	b.StartTimer()
	result, err := bench.Run(w, zap.NewNop())
	b.StopTimer()
	if err != nil {
		b.Fatal(err)
	}

	for name, value := range result.Metrics {
		b.ReportMetric(value, name)
	}
	if err := saveResult(result); err != nil {
		b.Logf("Failed to save benchmark result: %v", err)
	}
}

// saveResult appends result to benchmark_history/latest.json in the
// repository root.
func saveResult(result *bench.Result) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	repoRoot := filepath.Dir(currentDir)
	path := filepath.Join(repoRoot, "benchmark_history", "latest.json")

	summary := bench.NewSummary(repoRoot)
	if existing, err := bench.LoadSummary(path); err == nil {
		summary.Results = existing.Results
	}
	summary.Results = append(summary.Results, result)
	return summary.Save(path)
}
