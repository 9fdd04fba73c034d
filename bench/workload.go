// Package bench drives repeatable workloads against lphash tables and
// records their metrics so runs can be compared over time.
package bench

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/theflywheel/lphash"
)

// Key kinds understood by Workload.KeyKind.
const (
	KeyKindInt    = "int"
	KeyKindString = "string"
	KeyKindUUID   = "uuid"
)

// Workload describes one benchmark scenario.
type Workload struct {
	Name            string  `yaml:"name" json:"name"`
	Category        string  `yaml:"category,omitempty" json:"category,omitempty"`
	Keys            int     `yaml:"keys" json:"keys"`
	KeyKind         string  `yaml:"key_kind,omitempty" json:"key_kind,omitempty"`
	InitialCapacity int     `yaml:"initial_capacity,omitempty" json:"initial_capacity,omitempty"`
	LoadFactor      float64 `yaml:"load_factor,omitempty" json:"load_factor,omitempty"`
	RemoveRatio     float64 `yaml:"remove_ratio,omitempty" json:"remove_ratio,omitempty"`
	Seed            int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// WorkloadFile is the YAML document accepted by LoadWorkloads.
type WorkloadFile struct {
	Workloads []*Workload `yaml:"workloads"`
}

// LoadWorkloads reads and validates a YAML workload file
func LoadWorkloads(path string) ([]*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workload file %q: %w", path, err)
	}
	var file WorkloadFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse workload file %q: %w", path, err)
	}
	for _, w := range file.Workloads {
		w.Init()
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	return file.Workloads, nil
}

// Init fills unset fields with defaults.
func (w *Workload) Init() {
	if w.Category == "" {
		w.Category = "scale"
	}
	if w.KeyKind == "" {
		w.KeyKind = KeyKindInt
	}
	if w.InitialCapacity == 0 {
		w.InitialCapacity = lphash.DefaultInitialCapacity
	}
	if w.LoadFactor == 0 {
		w.LoadFactor = lphash.DefaultLoadFactor
	}
	if w.Seed == 0 {
		w.Seed = 1
	}
}

// Validate reports configuration errors
func (w *Workload) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workload name is required")
	}
	if w.Keys < 0 {
		return fmt.Errorf("workload %q: keys must not be negative", w.Name)
	}
	switch w.KeyKind {
	case KeyKindInt, KeyKindString, KeyKindUUID:
	default:
		return fmt.Errorf("workload %q: unknown key kind %q", w.Name, w.KeyKind)
	}
	if w.RemoveRatio < 0 || w.RemoveRatio > 1 {
		return fmt.Errorf("workload %q: remove ratio %v out of [0, 1]", w.Name, w.RemoveRatio)
	}
	return nil
}

// Run executes the workload and returns its metrics. Every inserted key is
// read back and checked, so a non-nil error means the table misbehaved.
func Run(w *Workload, logger *zap.Logger) (*Result, error) {
	switch w.KeyKind {
	case KeyKindString:
		return run(w, logger, func(i int, rng *rand.Rand) string {
			return fmt.Sprintf("key-%d-%s", i, generateAlphanumeric(rng, 8))
		})
	case KeyKindUUID:
		return run(w, logger, func(_ int, rng *rand.Rand) uuid.UUID {
			// rand.Rand never fails to read
			return uuid.Must(uuid.NewRandomFromReader(rng))
		})
	default:
		return run(w, logger, func(i int, _ *rand.Rand) int { return i })
	}
}

func run[K comparable](w *Workload, logger *zap.Logger, keyAt func(int, *rand.Rand) K) (*Result, error) {
	logger = logger.With(zap.String("workload", w.Name))
	rng := rand.New(rand.NewSource(w.Seed))

	t, err := lphash.New[K, int](w.InitialCapacity, w.LoadFactor, lphash.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("workload %q: %w", w.Name, err)
	}

	result := &Result{
		Name:       w.Name,
		Category:   w.Category,
		Operations: w.Keys,
		Metrics:    make(map[string]float64),
	}

	keys := make([]K, w.Keys)
	for i := range keys {
		keys[i] = keyAt(i, rng)
	}

	runtime.GC()
	before := memoryStats()

	insertStart := time.Now()
	for i, k := range keys {
		t.Put(k, i)
	}
	insertTime := time.Since(insertStart)
	if t.Size() != len(keys) {
		return nil, fmt.Errorf("workload %q: size %d after inserting %d distinct keys", w.Name, t.Size(), len(keys))
	}
	logger.Info("inserted keys",
		zap.Int("keys", len(keys)),
		zap.Duration("elapsed", insertTime),
		zap.Int("capacity", t.Capacity()))

	lookupStart := time.Now()
	for i, k := range keys {
		v, found := t.Get(k)
		if !found {
			return nil, fmt.Errorf("workload %q: key %d not found", w.Name, i)
		}
		if v != i {
			return nil, fmt.Errorf("workload %q: value mismatch for key %d: expected %d, got %d", w.Name, i, i, v)
		}
	}
	lookupTime := time.Since(lookupStart)

	toRemove := int(math.Floor(float64(len(keys)) * w.RemoveRatio))
	removeStart := time.Now()
	for i := 0; i < toRemove; i++ {
		if _, found := t.Remove(keys[i]); !found {
			return nil, fmt.Errorf("workload %q: key %d not removable", w.Name, i)
		}
	}
	removeTime := time.Since(removeStart)

	// Lookups after removal walk across tombstones
	for i, k := range keys {
		_, found := t.Get(k)
		if found != (i >= toRemove) {
			return nil, fmt.Errorf("workload %q: key %d found=%v after removing %d keys", w.Name, i, found, toRemove)
		}
	}
	after := memoryStats()

	result.Metrics["insertion_rate"] = rate(len(keys), insertTime)
	result.Metrics["lookup_rate"] = rate(len(keys), lookupTime)
	if toRemove > 0 {
		result.Metrics["removal_rate"] = rate(toRemove, removeTime)
	}
	result.Metrics["final_capacity"] = float64(t.Capacity())
	result.Metrics["final_size"] = float64(t.Size())
	result.Metrics["doublings"] = doublings(w.InitialCapacity, t.Capacity())
	result.Metrics["alloc_mb"] = after["alloc_mb"] - before["alloc_mb"]
	result.NsPerOp = float64((insertTime + lookupTime + removeTime).Nanoseconds()) / math.Max(1, float64(len(keys)))
	return result, nil
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

func doublings(initial, final int) float64 {
	if initial <= 0 || final <= initial {
		return 0
	}
	return math.Round(math.Log2(float64(final) / float64(initial)))
}

// memoryStats returns the current memory stats as a map
func memoryStats() map[string]float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]float64{
		"alloc_mb": float64(m.Alloc) / (1024 * 1024),
		"sys_mb":   float64(m.Sys) / (1024 * 1024),
	}
}

// generateAlphanumeric creates a random alphanumeric string of given length
func generateAlphanumeric(rng *rand.Rand, length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rng.Intn(len(charset))]
	}
	return string(result)
}
