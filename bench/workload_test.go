package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLoadWorkloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workloads.yaml")
	doc := `workloads:
  - name: ints
    keys: 100
  - name: uuids
    keys: 50
    key_kind: uuid
    initial_capacity: 4
    load_factor: 0.75
    remove_ratio: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	workloads, err := LoadWorkloads(path)
	require.NoError(t, err)
	require.Len(t, workloads, 2)

	assert.Equal(t, "ints", workloads[0].Name)
	assert.Equal(t, KeyKindInt, workloads[0].KeyKind)
	assert.Equal(t, 16, workloads[0].InitialCapacity)
	assert.Equal(t, 0.5, workloads[0].LoadFactor)
	assert.Equal(t, "scale", workloads[0].Category)

	assert.Equal(t, KeyKindUUID, workloads[1].KeyKind)
	assert.Equal(t, 4, workloads[1].InitialCapacity)
	assert.Equal(t, 0.75, workloads[1].LoadFactor)
	assert.Equal(t, 0.5, workloads[1].RemoveRatio)
}

func TestLoadWorkloadsRejectsInvalid(t *testing.T) {
	testCases := map[string]string{
		"missing_name": "workloads:\n  - keys: 10\n",
		"bad_kind":     "workloads:\n  - name: x\n    key_kind: float\n",
		"bad_ratio":    "workloads:\n  - name: x\n    remove_ratio: 2\n",
		"bad_yaml":     "workloads: [\n",
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workloads.yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
			_, err := LoadWorkloads(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadWorkloads(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	for _, kind := range []string{KeyKindInt, KeyKindString, KeyKindUUID} {
		t.Run(kind, func(t *testing.T) {
			w := &Workload{Name: kind, Keys: 1000, KeyKind: kind, RemoveRatio: 0.3}
			w.Init()
			require.NoError(t, w.Validate())

			result, err := Run(w, zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
			require.NoError(t, err)

			assert.Equal(t, kind, result.Name)
			assert.Equal(t, 1000, result.Operations)
			assert.Equal(t, 700.0, result.Metrics["final_size"])
			// 16 slots at 0.5 must reach 2048 to hold 1000 keys
			assert.Equal(t, 2048.0, result.Metrics["final_capacity"])
			assert.Equal(t, 7.0, result.Metrics["doublings"])
			assert.Contains(t, result.Metrics, "removal_rate")
		})
	}
}

func TestRunRejectsOverfullTable(t *testing.T) {
	// A load factor above one never grows past the slots it starts with
	w := &Workload{Name: "overfull", Keys: 10, InitialCapacity: 4, LoadFactor: 4}
	w.Init()
	require.NoError(t, w.Validate())

	_, err := Run(w, zap.NewNop())
	assert.Error(t, err)
}

func TestDoublings(t *testing.T) {
	assert.Equal(t, 0.0, doublings(16, 16))
	assert.Equal(t, 3.0, doublings(16, 128))
	assert.Equal(t, 0.0, doublings(0, 8))
}
