package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fdsolve.yaml")
	contents := `
timeout_ms: 5000
memory_limit_mb: 256
float_precision: 0.0001
lp_cadence: 4
lp_iter_cap: 100
variable_heuristic: smallest_min
value_heuristic: split
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(5000), f.TimeoutMs)
	require.Equal(t, "smallest_min", f.VariableHeuristic)

	opts, err := f.Options()
	require.NoError(t, err)
	require.Len(t, opts, 7)
}

func TestOptionsRejectsUnknownHeuristic(t *testing.T) {
	f := File{VariableHeuristic: "bogus"}
	_, err := f.Options()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
