package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig("testdata/bench.yaml")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "mem.prof", cfg.MemProfile)
	require.Empty(t, cfg.CPUProfile)
	require.Len(t, cfg.Workloads, 2)
	require.Equal(t, Workload{Name: "stream-mapped", Kind: "stream", Size: 9000, Iterations: 2, Mapped: true}, cfg.Workloads[1])
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	_, err := LoadConfig(write("kind.yaml", "workloads:\n  - {name: x, kind: sort, size: 1, iterations: 1}\n"))
	require.ErrorIs(t, err, errUnknownKind)

	_, err = LoadConfig(write("size.yaml", "workloads:\n  - {name: x, kind: copy, size: 0, iterations: 1}\n"))
	require.Error(t, err)

	_, err = LoadConfig(write("level.yaml", "log_level: loud\n"))
	require.Error(t, err)

	_, err = LoadConfig(write("broken.yaml", "workloads: [\n"))
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
