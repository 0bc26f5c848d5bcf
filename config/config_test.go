package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-grid/runtime"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Rows)
	assert.Equal(t, 100, cfg.Columns)
	assert.Equal(t, runtime.FlushOnMessageAndTick, cfg.Policy())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
rows: 10
columns: 12
seed: 42
tick_rate: 250ms
auto_randomize: 2s
flush_policy: tick
log_level: debug
metrics_addr: "localhost:9090"
`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Rows)
	assert.Equal(t, 12, cfg.Columns)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.TickRate)
	assert.Equal(t, 2*time.Second, cfg.AutoRandomize)
	assert.Equal(t, runtime.FlushOnTick, cfg.Policy())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "localhost:9090", cfg.MetricsAddr)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("rows: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Rows)
	assert.Equal(t, Default().Columns, cfg.Columns)
	assert.Equal(t, Default().TickRate, cfg.TickRate)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"zero rows":      "rows: 0\n",
		"huge columns":   "columns: 5000\n",
		"bad policy":     "flush_policy: sometimes\n",
		"bad level":      "log_level: loud\n",
		"negative tick":  "tick_rate: -1s\n",
		"bad addr":       "metrics_addr: not-an-addr\n",
		"malformed yaml": "rows: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "gridwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: 3\ncolumns: 3\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Rows)

	require.NoError(t, os.WriteFile(path, []byte("rows: -3\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
