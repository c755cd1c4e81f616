package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Sim.TickRate)
	assert.Equal(t, uint64(1), cfg.Sim.Seed)
	assert.True(t, cfg.Sim.Authoritative)
	assert.Equal(t, 30.0, cfg.Sim.CorpseTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Prefabs.Dir)
	assert.False(t, cfg.Prefabs.Watch)
	assert.Equal(t, "arena", cfg.Level.Name)
	assert.Equal(t, ":8089", cfg.Feed.Addr)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, cfg, Default())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "npcsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sim:
  tick_rate: 30
  seed: 42
log:
  format: json
level:
  name: corridor
feed:
  enabled: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Sim.TickRate)
	assert.Equal(t, uint64(42), cfg.Sim.Seed)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "corridor", cfg.Level.Name)
	assert.False(t, cfg.Feed.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30.0, cfg.Sim.CorpseTTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NPCSIM_SIM_TICK_RATE", "20")
	t.Setenv("NPCSIM_PREFABS_DIR", "/srv/prefabs")
	t.Setenv("NPCSIM_PREFABS_WATCH", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Sim.TickRate)
	assert.Equal(t, "/srv/prefabs", cfg.Prefabs.Dir)
	assert.True(t, cfg.Prefabs.Watch)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cases := []struct {
		name string
		body string
	}{
		{"zero_tick_rate", "sim:\n  tick_rate: 0\n"},
		{"negative_corpse_ttl", "sim:\n  corpse_ttl: -1\n"},
		{"empty_level", "level:\n  name: \"\"\n"},
		{"feed_without_addr", "feed:\n  addr: \"\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(c.body), 0o644))
			_, err := Load(path)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}
