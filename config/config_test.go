package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irishsmurf/go-broadside/ai"
	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/sailing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ":6060", cfg.Server.PprofAddr)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, float64(game.TickRate), cfg.Sim.TickRate)
	assert.Equal(t, game.DefaultShipParams(), cfg.Ship)
	assert.Equal(t, sailing.DefaultParams(), cfg.Sailing)
	assert.Equal(t, ai.DefaultParams(), cfg.AI)
	assert.Equal(t, game.DefaultConfig(), cfg.Game())
	assert.False(t, cfg.Record.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Record.FlushInterval)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broadside.json")
	body := `{
		"server": { "addr": ":9000" },
		"log": { "level": "debug" },
		"ship": { "maxHealth": 4, "thrust": 2.5 },
		"battle": { "enemies": 6 }
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Ship.MaxHealth)
	assert.Equal(t, 2.5, cfg.Ship.Thrust)
	assert.Equal(t, 6, cfg.Battle.Enemies)
	// Untouched keys keep their defaults.
	assert.Equal(t, game.DefaultShipParams().Drag, cfg.Ship.Drag)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BROADSIDE_SERVER_ADDR", ":7777")
	t.Setenv("BROADSIDE_ORDERS_INTERVAL", "0.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, 0.5, cfg.Orders.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/broadside.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broadside.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  tickRate: 0\nship:\n  maxHealth: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sim.tickRate")
	assert.Contains(t, err.Error(), "ship.maxHealth")
}

func TestLoad_RecordSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broadside.yaml")
	body := "record:\n  enabled: true\n  path: battles.db\n  flushInterval: 500ms\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Record.Enabled)
	assert.Equal(t, "battles.db", cfg.Record.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Record.FlushInterval)
}
