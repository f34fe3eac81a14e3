package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Server.MaxPlayers)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.WriteTimeout)
	assert.Equal(t, []int{5, 10, 15, 20, 25}, cfg.Spree.Thresholds)
	assert.Equal(t, ScoringConfig{Mob: 1, Boss: 25, Player: 10, Death: 5}, cfg.Scoring)
	assert.Empty(t, cfg.Combat.RulesPath)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "c.toml", `
[store]
driver = "postgres"
dsn = "postgres://x@db/stats"
write_timeout = "750ms"

[spree]
thresholds = [3]

[speed_kills]
window = "2s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://x@db/stats", cfg.Store.DSN)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.WriteTimeout)
	assert.Equal(t, []int{3}, cfg.Spree.Thresholds)
	assert.Equal(t, 2*time.Second, cfg.SpeedKills.Window)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.SpeedKills.Threshold)
	assert.Equal(t, 4096, cfg.Bus.QueueSize)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "c.toml", "[bus]\nqueue_size = 10\n")
	t.Setenv("COMBATSTATS_BUS_QUEUE_SIZE", "99")
	t.Setenv("COMBATSTATS_STORE_PATH", "/var/lib/stats.db")
	t.Setenv("COMBATSTATS_SPREE_THRESHOLDS", "2,4")
	t.Setenv("COMBATSTATS_SCORING_BOSS", "50")
	t.Setenv("COMBATSTATS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Bus.QueueSize)
	assert.Equal(t, "/var/lib/stats.db", cfg.Store.Path)
	assert.Equal(t, []int{2, 4}, cfg.Spree.Thresholds)
	assert.Equal(t, int64(50), cfg.Scoring.Boss)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeFile(t, "bad.toml", "[store\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"too many players", func(c *Config) { c.Server.MaxPlayers = 300 }, "max_players"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"sqlite without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = "postgres"; c.Store.DSN = "" }, "store.dsn"},
		{"empty queue", func(c *Config) { c.Bus.QueueSize = 0 }, "queue_size"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
	assert.NoError(t, defaults().Validate())
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "COMBATSTATS_TEST_DOTENV=from-file\n")
	t.Setenv("COMBATSTATS_TEST_DOTENV", "")
	os.Unsetenv("COMBATSTATS_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-file", os.Getenv("COMBATSTATS_TEST_DOTENV"))
}
