package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 10000.0, cfg.Account.Balance)
	assert.Equal(t, 10.0, cfg.Strategy.FixedRisk)
	assert.Equal(t, "XAUUSD", cfg.Strategy.Instrument)
	assert.NoError(t, cfg.Validate())

	d, err := cfg.Loop.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing currency", func(c *Config) { c.Account.Currency = "" }, "account.currency is required"},
		{"negative balance", func(c *Config) { c.Account.Balance = -1000 }, "account.balance must be positive"},
		{"missing instrument", func(c *Config) { c.Strategy.Instrument = "" }, "strategy.instrument is required"},
		{"zero fixed risk", func(c *Config) { c.Strategy.FixedRisk = 0 }, "strategy.fixed_risk must be positive"},
		{"risk above balance", func(c *Config) { c.Strategy.FixedRisk = 20000 }, "strategy.fixed_risk must be below account.balance"},
		{"too few bars", func(c *Config) { c.Strategy.Bars = 1 }, "strategy.bars must be at least 2"},
		{"bad max risk", func(c *Config) { c.Strategy.MaxRiskPct = 1.5 }, "strategy.max_risk_pct must be between 0 and 1"},
		{"negative rr", func(c *Config) { c.Strategy.MinRR = -1 }, "strategy.min_rr must not be negative"},
		{"bad interval", func(c *Config) { c.Loop.Interval = "soon" }, "loop.interval"},
		{"negative interval", func(c *Config) { c.Loop.Interval = "-1s" }, "loop.interval must not be negative"},
		{"unknown feed", func(c *Config) { c.Feed.Type = "mt5" }, "feed.type must be 'replay'"},
		{"missing feed path", func(c *Config) { c.Feed.Path = "" }, "feed.path is required"},
		{"negative spread", func(c *Config) { c.Feed.Spread = -0.1 }, "feed.spread must not be negative"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "xml" }, "journal.type must be 'csv', 'sqlite' or 'none'"},
		{"csv without files", func(c *Config) { c.Journal.EquityFile = "" }, "journal trades_file and equity_file required for CSV type"},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }, "journal db_path required for SQLite type"},
		{"journal none", func(c *Config) { c.Journal = JournalConfig{Type: "none"} }, ""},
		{"redis without addr", func(c *Config) { c.Publish.Redis = RedisConfig{Enabled: true} }, "publish.redis.addr is required"},
		{"bad redis ttl", func(c *Config) { c.Publish.Redis.TTL = "forever" }, "publish.redis.ttl"},
		{"websocket without addr", func(c *Config) { c.Publish.WebSocket = WebSocketConfig{Enabled: true} }, "publish.websocket.addr is required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Strategy.FixedRisk = 25
	cfg.Loop.CloseOnExit = true
	cfg.Publish.WebSocket.Enabled = true
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fixed_risk: 25")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "./journal.db"}
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"db_path": "./journal.db"`)

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadKeepsZeroValues(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.yaml", "config.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Feed.Warmup = 0
			cfg.Publish.Redis.Channel = ""
			cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "./j.db"}
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Empty(t, loaded.Journal.TradesFile)
			assert.Empty(t, loaded.Journal.EquityFile)
			assert.Zero(t, loaded.Feed.Warmup)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed:\n  path: data/xau.csv\nloop:\n  interval: 0s\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data/xau.csv", cfg.Feed.Path)
	assert.Equal(t, "replay", cfg.Feed.Type)
	assert.Equal(t, 10.0, cfg.Strategy.FixedRisk)
	d, err := cfg.Loop.IntervalDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account: [unclosed"), 0o644))
	_, err = LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("strategy:\n  fixed_risk: -5\n"), 0o644))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnvFrom(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"SIGTRADER_LOG_LEVEL":      "debug",
		"SIGTRADER_FEED_PATH":      "/data/xau.csv",
		"SIGTRADER_INTERVAL":       "250ms",
		"SIGTRADER_FIXED_RISK":     "12.5",
		"SIGTRADER_REDIS_ADDR":     "redis:6379",
		"SIGTRADER_REDIS_PASSWORD": "secret",
		"SIGTRADER_REDIS_DB":       "2",
		"SIGTRADER_INSTRUMENT":     "  ",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvFrom(lookup))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/data/xau.csv", cfg.Feed.Path)
	assert.Equal(t, "250ms", cfg.Loop.Interval)
	assert.Equal(t, 12.5, cfg.Strategy.FixedRisk)
	assert.True(t, cfg.Publish.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Publish.Redis.Addr)
	assert.Equal(t, "secret", cfg.Publish.Redis.Password)
	assert.Equal(t, 2, cfg.Publish.Redis.DB)
	assert.Equal(t, "XAUUSD", cfg.Strategy.Instrument) // blank values are ignored
}

func TestApplyEnvFromErrors(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"SIGTRADER_INTERVAL", "SIGTRADER_FIXED_RISK", "SIGTRADER_REDIS_DB"} {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			lookup := func(k string) (string, bool) {
				if k == key {
					return "abc", true
				}
				return "", false
			}
			err := Default().ApplyEnvFrom(lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SIGTRADER_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SIGTRADER_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("SIGTRADER_TEST_DOTENV"))
}
