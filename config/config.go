package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SIGTRADER_"

// Config represents the complete engine configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Loop     LoopConfig     `json:"loop" yaml:"loop"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Publish  PublishConfig  `json:"publish" yaml:"publish"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// StrategyConfig contains strategy and risk parameters
type StrategyConfig struct {
	Instrument string  `json:"instrument" yaml:"instrument"`
	FixedRisk  float64 `json:"fixed_risk" yaml:"fixed_risk"` // loss at the stop, account currency
	Bars       int     `json:"bars" yaml:"bars"`             // window size requested per tick

	// Optional pre-trade limits, 0 disables.
	MaxRiskPct float64 `json:"max_risk_pct" yaml:"max_risk_pct"`
	MinRR      float64 `json:"min_rr" yaml:"min_rr"`
}

// LoopConfig controls the polling loop
type LoopConfig struct {
	Interval    string `json:"interval" yaml:"interval"` // e.g. "10s", "0s" for replays
	CloseOnExit bool   `json:"close_on_exit" yaml:"close_on_exit"`
	MaxTicks    int    `json:"max_ticks" yaml:"max_ticks"`
}

// IntervalDuration parses Interval.
func (l LoopConfig) IntervalDuration() (time.Duration, error) {
	if l.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(l.Interval)
}

// FeedConfig selects the bar source
type FeedConfig struct {
	Type   string  `json:"type" yaml:"type"` // "replay"
	Path   string  `json:"path" yaml:"path"`
	Spread float64 `json:"spread" yaml:"spread"`
	Warmup int     `json:"warmup" yaml:"warmup"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file" yaml:"trades_file"`
	EquityFile string `json:"equity_file" yaml:"equity_file"`
	DBPath     string `json:"db_path" yaml:"db_path"`
	ReportFile string `json:"report_file" yaml:"report_file"` // Org session report
}

type PublishConfig struct {
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	WebSocket WebSocketConfig `json:"websocket" yaml:"websocket"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Channel  string `json:"channel" yaml:"channel"`
	TTL      string `json:"ttl" yaml:"ttl"`
}

// TTLDuration parses TTL; empty means no expiry.
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(r.TTL)
}

type WebSocketConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr" yaml:"addr"` // e.g. ":8088", served at /ws
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON). Fields the
// file leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, else JSON)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Strategy.Instrument == "" {
		return fmt.Errorf("strategy.instrument is required")
	}
	if c.Strategy.FixedRisk <= 0 {
		return fmt.Errorf("strategy.fixed_risk must be positive")
	}
	if c.Strategy.FixedRisk >= c.Account.Balance {
		return fmt.Errorf("strategy.fixed_risk must be below account.balance")
	}
	if c.Strategy.Bars < 2 {
		return fmt.Errorf("strategy.bars must be at least 2")
	}
	if c.Strategy.MaxRiskPct < 0 || c.Strategy.MaxRiskPct > 1 {
		return fmt.Errorf("strategy.max_risk_pct must be between 0 and 1")
	}
	if c.Strategy.MinRR < 0 {
		return fmt.Errorf("strategy.min_rr must not be negative")
	}
	if d, err := c.Loop.IntervalDuration(); err != nil {
		return fmt.Errorf("loop.interval: %w", err)
	} else if d < 0 {
		return fmt.Errorf("loop.interval must not be negative")
	}
	if c.Loop.MaxTicks < 0 {
		return fmt.Errorf("loop.max_ticks must not be negative")
	}
	if c.Feed.Type != "replay" {
		return fmt.Errorf("feed.type must be 'replay'")
	}
	if c.Feed.Path == "" {
		return fmt.Errorf("feed.path is required")
	}
	if c.Feed.Spread < 0 {
		return fmt.Errorf("feed.spread must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Publish.Redis.Enabled && c.Publish.Redis.Addr == "" {
		return fmt.Errorf("publish.redis.addr is required when redis is enabled")
	}
	if _, err := c.Publish.Redis.TTLDuration(); err != nil {
		return fmt.Errorf("publish.redis.ttl: %w", err)
	}
	if c.Publish.WebSocket.Enabled && c.Publish.WebSocket.Addr == "" {
		return fmt.Errorf("publish.websocket.addr is required when websocket is enabled")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  10000,
		},
		Strategy: StrategyConfig{
			Instrument: "XAUUSD",
			FixedRisk:  10,
			Bars:       500,
		},
		Loop: LoopConfig{
			Interval: "10s",
		},
		Feed: FeedConfig{
			Type:   "replay",
			Path:   "./bars.csv",
			Spread: 0.3,
			Warmup: 20,
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Publish: PublishConfig{
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Channel: "sigtrader:snapshots",
			},
			WebSocket: WebSocketConfig{
				Addr: ":8088",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are named) into the process environment. Missing files are ignored and
// variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SIGTRADER_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.ApplyEnvFrom(os.LookupEnv)
}

// ApplyEnvFrom is ApplyEnv with a custom lookup.
func (c *Config) ApplyEnvFrom(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("INSTRUMENT"); ok {
		c.Strategy.Instrument = v
	}
	if v, ok := get("FEED_PATH"); ok {
		c.Feed.Path = v
	}
	if v, ok := get("INTERVAL"); ok {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%sINTERVAL: %w", EnvPrefix, err)
		}
		c.Loop.Interval = v
	}
	if v, ok := get("FIXED_RISK"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sFIXED_RISK: %w", EnvPrefix, err)
		}
		c.Strategy.FixedRisk = f
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.Publish.Redis.Addr = v
		c.Publish.Redis.Enabled = true
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		c.Publish.Redis.Password = v
	}
	if v, ok := get("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err)
		}
		c.Publish.Redis.DB = n
	}
	return nil
}
