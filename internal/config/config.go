// Package config loads blink's YAML configuration file.
//
// The file is decoded into a generic map first and then into Config with
// mapstructure, so YAML numbers, strings and durations ("10m") all land in
// typed fields and unknown keys are reported instead of ignored.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "blink.yaml"

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Strategy      string `mapstructure:"strategy" yaml:"strategy"`
	MemoThreshold uint32 `mapstructure:"memo_threshold" yaml:"memo_threshold"`
	OutcomeCache  bool   `mapstructure:"outcome_cache" yaml:"outcome_cache"`
	ExpandLimit   int    `mapstructure:"expand_limit" yaml:"expand_limit"`

	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig selects the result store.
type StoreConfig struct {
	Kind string `mapstructure:"kind" yaml:"kind"`
	// Path is the directory of the file store.
	Path string `mapstructure:"path" yaml:"path"`
	// TTL expires redis results; 0 keeps them forever.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// RedisConfig configures the redis result store and lock.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	Lock     bool          `mapstructure:"lock" yaml:"lock"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Strategy:      string(domain.StrategyAuto),
		MemoThreshold: domain.DefaultMemoThreshold,
		OutcomeCache:  true,
		ExpandLimit:   domain.DefaultExpandLimit,
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Kind: StoreMemory,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Prefix:  "blink:",
			LockTTL: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error: it yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode merges raw into cfg. Only keys present in raw are overwritten.
func Decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if _, err := domain.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	switch c.Store.Kind {
	case StoreNone, StoreMemory, StoreFile:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when store.kind is redis")
		}
	default:
		return fmt.Errorf("unknown store kind %q (expected none, memory, file or redis)", c.Store.Kind)
	}
	if c.ExpandLimit < 0 {
		return fmt.Errorf("expand_limit must not be negative, got %d", c.ExpandLimit)
	}
	return nil
}
