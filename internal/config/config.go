// Package config loads todos settings from defaults, a TOML file,
// environment variables and command-line flags, in that order.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted in [store].backend.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	Store StoreConfig `toml:"store"`
	Redis RedisConfig `toml:"redis"`
	UI    UIConfig    `toml:"ui"`
	Log   LogConfig   `toml:"log"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	// Dir is where the file backend keeps <key>.json. Empty means the working directory.
	Dir string `toml:"dir"`
	// Path overrides Dir and Key for the file backend.
	Path string `toml:"path"`
	Key  string `toml:"key"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	// TTL expires the todo key after each save, e.g. "720h". Zero keeps it forever.
	TTL time.Duration `toml:"ttl"`
}

type UIConfig struct {
	Theme         string `toml:"theme"`
	DefaultFilter string `toml:"default_filter"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{}
	setDefaults(&cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Store.Backend = BackendFile
	cfg.Store.Key = "todos"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Prefix = "todos:"
	cfg.UI.Theme = "classic"
	cfg.UI.DefaultFilter = "Active"
	cfg.Log.Level = "warn"
}

// Validate rejects settings no component can act on.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want file, redis or memory)", c.Store.Backend)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return fmt.Errorf("store key is empty")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis ttl must be >= 0, got %s", c.Redis.TTL)
	}
	return nil
}
