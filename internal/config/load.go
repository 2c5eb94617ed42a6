package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	flag "github.com/spf13/pflag"
)

const fileName = "todos.toml"

// Load builds the configuration:
// 1. Defaults
// 2. Config file (explicit path, else ./todos.toml, else user config dir)
// 3. Environment variables (TODOS_*)
// 4. Flags that were set on fs
func Load(explicitFile string, fs *flag.FlagSet) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := explicitFile
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if explicitFile != "" || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.File = path
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if fs != nil {
		applyFlags(cfg, fs)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := toml.Decode(string(b), cfg); err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	return nil
}

func findConfigFile() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "todos", fileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("TODOS_STORE", &cfg.Store.Backend)
	setString("TODOS_DIR", &cfg.Store.Dir)
	setString("TODOS_PATH", &cfg.Store.Path)
	setString("TODOS_KEY", &cfg.Store.Key)
	setString("TODOS_REDIS_ADDR", &cfg.Redis.Addr)
	setString("TODOS_REDIS_PASSWORD", &cfg.Redis.Password)
	setString("TODOS_REDIS_PREFIX", &cfg.Redis.Prefix)
	setString("TODOS_THEME", &cfg.UI.Theme)
	setString("TODOS_FILTER", &cfg.UI.DefaultFilter)
	setString("TODOS_LOG_LEVEL", &cfg.Log.Level)
	setString("TODOS_LOG_FILE", &cfg.Log.File)

	if v, ok := os.LookupEnv("TODOS_REDIS_DB"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODOS_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v, ok := os.LookupEnv("TODOS_REDIS_TTL"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODOS_REDIS_TTL: %w", err)
		}
		cfg.Redis.TTL = d
	}
	return nil
}
