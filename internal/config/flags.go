package config

import (
	flag "github.com/spf13/pflag"
)

// RegisterFlags adds the root flags to fs. Defaults are left empty so that
// only flags the user actually set override file and env values.
func RegisterFlags(fs *flag.FlagSet) {
	fs.StringP("config", "c", "", "path to todos.toml")
	fs.String("store", "", "storage backend: file, redis or memory")
	fs.String("path", "", "data file for the file backend")
	fs.String("key", "", "storage key")
	fs.String("redis-addr", "", "redis address (host:port)")
	fs.Int("redis-db", 0, "redis database number")
	fs.Duration("redis-ttl", 0, "expire the redis key this long after each save")
	fs.String("theme", "", "color theme: classic, neon or mono")
	fs.StringP("filter", "f", "", "initial filter: All, Active or Completed")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-file", "", "write logs to this file")
}

func applyFlags(cfg *Config, fs *flag.FlagSet) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("store", &cfg.Store.Backend)
	str("path", &cfg.Store.Path)
	str("key", &cfg.Store.Key)
	str("redis-addr", &cfg.Redis.Addr)
	str("theme", &cfg.UI.Theme)
	str("filter", &cfg.UI.DefaultFilter)
	str("log-level", &cfg.Log.Level)
	str("log-file", &cfg.Log.File)
	if fs.Changed("redis-db") {
		if n, err := fs.GetInt("redis-db"); err == nil {
			cfg.Redis.DB = n
		}
	}
	if fs.Changed("redis-ttl") {
		if d, err := fs.GetDuration("redis-ttl"); err == nil {
			cfg.Redis.TTL = d
		}
	}
}
