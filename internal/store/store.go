// Package store opens the configured todo storage backend.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/Makepad-fr/todos/internal/config"
	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store/jsonstore"
	"github.com/Makepad-fr/todos/internal/store/memstore"
	"github.com/Makepad-fr/todos/internal/store/redisstore"
)

// Open returns the Store selected by cfg and a closer for its resources.
// Redis connectivity is checked up front so a bad address fails before any
// UI is drawn.
func Open(ctx context.Context, cfg config.StoreConfig, rc config.RedisConfig) (model.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		if cfg.Path != "" {
			return jsonstore.NewAtPath(cfg.Path), nopCloser{}, nil
		}
		s, err := jsonstore.New(cfg.Dir, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case config.BackendRedis:
		s := redisstore.New(rc.Addr, rc.Password, rc.DB,
			redisstore.WithPrefix(rc.Prefix),
			redisstore.WithKey(cfg.Key),
			redisstore.WithTTL(rc.TTL),
		)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", rc.Addr, err)
		}
		return s, s, nil
	case config.BackendMemory:
		return memstore.New(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
