package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Makepad-fr/todos/internal/model"
	backend "github.com/redis/go-redis/v9"
)

// Store keeps the whole todo list as one JSON string under a single Redis key.
type Store struct {
	client *backend.Client
	prefix string
	key    string
	ttl    time.Duration
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithKey sets the storage key appended to the prefix.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTTL sets an expiration on every write. Zero keeps the key forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Redis-backed store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "todos:",
		key:    "todos",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Key returns the full Redis key.
func (s *Store) Key() string {
	return s.prefix + s.key
}

// Load retrieves the list. A missing key is an empty list.
func (s *Store) Load(ctx context.Context) ([]model.Todo, error) {
	val, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(val, &todos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Save overwrites the key with the full list.
func (s *Store) Save(ctx context.Context, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("failed to marshal todos: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
