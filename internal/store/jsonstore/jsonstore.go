package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/natefinch/atomic"
)

// JSON-backed storage. One file per storage key, human-readable, portable.
// Writes go through a temp file + rename so a crash never leaves half a list.
// No locking; fine for a local single-user tool.

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "todos"

type Store struct {
	path string
}

// New returns a store persisting key under dir. An empty dir means the
// working directory.
func New(dir, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	return &Store{path: filepath.Join(dir, key+".json")}, nil
}

// NewAtPath uses p verbatim as the data file.
func NewAtPath(p string) *Store { return &Store{path: p} }

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) Load(ctx context.Context) ([]model.Todo, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return []model.Todo{}, nil
	}
	var todos []model.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", s.path, err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (s *Store) Save(ctx context.Context, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
