// Package memstore keeps the todo list in process memory. It still goes
// through JSON so callers see the same copy semantics as the real stores.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Makepad-fr/todos/internal/model"
)

type Store struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned by Save. Tests use it to simulate a full disk.
	Err error
}

func New() *Store { return &Store{} }

func (s *Store) Load(ctx context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return []model.Todo{}, nil
	}
	var todos []model.Todo
	if err := json.Unmarshal(s.data, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (s *Store) Save(ctx context.Context, todos []model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	b, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	s.data = b
	return nil
}

// Raw returns the last serialized payload.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}
