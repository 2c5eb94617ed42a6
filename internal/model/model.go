package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// ErrEmptyValue is returned by AddTodo when the text is blank after trimming.
	ErrEmptyValue = errors.New("empty value")
	// ErrNotFound is returned when no todo carries the requested id.
	ErrNotFound = errors.New("todo not found")
)

// Store persists the whole todo sequence under a single key.
// Load on a key that was never written returns an empty slice.
type Store interface {
	Load(ctx context.Context) ([]Todo, error)
	Save(ctx context.Context, todos []Todo) error
}

// Model owns the ordered todo list and the active filter.
// Every mutation is written through to the Store.
type Model struct {
	store  Store
	logger *log.Logger
	todos  []Todo
	filter Filter
}

type Option func(*Model)

// WithFilter sets the initial filter.
func WithFilter(f Filter) Option {
	return func(m *Model) {
		m.filter = f
	}
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// New reads the persisted sequence from s and returns a ready Model.
func New(ctx context.Context, s Store, opts ...Option) (*Model, error) {
	todos, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if todos == nil {
		todos = []Todo{}
	}
	m := &Model{
		store:  s,
		logger: log.New(io.Discard),
		todos:  todos,
		filter: DefaultFilter,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// AddTodo appends a new todo with the next id. Blank text changes nothing
// and yields ErrEmptyValue.
func (m *Model) AddTodo(ctx context.Context, text string) (Todo, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return Todo{}, ErrEmptyValue
	}
	t := Todo{ID: m.nextID(), Value: value}
	next := append(cloneTodos(m.todos), t)
	if err := m.commit(ctx, next); err != nil {
		return Todo{}, err
	}
	m.logger.Debug("todo added", "id", t.ID)
	return t, nil
}

// ToggleTodo flips the done flag of the todo with the given id.
func (m *Model) ToggleTodo(ctx context.Context, id int) (Todo, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Todo{}, fmt.Errorf("toggle %d: %w", id, ErrNotFound)
	}
	next := cloneTodos(m.todos)
	next[i].Done = !next[i].Done
	if err := m.commit(ctx, next); err != nil {
		return Todo{}, err
	}
	m.logger.Debug("todo toggled", "id", id, "done", next[i].Done)
	return next[i], nil
}

// RemoveTodo deletes the todo with the given id.
func (m *Model) RemoveTodo(ctx context.Context, id int) (Todo, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Todo{}, fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	removed := m.todos[i]
	next := make([]Todo, 0, len(m.todos)-1)
	next = append(next, m.todos[:i]...)
	next = append(next, m.todos[i+1:]...)
	if err := m.commit(ctx, next); err != nil {
		return Todo{}, err
	}
	m.logger.Debug("todo removed", "id", id)
	return removed, nil
}

// ChangeFilter sets the active filter. The name is not checked against
// Filters; unknown names show everything.
func (m *Model) ChangeFilter(name Filter) {
	m.filter = name
	m.logger.Debug("filter changed", "filter", name)
}

// ActiveFilter returns the current filter.
func (m *Model) ActiveFilter() Filter { return m.filter }

// VisibleTodos returns the todos matching the active filter, in order.
func (m *Model) VisibleTodos() []Todo {
	out := make([]Todo, 0, len(m.todos))
	for _, t := range m.todos {
		if m.filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Todos returns a copy of the full sequence.
func (m *Model) Todos() []Todo { return cloneTodos(m.todos) }

// Stats counts done and pending todos across the whole list.
func (m *Model) Stats() (done, pending int) {
	for _, t := range m.todos {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// commit persists next and only then makes it the current state, so a
// failed write leaves memory and storage in agreement.
func (m *Model) commit(ctx context.Context, next []Todo) error {
	if err := m.store.Save(ctx, next); err != nil {
		m.logger.Error("save failed", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}
	m.todos = next
	return nil
}

func (m *Model) nextID() int {
	hi := 0
	for _, t := range m.todos {
		if t.ID > hi {
			hi = t.ID
		}
	}
	return hi + 1
}

func (m *Model) indexOf(id int) int {
	for i, t := range m.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTodos(in []Todo) []Todo {
	out := make([]Todo, len(in), len(in)+1)
	copy(out, in)
	return out
}
