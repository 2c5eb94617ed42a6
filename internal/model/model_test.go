package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store/memstore"
)

func newModel(t *testing.T, values ...string) (*model.Model, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	m, err := model.New(context.Background(), s)
	require.NoError(t, err)
	for _, v := range values {
		_, err := m.AddTodo(context.Background(), v)
		require.NoError(t, err)
	}
	return m, s
}

func TestNew_DefaultsToActiveFilter(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, model.Active, m.ActiveFilter())
	assert.Empty(t, m.Todos())

	m2, err := model.New(context.Background(), memstore.New(), model.WithFilter(model.Completed))
	require.NoError(t, err)
	assert.Equal(t, model.Completed, m2.ActiveFilter())
}

func TestNew_LoadsPersistedTodos(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seed := []model.Todo{{ID: 4, Value: "a"}, {ID: 9, Value: "b", Done: true}}
	require.NoError(t, s.Save(ctx, seed))

	m, err := model.New(ctx, s)
	require.NoError(t, err)
	if diff := cmp.Diff(seed, m.Todos()); diff != "" {
		t.Fatalf("todos mismatch (-want +got):\n%s", diff)
	}

	added, err := m.AddTodo(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 10, added.ID, "next id is max existing + 1")
}

func TestAddTodo(t *testing.T) {
	ctx := context.Background()
	m, s := newModel(t)
	m.ChangeFilter(model.All)

	got, err := m.AddTodo(ctx, "  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 1, Value: "Buy milk", Done: false}, got)
	assert.Len(t, m.VisibleTodos(), 1)

	got, err = m.AddTodo(ctx, "Walk dog")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)
	assert.Len(t, m.VisibleTodos(), 2)

	persisted, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Todos(), persisted)
}

func TestAddTodo_BlankIsNoop(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n  "} {
		m, s := newModel(t, "keep")
		before := s.Raw()

		_, err := m.AddTodo(context.Background(), in)
		assert.ErrorIs(t, err, model.ErrEmptyValue, "input %q", in)
		assert.Len(t, m.Todos(), 1)
		assert.Equal(t, before, s.Raw(), "blank add must not write")
	}
}

func TestAddTodo_IDsStayUniqueAfterRemoval(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t, "a", "b", "c")
	_, err := m.RemoveTodo(ctx, 3)
	require.NoError(t, err)
	_, err = m.RemoveTodo(ctx, 1)
	require.NoError(t, err)

	got, err := m.AddTodo(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	seen := map[int]bool{}
	for _, td := range m.Todos() {
		assert.False(t, seen[td.ID], "duplicate id %d", td.ID)
		seen[td.ID] = true
	}
}

func TestToggleTodo_FlipsOnlyTarget(t *testing.T) {
	ctx := context.Background()
	m, s := newModel(t, "a", "b", "c")

	got, err := m.ToggleTodo(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.Done)

	want := []model.Todo{
		{ID: 1, Value: "a"},
		{ID: 2, Value: "b", Done: true},
		{ID: 3, Value: "c"},
	}
	if diff := cmp.Diff(want, m.Todos()); diff != "" {
		t.Fatalf("after toggle (-want +got):\n%s", diff)
	}

	got, err = m.ToggleTodo(ctx, 2)
	require.NoError(t, err)
	assert.False(t, got.Done)

	persisted, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, persisted[1].Done)
}

func TestRemoveTodo_RemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t, "a", "b", "c")

	got, err := m.RemoveTodo(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Value)

	want := []model.Todo{{ID: 1, Value: "a"}, {ID: 3, Value: "c"}}
	if diff := cmp.Diff(want, m.Todos()); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
}

func TestUnknownID(t *testing.T) {
	ctx := context.Background()
	m, s := newModel(t, "a")
	before := s.Raw()

	_, err := m.ToggleTodo(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = m.RemoveTodo(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Len(t, m.Todos(), 1)
	assert.Equal(t, before, s.Raw())
}

func TestVisibleTodos(t *testing.T) {
	ctx := context.Background()
	m, _ := newModel(t, "a", "b", "c", "d")
	for _, id := range []int{2, 4} {
		_, err := m.ToggleTodo(ctx, id)
		require.NoError(t, err)
	}

	ids := func() []int {
		var out []int
		for _, td := range m.VisibleTodos() {
			out = append(out, td.ID)
		}
		return out
	}

	tests := []struct {
		filter model.Filter
		want   []int
	}{
		{model.All, []int{1, 2, 3, 4}},
		{model.Active, []int{1, 3}},
		{model.Completed, []int{2, 4}},
		{model.Filter("Bogus"), []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			m.ChangeFilter(tt.filter)
			assert.Equal(t, tt.filter, m.ActiveFilter())
			assert.Equal(t, tt.want, ids())
		})
	}
}

func TestVisibleTodos_ReturnsCopy(t *testing.T) {
	m, _ := newModel(t, "a")
	m.ChangeFilter(model.All)
	v := m.VisibleTodos()
	v[0].Value = "mutated"
	assert.Equal(t, "a", m.Todos()[0].Value)
}

func TestStats(t *testing.T) {
	m, _ := newModel(t, "a", "b", "c")
	_, err := m.ToggleTodo(context.Background(), 1)
	require.NoError(t, err)
	done, pending := m.Stats()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m, s := newModel(t, "a")
	s.Err = errors.New("disk full")

	_, err := m.AddTodo(ctx, "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save todos")
	_, err = m.ToggleTodo(ctx, 1)
	require.Error(t, err)
	_, err = m.RemoveTodo(ctx, 1)
	require.Error(t, err)

	assert.Equal(t, []model.Todo{{ID: 1, Value: "a"}}, m.Todos())
}

func TestNew_LoadError(t *testing.T) {
	_, err := model.New(context.Background(), failingStore{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load todos")
}

func TestParseFilter(t *testing.T) {
	f, ok := model.ParseFilter(" completed ")
	assert.True(t, ok)
	assert.Equal(t, model.Completed, f)

	_, ok = model.ParseFilter("later")
	assert.False(t, ok)
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]model.Todo, error) {
	return nil, errors.New("corrupt")
}

func (failingStore) Save(context.Context, []model.Todo) error { return nil }
