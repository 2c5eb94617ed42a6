package view

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/store/memstore"
	"github.com/Makepad-fr/todos/internal/ui"
)

func newPage(t *testing.T, seed ...string) (Page, *model.Model, *memstore.Store) {
	t.Helper()
	return newThemedPage(t, "mono", seed...)
}

func newThemedPage(t *testing.T, theme string, seed ...string) (Page, *model.Model, *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	m, err := model.New(ctx, s)
	require.NoError(t, err)
	for _, v := range seed {
		_, err := m.AddTodo(ctx, v)
		require.NoError(t, err)
	}
	return New(ctx, m, WithTheme(ui.ThemeByName(theme))), m, s
}

func send(t *testing.T, p Page, msgs ...tea.Msg) Page {
	t.Helper()
	for _, msg := range msgs {
		next, _ := p.Update(msg)
		var ok bool
		p, ok = next.(Page)
		require.True(t, ok, "Update returned %T", next)
	}
	return p
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestPage_RendersSkeleton(t *testing.T) {
	p, _, _ := newPage(t)
	out := p.View()
	assert.Contains(t, out, "Todos")
	assert.Contains(t, out, "Add todo")
	assert.Contains(t, out, "[ Submit ]")
	assert.Contains(t, out, "Show:")
	assert.Contains(t, out, "( ) All")
	assert.Contains(t, out, "(*) Active")
	assert.Contains(t, out, "( ) Completed")
	assert.Contains(t, out, "nothing to show")
}

func TestPage_SubmitAddsTodo(t *testing.T) {
	p, m, s := newPage(t)
	p = send(t, p, runes("Buy milk"), enter)

	todos := m.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Value)
	assert.Empty(t, p.input.Value(), "input should be reset after submit")
	assert.Contains(t, p.View(), "[ ] Buy milk")
	assert.Contains(t, string(s.Raw()), "Buy milk")
}

func TestPage_SubmitBlankIsIgnored(t *testing.T) {
	p, m, _ := newPage(t)
	p = send(t, p, runes("   "), enter)

	assert.Empty(t, m.Todos())
	assert.Empty(t, p.status)
	assert.Empty(t, p.input.Value())
}

func TestPage_ToggleFromList(t *testing.T) {
	p, m, _ := newPage(t, "one", "two")
	m.ChangeFilter(model.All)

	// form -> filters -> list, then move to the second row and toggle it.
	p = send(t, p, tab, tab, runes("j"), space)

	todos := m.Todos()
	assert.False(t, todos[0].Done)
	assert.True(t, todos[1].Done)
	assert.Contains(t, p.View(), "[x] two")
}

var (
	sgr    = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	struck = regexp.MustCompile(`\x1b\[(?:[0-9]+;)*9(?:;[0-9]+)*m`)
)

// lineWith returns the rendered line whose visible text contains s.
func lineWith(t *testing.T, out, s string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(sgr.ReplaceAllString(line, ""), s) {
			return line
		}
	}
	t.Fatalf("no line contains %q in:\n%s", s, out)
	return ""
}

func TestPage_DoneRowsStruckThrough(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	for _, name := range []string{"classic", "neon", "mono"} {
		t.Run(name, func(t *testing.T) {
			p, m, _ := newThemedPage(t, name, "one", "two")
			m.ChangeFilter(model.All)

			p = send(t, p, tab, tab, runes("j"), space)
			require.True(t, m.Todos()[1].Done)

			out := p.View()
			assert.Regexp(t, struck, lineWith(t, out, "two"))
			assert.NotRegexp(t, struck, lineWith(t, out, "one"))
		})
	}
}

func TestPage_ToggleHidesRowUnderActive(t *testing.T) {
	p, m, _ := newPage(t, "one", "two")
	require.Equal(t, model.Active, m.ActiveFilter())

	p = send(t, p, tab, tab, runes("j"), runes("x"))

	assert.Len(t, m.VisibleTodos(), 1)
	assert.Equal(t, 0, p.cursor, "cursor should be clamped to the remaining row")
	assert.NotContains(t, p.View(), "two")
}

func TestPage_DeleteFromList(t *testing.T) {
	p, m, _ := newPage(t, "one", "two", "three")

	p = send(t, p, tab, tab, runes("j"), runes("d"))

	var values []string
	for _, td := range m.Todos() {
		values = append(values, td.Value)
	}
	assert.Equal(t, []string{"one", "three"}, values)
	assert.NotContains(t, p.View(), "two")
}

func TestPage_FilterRadioGroup(t *testing.T) {
	p, m, _ := newPage(t, "one", "two")
	_, err := m.ToggleTodo(context.Background(), 1)
	require.NoError(t, err)

	p = send(t, p, tab, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, model.Completed, m.ActiveFilter())
	out := p.View()
	assert.Contains(t, out, "(*) Completed")
	assert.Contains(t, out, "one")
	assert.NotContains(t, out, "two")

	p = send(t, p, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, model.All, m.ActiveFilter(), "right wraps around")

	p = send(t, p, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, model.Completed, m.ActiveFilter())
}

func TestPage_NumberKeysSelectFilter(t *testing.T) {
	p, m, _ := newPage(t)
	p = send(t, p, tab, tab, runes("1"))
	assert.Equal(t, model.All, m.ActiveFilter())
	send(t, p, runes("3"))
	assert.Equal(t, model.Completed, m.ActiveFilter())
}

func TestPage_DigitsInFormAreText(t *testing.T) {
	p, m, _ := newPage(t)
	p = send(t, p, runes("3 eggs"))
	assert.Equal(t, "3 eggs", p.input.Value())
	assert.Equal(t, model.Active, m.ActiveFilter())
}

func TestPage_LongInputIsKept(t *testing.T) {
	p, m, _ := newPage(t)
	long := strings.Repeat("a", 300)
	p = send(t, p, runes(long))
	assert.Equal(t, long, p.input.Value())

	send(t, p, enter)
	require.Len(t, m.Todos(), 1)
	assert.Equal(t, long, m.Todos()[0].Value)
}

func TestPage_EscLeavesFormThenQuits(t *testing.T) {
	p, _, _ := newPage(t)
	p = send(t, p, esc)
	assert.Equal(t, focusList, p.focus)

	_, cmd := p.Update(esc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPage_SaveFailureShowsStatus(t *testing.T) {
	p, m, s := newPage(t, "keep")
	s.Err = errors.New("disk full")

	p = send(t, p, runes("lost"), enter)

	assert.Len(t, m.Todos(), 1)
	assert.True(t, p.statusErr)
	assert.Contains(t, p.View(), "disk full")
}

func TestPage_WindowFollowsCursor(t *testing.T) {
	p := Page{height: 17, cursor: 8}
	start, end := p.window(10)
	assert.Equal(t, 3, end-start)
	assert.True(t, start <= 8 && 8 < end)

	p = Page{}
	start, end = p.window(10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}
