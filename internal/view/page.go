// Package view renders the todo page in the terminal and turns key presses
// into model calls. Every Update that mutates the model is followed by a full
// redraw from Model.VisibleTodos, so the screen never holds its own copy of
// the list.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/ui"
)

type focus int

const (
	focusForm focus = iota
	focusFilters
	focusList
	focusCount
)

// Page is the Bubble Tea model for the todo page: title, add form,
// filter radio group and list.
type Page struct {
	ctx    context.Context
	todos  *model.Model
	logger *log.Logger
	theme  ui.Theme

	input textinput.Model
	help  help.Model
	keys  keyMap

	focus        focus
	cursor       int
	filterCursor int

	status    string
	statusErr bool

	width, height int
}

type Option func(*Page)

// WithLogger sets where the page logs storage failures.
func WithLogger(l *log.Logger) Option {
	return func(p *Page) {
		p.logger = l
	}
}

// WithTheme overrides the theme taken from ui.Current.
func WithTheme(t ui.Theme) Option {
	return func(p *Page) {
		p.theme = t
	}
}

// New builds the page around m. ctx is passed to every store call.
func New(ctx context.Context, m *model.Model, opts ...Option) Page {
	p := Page{
		ctx:    ctx,
		todos:  m,
		logger: log.New(io.Discard),
		theme:  ui.Current(),
		help:   help.New(),
		keys:   defaultKeys(),
	}
	for _, opt := range opts {
		opt(&p)
	}

	p.input = textinput.New()
	p.input.Prompt = "> "
	p.input.Placeholder = "Add todo"
	p.input.Width = 40
	p.input.Focus()

	p.filterCursor = filterIndex(m.ActiveFilter())
	if p.filterCursor < 0 {
		p.filterCursor = 0
	}
	p.help.Styles.ShortKey = p.theme.Help
	p.help.Styles.ShortDesc = p.theme.Help
	return p
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, m *model.Model, opts ...Option) error {
	prog := tea.NewProgram(New(ctx, m, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (p Page) Init() tea.Cmd { return textinput.Blink }

func (p Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.help.Width = msg.Width
		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.ForceQuit):
			return p, tea.Quit
		case key.Matches(msg, p.keys.NextFocus):
			p.setFocus((p.focus + 1) % focusCount)
			return p, nil
		case key.Matches(msg, p.keys.PrevFocus):
			p.setFocus((p.focus + focusCount - 1) % focusCount)
			return p, nil
		}
		switch p.focus {
		case focusForm:
			return p.updateForm(msg)
		case focusFilters:
			return p.updateFilters(msg)
		case focusList:
			return p.updateList(msg)
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Page) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keys.Submit):
		p.handleAddTodo(p.input.Value())
		return p, nil
	case key.Matches(msg, p.keys.Leave):
		p.setFocus(focusList)
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Page) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if f, ok := p.directFilter(msg); ok {
		p.handleChangeFilter(f)
		return p, nil
	}
	switch {
	case key.Matches(msg, p.keys.Quit):
		return p, tea.Quit
	case key.Matches(msg, p.keys.Left):
		i := (p.filterCursor + len(model.Filters) - 1) % len(model.Filters)
		p.handleChangeFilter(model.Filters[i])
	case key.Matches(msg, p.keys.Right):
		i := (p.filterCursor + 1) % len(model.Filters)
		p.handleChangeFilter(model.Filters[i])
	case key.Matches(msg, p.keys.Add):
		p.setFocus(focusForm)
	}
	return p, nil
}

func (p Page) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if f, ok := p.directFilter(msg); ok {
		p.handleChangeFilter(f)
		return p, nil
	}
	visible := p.todos.VisibleTodos()
	switch {
	case key.Matches(msg, p.keys.Quit):
		return p, tea.Quit
	case key.Matches(msg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(visible)-1 {
			p.cursor++
		}
	case key.Matches(msg, p.keys.Toggle):
		if p.cursor < len(visible) {
			p.handleToggleTodo(visible[p.cursor].ID)
		}
	case key.Matches(msg, p.keys.Delete):
		if p.cursor < len(visible) {
			p.handleDeleteTodo(visible[p.cursor].ID)
		}
	case key.Matches(msg, p.keys.Add):
		p.setFocus(focusForm)
	}
	return p, nil
}

func (p Page) directFilter(msg tea.KeyMsg) (model.Filter, bool) {
	switch {
	case key.Matches(msg, p.keys.FilterAll):
		return model.All, true
	case key.Matches(msg, p.keys.FilterAct):
		return model.Active, true
	case key.Matches(msg, p.keys.FilterDone):
		return model.Completed, true
	}
	return "", false
}

func (p *Page) setFocus(f focus) {
	p.focus = f
	if f == focusForm {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

func (p *Page) handleAddTodo(value string) {
	p.input.Reset()
	if _, err := p.todos.AddTodo(p.ctx, value); err != nil {
		if errors.Is(err, model.ErrEmptyValue) {
			return
		}
		p.fail(err)
		return
	}
	p.clearStatus()
	p.clampCursor()
}

func (p *Page) handleToggleTodo(id int) {
	if _, err := p.todos.ToggleTodo(p.ctx, id); err != nil {
		p.fail(err)
		return
	}
	p.clearStatus()
	p.clampCursor()
}

func (p *Page) handleDeleteTodo(id int) {
	if _, err := p.todos.RemoveTodo(p.ctx, id); err != nil {
		p.fail(err)
		return
	}
	p.clearStatus()
	p.clampCursor()
}

func (p *Page) handleChangeFilter(f model.Filter) {
	p.todos.ChangeFilter(f)
	if i := filterIndex(f); i >= 0 {
		p.filterCursor = i
	}
	p.clampCursor()
}

func (p *Page) fail(err error) {
	p.logger.Error("update failed", "err", err)
	p.status = err.Error()
	p.statusErr = true
}

func (p *Page) clearStatus() {
	p.status = ""
	p.statusErr = false
}

func (p *Page) clampCursor() {
	n := len(p.todos.VisibleTodos())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func filterIndex(f model.Filter) int {
	for i, known := range model.Filters {
		if known == f {
			return i
		}
	}
	return -1
}

func (p Page) View() string {
	t := p.theme
	sections := []string{
		p.renderTitle(),
		p.renderForm(),
		p.renderFilters(),
		p.renderList(),
	}
	if p.status != "" {
		style := t.Muted
		if p.statusErr {
			style = t.Error
		}
		sections = append(sections, style.Render(p.status))
	}
	sections = append(sections, p.help.View(p.keys))

	frame := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	if p.width > 4 {
		frame = frame.Width(p.width - 2)
	}
	return frame.Render(strings.Join(sections, "\n\n"))
}

func (p Page) renderTitle() string {
	t := p.theme
	done, pending := p.todos.Stats()
	total := done + pending
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d\n%s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), total,
		t.Muted.Render(ui.ProgressBar(done, total, 20)),
	)
}

func (p Page) renderForm() string {
	t := p.theme
	button := "[ Submit ]"
	if p.focus == focusForm {
		button = t.Focused.Render(button)
	} else {
		button = t.Muted.Render(button)
	}
	return p.input.View() + "  " + button
}

func (p Page) renderFilters() string {
	t := p.theme
	active := p.todos.ActiveFilter()
	parts := make([]string, 0, len(model.Filters)+1)
	parts = append(parts, "Show:")
	for i, f := range model.Filters {
		radio := t.RadioOff
		if f == active {
			radio = t.RadioOn
		}
		label := radio + " " + string(f)
		if p.focus == focusFilters && i == p.filterCursor {
			label = t.Focused.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

// renderList rebuilds every row from the model's visible todos.
func (p Page) renderList() string {
	t := p.theme
	visible := p.todos.VisibleTodos()
	if len(visible) == 0 {
		return t.Muted.Render("  nothing to show")
	}

	start, end := p.window(len(visible))
	var b strings.Builder
	for i := start; i < end; i++ {
		todo := visible[i]
		box := t.Muted.Render(t.BoxUnchecked)
		text := todo.Value
		if todo.Done {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		prefix := "  "
		if p.focus == focusList && i == p.cursor {
			prefix = t.Selected.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s %s", prefix, box, text, t.Muted.Render(t.Delete))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	if end-start < len(visible) {
		b.WriteString("\n" + t.Muted.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(visible))))
	}
	return b.String()
}

// window returns the row range that fits the terminal around the cursor.
func (p Page) window(n int) (start, end int) {
	rows := n
	if p.height > 0 {
		// title(2) form(1) filters(1) help(1) + gaps and frame
		rows = p.height - 14
		if rows < 3 {
			rows = 3
		}
	}
	if rows >= n {
		return 0, n
	}
	start = p.cursor - rows/2
	if start < 0 {
		start = 0
	}
	end = start + rows
	if end > n {
		end = n
		start = n - rows
	}
	return start, end
}
