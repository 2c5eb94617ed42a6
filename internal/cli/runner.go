package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todos/internal/model"
	"github.com/Makepad-fr/todos/internal/ui"
	"github.com/Makepad-fr/todos/internal/view"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // ls grouped by pending/done
	Out    io.Writer
	Err    io.Writer
	Logger *log.Logger
	// UI runs the interactive page. Nil means view.Run.
	UI func(ctx context.Context, m *model.Model) error
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.UI == nil {
		logger := o.Logger
		o.UI = func(ctx context.Context, m *model.Model) error {
			return view.Run(ctx, m, view.WithLogger(logger))
		}
	}
}

// Run dispatches subcommands against m and returns an exit code
// (0 ok, 1 error, 2 usage). Without a subcommand the interactive page opens.
func Run(ctx context.Context, m *model.Model, args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		return doUI(ctx, m, opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "ui":
		return doUI(ctx, m, opt)

	case "ls":
		if len(a) > 1 {
			ui.Fail(opt.Err, "usage: todos ls [all|active|completed]")
			return 2
		}
		if len(a) == 1 {
			f, ok := model.ParseFilter(a[0])
			if !ok {
				ui.Fail(opt.Err, "ls: unknown filter: "+a[0])
				return 2
			}
			m.ChangeFilter(f)
		}
		return doList(m, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Err, "usage: todos add <text...>")
			return 2
		}
		return doAdd(ctx, m, strings.Join(a, " "), opt)

	case "done":
		id, code := parseID(cmd, a, opt)
		if code != 0 {
			return code
		}
		return doToggle(ctx, m, id, opt)

	case "rm":
		id, code := parseID(cmd, a, opt)
		if code != 0 {
			return code
		}
		return doRemove(ctx, m, id, opt)
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todos - a tiny todo list

Usage:
  todos [flags] [subcommand] [args]

Subcommands:
  ui                 Open the interactive page (default)
  ls [filter]        List todos (filter: all, active, completed)
  add <text...>      Add a todo (text can be multiple words)
  done <id>          Toggle done for the todo with this id
  rm <id>            Remove the todo with this id
  auth <login|logout|status>   Redis password for --store=redis

Flags:
  -c, --config       path to todos.toml
      --store        file, redis or memory
  -f, --filter       initial filter
      --group        ls: group output by pending/done
      --theme        classic, neon or mono

Examples:
  todos add "Buy milk"
  todos ls all
  todos done 2
  todos rm 3
`)
}

func parseID(cmd string, a []string, opt Options) (int, int) {
	if len(a) != 1 {
		ui.Fail(opt.Err, "usage: todos "+cmd+" <id>")
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(opt.Err, cmd+": not a number: "+a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- subcommand impls ----------------

func doUI(ctx context.Context, m *model.Model, opt Options) int {
	if err := opt.UI(ctx, m); err != nil {
		ui.Fail(opt.Err, "ui: "+err.Error())
		return 1
	}
	return 0
}

func doList(m *model.Model, opt Options) int {
	t := ui.Current()
	d, p := m.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), d+p,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, t.Muted.Render("Show: "+string(m.ActiveFilter())))
	lines = append(lines, "")

	visible := m.VisibleTodos()
	if opt.Group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todos add \"Buy milk\"`"))
	fmt.Fprintln(opt.Out, ui.Panel(lines))
	return 0
}

func doAdd(ctx context.Context, m *model.Model, text string, opt Options) int {
	td, err := m.AddTodo(ctx, text)
	if err != nil {
		if errors.Is(err, model.ErrEmptyValue) {
			ui.Fail(opt.Err, "add: empty value")
			return 2
		}
		ui.Fail(opt.Err, "add: "+err.Error())
		return 1
	}
	opt.Logger.Info("added", "id", td.ID)
	ui.OK(opt.Out, fmt.Sprintf("added #%d", td.ID))
	return 0
}

func doToggle(ctx context.Context, m *model.Model, id int, opt Options) int {
	td, err := m.ToggleTodo(ctx, id)
	if err != nil {
		return reportMutationError("done", err, opt)
	}
	state := "pending"
	if td.Done {
		state = "done"
	}
	ui.OK(opt.Out, fmt.Sprintf("#%d marked %s", td.ID, state))
	return 0
}

func doRemove(ctx context.Context, m *model.Model, id int, opt Options) int {
	td, err := m.RemoveTodo(ctx, id)
	if err != nil {
		return reportMutationError("rm", err, opt)
	}
	ui.OK(opt.Out, fmt.Sprintf("removed #%d", td.ID))
	return 0
}

func reportMutationError(cmd string, err error, opt Options) int {
	ui.Fail(opt.Err, cmd+": "+err.Error())
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintln(opt.Err, ui.Current().Muted.Render("Hint: run `todos ls all` to see valid ids"))
		return 2
	}
	return 1
}

// -------------- rendering helpers --------------

func flatLines(todos []model.Todo) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		idx := fmt.Sprintf("%3s", "#"+strconv.Itoa(td.ID))
		box := t.Muted.Render(t.BoxUnchecked)
		text := td.Value
		if r := []rune(text); len(r) > 80 {
			text = string(r[:77]) + "..."
		}
		if td.Done {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, text))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	var pend, done []model.Todo
	for _, td := range todos {
		if td.Done {
			done = append(done, td)
		} else {
			pend = append(pend, td)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
