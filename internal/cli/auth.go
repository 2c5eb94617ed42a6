package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Makepad-fr/todos/internal/auth"
	"github.com/Makepad-fr/todos/internal/ui"
)

// RunAuth handles `todos auth <login|logout|status>`. It does not need a
// store, so callers dispatch it before opening one.
func RunAuth(args []string, in io.Reader, opt Options) int {
	opt.defaults()
	if len(args) != 1 {
		ui.Fail(opt.Err, "usage: todos auth <login|logout|status>")
		return 2
	}
	switch args[0] {
	case "login":
		return doAuthLogin(in, opt)
	case "logout":
		return doAuthLogout(opt)
	case "status":
		return doAuthStatus(opt)
	}
	ui.Fail(opt.Err, "usage: todos auth <login|logout|status>")
	return 2
}

func doAuthLogin(in io.Reader, opt Options) int {
	fmt.Fprint(opt.Out, "Redis password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		ui.Fail(opt.Err, "read password: "+err.Error())
		return 1
	}
	fmt.Fprintln(opt.Out)
	if strings.TrimSpace(line) == "" {
		ui.Fail(opt.Err, "login: empty password")
		return 2
	}
	if err := auth.Set(line); err != nil {
		ui.Fail(opt.Err, "save password: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "password saved")
	return 0
}

func doAuthLogout(opt Options) int {
	c, err := auth.Get()
	if err != nil {
		ui.Fail(opt.Err, "logout: "+err.Error())
		return 1
	}
	if c != nil && c.Source == "env" {
		ui.OK(opt.Out, "password comes from TODOS_REDIS_PASSWORD (nothing to delete)")
		return 0
	}
	if err := auth.Delete(); err != nil {
		ui.Fail(opt.Err, "logout: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "password removed")
	return 0
}

func doAuthStatus(opt Options) int {
	c, err := auth.Get()
	if err != nil {
		ui.Fail(opt.Err, "status: "+err.Error())
		return 1
	}
	if c == nil {
		fmt.Fprintln(opt.Out, ui.Current().Muted.Render("no redis password stored"))
		fmt.Fprintln(opt.Out, "Run: todos auth login")
		return 0
	}
	fmt.Fprintf(opt.Out, "source: %s\n", c.Source)
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(opt.Out, "saved: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintln(opt.Out, "env override: TODOS_REDIS_PASSWORD")
	return 0
}
