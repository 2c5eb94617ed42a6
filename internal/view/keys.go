package view

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit     key.Binding
	NextFocus  key.Binding
	PrevFocus  key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Add        key.Binding
	FilterAll  key.Binding
	FilterAct  key.Binding
	FilterDone key.Binding
	Leave      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		NextFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevFocus:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h")),
		Right:      key.NewBinding(key.WithKeys("right", "l", " ")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		FilterAll:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterAct:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Leave:      key.NewBinding(key.WithKeys("esc")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Add, k.Toggle, k.Delete, k.FilterAll, k.FilterAct, k.FilterDone, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextFocus, k.PrevFocus},
		{k.Up, k.Down, k.Toggle, k.Delete, k.Add},
		{k.FilterAll, k.FilterAct, k.FilterDone, k.Quit},
	}
}
