package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box border.
// Renderers pull from Current().
type Theme struct {
	Name                                 string
	Title, Muted, Accent, Success, Error lipgloss.Style
	Pending, Selected, Done, Focused     lipgloss.Style
	Help                                 lipgloss.Style
	BoxUnchecked, BoxChecked             string
	RadioOn, RadioOff                    string
	Delete                               string
	SymDone, SymPending                  string
	Border                               lipgloss.Border
	BorderColor                          lipgloss.TerminalColor
}

var current = ThemeByName("classic")

// SetTheme switches the theme used by the package helpers and the view.
func SetTheme(name string) { current = ThemeByName(name) }

// Current returns the active theme.
func Current() Theme { return current }

// ThemeByName returns a known theme; unknown names get classic.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Focused:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
			Help:         lipgloss.NewStyle().Faint(true),
			BoxUnchecked: "◻", BoxChecked: "◼",
			RadioOn: "◉", RadioOff: "○",
			Delete:  "✕",
			SymDone: "✔", SymPending: "•",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain.Reverse(true), Done: plain.Strikethrough(true), Focused: plain.Underline(true),
			Help:         plain,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			RadioOn: "(*)", RadioOff: "( )",
			Delete:  "x",
			SymDone: "x", SymPending: "-",
			Border:      lipgloss.NormalBorder(),
			BorderColor: lipgloss.NoColor{},
		}
	default:
		return Theme{
			Name:         "classic",
			Title:        lipgloss.NewStyle().Bold(true),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Focused:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
			Help:         lipgloss.NewStyle().Faint(true),
			BoxUnchecked: "☐", BoxChecked: "☑",
			RadioOn: "◉", RadioOff: "○",
			Delete:  "×",
			SymDone: "✔", SymPending: "•",
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("8"),
		}
	}
}
