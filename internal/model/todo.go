package model

import "strings"

// Todo is the domain model for a single task.
type Todo struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Done  bool   `json:"done"`
}

// Filter selects which todos are visible.
type Filter string

const (
	All       Filter = "All"
	Active    Filter = "Active"
	Completed Filter = "Completed"
)

// Filters lists the known filters in display order.
var Filters = []Filter{All, Active, Completed}

// DefaultFilter is the filter a fresh Model starts with.
const DefaultFilter = Active

// Match reports whether t is visible under f. Unknown filters match everything.
func (f Filter) Match(t Todo) bool {
	switch f {
	case Active:
		return !t.Done
	case Completed:
		return t.Done
	default:
		return true
	}
}

// ParseFilter resolves a filter name case-insensitively.
func ParseFilter(name string) (Filter, bool) {
	for _, f := range Filters {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, true
		}
	}
	return "", false
}
