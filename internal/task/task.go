// Package task defines the task record and the filters applied to task lists.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Task is one user-visible to-do item.
type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
}

// Filter is a view predicate over tasks. It never alters the underlying data.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// String returns the lower-case name used in config files and on the command line.
func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Label returns the title-cased name shown on filter tabs.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next returns the filter after f in tab order, wrapping around.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// ParseFilter parses a filter name. Blank input selects FilterAll.
func ParseFilter(value string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return FilterAll, nil
	case "active", "todo":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", value)
	}
}

// Matches reports whether t is visible under f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the subsequence of tasks visible under f, preserving order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts holds the number of incomplete and complete tasks in a sequence.
type Counts struct {
	Active    int
	Completed int
}

// Total returns the number of tasks counted.
func (c Counts) Total() int {
	return c.Active + c.Completed
}

// Count tallies tasks by completion state.
func Count(tasks []Task) Counts {
	var c Counts
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Defaults returns the sample tasks used when nothing has been saved yet.
func Defaults(now time.Time) []Task {
	return []Task{
		{ID: "1", Text: "Pay Bills", Completed: false, CreatedAt: now},
		{ID: "2", Text: "Go Shopping", Completed: false, CreatedAt: now},
		{ID: "3", Text: "See the Doctor", Completed: true, CreatedAt: now},
	}
}

// Clone returns an independent copy of tasks. A nil or empty input yields nil.
func Clone(tasks []Task) []Task {
	if len(tasks) == 0 {
		return nil
	}
	dup := make([]Task, len(tasks))
	copy(dup, tasks)
	return dup
}
