package model

import (
	"fmt"
	"sort"
	"strings"
)

// Priority is the importance level of a task. The backend transmits it as
// the upper-case enum name.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Priorities lists every priority from most to least important.
var Priorities = []Priority{
	PriorityCritical,
	PriorityHigh,
	PriorityMedium,
	PriorityLow,
}

// Rank returns the sort rank of the priority (lower number = higher
// priority). Unknown values sort after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	return p.Rank() <= 4
}

// ParsePriority converts user input such as "high" into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Task is a user-owned to-do item. The backend owns it; clients only hold
// cached copies.
type Task struct {
	// ID is assigned by the server on creation.
	ID int64 `json:"id"`

	// Text is the task body. Never empty.
	Text string `json:"text"`

	// Completed is true once the task has been toggled done.
	Completed bool `json:"completed"`

	// Priority is one of the Priority* constants.
	Priority Priority `json:"priority"`

	// DueDate is a calendar date in YYYY-MM-DD form.
	DueDate string `json:"dueDate"`
}

// SortByPriority returns a copy of tasks ordered CRITICAL first. Tasks with
// equal priority keep their relative order.
func SortByPriority(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}

// ImportantTasks returns the open CRITICAL and HIGH tasks, CRITICAL first.
func ImportantTasks(tasks []Task) []Task {
	var important []Task
	for _, t := range tasks {
		if !t.Completed && (t.Priority == PriorityCritical || t.Priority == PriorityHigh) {
			important = append(important, t)
		}
	}
	return SortByPriority(important)
}

// CompletedGroup is the set of completed tasks sharing a due date.
type CompletedGroup struct {
	Date  string
	Tasks []Task
}

// GroupCompletedByDate buckets the completed tasks by due date, newest date
// first. Incomplete tasks are skipped.
func GroupCompletedByDate(tasks []Task) []CompletedGroup {
	index := make(map[string]int)
	var groups []CompletedGroup
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		i, ok := index[t.DueDate]
		if !ok {
			i = len(groups)
			index[t.DueDate] = i
			groups = append(groups, CompletedGroup{Date: t.DueDate})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	// YYYY-MM-DD sorts lexically in date order.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})
	return groups
}
