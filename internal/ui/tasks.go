package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/theme"
)

// EmptyTasks is printed instead of an empty table.
const EmptyTasks = "할 일이 없습니다."

// TaskLine renders a single task on one line.
func TaskLine(t model.Task) string {
	// Prefix: ✓ for complete, ○ for open
	prefix := "○"
	if t.Completed {
		prefix = "✓"
	}

	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	due := ""
	if t.DueDate != "" {
		due = theme.DueDateStyle.Render(" " + t.DueDate)
	}

	line := fmt.Sprintf("%s #%d %s %s%s", prefix, t.ID, priBadge, t.Text, due)
	if t.Completed {
		line = theme.DimmedStyle.Render(line)
	}
	return line
}

// TaskTable renders tasks as a bordered table in the given order.
func TaskTable(tasks []model.Task) string {
	if len(tasks) == 0 {
		return theme.HelpStyle.Render(EmptyTasks)
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := "○"
		text := t.Text
		if t.Completed {
			done = "✓"
			text = theme.DimmedStyle.Render(text)
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			done,
			theme.PriorityStyle(t.Priority).Render(string(t.Priority)),
			text,
			t.DueDate,
		})
	}

	return newTable("ID", "", "PRIORITY", "TASK", "DUE").Rows(rows...).String()
}

// CompletedGroups renders completed tasks bucketed by date, newest first.
func CompletedGroups(groups []model.CompletedGroup) string {
	if len(groups) == 0 {
		return theme.HelpStyle.Render("완료된 할 일이 없습니다.")
	}

	var blocks []string
	for _, g := range groups {
		header := theme.DueDateStyle.Bold(true).Render(fmt.Sprintf("%s (%d)", g.Date, len(g.Tasks)))
		lines := []string{header}
		for _, t := range g.Tasks {
			lines = append(lines, "  "+TaskLine(t))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
