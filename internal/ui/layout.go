package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/release-planner/internal/theme"
)

// Layout holds the width CLI output is rendered at.
type Layout struct {
	Width int
}

// NewLayout creates a Layout for the given terminal width. Non-positive
// widths fall back to 80 columns.
func NewLayout(width int) Layout {
	if width <= 0 {
		width = 80
	}
	return Layout{Width: width}
}

// RenderHeader renders a full-width header bar with a title on the left and
// a status on the right.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	if status == "" {
		return titleRendered
	}

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 1 {
		gap = 1
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderHints renders a line of secondary hints.
func (l Layout) RenderHints(hints ...string) string {
	return theme.HelpStyle.Render(strings.Join(hints, " · "))
}

// RenderWithFrame joins the header, content and an optional hint line
// vertically.
func (l Layout) RenderWithFrame(header string, content string, hints string) string {
	parts := []string{header, content}
	if hints != "" {
		parts = append(parts, hints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
