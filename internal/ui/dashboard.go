package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/theme"
)

// barWidth is the number of cells a 100% bar occupies.
const barWidth = 20

// Dashboard renders the dashboard snapshot: progress summary, today's tasks
// by priority, and the weekly comparison chart.
func Dashboard(snap model.DashboardSnapshot) string {
	summary := []string{
		fmt.Sprintf("오늘 진행률  %s  (%d/%d)",
			theme.ProgressStyle(snap.TodaysProgress).Render(strconv.Itoa(snap.TodaysProgress)+"%"),
			snap.TodaysCompletedCount, snap.TodaysTotalCount),
		fmt.Sprintf("전체 진행률  %s",
			theme.ProgressStyle(snap.OverallProgress).Render(strconv.Itoa(snap.OverallProgress)+"%")),
		fmt.Sprintf("내일 할 일   %d", snap.TomorrowsTodoCount),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.BorderStyle.Padding(0, 1).Render(strings.Join(summary, "\n")),
		"",
		TaskTable(model.SortByPriority(snap.TodaysTodos)),
		"",
		WeeklyChart(snap.WeeklyChartData),
	)
}

// WeeklyChart renders a last-week/this-week horizontal bar pair per day.
// Bars are scaled to the largest value in the series.
func WeeklyChart(entries []model.WeeklyEntry) string {
	if len(entries) == 0 {
		return ""
	}

	peak := 0
	for _, e := range entries {
		peak = max(peak, e.LastWeek, e.ThisWeek)
	}

	last := lipgloss.NewStyle().Foreground(theme.ColorGray)
	this := lipgloss.NewStyle().Foreground(theme.ColorBlue)

	lines := []string{
		theme.HelpStyle.Render("주간 비교  ") + last.Render("■ 저번주") + " " + this.Render("■ 이번주"),
	}
	for _, e := range entries {
		lines = append(lines,
			fmt.Sprintf("%s %s %d", e.Name, last.Render(bar(e.LastWeek, peak)), e.LastWeek),
			fmt.Sprintf("%s %s %d", strings.Repeat(" ", lipgloss.Width(e.Name)), this.Render(bar(e.ThisWeek, peak)), e.ThisWeek),
		)
	}
	return strings.Join(lines, "\n")
}

func bar(value, peak int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := value * barWidth / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
