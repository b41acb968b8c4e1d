package ui

import (
	"sort"
	"strconv"

	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/theme"
)

// EventTable renders calendar events ordered by date. Events on the same
// date keep their server order.
func EventTable(events []model.CalendarEvent) string {
	if len(events) == 0 {
		return theme.HelpStyle.Render("일정이 없습니다.")
	}

	sorted := make([]model.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	rows := make([][]string, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			theme.EventTypeStyle(e.Type).Render(string(e.Type)),
			e.Title,
		})
	}

	return newTable("ID", "DATE", "TYPE", "TITLE").Rows(rows...).String()
}
