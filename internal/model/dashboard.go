package model

import (
	"encoding/json"
	"time"
)

// DashboardSnapshot is the read-only aggregate shown on the dashboard. It is
// replaced wholesale on every reload.
type DashboardSnapshot struct {
	TodaysTodos          []Task        `json:"todaysTodos"`
	TodaysCompletedCount int           `json:"todaysCompletedCount"`
	TodaysTotalCount     int           `json:"todaysTotalCount"`
	TodaysProgress       int           `json:"todaysProgress"`
	TomorrowsTodoCount   int           `json:"tomorrowsTodoCount"`
	WeeklyChartData      []WeeklyEntry `json:"weeklyChartData"`
	OverallProgress      int           `json:"overallProgress"`
}

// WeeklyEntry is one point of the week-over-week comparison series.
type WeeklyEntry struct {
	// Name is the day label (e.g. "월").
	Name     string `json:"name"`
	LastWeek int    `json:"lastWeek"`
	ThisWeek int    `json:"thisWeek"`
}

// weeklyEntryWire accepts both the English keys and the Korean keys the
// backend emits.
type weeklyEntryWire struct {
	Name       string   `json:"name"`
	LastWeek   *float64 `json:"lastWeek"`
	ThisWeek   *float64 `json:"thisWeek"`
	LastWeekKo *float64 `json:"저번주"`
	ThisWeekKo *float64 `json:"이번주"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *WeeklyEntry) UnmarshalJSON(data []byte) error {
	var w weeklyEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = WeeklyEntry{
		Name:     w.Name,
		LastWeek: firstCount(w.LastWeek, w.LastWeekKo),
		ThisWeek: firstCount(w.ThisWeek, w.ThisWeekKo),
	}
	return nil
}

func firstCount(values ...*float64) int {
	for _, v := range values {
		if v != nil {
			return int(*v)
		}
	}
	return 0
}

// WeekdayLabels are the Monday-first day labels used by the weekly chart.
var WeekdayLabels = []string{"월", "화", "수", "목", "금", "토", "일"}

// WeeklyComparison counts completed tasks per weekday for the week
// containing today and the week before it. Weeks start on Monday. Tasks
// outside those two weeks, incomplete tasks, and tasks with malformed due
// dates are ignored.
func WeeklyComparison(tasks []Task, today time.Time) []WeeklyEntry {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	thisMonday := day.AddDate(0, 0, -offset)
	lastMonday := thisMonday.AddDate(0, 0, -7)

	entries := make([]WeeklyEntry, len(WeekdayLabels))
	for i, label := range WeekdayLabels {
		entries[i].Name = label
	}

	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		due, err := ParseDate(t.DueDate)
		if err != nil {
			continue
		}
		diff := int(due.Sub(lastMonday).Hours() / 24)
		switch {
		case diff < 0 || diff >= 14:
			continue
		case diff < 7:
			entries[diff].LastWeek++
		default:
			entries[diff-7].ThisWeek++
		}
	}

	return entries
}
