package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyEntryAcceptsKoreanKeys(t *testing.T) {
	var snap DashboardSnapshot
	err := json.Unmarshal([]byte(`{
		"todaysTotalCount": 2,
		"weeklyChartData": [
			{"name": "월", "저번주": 3, "이번주": 1},
			{"name": "화", "lastWeek": 2, "thisWeek": 4},
			{"name": "수"}
		]
	}`), &snap)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TodaysTotalCount)
	assert.Equal(t, []WeeklyEntry{
		{Name: "월", LastWeek: 3, ThisWeek: 1},
		{Name: "화", LastWeek: 2, ThisWeek: 4},
		{Name: "수"},
	}, snap.WeeklyChartData)
}

func TestWeeklyComparison(t *testing.T) {
	// Wednesday; this week starts 2025-03-03, last week 2025-02-24.
	today := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{DueDate: "2025-02-24", Completed: true},
		{DueDate: "2025-02-24", Completed: true},
		{DueDate: "2025-03-02", Completed: true},
		{DueDate: "2025-03-03", Completed: true},
		{DueDate: "2025-03-05", Completed: true},
		{DueDate: "2025-03-05", Completed: false},
		{DueDate: "2025-02-23", Completed: true},
		{DueDate: "2025-03-10", Completed: true},
		{DueDate: "soon", Completed: true},
	}

	entries := WeeklyComparison(tasks, today)

	require.Len(t, entries, 7)
	assert.Equal(t, WeeklyEntry{Name: "월", LastWeek: 2, ThisWeek: 1}, entries[0])
	assert.Equal(t, WeeklyEntry{Name: "수", LastWeek: 0, ThisWeek: 1}, entries[2])
	assert.Equal(t, WeeklyEntry{Name: "일", LastWeek: 1, ThisWeek: 0}, entries[6])
}

func TestWeeklyComparisonOnSunday(t *testing.T) {
	today := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	entries := WeeklyComparison([]Task{{DueDate: "2025-03-09", Completed: true}}, today)

	assert.Equal(t, 1, entries[6].ThisWeek)
}
