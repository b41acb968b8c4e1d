package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" high ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
	assert.False(t, Priority("").Valid())
}

func TestSortByPriorityIsStable(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityLow},
		{ID: 2, Priority: PriorityCritical},
		{ID: 3, Priority: PriorityMedium},
		{ID: 4, Priority: PriorityCritical},
		{ID: 5, Priority: "SOMEDAY"},
	}

	sorted := SortByPriority(tasks)

	var ids []int64
	for _, task := range sorted {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1, 5}, ids)
	assert.Equal(t, int64(1), tasks[0].ID, "input must not be reordered")
}

func TestImportantTasks(t *testing.T) {
	tasks := []Task{
		{ID: 1, Priority: PriorityHigh},
		{ID: 2, Priority: PriorityLow},
		{ID: 3, Priority: PriorityCritical, Completed: true},
		{ID: 4, Priority: PriorityCritical},
		{ID: 5, Priority: PriorityMedium},
	}

	var ids []int64
	for _, task := range ImportantTasks(tasks) {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{4, 1}, ids)
	assert.Empty(t, ImportantTasks([]Task{{ID: 6, Priority: PriorityLow}}))
}

func TestGroupCompletedByDate(t *testing.T) {
	tasks := []Task{
		{ID: 1, DueDate: "2025-03-01", Completed: true},
		{ID: 2, DueDate: "2025-03-03", Completed: true},
		{ID: 3, DueDate: "2025-03-01", Completed: false},
		{ID: 4, DueDate: "2025-03-01", Completed: true},
	}

	groups := GroupCompletedByDate(tasks)

	require.Len(t, groups, 2)
	assert.Equal(t, "2025-03-03", groups[0].Date)
	assert.Equal(t, "2025-03-01", groups[1].Date)
	require.Len(t, groups[1].Tasks, 2)
	assert.Equal(t, int64(1), groups[1].Tasks[0].ID)
	assert.Equal(t, int64(4), groups[1].Tasks[1].ID)

	assert.Empty(t, GroupCompletedByDate(nil))
}

func TestTrailingDates(t *testing.T) {
	end := time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, TrailingDates(end, 4))
	assert.Nil(t, TrailingDates(end, 0))
}

func TestDatesBetween(t *testing.T) {
	dates, err := DatesBetween("2024-12-30", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, dates)

	dates, err = DatesBetween("2025-01-02", "2025-01-01")
	require.NoError(t, err)
	assert.Nil(t, dates)

	_, err = DatesBetween("2025-13-01", "2025-01-01")
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2025-02-29"))
	assert.False(t, ValidDate("2025/01/01"))
	assert.False(t, ValidDate(""))
}

func TestParseEventType(t *testing.T) {
	et, err := ParseEventType("Meeting")
	require.NoError(t, err)
	assert.Equal(t, EventTypeMeeting, et)

	_, err = ParseEventType("birthday")
	assert.Error(t, err)
}

func TestParseLoginType(t *testing.T) {
	lt, err := ParseLoginType("kakao")
	require.NoError(t, err)
	assert.Equal(t, LoginTypeKakao, lt)

	_, err = ParseLoginType("apple")
	assert.Error(t, err)
}
