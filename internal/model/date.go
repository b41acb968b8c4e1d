package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for due dates and event dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as a YYYY-MM-DD string in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// TrailingDates returns the n dates ending at (and including) end, oldest
// first.
func TrailingDates(end time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = FormatDate(day.AddDate(0, 0, i-(n-1)))
	}
	return dates
}

// DatesBetween returns every date from start to end inclusive. It returns
// nil when end is before start.
func DatesBetween(start, end string) ([]string, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates, nil
}
