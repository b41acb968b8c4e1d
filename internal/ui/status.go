package ui

import (
	"fmt"
	"strings"
	"time"

	appsync "github.com/nhle/release-planner/internal/sync"
)

// SyncStatus returns a short string describing the combined poller state.
func SyncStatus(statuses []appsync.SyncStatus, now time.Time) string {
	if len(statuses) == 0 {
		return "idle"
	}

	running := 0
	var staleNames []string
	var last time.Time
	for _, s := range statuses {
		switch s.State {
		case appsync.SyncRunning:
			running++
		case appsync.SyncError:
			staleNames = append(staleNames, string(s.Target))
		}
		if s.LastSync.After(last) {
			last = s.LastSync
		}
	}

	if running > 0 {
		return fmt.Sprintf("syncing (%d)", running)
	}
	if len(staleNames) > 0 {
		return "⚠ unreachable: " + strings.Join(staleNames, ", ")
	}
	if last.IsZero() {
		return "idle"
	}
	return "synced " + relativeTime(last, now)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
