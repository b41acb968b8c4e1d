package model

import (
	"fmt"
	"strings"
)

// EventType classifies a calendar entry.
type EventType string

const (
	EventTypeEvent   EventType = "event"
	EventTypeHoliday EventType = "holiday"
	EventTypeMeeting EventType = "meeting"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeEvent, EventTypeHoliday, EventTypeMeeting:
		return true
	}
	return false
}

// ParseEventType converts user input into an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// CalendarEvent is a dated entry on the user's calendar.
type CalendarEvent struct {
	ID    int64     `json:"id"`
	Date  string    `json:"date"`
	Title string    `json:"title"`
	Type  EventType `json:"type"`
}
