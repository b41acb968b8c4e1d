package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nhle/release-planner/internal/model"
)

// CreateEventRequest is the body of POST /api/calendar/events.
type CreateEventRequest struct {
	Date  string          `json:"date"`
	Title string          `json:"title"`
	Type  model.EventType `json:"type"`
}

// UpdateEventRequest is the body of PUT /api/calendar/events/{id}.
type UpdateEventRequest struct {
	Title string          `json:"title"`
	Type  model.EventType `json:"type"`
}

// CalendarClient wraps the calendar event endpoints.
type CalendarClient struct {
	api Doer
}

// NewCalendarClient returns a CalendarClient issuing requests through api.
func NewCalendarClient(api Doer) *CalendarClient {
	return &CalendarClient{api: api}
}

// List returns every calendar event.
func (c *CalendarClient) List(ctx context.Context) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	if err := c.api.Do(ctx, http.MethodGet, "/api/calendar/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Create adds an event.
func (c *CalendarClient) Create(ctx context.Context, req CreateEventRequest) (model.CalendarEvent, error) {
	var ev model.CalendarEvent
	if err := c.api.Do(ctx, http.MethodPost, "/api/calendar/events", req, &ev); err != nil {
		return model.CalendarEvent{}, err
	}
	return ev, nil
}

// Update changes an event's title and type.
func (c *CalendarClient) Update(ctx context.Context, id int64, req UpdateEventRequest) (model.CalendarEvent, error) {
	var ev model.CalendarEvent
	if err := c.api.Do(ctx, http.MethodPut, fmt.Sprintf("/api/calendar/events/%d", id), req, &ev); err != nil {
		return model.CalendarEvent{}, err
	}
	return ev, nil
}

// Delete removes an event.
func (c *CalendarClient) Delete(ctx context.Context, id int64) error {
	return c.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/calendar/events/%d", id), nil, nil)
}
