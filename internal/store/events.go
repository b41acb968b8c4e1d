package store

import (
	"context"
	"strings"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
)

// LoadEvents replaces the event list with every calendar event. Without an
// access token the list is emptied and no request is sent.
func (s *Store) LoadEvents(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		s.state.Events = nil
		s.mu.Unlock()
		s.publish()
		return ErrNotAuthenticated
	}

	t := s.begin(keyEventList)
	events, err := s.calendar.List(ctx)
	if err != nil {
		s.finish(t, nil)
		s.fail(actLoadEvents, err)
		return err
	}

	s.finish(t, func(st *State) {
		st.Events = append([]model.CalendarEvent(nil), events...)
	})
	return nil
}

// AddEvent creates an event and appends the server's copy.
func (s *Store) AddEvent(ctx context.Context, date, title string, typ model.EventType) (model.CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if err := validateEvent(title, typ); err != nil {
		return model.CalendarEvent{}, s.reject(actAddEvent, err)
	}
	if !model.ValidDate(date) {
		return model.CalendarEvent{}, s.reject(actAddEvent, api.NewValidationError("invalid date %q", date))
	}

	t := s.begin(keyCreate)
	ev, err := s.calendar.Create(ctx, api.CreateEventRequest{Date: date, Title: title, Type: typ})
	if err != nil {
		s.finish(t, nil)
		s.fail(actAddEvent, err)
		return model.CalendarEvent{}, err
	}

	s.finish(t, func(st *State) {
		st.Events = append(st.Events, ev)
	})
	s.succeed(actAddEvent)
	return ev, nil
}

// UpdateEvent changes an event's title and type.
func (s *Store) UpdateEvent(ctx context.Context, id int64, title string, typ model.EventType) (model.CalendarEvent, error) {
	title = strings.TrimSpace(title)
	if err := validateEvent(title, typ); err != nil {
		return model.CalendarEvent{}, s.reject(actUpdateEvent, err)
	}

	t := s.begin(eventKey(id))
	ev, err := s.calendar.Update(ctx, id, api.UpdateEventRequest{Title: title, Type: typ})
	if err != nil {
		s.finish(t, nil)
		s.fail(actUpdateEvent, err)
		return model.CalendarEvent{}, err
	}

	s.finish(t, func(st *State) {
		for i := range st.Events {
			if st.Events[i].ID == id {
				st.Events[i] = ev
				return
			}
		}
	})
	s.succeed(actUpdateEvent)
	return ev, nil
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	t := s.beginRemove(eventKey(id))
	if err := s.calendar.Delete(ctx, id); err != nil {
		s.finish(t, nil)
		s.fail(actDeleteEvent, err)
		return err
	}

	s.finish(t, func(st *State) {
		out := st.Events[:0:0]
		for _, e := range st.Events {
			if e.ID != id {
				out = append(out, e)
			}
		}
		st.Events = out
	})
	s.succeed(actDeleteEvent)
	return nil
}

func validateEvent(title string, typ model.EventType) error {
	if title == "" {
		return api.NewValidationError("event title is required")
	}
	if !typ.Valid() {
		return api.NewValidationError("invalid event type %q", typ)
	}
	return nil
}
