// Package store is the application store: the single in-memory source of
// truth for tasks, calendar events and the dashboard snapshot, and the
// orchestrator of every read and write against the backend.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/notify"
	"github.com/nhle/release-planner/internal/session"
)

// DefaultUserName is shown until a profile with a nickname is known.
const DefaultUserName = "사용자"

// ErrNotAuthenticated is returned by loads attempted without an access
// token. No request is sent in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// TaskAPI is the subset of the task client the store depends on.
type TaskAPI interface {
	ListByDate(ctx context.Context, date string) ([]model.Task, error)
	Create(ctx context.Context, req api.CreateTaskRequest) (model.Task, error)
	Update(ctx context.Context, id int64, req api.UpdateTaskRequest) (model.Task, error)
	Toggle(ctx context.Context, id int64) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (model.DashboardSnapshot, error)
}

// CalendarAPI is the subset of the calendar client the store depends on.
type CalendarAPI interface {
	List(ctx context.Context) ([]model.CalendarEvent, error)
	Create(ctx context.Context, req api.CreateEventRequest) (model.CalendarEvent, error)
	Update(ctx context.Context, id int64, req api.UpdateEventRequest) (model.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Session is what the store needs from the session store.
type Session interface {
	IsAuthenticated() bool
	Profile() (model.Profile, bool, error)
	Subscribe(fn func(session.Event)) func()
}

// State is a point-in-time copy of the store's fields.
type State struct {
	Tasks  []model.Task
	Events []model.CalendarEvent

	// Dashboard is nil until the first successful load.
	Dashboard *model.DashboardSnapshot

	// Loading is true while at least one operation is in flight.
	Loading bool

	UserName string
}

// Options tunes a Store. Zero values select defaults.
type Options struct {
	// CompletedWindowDays is the trailing window scanned by
	// LoadAllCompletedTasks, today included. Default 14.
	CompletedWindowDays int

	// Fanout caps concurrent per-day requests. Default 4.
	Fanout int

	// Notifier receives user-visible outcomes. Default discards.
	Notifier notify.Notifier

	// Now is the clock. Default time.Now.
	Now func() time.Time
}

// Store holds application state. Construct with New; the zero value is not
// usable. All methods are safe for concurrent use.
type Store struct {
	tasks    TaskAPI
	calendar CalendarAPI
	session  Session
	notifier notify.Notifier
	now      func() time.Time
	window   int
	fanout   int

	unsubscribeSession func()

	// pubMu keeps subscribers seeing snapshots in the order they were taken.
	pubMu sync.Mutex

	mu       sync.Mutex
	state    State
	inflight int
	epoch    uint64
	seq      sequencer
	nextSub  int
	subs     map[int]func(State)
}

// New creates a Store and subscribes it to session changes: it resets when
// the access token disappears and adopts the profile nickname as UserName.
func New(tasks TaskAPI, calendar CalendarAPI, sess Session, opts Options) *Store {
	if opts.CompletedWindowDays <= 0 {
		opts.CompletedWindowDays = 14
	}
	if opts.Fanout <= 0 {
		opts.Fanout = 4
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		tasks:    tasks,
		calendar: calendar,
		session:  sess,
		notifier: opts.Notifier,
		now:      opts.Now,
		window:   opts.CompletedWindowDays,
		fanout:   opts.Fanout,
		state:    State{UserName: DefaultUserName},
		seq:      newSequencer(),
		subs:     make(map[int]func(State)),
	}

	s.adoptProfile()
	s.unsubscribeSession = sess.Subscribe(s.onSessionEvent)
	return s
}

// Close detaches the store from the session.
func (s *Store) Close() {
	if s.unsubscribeSession != nil {
		s.unsubscribeSession()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the state after every change. Deliveries
// are serialized and arrive in order; fn must not call back into the Store.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Reset clears tasks, events, the dashboard and the user name. Responses to
// requests issued before the reset are discarded when they arrive.
// Loading keeps reflecting requests that are still in flight.
func (s *Store) Reset() {
	s.mu.Lock()
	s.epoch++
	s.state.Tasks = nil
	s.state.Events = nil
	s.state.Dashboard = nil
	s.state.UserName = DefaultUserName
	s.mu.Unlock()

	s.publish()
}

func (s *Store) onSessionEvent(ev session.Event) {
	switch ev.Kind {
	case session.AuthChanged:
		if !ev.Authenticated {
			log.Printf("[store] session ended, resetting state")
			s.Reset()
		}
	case session.ProfileChanged:
		s.adoptProfile()
	}
}

func (s *Store) adoptProfile() {
	p, ok, err := s.session.Profile()
	if err != nil {
		log.Printf("[store] reading cached profile: %v", err)
		return
	}
	if !ok || p.Nickname == "" {
		return
	}

	s.mu.Lock()
	s.state.UserName = p.Nickname
	s.mu.Unlock()
	s.publish()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Tasks = append([]model.Task(nil), s.state.Tasks...)
	st.Events = append([]model.CalendarEvent(nil), s.state.Events...)
	if s.state.Dashboard != nil {
		d := *s.state.Dashboard
		st.Dashboard = &d
	}
	st.Loading = s.inflight > 0
	return st
}

func (s *Store) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	st := s.snapshotLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// ticket identifies one in-flight operation.
type ticket struct {
	key   string
	seq   uint64
	epoch uint64

	// remove marks a delete: once the server confirms it, the removal is
	// applied regardless of ordering and the key is closed.
	remove bool
}

// begin marks an operation in flight and reserves its sequence number.
func (s *Store) begin(key string) ticket {
	s.mu.Lock()
	s.inflight++
	t := ticket{key: key, seq: s.seq.next(key), epoch: s.epoch}
	s.mu.Unlock()

	s.publish()
	return t
}

// beginRemove is begin for a delete of the entity behind key.
func (s *Store) beginRemove(key string) ticket {
	t := s.begin(key)
	t.remove = true
	return t
}

// finish ends the operation. When apply is non-nil it runs under the lock
// unless the response is stale: issued before a Reset, older than one
// already applied for the same key, or for an entity already deleted. A
// confirmed delete always applies. It reports whether apply ran.
func (s *Store) finish(t ticket, apply func(st *State)) bool {
	s.mu.Lock()
	s.inflight--
	applied := false
	if apply != nil {
		switch {
		case t.epoch != s.epoch:
			log.Printf("[store] discarding response issued before reset (%q)", t.key)
		case t.remove:
			apply(&s.state)
			s.seq.remove(t.key)
			applied = true
		case !s.seq.accept(t.key, t.seq):
			log.Printf("[store] discarding stale %s response (seq %d)", t.key, t.seq)
		default:
			apply(&s.state)
			applied = true
		}
	}
	s.mu.Unlock()

	s.publish()
	return applied
}

func (s *Store) fail(a action, err error) {
	log.Printf("[store] %s: %v", a.name, err)
	s.notifier.Notify(notify.New(model.LevelError, a.failTitle, a.failMessage))
}

func (s *Store) succeed(a action) {
	if a.okTitle == "" {
		return
	}
	s.notifier.Notify(notify.New(model.LevelSuccess, a.okTitle, a.okMessage))
}

// reject reports a validation failure without touching the network.
func (s *Store) reject(a action, err error) error {
	s.fail(a, err)
	return err
}
