package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/store"
)

// Target names one thing the poller keeps fresh.
type Target string

const (
	TargetDashboard Target = "dashboard"
	TargetToday     Target = "today"
	TargetEvents    Target = "events"
)

// Targets lists every target in polling order.
var Targets = []Target{TargetDashboard, TargetToday, TargetEvents}

// SyncState represents the current state of a target's refresh.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the sync state for a single target.
type SyncStatus struct {
	Target   Target
	State    SyncState
	LastSync time.Time
	Error    error
}

// Result is sent after every refresh.
type Result struct {
	Target Target
	Error  error

	// AuthError is set when the refresh failed because the session is
	// missing or expired.
	AuthError bool
	Message   string
}

// Loader is the part of the application store the poller drives.
type Loader interface {
	LoadDashboard(ctx context.Context) error
	LoadByDate(ctx context.Context, date string) error
	LoadEvents(ctx context.Context) error
}

// fetchTimeout is the maximum time allowed for a single refresh.
const fetchTimeout = 30 * time.Second

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 120 * time.Second

// Poller periodically reloads the dashboard, today's tasks and the
// calendar through the application store.
type Poller struct {
	loader   Loader
	interval time.Duration
	now      func() time.Time
	targets  []Target

	statuses map[Target]*SyncStatus
	triggers map[Target]chan struct{}
	resultCh chan Result
	stopCh   chan struct{}
	wg       gosync.WaitGroup
	mu       gosync.Mutex
	running  bool
}

// New creates a Poller refreshing targets every interval. With no targets
// it refreshes all of them.
func New(loader Loader, interval time.Duration, targets ...Target) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if len(targets) == 0 {
		targets = Targets
	}

	p := &Poller{
		loader:   loader,
		interval: interval,
		now:      time.Now,
		targets:  targets,
		statuses: make(map[Target]*SyncStatus, len(targets)),
		triggers: make(map[Target]chan struct{}, len(targets)),
		resultCh: make(chan Result, 16),
		stopCh:   make(chan struct{}),
	}
	for _, t := range targets {
		p.statuses[t] = &SyncStatus{Target: t, State: SyncIdle}
		p.triggers[t] = make(chan struct{}, 1)
	}
	return p
}

// Results returns the channel refresh results are delivered on. Results
// are dropped when nobody drains it.
func (p *Poller) Results() <-chan Result {
	return p.resultCh
}

// Start launches one polling goroutine per target. Each refreshes
// immediately, then on every tick or trigger.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	for _, t := range p.targets {
		p.wg.Add(1)
		go p.pollTarget(t)
	}
}

// Stop halts all polling goroutines and waits for them to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// RefreshAll triggers an immediate refresh of every target.
func (p *Poller) RefreshAll() {
	for _, t := range p.targets {
		p.Refresh(t)
	}
}

// Refresh triggers an immediate refresh of one target. A refresh already
// pending absorbs the trigger.
func (p *Poller) Refresh(t Target) {
	ch, ok := p.triggers[t]
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// GetStatuses returns the current sync status of every target, in target
// order.
func (p *Poller) GetStatuses() []SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SyncStatus, 0, len(p.targets))
	for _, t := range p.targets {
		statuses = append(statuses, *p.statuses[t])
	}
	return statuses
}

func (p *Poller) pollTarget(t Target) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(t)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh(t)
		case <-p.triggers[t]:
			p.refresh(t)
		}
	}
}

// refresh performs a single load and reports the outcome.
func (p *Poller) refresh(t Target) {
	p.setStatus(t, SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var err error
	switch t {
	case TargetDashboard:
		err = p.loader.LoadDashboard(ctx)
	case TargetToday:
		err = p.loader.LoadByDate(ctx, model.FormatDate(p.now()))
	case TargetEvents:
		err = p.loader.LoadEvents(ctx)
	default:
		err = fmt.Errorf("unknown target %q", t)
	}

	if err != nil {
		p.setStatus(t, SyncError, err)
		log.Printf("[sync] refreshing %s: %v", t, err)

		if errors.Is(err, store.ErrNotAuthenticated) || api.IsKind(err, api.KindUnauthorized) {
			p.sendResult(Result{
				Target:    t,
				Error:     err,
				AuthError: true,
				Message:   fmt.Sprintf("%s: session expired. Run 'planner login' again.", t),
			})
			return
		}

		p.sendResult(Result{Target: t, Error: err})
		return
	}

	p.setStatus(t, SyncIdle, nil)
	p.sendResult(Result{Target: t})
}

// setStatus updates the sync status for a target.
func (p *Poller) setStatus(t Target, state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[t]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == SyncIdle && err == nil {
		status.LastSync = p.now()
	}
}

// sendResult sends a Result without blocking.
func (p *Poller) sendResult(r Result) {
	select {
	case p.resultCh <- r:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}
