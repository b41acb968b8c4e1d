package sync

import (
	"context"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/store"
)

type fakeLoader struct {
	mu           gosync.Mutex
	dates        []string
	dashboards   int
	events       int
	dashboardErr error
}

func (f *fakeLoader) LoadDashboard(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboards++
	return f.dashboardErr
}

func (f *fakeLoader) LoadByDate(ctx context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	return nil
}

func (f *fakeLoader) LoadEvents(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events++
	return nil
}

func nextResult(t *testing.T, p *Poller) Result {
	t.Helper()
	select {
	case r := <-p.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
		return Result{}
	}
}

func TestPollerInitialRefreshUsesToday(t *testing.T) {
	loader := &fakeLoader{}
	p := New(loader, time.Hour, TargetToday)
	p.now = func() time.Time { return time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC) }

	p.Start()
	defer p.Stop()

	r := nextResult(t, p)
	assert.Equal(t, TargetToday, r.Target)
	require.NoError(t, r.Error)

	loader.mu.Lock()
	defer loader.mu.Unlock()
	assert.Equal(t, []string{"2025-03-10"}, loader.dates)
}

func TestPollerRefreshTriggersReload(t *testing.T) {
	loader := &fakeLoader{}
	p := New(loader, time.Hour, TargetEvents)
	p.Start()
	defer p.Stop()

	nextResult(t, p)
	p.RefreshAll()
	nextResult(t, p)

	loader.mu.Lock()
	assert.Equal(t, 2, loader.events)
	loader.mu.Unlock()

	statuses := p.GetStatuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, SyncIdle, statuses[0].State)
	assert.False(t, statuses[0].LastSync.IsZero())
}

func TestPollerReportsAuthErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no session", store.ErrNotAuthenticated},
		{"expired", &api.Error{Kind: api.KindUnauthorized, Status: 401}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{dashboardErr: tt.err}
			p := New(loader, time.Hour, TargetDashboard)
			p.Start()
			defer p.Stop()

			r := nextResult(t, p)
			assert.True(t, r.AuthError)
			assert.Contains(t, r.Message, "planner login")
			assert.Equal(t, SyncError, p.GetStatuses()[0].State)
		})
	}
}

func TestPollerOtherErrors(t *testing.T) {
	loader := &fakeLoader{dashboardErr: &api.Error{Kind: api.KindServer, Status: 503}}
	p := New(loader, time.Hour, TargetDashboard)
	p.Start()
	defer p.Stop()

	r := nextResult(t, p)
	assert.Error(t, r.Error)
	assert.False(t, r.AuthError)
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&fakeLoader{}, 0)
	assert.Equal(t, DefaultInterval, p.interval)
	assert.Len(t, p.GetStatuses(), len(Targets))

	p.Start()
	p.Start()
	p.Stop()
	p.Stop()
	p.Refresh(Target("unknown"))
}
