package app

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/release-planner/internal/auth"
	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/session"
	appsync "github.com/nhle/release-planner/internal/sync"
	"github.com/nhle/release-planner/tests/testutil"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testConfig(baseURL string) *model.AppConfig {
	cfg := model.DefaultAppConfig()
	cfg.API.BaseURL = baseURL
	cfg.Session.Backend = "memory"
	cfg.Auth.CallbackAddr = "127.0.0.1:0"
	cfg.Auth.PollIntervalMs = 10
	cfg.Auth.RedirectDelayMs = 1
	cfg.Auth.LoginTimeoutSec = 5
	return cfg
}

// postingLauncher plays the backend's login page: once opened it POSTs a
// login message to the callback server until a listener accepts it.
type postingLauncher struct {
	app    **App
	origin string
	body   string

	mu     sync.Mutex
	closed bool
}

func (l *postingLauncher) Open(spec auth.WindowSpec) (auth.Window, error) {
	go func() {
		for i := 0; i < 100; i++ {
			req, err := http.NewRequest(http.MethodPost,
				"http://"+(*l.app).Callback.Addr()+"/callback", strings.NewReader(l.body))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Origin", l.origin)
			resp, err := http.DefaultClient.Do(req)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusAccepted {
					return
				}
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()
	return l, nil
}

func (l *postingLauncher) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *postingLauncher) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

func TestNewWiresStoreToSession(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	backend.Seed(model.Task{Text: "draft notes", Priority: model.PriorityHigh, DueDate: backend.Today})

	var out bytes.Buffer
	a, err := New(testConfig(backend.URL()), Options{Out: &out, Storage: credential.NewMemory()})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Session.SetToken(session.AccessToken, "tok"))
	require.NoError(t, a.Store.LoadByDate(context.Background(), backend.Today))
	assert.Len(t, a.Store.Snapshot().Tasks, 1)

	_, err = a.Store.AddTask(context.Background(), "tag build", model.PriorityLow, backend.Today)
	require.NoError(t, err)
	assert.NotEmpty(t, out.String(), "success notification printed")

	require.NoError(t, a.Flow.Logout())
	assert.Empty(t, a.Store.Snapshot().Tasks)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig("http://localhost:8080")
	cfg.Session.Backend = "floppy"
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestLoginOverCallback(t *testing.T) {
	backend := testutil.NewBackend(t, "jwt-1")
	cfg := testConfig(backend.URL())

	var a *App
	launcher := &postingLauncher{
		app:    &a,
		origin: cfg.ExpectedOrigin(),
		body:   `{"type":"NAVER_LOGIN_SUCCESS","data":{"tempToken":"jwt-1","nickname":"roger","isNewUser":false}}`,
	}

	var routes []string
	var err error
	a, err = New(cfg, Options{
		Storage:   credential.NewMemory(),
		Launcher:  launcher,
		Navigator: auth.NavigatorFunc(func(r string) { routes = append(routes, r) }),
	})
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Login(context.Background(), auth.Naver)
	require.NoError(t, err)
	assert.Equal(t, auth.StateResolved, res.State)
	assert.Equal(t, []string{auth.RouteHome}, routes)
	assert.True(t, a.Session.IsAuthenticated())
	assert.Equal(t, "roger", a.Store.Snapshot().UserName)
	assert.True(t, launcher.Closed())

	require.NoError(t, a.Store.LoadDashboard(context.Background()))
	assert.NotNil(t, a.Store.Snapshot().Dashboard)
}

func TestNewPollerUsesConfiguredInterval(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	a, err := New(testConfig(backend.URL()), Options{Storage: credential.NewMemory()})
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Session.SetToken(session.AccessToken, "tok"))

	p := a.NewPoller(appsync.TargetDashboard)
	p.Start()
	defer p.Stop()

	select {
	case r := <-p.Results():
		require.NoError(t, r.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("no poll result")
	}
	assert.NotNil(t, a.Store.Snapshot().Dashboard)
}
