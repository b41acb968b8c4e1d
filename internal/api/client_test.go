package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/session"
	"github.com/nhle/release-planner/tests/testutil"
)

type fakeSession struct {
	token   string
	cleared int
}

func (s *fakeSession) Token() (string, bool) { return s.token, s.token != "" }

func (s *fakeSession) Clear() error {
	s.cleared++
	s.token = ""
	return nil
}

func TestDoAttachesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &fakeSession{token: "abc"}, 0)
	require.NoError(t, c.Get(context.Background(), "/x", nil))
	assert.Equal(t, "Bearer abc", got)

	c = NewClient(srv.URL, &fakeSession{}, 0)
	require.NoError(t, c.Get(context.Background(), "/x", nil))
	assert.Empty(t, got, "no header without a token")
}

func TestDoClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"forbidden", http.StatusForbidden, `{"message":"nope"}`, KindForbidden, "nope"},
		{"not found", http.StatusNotFound, `{"error":"missing"}`, KindNotFound, "missing"},
		{"server", http.StatusBadGateway, `upstream down`, KindServer, "upstream down"},
		{"bad request", http.StatusBadRequest, `{"message":"text is required"}`, KindApplication, "text is required"},
		{"conflict empty", http.StatusConflict, ``, KindApplication, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			sess := &fakeSession{token: "abc"}
			err := NewClient(srv.URL, sess, 0).Get(context.Background(), "/x", nil)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Zero(t, sess.cleared, "only 401 clears the session")
		})
	}
}

func TestDoClearsSessionOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &fakeSession{token: "expired"}
	err := NewClient(srv.URL, sess, 0).Get(context.Background(), "/x", nil)

	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Equal(t, 1, sess.cleared)
	_, ok := sess.Token()
	assert.False(t, ok)
}

func TestDoTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := NewClient(srv.URL, &fakeSession{}, 50*time.Millisecond).Get(context.Background(), "/slow", nil)
	assert.True(t, IsKind(err, KindNetwork), "got %v", err)
}

func TestDoUnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, &fakeSession{}, time.Second).Get(context.Background(), "/x", nil)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestDoMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "not-a-number"`))
	}))
	defer srv.Close()

	var task model.Task
	err := NewClient(srv.URL, &fakeSession{}, 0).Get(context.Background(), "/x", &task)
	assert.True(t, IsKind(err, KindApplication))
}

func TestDoSendsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out model.Task
	err := NewClient(srv.URL+"/", &fakeSession{}, 0).Post(context.Background(), "/api/todos", map[string]string{"text": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "hi", gotBody["text"])
}

func TestServerMessageTruncatesText(t *testing.T) {
	long := strings.Repeat("x", 500)
	assert.Len(t, serverMessage([]byte(long)), 200)
	assert.Equal(t, "", serverMessage([]byte(`{"other":1}`)))
}

func TestServerMessageKeepsRunesWhole(t *testing.T) {
	msg := serverMessage([]byte(strings.Repeat("가", 100)))

	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("가", 66), msg)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("priority %q", "URGENT")
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, `validation: priority "URGENT"`, err.Error())
	assert.Equal(t, Kind(""), KindOf(assert.AnError))
}

func TestTodoClientAgainstBackend(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	sess := testutil.LoggedInSession(t, "tok")
	todos := NewTodoClient(NewClient(backend.URL(), sess, 0))
	ctx := context.Background()

	created, err := todos.Create(ctx, CreateTaskRequest{Text: "write report", Priority: model.PriorityHigh, DueDate: "2025-03-10"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Completed)

	_, err = todos.Create(ctx, CreateTaskRequest{Text: "other day", Priority: model.PriorityLow, DueDate: "2025-03-11"})
	require.NoError(t, err)

	list, err := todos.ListByDate(ctx, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "write report", list[0].Text)

	toggled, err := todos.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	updated, err := todos.Update(ctx, created.ID, UpdateTaskRequest{Text: "final report", Priority: model.PriorityCritical})
	require.NoError(t, err)
	assert.Equal(t, "final report", updated.Text)
	assert.Equal(t, model.PriorityCritical, updated.Priority)

	snap, err := todos.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TodaysTotalCount)
	assert.Equal(t, 1, snap.TodaysCompletedCount)
	require.Len(t, snap.WeeklyChartData, 2)
	assert.Equal(t, 20, snap.WeeklyChartData[0].LastWeek)

	require.NoError(t, todos.Delete(ctx, created.ID))
	err = todos.Delete(ctx, created.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCalendarClientAgainstBackend(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	cal := NewCalendarClient(NewClient(backend.URL(), testutil.LoggedInSession(t, "tok"), 0))
	ctx := context.Background()

	ev, err := cal.Create(ctx, CreateEventRequest{Date: "2025-03-12", Title: "standup", Type: model.EventTypeMeeting})
	require.NoError(t, err)

	ev, err = cal.Update(ctx, ev.ID, UpdateEventRequest{Title: "retro", Type: model.EventTypeMeeting})
	require.NoError(t, err)
	assert.Equal(t, "retro", ev.Title)

	events, err := cal.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2025-03-12", events[0].Date)

	require.NoError(t, cal.Delete(ctx, ev.ID))
	events, err = cal.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAccountClientSignUpUsesTempToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.AddTempToken("temp")

	sess := testutil.NewSession(t)
	require.NoError(t, sess.SetToken(session.TempToken, "temp"))
	acct := NewAccountClient(NewClient(backend.URL(), sess, 0))

	resp, err := acct.SignUp(context.Background(), SignUpRequest{Nickname: "roger", Email: "r@example.com", LoginType: model.LoginTypeKakao})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "access-roger", resp.Data.UserToken)
}

func TestUnauthorizedAgainstBackendClearsSession(t *testing.T) {
	backend := testutil.NewBackend(t, "good")
	sess := testutil.LoggedInSession(t, "stale")

	_, err := NewTodoClient(NewClient(backend.URL(), sess, 0)).ListByDate(context.Background(), "2025-03-10")
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.False(t, sess.IsAuthenticated())
}
