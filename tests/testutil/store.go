package testutil

import (
	"testing"

	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/session"
)

// NewTestSQLite creates an in-memory SQLite credential storage with all
// migrations applied. It automatically closes the storage when the test
// completes.
func NewTestSQLite(t *testing.T) *credential.SQLite {
	t.Helper()

	s, err := credential.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test storage: %v", err)
		}
	})

	return s
}

// NewSession returns a session store over in-memory storage.
func NewSession(t *testing.T) *session.Store {
	t.Helper()
	return session.New(credential.NewMemory())
}

// LoggedInSession returns a session holding the given access token.
func LoggedInSession(t *testing.T, token string) *session.Store {
	t.Helper()

	s := NewSession(t)
	if err := s.SetToken(session.AccessToken, token); err != nil {
		t.Fatalf("setting access token: %v", err)
	}
	return s
}
