package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(credential.NewMemory())
}

func TestTokenPrefersAccessToken(t *testing.T) {
	s := newStore(t)

	_, ok := s.Token()
	assert.False(t, ok)

	require.NoError(t, s.SetToken(TempToken, "temp"))
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "temp", tok)
	assert.False(t, s.IsAuthenticated(), "temp token alone is not authenticated")

	require.NoError(t, s.SetToken(AccessToken, "access"))
	tok, _ = s.Token()
	assert.Equal(t, "access", tok)
	assert.True(t, s.IsAuthenticated())
}

func TestSetTokenOverwrites(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetToken(AccessToken, "one"))
	require.NoError(t, s.SetToken(AccessToken, "two"))

	tok, _ := s.Token()
	assert.Equal(t, "two", tok)
}

func TestClearRemovesEverythingAndNotifies(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetToken(AccessToken, "access"))
	require.NoError(t, s.SetToken(TempToken, "temp"))
	require.NoError(t, s.SetProfile(model.Profile{Nickname: "roger"}))

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	require.NoError(t, s.Clear())

	_, ok := s.Token()
	assert.False(t, ok)
	_, found, err := s.Profile()
	require.NoError(t, err)
	assert.False(t, found)

	require.Len(t, events, 1)
	assert.Equal(t, AuthChanged, events[0].Kind)
	assert.False(t, events[0].Authenticated)
}

func TestProfileRoundTrip(t *testing.T) {
	s := newStore(t)
	want := model.Profile{
		Nickname:  "roger",
		Email:     "roger@example.com",
		LoginType: model.LoginTypeKakao,
		IsNewUser: true,
	}

	var kinds []EventKind
	s.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, s.SetProfile(want))
	got, found, err := s.Profile()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
	assert.Equal(t, []EventKind{ProfileChanged}, kinds)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := newStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func(Event) { calls++ })

	require.NoError(t, s.SetToken(AccessToken, "a"))
	unsubscribe()
	require.NoError(t, s.SetToken(AccessToken, "b"))

	assert.Equal(t, 1, calls)
}

func TestClaims(t *testing.T) {
	s := newStore(t)

	_, err := s.Claims()
	assert.Error(t, err)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, s.SetToken(AccessToken, token))

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestClaimsRejectsOpaqueToken(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetToken(AccessToken, "not-a-jwt"))

	_, err := s.Claims()
	assert.Error(t, err)
}

func TestStoredKeys(t *testing.T) {
	s := newStore(t)

	keys, err := s.StoredKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, s.SetToken(AccessToken, "access"))
	require.NoError(t, s.SetProfile(model.Profile{Nickname: "roger"}))
	keys, err = s.StoredKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyAccessToken, KeyUserInfo}, keys)

	require.NoError(t, s.Clear())
	keys, err = s.StoredKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
