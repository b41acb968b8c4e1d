package credential

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storages(t *testing.T) map[string]Storage {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return map[string]Storage{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestStorageRoundTrip(t *testing.T) {
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("accessToken")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("accessToken", "first"))
			require.NoError(t, s.Set("accessToken", "second"))

			got, err := s.Get("accessToken")
			require.NoError(t, err)
			assert.Equal(t, "second", got)

			require.NoError(t, s.Delete("accessToken"))
			_, err = s.Get("accessToken")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorageDeleteMissingKey(t *testing.T) {
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Delete("never-set"))
		})
	}
}

func TestSQLiteReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("userInfo", `{"nickname":"roger"}`))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get("userInfo")
	require.NoError(t, err)
	assert.Equal(t, `{"nickname":"roger"}`, got)

	keys, err := db.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"userInfo"}, keys)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, _, err := Open("cookies", "")
	assert.Error(t, err)
}

func TestStoragesListKeys(t *testing.T) {
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			lister, ok := s.(Lister)
			require.True(t, ok)

			require.NoError(t, s.Set("userInfo", "{}"))
			require.NoError(t, s.Set("accessToken", "a"))

			keys, err := lister.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"accessToken", "userInfo"}, keys)
		})
	}
}
