package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		BackendMemory: func(*testing.T) Store { return NewMemory() },
		BackendFile: func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "state", "dashboard.json"))
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "dashboard.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoresRoundTrip(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			_, ok, err := s.Get(ctx, "auth_token")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, map[string]string{"auth_token": "abc", "user": `{"id":"1"}`}))
			value, ok, err := s.Get(ctx, "user")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"id":"1"}`, value)

			require.NoError(t, s.Put(ctx, map[string]string{"auth_token": "def"}))
			value, _, _ = s.Get(ctx, "auth_token")
			assert.Equal(t, "def", value)

			require.NoError(t, s.Delete(ctx, "auth_token", "user", "missing"))
			_, ok, _ = s.Get(ctx, "auth_token")
			assert.False(t, ok)
			_, ok, _ = s.Get(ctx, "user")
			assert.False(t, ok)
		})
	}
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dashboard.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, map[string]string{"theme_preference": "chalk", "language": "sw"}))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	value, ok, err := second.Get(ctx, "language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sw", value)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	if len(entries) != 1 {
		t.Fatalf("expected only the store file, found %d entries", len(entries))
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFileStore(path)
	require.Error(t, err)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dashboard.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, map[string]string{"auth_token": "abc"}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()
	value, ok, err := second.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
}

func TestClosedMemoryStore(t *testing.T) {
	t.Parallel()
	s := NewMemory()
	require.NoError(t, s.Close())
	_, _, err := s.Get(context.Background(), "user")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put(context.Background(), map[string]string{"a": "b"}), ErrClosed)
}

func TestOpenBackends(t *testing.T) {
	t.Parallel()
	s, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(BackendFile, "")
	require.Error(t, err)

	_, err = Open("redis", "x")
	require.Error(t, err)
}
