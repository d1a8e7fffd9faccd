package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": openTestSQLite(t, filepath.Join(t.TempDir(), "prefs.db")),
	}
}

func TestStore_MissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := s.GetBool(context.Background(), "darkMode")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.False(t, v)
		})
	}
}

func TestStore_BoolRoundTripUsesStringEncoding(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SetBool(ctx, "darkMode", true))
			raw, ok, err := s.Get(ctx, "darkMode")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "true", raw)

			require.NoError(t, s.SetBool(ctx, "darkMode", false))
			v, ok, err := s.GetBool(ctx, "darkMode")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.False(t, v)
		})
	}
}

func TestStore_NonTrueStringReadsFalse(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "darkMode", "yes"))
			v, ok, err := s.GetBool(ctx, "darkMode")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.False(t, v)
		})
	}
}

func TestStore_ClosedReturnsErrClosed(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			_, _, err := s.Get(ctx, "darkMode")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.SetBool(ctx, "darkMode", true), ErrClosed)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	first, err := OpenSQLite(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.SetBool(ctx, "darkMode", true))
	require.NoError(t, first.Close())

	second := openTestSQLite(t, path)
	v, ok, err := second.GetBool(ctx, "darkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "", zerolog.Nop())
	assert.Error(t, err)
}
