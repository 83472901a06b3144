package geocache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T, ttl time.Duration) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "geocache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteGetMiss(t *testing.T) {
	s := newTestSQLite(t, 0)

	_, hit, err := s.Get(context.Background(), -23.5505, -46.6333)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSQLitePutGet(t *testing.T) {
	s := newTestSQLite(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, -23.5505, -46.6333, true))

	found, hit, err := s.Get(ctx, -23.5505, -46.6333)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, found)

	// overwrite
	require.NoError(t, s.Put(ctx, -23.5505, -46.6333, false))
	found, hit, err = s.Get(ctx, -23.5505, -46.6333)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.False(t, found)
}

func TestSQLiteTTLExpiry(t *testing.T) {
	s := newTestSQLite(t, time.Hour)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (key, found, cached_at) VALUES (?, ?, ?)`,
		Key(1, 2), true, time.Now().UTC().Add(-2*time.Hour),
	)
	require.NoError(t, err)

	_, hit, err := s.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry must read as a miss")

	require.NoError(t, s.Put(ctx, 1, 2, true))
	_, hit, err = s.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestKeyRounding(t *testing.T) {
	assert.Equal(t, "-23.5505,-46.6333", Key(-23.5505, -46.6333))
	// 9th decimal rounds away
	assert.Equal(t, "1.00000001,2", Key(1.000000014, 2.000000004))
}
