package geocache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries map[string]bool
	getErr  error
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]bool{}}
}

func (f *fakeStore) Get(_ context.Context, lat, lon float64) (bool, bool, error) {
	if f.getErr != nil {
		return false, false, f.getErr
	}
	found, hit := f.entries[Key(lat, lon)]
	return found, hit, nil
}

func (f *fakeStore) Put(_ context.Context, lat, lon float64, found bool) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.entries[Key(lat, lon)] = found
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakeLocator struct {
	calls int
	found bool
	err   error
}

func (f *fakeLocator) Locate(context.Context, float64, float64) (bool, error) {
	f.calls++
	return f.found, f.err
}

func TestWrapCachesRepeatLookups(t *testing.T) {
	loc := &fakeLocator{found: true}
	store := newFakeStore()
	wrapped := Wrap(loc, store)
	ctx := context.Background()

	found, err := wrapped.Locate(ctx, -23.5505, -46.6333)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, loc.calls)

	found, err = wrapped.Locate(ctx, -23.5505, -46.6333)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, loc.calls, "second lookup must come from the cache")
	assert.Equal(t, 1, store.puts)
}

func TestWrapCachesNotFoundToo(t *testing.T) {
	loc := &fakeLocator{found: false}
	wrapped := Wrap(loc, newFakeStore())
	ctx := context.Background()

	found, err := wrapped.Locate(ctx, 0.0001, 0.0001)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = wrapped.Locate(ctx, 0.0001, 0.0001)
	require.NoError(t, err)
	assert.Equal(t, 1, loc.calls)
}

func TestWrapReadErrorFallsThrough(t *testing.T) {
	loc := &fakeLocator{found: true}
	store := newFakeStore()
	store.getErr = assert.AnError
	wrapped := Wrap(loc, store)

	found, err := wrapped.Locate(context.Background(), 1, 2)
	require.NoError(t, err, "cache read failure must not fail the lookup")
	assert.True(t, found)
	assert.Equal(t, 1, loc.calls)
}

func TestWrapWriteErrorIgnored(t *testing.T) {
	loc := &fakeLocator{found: true}
	store := newFakeStore()
	store.putErr = assert.AnError
	wrapped := Wrap(loc, store)

	found, err := wrapped.Locate(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestWrapPropagatesLocatorError(t *testing.T) {
	loc := &fakeLocator{err: assert.AnError}
	wrapped := Wrap(loc, newFakeStore())

	_, err := wrapped.Locate(context.Background(), 1, 2)
	require.Error(t, err)
}
