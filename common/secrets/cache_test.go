package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore counts lookups and can be switched to fail.
type fakeStore struct {
	value string
	err   error
	calls int
}

func (f *fakeStore) Get(ctx context.Context, name string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.value, nil
}

func (f *fakeStore) Close() error { return nil }

func TestCachingStore_CachesHits(t *testing.T) {
	backend := &fakeStore{value: "tok"}
	store := NewCachingStore(backend, time.Minute)

	for i := 0; i < 5; i++ {
		val, err := store.Get(context.Background(), "token")
		require.NoError(t, err)
		assert.Equal(t, "tok", val)
	}
	assert.Equal(t, 1, backend.calls)
}

func TestCachingStore_Expiry(t *testing.T) {
	backend := &fakeStore{value: "tok"}
	store := NewCachingStore(backend, 20*time.Millisecond)

	_, err := store.Get(context.Background(), "token")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestCachingStore_DoesNotCacheFailures(t *testing.T) {
	backend := &fakeStore{err: ErrUnavailable}
	store := NewCachingStore(backend, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := store.Get(context.Background(), "token")
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, 3, backend.calls)

	// Once the backend recovers the value is served and cached.
	backend.err = nil
	backend.value = "tok"
	val, err := store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "tok", val)

	_, _ = store.Get(context.Background(), "token")
	assert.Equal(t, 4, backend.calls)
}

func TestCachingStore_ZeroTTLDisablesCache(t *testing.T) {
	backend := &fakeStore{value: "tok"}
	store := NewCachingStore(backend, 0)

	_, _ = store.Get(context.Background(), "token")
	_, _ = store.Get(context.Background(), "token")
	assert.Equal(t, 2, backend.calls)
}

func TestCachingStore_PropagatesNotFound(t *testing.T) {
	backend := &fakeStore{err: errors.Join(ErrNotFound)}
	store := NewCachingStore(backend, time.Minute)

	_, err := store.Get(context.Background(), "token")
	assert.ErrorIs(t, err, ErrNotFound)
}
