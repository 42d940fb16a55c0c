package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

// memStore is an in-memory Store for tests. No TTL expiry is simulated; the
// tests only exercise the get-or-compute and invalidation contracts.
type memStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	deletes []string
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) GetJSON(_ context.Context, key string, dest any) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *memStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.data, key)
	return nil
}

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	calls := 0
	fetch := func(context.Context) (*record, error) {
		calls++
		return &record{ID: 1, Name: "alice"}, nil
	}

	first, err := GetOrCompute(ctx, store, "application:1:full", time.Minute, fetch)
	require.NoError(t, err)

	second, err := GetOrCompute(ctx, store, "application:1:full", time.Minute, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "alice", second.Name)
}

func TestGetOrCompute_NotFoundIsNeverCached(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	calls := 0
	fetch := func(context.Context) (*record, error) {
		calls++
		return nil, apperror.NewNotFound("application", "1")
	}

	_, err := GetOrCompute(ctx, store, "application:1:full", time.Minute, fetch)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = GetOrCompute(ctx, store, "application:1:full", time.Minute, fetch)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, 2, calls, "a failed fetch must not leave a cached value behind")
	assert.Empty(t, store.data)
}

func TestGetOrCompute_InvalidateForcesRecompute(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	calls := 0
	fetch := func(context.Context) (record, error) {
		calls++
		return record{ID: int64(calls)}, nil
	}

	_, err := GetOrCompute(ctx, store, "k", time.Minute, fetch)
	require.NoError(t, err)

	require.NoError(t, Invalidate(ctx, store, "k"))

	got, err := GetOrCompute(ctx, store, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), got.ID)
}

func TestGetOrCompute_BackendErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	backendErr := errors.New("connection refused")
	store.getErr = backendErr

	_, err := GetOrCompute(ctx, store, "k", time.Minute, func(context.Context) (record, error) {
		t.Fatal("fetch must not run when the cache read fails hard")
		return record{}, nil
	})
	assert.ErrorIs(t, err, backendErr)
}

func TestInvalidate_AbsentKeyIsNoError(t *testing.T) {
	store := newMemStore()
	assert.NoError(t, Invalidate(context.Background(), store, "never-set"))
	assert.Equal(t, []string{"never-set"}, store.deletes)
}
