package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jakubrachwalski/SocialNetwork/application/ports"
	"github.com/jakubrachwalski/SocialNetwork/domain/profile"
	pkgerrors "github.com/jakubrachwalski/SocialNetwork/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingStore is an in-memory ProfileRepository that records every call, so
// tests can assert exactly when the cache falls through to the store.
type countingStore struct {
	profiles map[string]*profile.Profile

	findCalls  int
	batchCalls int
	batchSizes []int
}

func newCountingStore(ids ...string) *countingStore {
	s := &countingStore{profiles: make(map[string]*profile.Profile)}
	for _, id := range ids {
		s.profiles[id] = profile.Reconstruct(id, "name-"+id, "", "", time.Now(), time.Now())
	}
	return s
}

func (s *countingStore) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	s.findCalls++
	p, ok := s.profiles[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	return p, nil
}

func (s *countingStore) FindManyByIDs(ctx context.Context, ids []string) ([]*profile.Profile, error) {
	s.batchCalls++
	s.batchSizes = append(s.batchSizes, len(ids))
	if len(ids) > ports.MaxLookupBatch {
		return nil, fmt.Errorf("batch of %d exceeds lookup limit", len(ids))
	}

	var found []*profile.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (s *countingStore) Save(ctx context.Context, p *profile.Profile) error {
	s.profiles[p.ID()] = p
	return nil
}

func newTestCache(store ports.ProfileRepository) *ProfileCache {
	return NewProfileCache(store, zap.NewNop())
}

func TestGet_FreshHitSkipsStore(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("u1")
	cache := newTestCache(store)

	// Act
	first, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	second, err := cache.Get(ctx, "u1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "name-u1", first.DisplayName())
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.findCalls)
}

func TestGet_ExpiredEntryRefetches(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("u1")
	cache := newTestCache(store)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, store.findCalls)

	// Entry exactly at the TTL boundary is stale
	now = now.Add(DefaultTTL)

	// Act
	_, err = cache.Get(ctx, "u1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, store.findCalls)
}

func TestGet_EntryJustUnderTTLIsFresh(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("u1")
	cache := newTestCache(store)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx, "u1")
	require.NoError(t, err)

	now = now.Add(DefaultTTL - time.Second)

	// Act
	_, err = cache.Get(ctx, "u1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, store.findCalls)
}

func TestGet_MissingEverywhereIsNilNil(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore()
	cache := newTestCache(store)

	// Act
	p, err := cache.Get(ctx, "ghost")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, p)
	// Absence is not cached; a later Get asks the store again
	_, _ = cache.Get(ctx, "ghost")
	assert.Equal(t, 2, store.findCalls)
}

func TestGetMany_ChunksMissesByLookupLimit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	ids := make([]string, 23)
	for i := range ids {
		ids[i] = fmt.Sprintf("u%02d", i)
	}
	store := newCountingStore(ids...)
	cache := newTestCache(store)

	// Act
	resolved, err := cache.GetMany(ctx, ids)

	// Assert
	require.NoError(t, err)
	assert.Len(t, resolved, 23)
	assert.Equal(t, 3, store.batchCalls)
	assert.Equal(t, []int{10, 10, 3}, store.batchSizes)
}

func TestGetMany_ServesWarmEntriesFromMemory(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("a", "b", "c")
	cache := newTestCache(store)

	_, err := cache.Get(ctx, "a")
	require.NoError(t, err)

	// Act
	resolved, err := cache.GetMany(ctx, []string{"a", "b", "c", "missing"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, resolved, 3)
	assert.NotContains(t, resolved, "missing")
	// Only b and c were fetched; a was warm
	assert.Equal(t, []int{3}, store.batchSizes)
}

func TestGetMany_DeduplicatesIDs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("a")
	cache := newTestCache(store)

	// Act
	resolved, err := cache.GetMany(ctx, []string{"a", "a", "a"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, resolved, 1)
	assert.Equal(t, []int{1}, store.batchSizes)
}

func TestGetMany_FillsCacheForLaterGets(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("a", "b")
	cache := newTestCache(store)

	_, err := cache.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)

	// Act
	_, err = cache.Get(ctx, "a")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 0, store.findCalls)
}

func TestSet_CapacityTriggersExpiredSweep(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore()
	cache := newTestCache(store)
	cache.maxEntries = 3

	now := time.Now()
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("old%d", i)
		cache.Set(ctx, id, profile.Reconstruct(id, id, "", "", now, now))
	}
	require.Equal(t, 3, cache.Len())

	// Age the resident entries past the TTL, then insert
	now = now.Add(DefaultTTL + time.Second)

	// Act
	cache.Set(ctx, "fresh", profile.Reconstruct("fresh", "fresh", "", "", now, now))

	// Assert
	assert.Equal(t, 1, cache.Len())
	p, err := cache.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", p.DisplayName())
}

func TestSet_CapacityIsSoftWhenAllFresh(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore()
	cache := newTestCache(store)
	cache.maxEntries = 2

	now := time.Now()
	cache.now = func() time.Time { return now }

	// Act: nothing is expired, so the sweep removes nothing
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("u%d", i)
		cache.Set(ctx, id, profile.Reconstruct(id, id, "", "", now, now))
	}

	// Assert
	assert.Equal(t, 4, cache.Len())
}

func TestInvalidate_RemovesEntry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("u1")
	cache := newTestCache(store)

	_, err := cache.Get(ctx, "u1")
	require.NoError(t, err)

	// Act
	cache.Invalidate(ctx, "u1")
	cache.Invalidate(ctx, "never-cached") // idempotent on missing keys

	_, err = cache.Get(ctx, "u1")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, store.findCalls)
}

func TestClear_EmptiesCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := newCountingStore("a", "b")
	cache := newTestCache(store)

	_, err := cache.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	// Act
	cache.Clear(ctx)

	// Assert
	assert.Equal(t, 0, cache.Len())
}
