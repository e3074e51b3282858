package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionCacheTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewPermissionCache(time.Minute)
	c.now = func() time.Time { return now }

	id := uuid.New()
	calls := 0
	load := func() ([]string, error) {
		calls++
		return nil, nil
	}

	names, err := c.GetOrLoad(ctx, id, load)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	now = now.Add(59 * time.Second)
	_, err = c.GetOrLoad(ctx, id, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	now = now.Add(time.Second)
	_, err = c.GetOrLoad(ctx, id, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPermissionCacheLoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewPermissionCache(time.Minute)
	id := uuid.New()
	boom := errors.New("boom")

	_, err := c.GetOrLoad(ctx, id, func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	names, err := c.GetOrLoad(ctx, id, func() ([]string, error) { return []string{"post.read"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"post.read"}, names)
}

func TestPermissionCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewPermissionCache(0)
	a, b := uuid.New(), uuid.New()

	calls := map[uuid.UUID]int{}
	loader := func(id uuid.UUID) func() ([]string, error) {
		return func() ([]string, error) {
			calls[id]++
			return []string{"x.y"}, nil
		}
	}
	get := func(id uuid.UUID) {
		_, err := c.GetOrLoad(ctx, id, loader(id))
		require.NoError(t, err)
	}

	get(a)
	get(b)
	require.NoError(t, c.Invalidate(ctx, a))
	get(a)
	get(b)
	assert.Equal(t, map[uuid.UUID]int{a: 2, b: 1}, calls)

	require.NoError(t, c.InvalidateAll(ctx))
	get(a)
	get(b)
	assert.Equal(t, map[uuid.UUID]int{a: 3, b: 2}, calls)
}
