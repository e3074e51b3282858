package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofiber-cms/domain/ports"
	"gofiber-cms/infrastructure/memory"
)

type fakeSubscriber struct {
	handlers map[string]ports.EventHandler
	stopped  bool
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, entity string, handler ports.EventHandler) error {
	f.handlers[entity] = handler
	return nil
}

func (f *fakeSubscriber) Unsubscribe() error {
	f.stopped = true
	return nil
}

func TestPermissionCacheSync(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewPermissionCache(time.Hour)
	sub := &fakeSubscriber{handlers: map[string]ports.EventHandler{}}
	syncer := NewPermissionCacheSync(sub, cache)
	require.NoError(t, syncer.Start(ctx))
	assert.Len(t, sub.handlers, 3)

	alice, bob := uuid.New(), uuid.New()
	loads := 0
	load := func() ([]string, error) {
		loads++
		return []string{"post.read"}, nil
	}
	warm := func() {
		_, err := cache.GetOrLoad(ctx, alice, load)
		require.NoError(t, err)
		_, err = cache.GetOrLoad(ctx, bob, load)
		require.NoError(t, err)
	}

	warm()
	assert.Equal(t, 2, loads)

	sub.handlers["user"](&ports.ContentEvent{Entity: "user", Action: ports.ActionUpdated, IDs: []string{alice.String(), "garbage"}})
	warm()
	assert.Equal(t, 3, loads, "only alice reloads")

	sub.handlers["role"](&ports.ContentEvent{Entity: "role", Action: ports.ActionCreated})
	warm()
	assert.Equal(t, 3, loads, "new roles grant nothing yet")

	sub.handlers["permission"](&ports.ContentEvent{Entity: "permission", Action: ports.ActionDeleted})
	warm()
	assert.Equal(t, 5, loads)

	require.NoError(t, syncer.Stop())
	assert.True(t, sub.stopped)
}
