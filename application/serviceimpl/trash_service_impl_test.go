package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofiber-cms/domain/repositories"
)

type fakePurger struct {
	n      int
	err    error
	before time.Time
}

func (p *fakePurger) PurgeTrashed(ctx context.Context, before time.Time) (int, error) {
	p.before = before
	return p.n, p.err
}

func TestTrashPurgeContinuesAfterFailure(t *testing.T) {
	now := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	posts := &fakePurger{n: 2}
	broken := &fakePurger{err: errors.New("db down")}
	users := &fakePurger{n: 1}

	svc := NewTrashService(30*24*time.Hour,
		TrashTarget{Name: "post", Purger: posts},
		TrashTarget{Name: "category", Purger: broken},
		TrashTarget{Name: "user", Purger: users},
	).(*TrashServiceImpl)
	svc.now = func() time.Time { return now }

	purged, err := svc.Purge(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, broken.err)
	assert.Equal(t, map[string]int{"post": 2, "user": 1}, purged)
	assert.Equal(t, now.Add(-30*24*time.Hour), users.before)
}

func TestTrashPurgeWithRealCategories(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{s.ids["b"]}, true))
	require.NoError(t, s.db.Exec("UPDATE categories SET deleted_at = ? WHERE deleted_at IS NOT NULL", time.Now().Add(-72*time.Hour)).Error)

	svc := NewTrashService(24*time.Hour, TrashTarget{Name: "category", Purger: s.svc})
	purged, err := svc.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"category": 1}, purged)
	assert.Len(t, s.list(t, repositories.TrashAll), 4)
}
