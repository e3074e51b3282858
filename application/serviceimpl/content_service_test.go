package serviceimpl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/infrastructure/postgres"
	"gofiber-cms/pkg/ordering"
)

func countClosure(t *testing.T, db *gorm.DB, table string, id uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where("ancestor_id = ? OR descendant_id = ?", id, id).Count(&n).Error)
	return n
}

func TestRootPolicyDetachesChildren(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := postgres.NewTreeRepository[models.Category, *models.Category](db, postgres.TreeConfig{
		EntityConfig: postgres.EntityConfig{
			Name:         "category",
			EnableTrash:  true,
			DefaultOrder: ordering.By("custom_order").Then("name", ordering.Asc),
		},
		ClosureTable: models.CategoryClosure{}.TableName(),
		Resolution:   repositories.ResolveRoot,
	})
	svc := newContentService[models.Category, *models.Category]("category", repo, &recorder{})

	create := func(name string, parent *models.Category, order int) *models.Category {
		c := &models.Category{Name: name, Slug: name, CustomOrder: order}
		if parent != nil {
			c.ParentID = &parent.ID
		}
		require.NoError(t, repo.Create(ctx, c))
		return c
	}
	a := create("a", nil, 1)
	a1 := create("a1", a, 1)
	a11 := create("a11", a1, 1)
	create("a2", a, 2)

	require.NoError(t, svc.Delete(ctx, []uuid.UUID{a1.ID}, false))

	moved, err := repo.FindByID(ctx, a11.ID, repositories.TrashNone)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	n, err := repo.CountAncestors(ctx, moved, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.Zero(t, n)

	nodes, err := svc.List(ctx, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a2", "a11"}, names(nodes, categoryName))
	assert.Equal(t, []int{0, 1, 0}, depths(nodes))
}

func newThreadSetup(t *testing.T) (*gorm.DB, services.CommentService, *models.Post) {
	t.Helper()
	db := newTestDB(t)
	postRepo := postgres.NewPostRepository(db)
	svc := NewCommentService(postgres.NewCommentRepository(db), postRepo, &recorder{})
	return db, svc, createPost(t, postRepo, "post")
}

func TestTrashDeleteOfTrashedRootPurgesRestoredReplies(t *testing.T) {
	ctx := context.Background()
	db, svc, post := newThreadSetup(t)
	table := models.CommentClosure{}.TableName()

	root := reply(t, svc, post.ID, "root", nil)
	child := reply(t, svc, post.ID, "child", root)
	grandchild := reply(t, svc, post.ID, "grandchild", child)

	require.NoError(t, svc.Delete(ctx, []uuid.UUID{root.ID}, true))
	require.NoError(t, svc.Restore(ctx, []uuid.UUID{child.ID}))

	// root อยู่ในถังขยะแล้ว ลบซ้ำ = ลบถาวรทั้ง subtree
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{root.ID}, true))

	for _, id := range []uuid.UUID{root.ID, child.ID, grandchild.ID} {
		_, err := svc.Detail(ctx, id, repositories.TrashAll)
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Zero(t, countClosure(t, db, table, id))
	}

	var orphans int64
	require.NoError(t, db.Unscoped().Model(&models.Comment{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (SELECT id FROM comments)").
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestTrashDeleteLeavesTrashedRepliesInTrash(t *testing.T) {
	ctx := context.Background()
	db, svc, post := newThreadSetup(t)
	table := models.CommentClosure{}.TableName()

	root := reply(t, svc, post.ID, "root", nil)
	child := reply(t, svc, post.ID, "child", root)
	grandchild := reply(t, svc, post.ID, "grandchild", child)

	require.NoError(t, svc.Delete(ctx, []uuid.UUID{child.ID}, true))
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{root.ID}, true))

	for _, id := range []uuid.UUID{root.ID, child.ID, grandchild.ID} {
		c, err := svc.Detail(ctx, id, repositories.TrashOnly)
		require.NoError(t, err)
		assert.True(t, c.DeletedAt.Valid)
		assert.NotZero(t, countClosure(t, db, table, id))
	}

	require.NoError(t, svc.Restore(ctx, []uuid.UUID{root.ID, child.ID, grandchild.ID}))
	thread, err := svc.Thread(ctx, root.ID, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "child", "grandchild"}, names(thread, commentBody))
}
