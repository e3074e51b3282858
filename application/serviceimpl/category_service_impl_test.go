package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/infrastructure/postgres"
	"gofiber-cms/pkg/pagination"
)

type categorySuite struct {
	db     *gorm.DB
	svc    services.CategoryService
	events *recorder
	ids    map[string]uuid.UUID
}

// newCategorySuite สร้าง
//
//	a ── a1 ── a11
//	└── a2
//	b
func newCategorySuite(t *testing.T) *categorySuite {
	t.Helper()
	db := newTestDB(t)
	events := &recorder{}
	s := &categorySuite{
		db:     db,
		svc:    NewCategoryService(postgres.NewCategoryRepository(db), events),
		events: events,
		ids:    map[string]uuid.UUID{},
	}
	s.create(t, "a", "")
	s.create(t, "a1", "a")
	s.create(t, "a11", "a1")
	s.create(t, "a2", "a")
	s.create(t, "b", "")
	return s
}

func (s *categorySuite) create(t *testing.T, name, parent string) *models.Category {
	t.Helper()
	req := &dto.CreateCategoryRequest{Name: name}
	if parent != "" {
		id := s.ids[parent]
		req.ParentID = &id
	}
	c, err := s.svc.Create(context.Background(), req)
	require.NoError(t, err)
	s.ids[name] = c.ID
	return c
}

func (s *categorySuite) list(t *testing.T, trashed repositories.TrashMode) []models.FlatNode[models.Category] {
	t.Helper()
	nodes, err := s.svc.List(context.Background(), services.ListOptions{
		FindOptions: repositories.FindOptions{Trashed: trashed},
	})
	require.NoError(t, err)
	return nodes
}

func TestCategoryCreate(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	t.Run("custom order appends to siblings", func(t *testing.T) {
		a1, err := s.svc.Detail(ctx, s.ids["a1"], repositories.TrashNone)
		require.NoError(t, err)
		a2, err := s.svc.Detail(ctx, s.ids["a2"], repositories.TrashNone)
		require.NoError(t, err)
		assert.Equal(t, 1, a1.CustomOrder)
		assert.Equal(t, 2, a2.CustomOrder)
	})

	t.Run("slug derived from name", func(t *testing.T) {
		c, err := s.svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Go Tips & Tricks"})
		require.NoError(t, err)
		assert.Equal(t, "go-tips-and-tricks", c.Slug)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := s.svc.Create(ctx, &dto.CreateCategoryRequest{Name: "A"})
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("missing parent is invalid", func(t *testing.T) {
		missing := uuid.New()
		_, err := s.svc.Create(ctx, &dto.CreateCategoryRequest{Name: "orphan", ParentID: &missing})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	assert.Contains(t, s.events.actions("category"), ports.ActionCreated)
}

func TestCategoryListFlattensForest(t *testing.T) {
	s := newCategorySuite(t)

	nodes := s.list(t, repositories.TrashNone)
	assert.Equal(t, []string{"a", "a1", "a11", "a2", "b"}, names(nodes, categoryName))
	assert.Equal(t, []int{0, 1, 2, 1, 0}, depths(nodes))

	page, err := s.svc.Paginate(context.Background(), services.ListOptions{}, pagination.Options{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a11", "a2"}, names(page.Items, categoryName))
	assert.Equal(t, int64(5), page.Meta.TotalItems)
	assert.Equal(t, 3, page.Meta.TotalPages)
}

func TestCategoryListRejectsUnknownTrashMode(t *testing.T) {
	s := newCategorySuite(t)
	_, err := s.svc.List(context.Background(), services.ListOptions{
		FindOptions: repositories.FindOptions{Trashed: "sometimes"},
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCategoryDeleteMovesChildrenUp(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{s.ids["a1"]}, false))

	nodes := s.list(t, repositories.TrashAll)
	assert.Equal(t, []string{"a", "a11", "a2", "b"}, names(nodes, categoryName))
	assert.Equal(t, []int{0, 1, 1, 0}, depths(nodes))

	crumbs, err := s.svc.Breadcrumbs(ctx, s.ids["a11"])
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a11"}, names(crumbs, categoryName))

	assert.Contains(t, s.events.actions("category"), ports.ActionDeleted)
}

func TestCategoryDeleteTopLevelPromotesChildren(t *testing.T) {
	s := newCategorySuite(t)

	require.NoError(t, s.svc.Delete(context.Background(), []uuid.UUID{s.ids["a"]}, false))

	nodes := s.list(t, repositories.TrashNone)
	assert.ElementsMatch(t, []string{"a1", "a11", "a2", "b"}, names(nodes, categoryName))
	for _, n := range nodes {
		if n.Entity.Name == "a1" || n.Entity.Name == "a2" {
			assert.Nil(t, n.Entity.ParentID, n.Entity.Name)
			assert.Zero(t, n.Depth, n.Entity.Name)
		}
	}
}

func TestCategorySoftDeleteThenForce(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()
	id := s.ids["b"]

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{id}, true))

	_, err := s.svc.Detail(ctx, id, repositories.TrashNone)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	trashed, err := s.svc.Detail(ctx, id, repositories.TrashOnly)
	require.NoError(t, err)
	assert.True(t, trashed.DeletedAt.Valid)

	// ลบซ้ำตอนอยู่ในถังขยะ = ลบถาวร
	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{id}, true))
	_, err = s.svc.Detail(ctx, id, repositories.TrashAll)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.Equal(t,
		[]ports.EventAction{ports.ActionTrashed, ports.ActionDeleted},
		s.events.actions("category")[5:],
	)
}

func TestCategoryDeleteMissingIDChangesNothing(t *testing.T) {
	s := newCategorySuite(t)

	err := s.svc.Delete(context.Background(), []uuid.UUID{s.ids["b"], uuid.New()}, true)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Len(t, s.list(t, repositories.TrashNone), 5)

	err = s.svc.Delete(context.Background(), nil, true)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCategoryRestore(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{s.ids["b"]}, true))
	assert.Equal(t, []string{"b"}, names(s.list(t, repositories.TrashOnly), categoryName))

	require.NoError(t, s.svc.Restore(ctx, []uuid.UUID{s.ids["b"]}))
	assert.Empty(t, s.list(t, repositories.TrashOnly))
	assert.Len(t, s.list(t, repositories.TrashNone), 5)

	// คืนของที่ไม่ได้อยู่ในถังขยะ
	err := s.svc.Restore(ctx, []uuid.UUID{s.ids["b"]})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCategoryUpdateMoves(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	t.Run("under another root", func(t *testing.T) {
		b := s.ids["b"]
		c, err := s.svc.Update(ctx, s.ids["a1"], &dto.UpdateCategoryRequest{ParentID: &b})
		require.NoError(t, err)
		assert.Equal(t, b, *c.ParentID)

		stats, err := s.svc.Stats(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Descendants)
		assert.True(t, stats.HasChildren)
	})

	t.Run("into own subtree is a cycle", func(t *testing.T) {
		a11 := s.ids["a11"]
		_, err := s.svc.Update(ctx, s.ids["a1"], &dto.UpdateCategoryRequest{ParentID: &a11})
		assert.ErrorIs(t, err, errs.ErrCycle)
	})

	t.Run("to root", func(t *testing.T) {
		c, err := s.svc.Update(ctx, s.ids["a11"], &dto.UpdateCategoryRequest{MoveToRoot: true})
		require.NoError(t, err)
		assert.Nil(t, c.ParentID)

		stats, err := s.svc.Stats(ctx, s.ids["a11"])
		require.NoError(t, err)
		assert.Zero(t, stats.Ancestors)
		assert.False(t, stats.HasChildren)
	})

	assert.Contains(t, s.events.actions("category"), ports.ActionMoved)
}

func TestCategorySubtreeDepthLimit(t *testing.T) {
	s := newCategorySuite(t)

	nodes, err := s.svc.Descendants(context.Background(), s.ids["a"], services.ListOptions{Depth: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a1", "a2"}, names(nodes, categoryName))
	assert.Equal(t, []int{0, 1, 1}, depths(nodes))
}

func TestCategoryGetBySlugHidesTrash(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	c, err := s.svc.GetBySlug(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, s.ids["a1"], c.ID)

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{c.ID}, true))
	_, err = s.svc.GetBySlug(ctx, "a1")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// slug ของ category ในถังขยะยังจองอยู่
	_, err = s.svc.Create(ctx, &dto.CreateCategoryRequest{Name: "a1"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCategoryPurgeTrashed(t *testing.T) {
	s := newCategorySuite(t)
	ctx := context.Background()

	require.NoError(t, s.svc.Delete(ctx, []uuid.UUID{s.ids["a2"], s.ids["b"]}, true))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.db.Exec("UPDATE categories SET deleted_at = ? WHERE id = ?", old, s.ids["b"]).Error)

	n, err := s.svc.PurgeTrashed(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.svc.Detail(ctx, s.ids["b"], repositories.TrashAll)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.svc.Detail(ctx, s.ids["a2"], repositories.TrashOnly)
	assert.NoError(t, err)
}
