package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
)

// a
// ├── a1
// │   └── a11
// └── a2
// b
type fixture struct {
	a, a1, a11, a2, b *models.Category
}

func seedTree(t *testing.T, repo repositories.CategoryRepository) fixture {
	t.Helper()
	var f fixture
	f.a = createCategory(t, repo, "a", nil, 1)
	f.a1 = createCategory(t, repo, "a1", f.a, 1)
	f.a11 = createCategory(t, repo, "a11", f.a1, 1)
	f.a2 = createCategory(t, repo, "a2", f.a, 2)
	f.b = createCategory(t, repo, "b", nil, 2)
	return f
}

func TestTreeCreateWritesClosure(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	assert.Equal(t, map[uuid.UUID]int{f.a11.ID: 0, f.a1.ID: 1, f.a.ID: 2}, closureOf(t, db, f.a11.ID))
	assert.Equal(t, map[uuid.UUID]int{f.b.ID: 0}, closureOf(t, db, f.b.ID))
}

func TestTreeTraversals(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	f := seedTree(t, repo)

	roots, err := repo.FindRoots(ctx, repositories.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, nameList(roots))

	children, err := repo.FindChildren(ctx, f.a.ID, repositories.TrashNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, nameList(children))

	desc, err := repo.FindDescendants(ctx, f.a, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a11", "a2"}, nameList(desc))

	shallow, err := repo.FindDescendants(ctx, f.a, repositories.TreeOptions{Depth: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, nameList(shallow))

	ancestors, err := repo.FindAncestors(ctx, f.a11, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a"}, nameList(ancestors))

	crumbs, err := repo.FlatAncestorsTree(ctx, f.a11)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a1", "a11"}, flatNames(crumbs))
}

func TestFindTreesFlattensDepthFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	seedTree(t, repo)

	trees, err := repo.FindTrees(ctx, repositories.TreeOptions{})
	require.NoError(t, err)
	require.Len(t, trees, 2)

	flat := repo.ToFlatTrees(trees, 0)
	assert.Equal(t, []string{"a", "a1", "a11", "a2", "b"}, flatNames(flat))

	depths := make([]int, len(flat))
	for i, n := range flat {
		depths[i] = n.Depth
	}
	assert.Equal(t, []int{0, 1, 2, 1, 0}, depths)

	limited, err := repo.FindTrees(ctx, repositories.TreeOptions{Depth: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, flatNames(repo.ToFlatTrees(limited, 0)))
}

func TestCountsExcludeSelf(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	f := seedTree(t, repo)

	n, err := repo.CountDescendants(ctx, f.a, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountAncestors(ctx, f.a11, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountDescendants(ctx, f.b, repositories.TreeOptions{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMoveRewritesSubtreeClosure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	require.NoError(t, repo.Move(ctx, f.a1, &f.b.ID))
	assert.Equal(t, f.b.ID, *f.a1.ParentID)

	assert.Equal(t, map[uuid.UUID]int{f.a1.ID: 0, f.b.ID: 1}, closureOf(t, db, f.a1.ID))
	assert.Equal(t, map[uuid.UUID]int{f.a11.ID: 0, f.a1.ID: 1, f.b.ID: 2}, closureOf(t, db, f.a11.ID))

	stored, err := repo.FindByID(ctx, f.a1.ID, repositories.TrashNone)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, f.b.ID, *stored.ParentID)

	// ย้ายกลับเป็น root
	require.NoError(t, repo.Move(ctx, f.a1, nil))
	assert.Nil(t, f.a1.ParentID)
	assert.Equal(t, map[uuid.UUID]int{f.a11.ID: 0, f.a1.ID: 1}, closureOf(t, db, f.a11.ID))
}

func TestMoveRejectsCycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	err := repo.Move(ctx, f.a, &f.a11.ID)
	assert.ErrorIs(t, err, errs.ErrCycle)

	err = repo.Move(ctx, f.a, &f.a.ID)
	assert.ErrorIs(t, err, errs.ErrCycle)

	// ไม่มีอะไรเปลี่ยน
	assert.Equal(t, map[uuid.UUID]int{f.a.ID: 0}, closureOf(t, db, f.a.ID))
}

func TestTrashModes(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	f := seedTree(t, repo)

	require.NoError(t, repo.SoftDelete(ctx, []uuid.UUID{f.b.ID}))

	live, err := repo.Find(ctx, repositories.FindOptions{Trashed: repositories.TrashNone})
	require.NoError(t, err)
	assert.NotContains(t, nameList(live), "b")

	only, err := repo.Find(ctx, repositories.FindOptions{Trashed: repositories.TrashOnly})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, nameList(only))

	all, err := repo.Find(ctx, repositories.FindOptions{Trashed: repositories.TrashAll})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = repo.FindByID(ctx, f.b.ID, repositories.TrashNone)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.Restore(ctx, []uuid.UUID{f.b.ID}))
	_, err = repo.FindByID(ctx, f.b.ID, repositories.TrashNone)
	assert.NoError(t, err)
}

func TestHardDeleteRemovesClosureRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	require.NoError(t, repo.Move(ctx, f.a11, &f.a.ID))
	require.NoError(t, repo.HardDelete(ctx, []uuid.UUID{f.a1.ID}))

	var n int64
	require.NoError(t, db.Table("category_closures").
		Where("ancestor_id = ? OR descendant_id = ?", f.a1.ID, f.a1.ID).
		Count(&n).Error)
	assert.Zero(t, n)

	_, err := repo.FindByID(ctx, f.a1.ID, repositories.TrashAll)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDescendantIDsIgnoresTrash(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	f := seedTree(t, repo)

	require.NoError(t, repo.SoftDelete(ctx, []uuid.UUID{f.a11.ID}))

	ids, err := repo.DescendantIDs(ctx, []uuid.UUID{f.a.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{f.a1.ID, f.a11.ID, f.a2.ID}, ids)
}

func TestTreeTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	err := repo.TreeTransaction(ctx, func(tx repositories.TreeRepository[models.Category]) error {
		if err := tx.Move(ctx, f.a2, &f.b.ID); err != nil {
			return err
		}
		return tx.Move(ctx, f.a, &f.a1.ID) // cycle
	})
	assert.ErrorIs(t, err, errs.ErrCycle)

	assert.Equal(t, map[uuid.UUID]int{f.a2.ID: 0, f.a.ID: 1}, closureOf(t, db, f.a2.ID))
}

func TestChildrenTrashFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))
	f := seedTree(t, repo)

	require.NoError(t, repo.SoftDelete(ctx, []uuid.UUID{f.a2.ID}))

	cases := []struct {
		mode repositories.TrashMode
		want []string
	}{
		{repositories.TrashNone, []string{"a1"}},
		{repositories.TrashOnly, []string{"a2"}},
		{repositories.TrashAll, []string{"a1", "a2"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			children, err := repo.FindChildren(ctx, f.a.ID, tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.want, nameList(children))
		})
	}
}

func TestMoveCycleCheckSeesPendingMoves(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	f := seedTree(t, repo)

	err := repo.TreeTransaction(ctx, func(tx repositories.TreeRepository[models.Category]) error {
		if err := tx.Move(ctx, f.b, &f.a11.ID); err != nil {
			return err
		}
		// b อยู่ใต้ a แล้วภายใน transaction นี้
		return tx.Move(ctx, f.a, &f.b.ID)
	})
	var cycle *errs.ConsistencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, f.a.ID.String(), cycle.ID)

	// rollback ทั้งก้อน: b ยังเป็น root
	assert.Equal(t, map[uuid.UUID]int{f.b.ID: 0}, closureOf(t, db, f.b.ID))
	stored, err := repo.FindByID(ctx, f.b.ID, repositories.TrashNone)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestTreeDefaultOrderIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeRepository[models.Category, *models.Category](newTestDB(t), TreeConfig{
		EntityConfig: EntityConfig{Name: "category", EnableTrash: true},
		ClosureTable: models.CategoryClosure{}.TableName(),
	})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "mid", "new"} {
		c := &models.Category{Name: name, Slug: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, c))
	}

	roots, err := repo.FindRoots(ctx, repositories.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, nameList(roots))
}
