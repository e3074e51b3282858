package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cms.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func createCategory(t *testing.T, repo repositories.CategoryRepository, name string, parent *models.Category, order int) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: name, CustomOrder: order}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

type closureRow struct {
	AncestorID   uuid.UUID
	DescendantID uuid.UUID
	Depth        int
}

// closureOf อ่าน closure rows ทั้งหมดที่ descendant คือ id
func closureOf(t *testing.T, db *gorm.DB, id uuid.UUID) map[uuid.UUID]int {
	t.Helper()
	var rows []closureRow
	require.NoError(t, db.Table("category_closures").Where("descendant_id = ?", id).Find(&rows).Error)
	out := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		out[r.AncestorID] = r.Depth
	}
	return out
}

func nameList(rows []*models.Category) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func flatNames(flat []models.FlatNode[models.Category]) []string {
	out := make([]string, len(flat))
	for i, n := range flat {
		out[i] = n.Entity.Name
	}
	return out
}
