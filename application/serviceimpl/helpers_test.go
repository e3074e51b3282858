package serviceimpl

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/infrastructure/postgres"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cms.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	return db
}

// recorder เก็บ event ที่ถูก publish ไว้ตรวจใน test
type recorder struct {
	mu     sync.Mutex
	events []*ports.ContentEvent
}

func (r *recorder) Publish(ctx context.Context, event *ports.ContentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) actions(entity string) []ports.EventAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ports.EventAction
	for _, e := range r.events {
		if e.Entity == entity {
			out = append(out, e.Action)
		}
	}
	return out
}

func names[E any](nodes []models.FlatNode[E], name func(*E) string) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = name(n.Entity)
	}
	return out
}

func depths[E any](nodes []models.FlatNode[E]) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Depth
	}
	return out
}

func categoryName(c *models.Category) string { return c.Name }
func commentBody(c *models.Comment) string   { return c.Body }
