package pagination

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		opts      Options
		itemCount int
		pages     int
	}{
		{"first page", 25, Options{Page: 1, Limit: 10}, 10, 3},
		{"middle page", 25, Options{Page: 2, Limit: 10}, 10, 3},
		{"last page remainder", 25, Options{Page: 3, Limit: 10}, 5, 3},
		{"past the end", 25, Options{Page: 4, Limit: 10}, 0, 3},
		{"exact fit", 20, Options{Page: 2, Limit: 10}, 10, 2},
		{"empty", 0, Options{Page: 1, Limit: 10}, 0, 0},
		{"clamped options", 3, Options{Page: 0, Limit: -5}, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.total, tt.opts)
			assert.Equal(t, tt.itemCount, meta.ItemCount)
			assert.Equal(t, tt.pages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.TotalItems)
		})
	}
}

func TestSlice(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	r := Slice(items, Options{Page: 3, Limit: 10})
	assert.Equal(t, []int{20, 21, 22, 23, 24}, r.Items)
	assert.Equal(t, Meta{CurrentPage: 3, PerPage: 10, ItemCount: 5, TotalItems: 25, TotalPages: 3}, r.Meta)

	past := Slice(items, Options{Page: 9, Limit: 10})
	assert.NotNil(t, past.Items)
	assert.Empty(t, past.Items)
}

func TestMapKeepsMeta(t *testing.T) {
	r := Slice([]int{1, 2, 3}, Options{Page: 1, Limit: 2})

	mapped := Map(r, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, mapped.Items)
	assert.Equal(t, r.Meta, mapped.Meta)
}

type row struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func TestQuery(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "page.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))

	for i := 1; i <= 25; i++ {
		require.NoError(t, db.Create(&row{ID: i, Name: "r"}).Error)
	}

	ctx := context.Background()
	query := db.Model(&row{}).Order("id")

	last, err := Query[row](ctx, query, Options{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, last.Items, 5)
	assert.Equal(t, 21, last.Items[0].ID)
	assert.Equal(t, int64(25), last.Meta.TotalItems)

	// query เดิมใช้ซ้ำได้
	first, err := Query[row](ctx, query, Options{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Items[0].ID)

	past, err := Query[row](ctx, query, Options{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 3, past.Meta.TotalPages)
}
