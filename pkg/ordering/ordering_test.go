package ordering

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Order
	}{
		{"", nil},
		{"name", Order{{Field: "name", Direction: Asc}}},
		{"name:desc", Order{{Field: "name", Direction: Desc}}},
		{"-createdAt", Order{{Field: "createdAt", Direction: Desc}}},
		{"customOrder, name:ASC", Order{{Field: "customOrder", Direction: Asc}, {Field: "name", Direction: Asc}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"name:sideways", "name,,slug", "-name:asc", ":desc", "-"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

func TestBuilders(t *testing.T) {
	o := By("custom_order").Then("name", Desc)
	assert.Equal(t, Order{{Field: "custom_order", Direction: Asc}, {Field: "name", Direction: Desc}}, o)
	assert.Equal(t, Order{{Field: "created_at", Direction: Desc}}, ByDesc("created_at"))
}

type item struct {
	ID          int `gorm:"primaryKey"`
	Name        string
	CustomOrder int
}

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "order.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		DryRun: true,
	})
	require.NoError(t, err)
	return db
}

func TestApply(t *testing.T) {
	db := dryRun(t)

	// ชื่อ Go field, ชื่อ column และ camelCase ใช้ได้หมด
	order := Order{{Field: "customOrder", Direction: Desc}, {Field: "Name"}, {Field: "id", Direction: Asc}}
	q, err := Apply(db.Model(&item{}), &item{}, "items", order)
	require.NoError(t, err)

	var rows []item
	stmt := q.Find(&rows).Statement
	sql := stmt.SQL.String()

	require.Contains(t, sql, "ORDER BY")
	orderBy := sql[strings.Index(sql, "ORDER BY"):]
	custom := strings.Index(orderBy, "custom_order")
	name := strings.Index(orderBy, "name")
	id := strings.Index(orderBy, "id")
	assert.True(t, custom >= 0 && name > custom && id > name, orderBy)
	assert.Contains(t, orderBy, "DESC")
}

func TestApplyUnknownField(t *testing.T) {
	db := dryRun(t)

	_, err := Apply(db.Model(&item{}), &item{}, "items", By("password"))

	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "password", unknown.Field)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestApplyEmptyOrder(t *testing.T) {
	db := dryRun(t)
	base := db.Model(&item{})

	q, err := Apply(base, &item{}, "items", nil)
	require.NoError(t, err)
	assert.Same(t, base, q)
}
