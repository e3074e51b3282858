package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/ordering"
	"gofiber-cms/pkg/pagination"
)

// ListQuery is the query string every list endpoint accepts:
// ?page=1&limit=10&trashed=none&orderBy=name:desc,-createdAt&depth=2
type ListQuery struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Trashed string `query:"trashed" validate:"omitempty,oneof=none only all"`
	OrderBy string `query:"orderBy" validate:"omitempty,max=200"`
	Depth   int    `query:"depth"`
}

// ListOptions แปลง query เป็น options ของ repository (orderBy ผิดรูปแบบ = error)
func (q *ListQuery) ListOptions() (repositories.TreeOptions, error) {
	order, err := ordering.Parse(q.OrderBy)
	if err != nil {
		return repositories.TreeOptions{}, err
	}
	trashed := repositories.TrashMode(q.Trashed)
	if trashed == "" {
		trashed = repositories.TrashNone
	}
	return repositories.TreeOptions{
		FindOptions: repositories.FindOptions{
			Trashed: trashed,
			OrderBy: order,
		},
		Depth: q.Depth,
	}, nil
}

// PageOptions ใช้ค่า default เมื่อไม่ส่งมา ค่าติดลบจะถูก clamp เป็น 1
func (q *ListQuery) PageOptions() pagination.Options {
	opts := pagination.Options{Page: q.Page, Limit: q.Limit}
	if opts.Page == 0 {
		opts.Page = pagination.DefaultPage
	}
	if opts.Limit == 0 {
		opts.Limit = pagination.DefaultLimit
	}
	return opts.Normalize()
}

type DeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
	// Force ลบถาวรแม้ entity รองรับถังขยะ
	Force bool `json:"force"`
}

type RestoreRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// TreeStats ใช้แสดงผลใน UI เช่น "มี children หรือไม่"
type TreeStats struct {
	Descendants int64 `json:"descendants"`
	Ancestors   int64 `json:"ancestors"`
	HasChildren bool  `json:"hasChildren"`
}

func deletedAt(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
