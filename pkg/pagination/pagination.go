// Package pagination pages either a store query (count + offset) or a list
// that is already materialized in memory. Both return the same Result shape.
package pagination

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Options struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to at least 1.
func (o Options) Normalize() Options {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 1
	}
	return o
}

func (o Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

type Meta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	ItemCount   int   `json:"itemCount"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

type Result[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// NewMeta computes page metadata. ItemCount is the full limit before the last
// page, the remainder on the last page and zero past the end.
func NewMeta(totalItems int64, opts Options) Meta {
	opts = opts.Normalize()
	limit := int64(opts.Limit)
	totalPages := int((totalItems + limit - 1) / limit)

	itemCount := 0
	switch {
	case opts.Page < totalPages:
		itemCount = opts.Limit
	case opts.Page == totalPages:
		itemCount = int(totalItems - int64(opts.Offset()))
	}

	return Meta{
		CurrentPage: opts.Page,
		PerPage:     opts.Limit,
		ItemCount:   itemCount,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}

// Query counts the rows matched by query and fetches one page of them.
// query must carry a Model so the count can be issued.
func Query[T any](ctx context.Context, query *gorm.DB, opts Options) (*Result[T], error) {
	opts = opts.Normalize()

	var total int64
	countQuery := query.Session(&gorm.Session{}).WithContext(ctx)
	countQuery.Statement.Preloads = map[string][]interface{}{}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	meta := NewMeta(total, opts)
	items := make([]T, 0, meta.ItemCount)
	if meta.ItemCount > 0 {
		err := query.Session(&gorm.Session{}).WithContext(ctx).
			Offset(opts.Offset()).
			Limit(opts.Limit).
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page: %w", err)
		}
	}

	return &Result[T]{Items: items, Meta: meta}, nil
}

// Slice pages an in-memory list. A page past the end yields no items.
func Slice[T any](items []T, opts Options) *Result[T] {
	opts = opts.Normalize()
	meta := NewMeta(int64(len(items)), opts)

	page := make([]T, 0, meta.ItemCount)
	if meta.ItemCount > 0 {
		start := opts.Offset()
		page = append(page, items[start:start+meta.ItemCount]...)
	}

	return &Result[T]{Items: page, Meta: meta}
}

// Map converts the items of a result, keeping its meta.
func Map[T, U any](r *Result[T], fn func(T) U) *Result[U] {
	out := make([]U, len(r.Items))
	for i, item := range r.Items {
		out[i] = fn(item)
	}
	return &Result[U]{Items: out, Meta: r.Meta}
}
