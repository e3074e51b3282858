package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-cms/pkg/ordering"
)

// TrashMode selects rows by their soft-delete state.
type TrashMode string

const (
	TrashNone TrashMode = "none" // live rows only
	TrashOnly TrashMode = "only" // soft-deleted rows only
	TrashAll  TrashMode = "all"
)

func (m TrashMode) Valid() bool {
	switch m {
	case "", TrashNone, TrashOnly, TrashAll:
		return true
	}
	return false
}

// QueryHook narrows a base query with entity-specific filters, e.g. comments of one post.
type QueryHook func(db *gorm.DB) *gorm.DB

type FindOptions struct {
	Trashed  TrashMode
	OrderBy  ordering.Order // empty uses the repository default order
	AddQuery QueryHook
}

// Repository is the capability every entity repository has.
type Repository[E any] interface {
	// EnableTrash reports whether the entity supports soft delete.
	EnableTrash() bool

	// BuildQuery returns the base retrieval query with entity scope, trash
	// filter, hook and ordering applied.
	BuildQuery(ctx context.Context, opts FindOptions) (*gorm.DB, error)

	Find(ctx context.Context, opts FindOptions) ([]*E, error)
	FindByID(ctx context.Context, id uuid.UUID, trashed TrashMode) (*E, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID, trashed TrashMode) ([]*E, error)
	FindTrashedBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)

	Create(ctx context.Context, entity *E) error
	Save(ctx context.Context, entity *E) error

	SoftDelete(ctx context.Context, ids []uuid.UUID) error
	HardDelete(ctx context.Context, ids []uuid.UUID) error
	Restore(ctx context.Context, ids []uuid.UUID) error

	// Transaction runs fn with a repository bound to one transaction. Tree
	// repositories pass a transaction-bound TreeRepository.
	Transaction(ctx context.Context, fn func(repo Repository[E]) error) error
}
