package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/pagination"
)

// ListOptions selects, orders and (for trees) depth-limits a listing.
// AddQuery scopes the roots of a tree listing or the rows of a flat one.
type ListOptions = repositories.TreeOptions

// ContentService is the uniform contract over flat and tree-shaped entities.
// Tree entities come back flattened depth-first with Depth set; flat entities
// always have depth 0.
type ContentService[E any] interface {
	List(ctx context.Context, opts ListOptions) ([]models.FlatNode[E], error)
	Paginate(ctx context.Context, opts ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[E]], error)
	Detail(ctx context.Context, id uuid.UUID, trashed repositories.TrashMode) (*E, error)

	// Delete removes ids after applying the children-resolution policy. With
	// trash on a trash-enabled entity, live rows are soft-deleted and rows
	// already in the trash are removed for good.
	Delete(ctx context.Context, ids []uuid.UUID, trash bool) error
	Restore(ctx context.Context, ids []uuid.UUID) error

	// PurgeTrashed hard-deletes rows that have been in the trash since before.
	PurgeTrashed(ctx context.Context, before time.Time) (int, error)
}
