package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type CategoryRepository interface {
	TreeRepository[models.Category]

	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetMaxCustomOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}
