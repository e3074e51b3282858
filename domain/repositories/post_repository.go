package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type PostRepository interface {
	Repository[models.Post]

	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	InCategory(categoryID uuid.UUID) QueryHook
}
