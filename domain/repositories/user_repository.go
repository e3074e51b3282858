package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type UserRepository interface {
	Repository[models.User]

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ReplaceRoles(ctx context.Context, user *models.User, roleIDs []uuid.UUID) error
	PermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}
