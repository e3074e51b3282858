package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type RoleRepository interface {
	Repository[models.Role]

	GetByName(ctx context.Context, name string) (*models.Role, error)
	ReplacePermissions(ctx context.Context, role *models.Role, permissionIDs []uuid.UUID) error
	UserIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}

type PermissionRepository interface {
	Repository[models.Permission]

	GetByName(ctx context.Context, name string) (*models.Permission, error)
}
