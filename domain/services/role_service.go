package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
)

type RoleService interface {
	ContentService[models.Role]

	Create(ctx context.Context, req *dto.CreateRoleRequest) (*models.Role, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateRoleRequest) (*models.Role, error)

	// SetPermissions แทนที่ permissions ของ role และล้าง cache ของผู้ถือ role
	SetPermissions(ctx context.Context, id uuid.UUID, permissionIDs []uuid.UUID) (*models.Role, error)
}

type PermissionService interface {
	ContentService[models.Permission]

	Create(ctx context.Context, req *dto.CreatePermissionRequest) (*models.Permission, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePermissionRequest) (*models.Permission, error)
}
