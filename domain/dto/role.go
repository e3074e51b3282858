package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRoleRequest struct {
	Name          string      `json:"name" validate:"required,min=2,max=100"`
	Label         string      `json:"label" validate:"omitempty,max=255"`
	Description   string      `json:"description"`
	PermissionIDs []uuid.UUID `json:"permissionIds"`
}

type UpdateRoleRequest struct {
	Label       *string `json:"label" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type SetPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permissionIds"`
}

type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission name เป็นรูปแบบ "<resource>.<action>" เช่น category.delete
type CreatePermissionRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	Description *string `json:"description"`
}

type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
