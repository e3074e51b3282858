package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
)

type UserService interface {
	ContentService[models.User]

	Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *dto.ChangePasswordRequest) error

	// Login ตรวจ email / password แล้วออก JWT
	Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error)

	// AssignRoles แทนที่ roles ทั้งหมดของ user
	AssignRoles(ctx context.Context, id uuid.UUID, roleIDs []uuid.UUID) (*models.User, error)

	// Permissions คืน permission ทั้งหมดของ user (ผ่าน cache)
	Permissions(ctx context.Context, id uuid.UUID) ([]string, error)

	// HasPermission ตรวจสอบ permission เดียว ใช้ใน middleware
	HasPermission(ctx context.Context, id uuid.UUID, permission string) (bool, error)
}
