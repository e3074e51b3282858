package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/ordering"
)

type RoleRepositoryImpl struct {
	*BaseRepository[models.Role, *models.Role]
}

func NewRoleRepository(db *gorm.DB) repositories.RoleRepository {
	return &RoleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Role, *models.Role](db, EntityConfig{
			Name:         "role",
			DefaultOrder: ordering.By("name"),
			Scope: func(db *gorm.DB) *gorm.DB {
				return db.Preload("Permissions")
			},
			BeforeHardDelete: func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
				if err := tx.Exec("DELETE FROM user_roles WHERE role_id IN ?", ids).Error; err != nil {
					return err
				}
				return tx.Exec("DELETE FROM role_permissions WHERE role_id IN ?", ids).Error
			},
		}),
	}
}

func (r *RoleRepositoryImpl) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.conn(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "role", ID: name}
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) ReplacePermissions(ctx context.Context, role *models.Role, permissionIDs []uuid.UUID) error {
	var perms []models.Permission
	if len(permissionIDs) > 0 {
		if err := r.conn(ctx).Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return err
		}
		if len(perms) != len(permissionIDs) {
			return errs.Invalid("permissionIds", "contains unknown permission")
		}
	}
	if err := r.conn(ctx).Model(role).Association("Permissions").Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

// UserIDs คืน id ของ user ทุกคนที่ถือ role นี้ ใช้ล้าง permission cache
func (r *RoleRepositoryImpl) UserIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).Table("user_roles").Where("role_id = ?", roleID).Pluck("user_id", &ids).Error
	return ids, err
}

type PermissionRepositoryImpl struct {
	*BaseRepository[models.Permission, *models.Permission]
}

func NewPermissionRepository(db *gorm.DB) repositories.PermissionRepository {
	return &PermissionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Permission, *models.Permission](db, EntityConfig{
			Name:         "permission",
			DefaultOrder: ordering.By("name"),
			BeforeHardDelete: func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
				return tx.Exec("DELETE FROM role_permissions WHERE permission_id IN ?", ids).Error
			},
		}),
	}
}

func (r *PermissionRepositoryImpl) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	var perm models.Permission
	err := r.conn(ctx).Where("name = ?", name).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "permission", ID: name}
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}
