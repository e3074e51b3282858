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

type UserRepositoryImpl struct {
	*BaseRepository[models.User, *models.User]
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, *models.User](db, EntityConfig{
			Name:         "user",
			EnableTrash:  true,
			DefaultOrder: ordering.ByDesc("created_at"),
			Scope: func(db *gorm.DB) *gorm.DB {
				return db.Preload("Roles")
			},
			// ล้าง user_roles และปลด author ออกจาก posts/comments ก่อนลบ user
			BeforeHardDelete: func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
				for _, stmt := range []string{
					"DELETE FROM user_roles WHERE user_id IN ?",
					"UPDATE posts SET author_id = NULL WHERE author_id IN ?",
					"UPDATE comments SET author_id = NULL WHERE author_id IN ?",
				} {
					if err := tx.Exec(stmt, ids).Error; err != nil {
						return err
					}
				}
				return nil
			},
		}),
	}
}

func (r *UserRepositoryImpl) getBy(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := r.conn(ctx).Unscoped().Preload("Roles").Where(column+" = ?", value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "user", ID: value}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail / GetByUsername include soft-deleted users; callers check DeletedAt.
func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

// ReplaceRoles แทนที่ roles ทั้งหมดของ user
func (r *UserRepositoryImpl) ReplaceRoles(ctx context.Context, user *models.User, roleIDs []uuid.UUID) error {
	var roles []models.Role
	if len(roleIDs) > 0 {
		if err := r.conn(ctx).Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
			return err
		}
		if len(roles) != len(roleIDs) {
			return errs.Invalid("roleIds", "contains unknown role")
		}
	}
	if err := r.conn(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

// PermissionNames คืนชื่อ permission ทั้งหมดที่ user ได้รับผ่าน roles
func (r *UserRepositoryImpl) PermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.conn(ctx).Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Distinct("permissions.name").
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	return names, err
}
