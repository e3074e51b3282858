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

type PostRepositoryImpl struct {
	*BaseRepository[models.Post, *models.Post]
}

func NewPostRepository(db *gorm.DB) repositories.PostRepository {
	return &PostRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Post, *models.Post](db, EntityConfig{
			Name:         "post",
			EnableTrash:  true,
			DefaultOrder: ordering.ByDesc("created_at"),
			Scope: func(db *gorm.DB) *gorm.DB {
				return db.Preload("Category").Preload("Author")
			},
			// ลบ comments ทั้งหมดของ post (รวม closure rows) ก่อนลบ post
			BeforeHardDelete: func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
				var commentIDs []uuid.UUID
				if err := tx.Unscoped().Model(&models.Comment{}).
					Where("post_id IN ?", ids).
					Pluck("id", &commentIDs).Error; err != nil {
					return err
				}
				return newCommentTree(tx).HardDelete(ctx, commentIDs)
			},
		}),
	}
}

// GetBySlug includes trashed posts; the unique index covers them too.
func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.conn(ctx).Unscoped().Preload("Category").Preload("Author").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "post", ID: slug}
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) InCategory(categoryID uuid.UUID) repositories.QueryHook {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(r.col("category_id")+" = ?", categoryID)
	}
}
