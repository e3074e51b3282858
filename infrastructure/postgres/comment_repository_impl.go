package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/pkg/ordering"
)

type CommentRepositoryImpl struct {
	*TreeRepository[models.Comment, *models.Comment]
}

func NewCommentRepository(db *gorm.DB) repositories.CommentRepository {
	return &CommentRepositoryImpl{TreeRepository: newCommentTree(db)}
}

func newCommentTree(db *gorm.DB) *TreeRepository[models.Comment, *models.Comment] {
	return NewTreeRepository[models.Comment, *models.Comment](db, TreeConfig{
		EntityConfig: EntityConfig{
			Name:         "comment",
			EnableTrash:  true,
			DefaultOrder: ordering.ByDesc("created_at"),
			// comment ต้องมี post, author และ parent ติดมาเสมอ
			Scope: func(db *gorm.DB) *gorm.DB {
				return db.Preload("Post").Preload("Author").Preload("Parent")
			},
		},
		ClosureTable: models.CommentClosure{}.TableName(),
		Resolution:   repositories.ResolveDelete,
	})
}

func (r *CommentRepositoryImpl) ForPost(postID uuid.UUID) repositories.QueryHook {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(r.col("post_id")+" = ?", postID)
	}
}
