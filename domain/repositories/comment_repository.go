package repositories

import (
	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type CommentRepository interface {
	TreeRepository[models.Comment]

	// ForPost scopes a traversal to the comments of one post.
	ForPost(postID uuid.UUID) QueryHook
}
