package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/pkg/pagination"
)

type CommentService interface {
	ContentService[models.Comment]

	// Create ตอบ post หรือ comment อื่นใน post เดียวกัน
	Create(ctx context.Context, postID uuid.UUID, authorID *uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error)

	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCommentRequest) (*models.Comment, error)

	// PaginateForPost แบ่งหน้า comment thread ทั้งหมดของ post
	PaginateForPost(ctx context.Context, postID uuid.UUID, opts ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[models.Comment]], error)

	// Thread ดึง replies ทั้งหมดใต้ comment (comment เองอยู่ depth 0)
	Thread(ctx context.Context, id uuid.UUID, opts ListOptions) ([]models.FlatNode[models.Comment], error)
}
