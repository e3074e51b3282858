package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/pkg/pagination"
)

type PostService interface {
	ContentService[models.Post]

	Create(ctx context.Context, authorID *uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error)

	// GetBySlug ดึง post ที่ยังไม่ถูกลบตาม slug
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)

	// PaginateInCategory แบ่งหน้า posts ของ category เดียว
	PaginateInCategory(ctx context.Context, categoryID uuid.UUID, opts ListOptions, page pagination.Options) (*pagination.Result[models.FlatNode[models.Post]], error)

	// UploadCover อัปโหลดรูป cover แทนที่รูปเดิม
	UploadCover(ctx context.Context, id uuid.UUID, file io.Reader, size int64, filename, contentType string) (*models.Post, error)
}
