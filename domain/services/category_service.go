package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
)

type CategoryService interface {
	ContentService[models.Category]

	// Create สร้าง category ใหม่ (custom order ต่อท้ายพี่น้อง ถ้าไม่ระบุ)
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error)

	// Update อัปเดต category รวมถึงย้าย parent
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error)

	// GetBySlug ดึง category ตาม slug
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)

	// Trees ดึง categories แบบ nested tree
	Trees(ctx context.Context, opts ListOptions) ([]*models.TreeNode[models.Category], error)

	// Subtree ดึง category พร้อม descendants แบบ nested
	Subtree(ctx context.Context, id uuid.UUID, opts ListOptions) (*models.TreeNode[models.Category], error)

	// Descendants ดึง descendants แบบ flat (category เองอยู่ depth 0)
	Descendants(ctx context.Context, id uuid.UUID, opts ListOptions) ([]models.FlatNode[models.Category], error)

	// Breadcrumbs ดึง ancestors เรียงจาก root จนถึง category เอง
	Breadcrumbs(ctx context.Context, id uuid.UUID) ([]models.FlatNode[models.Category], error)

	// Stats นับ descendants / ancestors ของ category
	Stats(ctx context.Context, id uuid.UUID) (*dto.TreeStats, error)
}
