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

type CategoryRepositoryImpl struct {
	*TreeRepository[models.Category, *models.Category]
}

func NewCategoryRepository(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryRepositoryImpl{
		TreeRepository: NewTreeRepository[models.Category, *models.Category](db, TreeConfig{
			EntityConfig: EntityConfig{
				Name:         "category",
				EnableTrash:  true,
				DefaultOrder: ordering.By("custom_order").Then("name", ordering.Asc),
				Scope: func(db *gorm.DB) *gorm.DB {
					return db.Preload("Parent")
				},
				// posts ของ category ที่ถูกลบถาวรจะกลายเป็นไม่มีหมวด
				BeforeHardDelete: func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
					return tx.Exec("UPDATE posts SET category_id = NULL WHERE category_id IN ?", ids).Error
				},
			},
			ClosureTable: models.CategoryClosure{}.TableName(),
			// ลบ category แล้ว children ขยับขึ้นไปอยู่ใต้ parent เดิม
			Resolution: repositories.ResolveUp,
		}),
	}
}

// GetBySlug includes trashed categories; the unique index covers them too.
func (r *CategoryRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.conn(ctx).Unscoped().Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &errs.NotFoundError{Entity: "category", ID: slug}
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetMaxCustomOrder คืนค่า custom_order สูงสุดของพี่น้องภายใต้ parent เดียวกัน
func (r *CategoryRepositoryImpl) GetMaxCustomOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder int
	query := r.conn(ctx).Model(&models.Category{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	err := query.Select("COALESCE(MAX(custom_order), 0)").Scan(&maxOrder).Error
	return maxOrder, err
}
