package serviceimpl

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
)

type CategoryServiceImpl struct {
	*contentService[models.Category, *models.Category]
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, events ports.EventPublisherPort) services.CategoryService {
	return &CategoryServiceImpl{
		contentService: newContentService[models.Category, *models.Category]("category", categoryRepo, events),
		categoryRepo:   categoryRepo,
	}
}

// ensureSlugFree คืน conflict ถ้า slug ถูกใช้โดย category อื่น (รวมในถังขยะ)
func (s *CategoryServiceImpl) ensureSlugFree(ctx context.Context, slugStr string, selfID uuid.UUID) error {
	existing, err := s.categoryRepo.GetBySlug(ctx, slugStr)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		logger.WarnContext(ctx, "Category slug already exists", "slug", slugStr)
		return errs.Conflict("category slug already exists")
	}
	return nil
}

func (s *CategoryServiceImpl) liveParent(ctx context.Context, parentID uuid.UUID) (*models.Category, error) {
	parent, err := s.categoryRepo.FindByID(ctx, parentID, repositories.TrashNone)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.Invalid("parentId", "parent category not found")
	}
	return parent, err
}

func (s *CategoryServiceImpl) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	source := req.Slug
	if source == "" {
		source = req.Name
	}
	slugStr := slug.Make(source)
	if slugStr == "" {
		return nil, errs.Invalid("slug", "cannot be derived from name")
	}
	if err := s.ensureSlugFree(ctx, slugStr, uuid.Nil); err != nil {
		return nil, err
	}

	var parent *models.Category
	if req.ParentID != nil {
		p, err := s.liveParent(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		parent = p
	}

	// ไม่ระบุ custom order = ต่อท้ายพี่น้อง
	customOrder := 0
	if req.CustomOrder != nil {
		customOrder = *req.CustomOrder
	} else {
		maxOrder, err := s.categoryRepo.GetMaxCustomOrder(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		customOrder = maxOrder + 1
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        slugStr,
		Description: req.Description,
		ParentID:    req.ParentID,
		CustomOrder: customOrder,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.ErrorContext(ctx, "Failed to create category", "error", err)
		return nil, err
	}
	category.Parent = parent

	logger.InfoContext(ctx, "Category created", "category_id", category.ID, "name", category.Name)
	s.publish(ctx, ports.ActionCreated, []uuid.UUID{category.ID})
	return category, nil
}

func (s *CategoryServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		logger.WarnContext(ctx, "Category not found for update", "category_id", id)
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.CustomOrder != nil {
		category.CustomOrder = *req.CustomOrder
	}
	if req.Slug != nil {
		newSlug := slug.Make(*req.Slug)
		if newSlug == "" {
			return nil, errs.Invalid("slug", "must contain letters or digits")
		}
		if err := s.ensureSlugFree(ctx, newSlug, id); err != nil {
			return nil, err
		}
		category.Slug = newSlug
	}

	// หา parent ปลายทาง (ถ้ามีการย้าย)
	move := false
	var newParentID *uuid.UUID
	var newParent *models.Category
	switch {
	case req.MoveToRoot:
		move = category.ParentID != nil
	case req.ParentID != nil && (category.ParentID == nil || *category.ParentID != *req.ParentID):
		p, err := s.liveParent(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		move, newParentID, newParent = true, req.ParentID, p
	}

	err = s.categoryRepo.TreeTransaction(ctx, func(tx repositories.TreeRepository[models.Category]) error {
		if move {
			if err := tx.Move(ctx, category, newParentID); err != nil {
				return err
			}
			category.Parent = newParent
		}
		return tx.Save(ctx, category)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update category", "category_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Category updated", "category_id", id, "moved", move)
	s.publish(ctx, ports.ActionUpdated, []uuid.UUID{id})
	if move {
		s.publish(ctx, ports.ActionMoved, []uuid.UUID{id})
	}
	return category, nil
}

func (s *CategoryServiceImpl) GetBySlug(ctx context.Context, slugStr string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slugStr)
	if err != nil {
		logger.WarnContext(ctx, "Category not found", "slug", slugStr)
		return nil, err
	}
	if category.DeletedAt.Valid {
		return nil, &errs.NotFoundError{Entity: "category", ID: slugStr}
	}
	return category, nil
}

func (s *CategoryServiceImpl) Trees(ctx context.Context, opts services.ListOptions) ([]*models.TreeNode[models.Category], error) {
	opts, err := s.options(opts)
	if err != nil {
		return nil, err
	}
	trees, err := s.categoryRepo.FindTrees(ctx, opts)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list category trees", "error", err)
		return nil, err
	}
	return trees, nil
}

func (s *CategoryServiceImpl) Subtree(ctx context.Context, id uuid.UUID, opts services.ListOptions) (*models.TreeNode[models.Category], error) {
	opts, err := s.options(opts)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(ctx, id, opts.Trashed)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.FindDescendantsTree(ctx, category, opts)
}

func (s *CategoryServiceImpl) Descendants(ctx context.Context, id uuid.UUID, opts services.ListOptions) ([]models.FlatNode[models.Category], error) {
	tree, err := s.Subtree(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.ToFlatTrees([]*models.TreeNode[models.Category]{tree}, 0), nil
}

func (s *CategoryServiceImpl) Breadcrumbs(ctx context.Context, id uuid.UUID) ([]models.FlatNode[models.Category], error) {
	category, err := s.categoryRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.FlatAncestorsTree(ctx, category)
}

func (s *CategoryServiceImpl) Stats(ctx context.Context, id uuid.UUID) (*dto.TreeStats, error) {
	category, err := s.categoryRepo.FindByID(ctx, id, repositories.TrashNone)
	if err != nil {
		return nil, err
	}

	descendants, err := s.categoryRepo.CountDescendants(ctx, category, repositories.TreeOptions{})
	if err != nil {
		return nil, err
	}
	ancestors, err := s.categoryRepo.CountAncestors(ctx, category, repositories.TreeOptions{})
	if err != nil {
		return nil, err
	}
	children, err := s.categoryRepo.CountDescendants(ctx, category, repositories.TreeOptions{Depth: 1})
	if err != nil {
		return nil, err
	}

	return &dto.TreeStats{
		Descendants: descendants,
		Ancestors:   ancestors,
		HasChildren: children > 0,
	}, nil
}
