package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/pagination"
	"gofiber-cms/pkg/utils"
)

type CategoryHandler struct {
	*contentHandler[models.Category, dto.CategoryResponse]
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		contentHandler:  newContentHandler[models.Category]("category", categoryService, dto.CategoryNodeToResponse),
		categoryService: categoryService,
	}
}

// Create สร้าง category ใหม่
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateCategoryRequest
	if !parseBody(c, &req) {
		return nil
	}

	category, err := h.categoryService.Create(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Category creation failed", "error", err)
		return handleError(c, err)
	}

	return utils.CreatedResponse(c, dto.CategoryToCategoryResponse(category, 0))
}

// Update แก้ไข category รวมถึงย้าย parent (parentId / moveToRoot)
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdateCategoryRequest
	if !parseBody(c, &req) {
		return nil
	}

	category, err := h.categoryService.Update(ctx, id, &req)
	if err != nil {
		logger.WarnContext(ctx, "Category update failed", "category_id", id, "error", err)
		return handleError(c, err)
	}

	return utils.SuccessResponse(c, dto.CategoryToCategoryResponse(category, 0))
}

// GetBySlug ดึง category ตาม slug
func (h *CategoryHandler) GetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return utils.BadRequestResponse(c, "Category slug is required")
	}

	category, err := h.categoryService.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CategoryToCategoryResponse(category, 0))
}

// Tree ดึงทุก root พร้อม descendants แบบ nested (?depth= จำกัดความลึก)
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	opts, _, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	trees, err := h.categoryService.Trees(c.UserContext(), opts)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CategoryTreesToResponses(trees))
}

// Subtree ดึง category พร้อม descendants แบบ nested
func (h *CategoryHandler) Subtree(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	opts, _, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	tree, err := h.categoryService.Subtree(c.UserContext(), id, opts)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CategoryTreeToResponse(tree, 0))
}

// Descendants ดึง descendants แบบ flat แบ่งหน้า
func (h *CategoryHandler) Descendants(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	opts, page, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	nodes, err := h.categoryService.Descendants(c.UserContext(), id, opts)
	if err != nil {
		return handleError(c, err)
	}
	result := pagination.Slice(nodes, page)
	return utils.PaginatedSuccessResponse(c, dto.CategoryNodesToResponses(result.Items), result.Meta)
}

// Breadcrumbs ดึงเส้นทางจาก root ถึง category
func (h *CategoryHandler) Breadcrumbs(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	nodes, err := h.categoryService.Breadcrumbs(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CategoryNodesToResponses(nodes))
}

func (h *CategoryHandler) Stats(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	stats, err := h.categoryService.Stats(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, stats)
}
