package dto

import (
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

// === Requests ===

type CreateCategoryRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Slug        string     `json:"slug" validate:"omitempty,max=120"` // ว่าง = สร้างจาก name
	Description string     `json:"description" validate:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parentId"`
	CustomOrder *int       `json:"customOrder" validate:"omitempty,min=0"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string    `json:"slug" validate:"omitempty,min=1,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parentId"`
	MoveToRoot  bool       `json:"moveToRoot"` // true = ย้ายไปเป็น root
	CustomOrder *int       `json:"customOrder" validate:"omitempty,min=0"`
}

// === Responses ===

type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategoryResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	ParentID    *uuid.UUID       `json:"parentId"`
	Parent      *CategorySummary `json:"parent,omitempty"`
	CustomOrder int              `json:"customOrder"`
	Depth       int              `json:"depth"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"deletedAt,omitempty"`
}

type CategoryTreeResponse struct {
	CategoryResponse
	Children []*CategoryTreeResponse `json:"children"`
}

// === Mappers ===

func CategoryToSummary(category *models.Category) *CategorySummary {
	if category == nil {
		return nil
	}
	return &CategorySummary{ID: category.ID, Name: category.Name, Slug: category.Slug}
}

func CategoryToCategoryResponse(category *models.Category, depth int) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ParentID:    category.ParentID,
		Parent:      CategoryToSummary(category.Parent),
		CustomOrder: category.CustomOrder,
		Depth:       depth,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
		DeletedAt:   deletedAt(category.DeletedAt),
	}
}

func CategoryNodeToResponse(node models.FlatNode[models.Category]) CategoryResponse {
	return *CategoryToCategoryResponse(node.Entity, node.Depth)
}

func CategoryNodesToResponses(nodes []models.FlatNode[models.Category]) []CategoryResponse {
	responses := make([]CategoryResponse, len(nodes))
	for i, node := range nodes {
		responses[i] = CategoryNodeToResponse(node)
	}
	return responses
}

// CategoryTreeToResponse แปลง nested tree โดยนับ depth จาก root ของ tree
func CategoryTreeToResponse(node *models.TreeNode[models.Category], depth int) *CategoryTreeResponse {
	resp := &CategoryTreeResponse{
		CategoryResponse: *CategoryToCategoryResponse(node.Entity, depth),
		Children:         make([]*CategoryTreeResponse, len(node.Children)),
	}
	for i, child := range node.Children {
		resp.Children[i] = CategoryTreeToResponse(child, depth+1)
	}
	return resp
}

func CategoryTreesToResponses(trees []*models.TreeNode[models.Category]) []*CategoryTreeResponse {
	responses := make([]*CategoryTreeResponse, len(trees))
	for i, tree := range trees {
		responses[i] = CategoryTreeToResponse(tree, 0)
	}
	return responses
}
