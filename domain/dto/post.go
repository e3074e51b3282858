package dto

import (
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type CreatePostRequest struct {
	Title      string     `json:"title" validate:"required,min=1,max=255"`
	Slug       string     `json:"slug" validate:"omitempty,max=255"`
	Summary    string     `json:"summary" validate:"omitempty,max=500"`
	Body       string     `json:"body"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Publish    bool       `json:"publish"`
}

type UpdatePostRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string    `json:"slug" validate:"omitempty,min=1,max=255"`
	Summary       *string    `json:"summary" validate:"omitempty,max=500"`
	Body          *string    `json:"body"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	ClearCategory bool       `json:"clearCategory"`
	Publish       *bool      `json:"publish"`
}

type PostResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Summary     string           `json:"summary"`
	Body        string           `json:"body"`
	CoverURL    string           `json:"coverUrl"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
	Category    *CategorySummary `json:"category,omitempty"`
	AuthorID    *uuid.UUID       `json:"authorId"`
	Author      *UserSummary     `json:"author,omitempty"`
	PublishedAt *time.Time       `json:"publishedAt"`
	IsPublished bool             `json:"isPublished"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"deletedAt,omitempty"`
}

func PostToPostResponse(post *models.Post) *PostResponse {
	if post == nil {
		return nil
	}
	return &PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Summary:     post.Summary,
		Body:        post.Body,
		CoverURL:    post.CoverURL,
		CategoryID:  post.CategoryID,
		Category:    CategoryToSummary(post.Category),
		AuthorID:    post.AuthorID,
		Author:      UserToSummary(post.Author),
		PublishedAt: post.PublishedAt,
		IsPublished: post.IsPublished(),
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		DeletedAt:   deletedAt(post.DeletedAt),
	}
}

func PostNodeToResponse(node models.FlatNode[models.Post]) PostResponse {
	return *PostToPostResponse(node.Entity)
}
