package dto

import (
	"time"

	"github.com/google/uuid"

	"gofiber-cms/domain/models"
)

type CreateCommentRequest struct {
	Body     string     `json:"body" validate:"required,min=1,max=5000"`
	ParentID *uuid.UUID `json:"parentId"` // reply ถึง comment อื่นใน post เดียวกัน
}

type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

type CommentResponse struct {
	ID        uuid.UUID    `json:"id"`
	Body      string       `json:"body"`
	PostID    uuid.UUID    `json:"postId"`
	AuthorID  *uuid.UUID   `json:"authorId"`
	Author    *UserSummary `json:"author,omitempty"`
	ParentID  *uuid.UUID   `json:"parentId"`
	Depth     int          `json:"depth"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	DeletedAt *time.Time   `json:"deletedAt,omitempty"`
}

func CommentToCommentResponse(comment *models.Comment, depth int) *CommentResponse {
	if comment == nil {
		return nil
	}
	return &CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Author:    UserToSummary(comment.Author),
		ParentID:  comment.ParentID,
		Depth:     depth,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		DeletedAt: deletedAt(comment.DeletedAt),
	}
}

func CommentNodeToResponse(node models.FlatNode[models.Comment]) CommentResponse {
	return *CommentToCommentResponse(node.Entity, node.Depth)
}

func CommentNodesToResponses(nodes []models.FlatNode[models.Comment]) []CommentResponse {
	responses := make([]CommentResponse, len(nodes))
	for i, node := range nodes {
		responses[i] = CommentNodeToResponse(node)
	}
	return responses
}
