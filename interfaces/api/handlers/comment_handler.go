package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

type CommentHandler struct {
	*contentHandler[models.Comment, dto.CommentResponse]
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{
		contentHandler: newContentHandler[models.Comment]("comment", commentService, dto.CommentNodeToResponse),
		commentService: commentService,
	}
}

// Create POST /posts/:id/comments
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.CreateCommentRequest
	if !parseBody(c, &req) {
		return nil
	}

	comment, err := h.commentService.Create(ctx, postID, currentUserID(c), &req)
	if err != nil {
		logger.WarnContext(ctx, "Comment creation failed", "post_id", postID, "error", err)
		return handleError(c, err)
	}
	return utils.CreatedResponse(c, dto.CommentToCommentResponse(comment, 0))
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdateCommentRequest
	if !parseBody(c, &req) {
		return nil
	}

	comment, err := h.commentService.Update(c.UserContext(), id, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CommentToCommentResponse(comment, 0))
}

// ForPost GET /posts/:id/comments แบ่งหน้า thread ที่ flatten แล้ว
func (h *CommentHandler) ForPost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	opts, page, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	result, err := h.commentService.PaginateForPost(c.UserContext(), postID, opts, page)
	if err != nil {
		return handleError(c, err)
	}
	return utils.PaginatedSuccessResponse(c, dto.CommentNodesToResponses(result.Items), result.Meta)
}

// Thread GET /comments/:id/thread
func (h *CommentHandler) Thread(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	opts, _, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	nodes, err := h.commentService.Thread(c.UserContext(), id, opts)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.CommentNodesToResponses(nodes))
}
