package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

type PostHandler struct {
	*contentHandler[models.Post, dto.PostResponse]
	postService   services.PostService
	maxCoverBytes int64
}

func NewPostHandler(postService services.PostService, maxCoverBytes int64) *PostHandler {
	return &PostHandler{
		contentHandler: newContentHandler[models.Post]("post", postService, dto.PostNodeToResponse),
		postService:    postService,
		maxCoverBytes:  maxCoverBytes,
	}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreatePostRequest
	if !parseBody(c, &req) {
		return nil
	}

	post, err := h.postService.Create(ctx, currentUserID(c), &req)
	if err != nil {
		logger.WarnContext(ctx, "Post creation failed", "error", err)
		return handleError(c, err)
	}
	return utils.CreatedResponse(c, dto.PostToPostResponse(post))
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdatePostRequest
	if !parseBody(c, &req) {
		return nil
	}

	post, err := h.postService.Update(c.UserContext(), id, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.PostToPostResponse(post))
}

func (h *PostHandler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.postService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.PostToPostResponse(post))
}

// InCategory GET /categories/:id/posts
func (h *PostHandler) InCategory(c *fiber.Ctx) error {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	opts, page, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	result, err := h.postService.PaginateInCategory(c.UserContext(), categoryID, opts, page)
	if err != nil {
		return handleError(c, err)
	}
	return utils.PaginatedSuccessResponse(c, h.mapNodes(result.Items), result.Meta)
}

// UploadCover POST /posts/:id/cover (multipart field "file")
func (h *PostHandler) UploadCover(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequestResponse(c, "File is required")
	}
	if h.maxCoverBytes > 0 && fileHeader.Size > h.maxCoverBytes {
		return utils.BadRequestResponse(c, "File is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open uploaded file", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
	defer file.Close()

	post, err := h.postService.UploadCover(ctx, id, file, fileHeader.Size, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.PostToPostResponse(post))
}
