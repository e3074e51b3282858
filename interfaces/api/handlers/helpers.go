package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/errs"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/ordering"
	"gofiber-cms/pkg/pagination"
	"gofiber-cms/pkg/utils"
)

// handleError แปลง error ของ service เป็น response ตามชนิด
func handleError(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()

	var notFound *errs.NotFoundError
	var invalid *errs.ValidationError
	var cycle *errs.ConsistencyError

	switch {
	case errors.As(err, &notFound):
		return utils.NotFoundResponse(c, notFound.Error())
	case errors.As(err, &invalid):
		return utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field:   invalid.Field,
			Message: invalid.Message,
		}})
	case errors.Is(err, ordering.ErrInvalidOrder):
		return utils.BadRequestResponse(c, err.Error())
	case errors.As(err, &cycle):
		return utils.ConflictResponse(c, cycle.Error())
	case errors.Is(err, errs.ErrConflict):
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return utils.BadRequestResponse(c, err.Error())
	}

	logger.ErrorContext(ctx, "Request failed", "path", c.Path(), "error", err)
	return utils.InternalServerErrorResponse(c)
}

// parseBody parse + validate body; คืน false เมื่อเขียน response error ไปแล้ว
func parseBody(c *fiber.Ctx, req any) bool {
	ctx := c.UserContext()

	if err := c.BodyParser(req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		_ = utils.BadRequestResponse(c, "Invalid request body")
		return false
	}
	if err := utils.ValidateStruct(req); err != nil {
		verrs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", verrs)
		_ = utils.ValidationErrorResponse(c, verrs)
		return false
	}
	return true
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = utils.BadRequestResponse(c, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// parseListQuery อ่าน page / limit / trashed / orderBy / depth จาก query string
func parseListQuery(c *fiber.Ctx) (services.ListOptions, pagination.Options, bool) {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		_ = utils.BadRequestResponse(c, "Invalid query parameters")
		return services.ListOptions{}, pagination.Options{}, false
	}
	if err := utils.ValidateStruct(&q); err != nil {
		_ = utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return services.ListOptions{}, pagination.Options{}, false
	}
	opts, err := q.ListOptions()
	if err != nil {
		_ = utils.BadRequestResponse(c, err.Error())
		return services.ListOptions{}, pagination.Options{}, false
	}
	return opts, q.PageOptions(), true
}

func trashedQuery(c *fiber.Ctx) (repositories.TrashMode, bool) {
	mode := repositories.TrashMode(c.Query("trashed"))
	if !mode.Valid() {
		_ = utils.BadRequestResponse(c, "trashed must be one of: none only all")
		return "", false
	}
	return mode, true
}

func currentUserID(c *fiber.Ctx) *uuid.UUID {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return nil
	}
	id := user.ID
	return &id
}
