package utils

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/pkg/pagination"
)

// ========== Response Structures ==========

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type PaginatedResponse struct {
	Success bool            `json:"success"`
	Data    any             `json:"data"`
	Meta    pagination.Meta `json:"meta"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ========== Error Code Constants ==========

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
)

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// NoContentResponse 204 ไม่มี body
func NoContentResponse(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// PaginatedSuccessResponse: data คือ items ของหน้านั้นที่แปลงเป็น response แล้ว
func PaginatedSuccessResponse(c *fiber.Ctx, data any, meta pagination.Meta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string, details any) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

// errorOr ใช้ fallback เมื่อไม่ได้ส่ง message มา
func errorOr(c *fiber.Ctx, status int, code, message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return ErrorResponse(c, status, code, message, nil)
}

func ValidationErrorResponse(c *fiber.Ctx, details any) error {
	return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, "Validation failed", details)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return errorOr(c, fiber.StatusBadRequest, ErrCodeBadRequest, message, "Bad request")
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	return errorOr(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, message, "Unauthorized")
}

func ForbiddenResponse(c *fiber.Ctx, message string) error {
	return errorOr(c, fiber.StatusForbidden, ErrCodeForbidden, message, "Forbidden")
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	return errorOr(c, fiber.StatusNotFound, ErrCodeNotFound, message, "Resource not found")
}

func ConflictResponse(c *fiber.Ctx, message string) error {
	return errorOr(c, fiber.StatusConflict, ErrCodeConflict, message, "Conflict")
}

func InternalServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
}
