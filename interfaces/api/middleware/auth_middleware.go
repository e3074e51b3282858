package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

// PermissionChecker คือส่วนของ UserService ที่ middleware ใช้
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}

// Protected middleware validates JWT tokens and sets user context
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals("user", userCtx)
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), userCtx.ID.String()))
		return c.Next()
	}
}

// RequirePermission ต้องใช้หลัง Protected
func RequirePermission(checker PermissionChecker, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		ok, err := checker.HasPermission(c.UserContext(), user.ID, permission)
		if err != nil {
			logger.ErrorContext(c.UserContext(), "Permission check failed", "permission", permission, "error", err)
			return utils.InternalServerErrorResponse(c)
		}
		if !ok {
			logger.WarnContext(c.UserContext(), "Permission denied", "permission", permission)
			return utils.ForbiddenResponse(c, "Missing permission "+permission)
		}

		return c.Next()
	}
}
