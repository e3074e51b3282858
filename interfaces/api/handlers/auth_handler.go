package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gofiber-cms/application/serviceimpl"
	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if !parseBody(c, &req) {
		return nil
	}

	logger.InfoContext(ctx, "Login attempt", "email", req.Email)

	token, user, err := h.userService.Login(ctx, &req)
	if errors.Is(err, serviceimpl.ErrInvalidCredentials) {
		logger.WarnContext(ctx, "Login failed", "email", req.Email)
		return utils.UnauthorizedResponse(c, "Invalid credentials")
	}
	if err != nil {
		return handleError(c, err)
	}

	logger.InfoContext(ctx, "Login successful", "user_id", user.ID)

	return utils.SuccessResponse(c, &dto.LoginResponse{
		Token: token,
		User:  *dto.UserToUserResponse(user),
	})
}
