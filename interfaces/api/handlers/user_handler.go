package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

type UserHandler struct {
	*contentHandler[models.User, dto.UserResponse]
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		contentHandler: newContentHandler[models.User]("user", userService, dto.UserNodeToResponse),
		userService:    userService,
	}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "User creation failed", "email", req.Email, "error", err)
		return handleError(c, err)
	}

	logger.InfoContext(ctx, "User created", "user_id", user.ID, "email", user.Email)
	return utils.CreatedResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdateUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.userService.Update(c.UserContext(), id, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

// AssignRoles PUT /users/:id/roles แทนที่ roles ทั้งหมดของ user
func (h *UserHandler) AssignRoles(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.AssignRolesRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := h.userService.AssignRoles(c.UserContext(), id, req.RoleIDs)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) Permissions(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	perms, err := h.userService.Permissions(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, perms)
}

// ---------- current user ----------

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	user, err := h.userService.Detail(c.UserContext(), *userID, repositories.TrashNone)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.UpdateUserRequest
	if !parseBody(c, &req) {
		return nil
	}
	// user ปิดบัญชีตัวเองผ่าน profile ไม่ได้
	req.IsActive = nil

	user, err := h.userService.Update(c.UserContext(), *userID, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	if userID == nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.ChangePasswordRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := h.userService.ChangePassword(ctx, *userID, &req); err != nil {
		logger.WarnContext(ctx, "Password change failed", "user_id", *userID, "error", err)
		return handleError(c, err)
	}

	logger.InfoContext(ctx, "Password changed", "user_id", *userID)
	return utils.SuccessResponse(c, fiber.Map{"message": "Password changed"})
}

func (h *UserHandler) MyPermissions(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	perms, err := h.userService.Permissions(c.UserContext(), *userID)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, perms)
}
