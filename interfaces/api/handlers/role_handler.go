package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/utils"
)

type RoleHandler struct {
	*contentHandler[models.Role, dto.RoleResponse]
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService) *RoleHandler {
	return &RoleHandler{
		contentHandler: newContentHandler[models.Role]("role", roleService, dto.RoleNodeToResponse),
		roleService:    roleService,
	}
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if !parseBody(c, &req) {
		return nil
	}

	role, err := h.roleService.Create(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.CreatedResponse(c, dto.RoleToRoleResponse(role))
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdateRoleRequest
	if !parseBody(c, &req) {
		return nil
	}

	role, err := h.roleService.Update(c.UserContext(), id, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.RoleToRoleResponse(role))
}

// SetPermissions PUT /roles/:id/permissions
func (h *RoleHandler) SetPermissions(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.SetPermissionsRequest
	if !parseBody(c, &req) {
		return nil
	}

	role, err := h.roleService.SetPermissions(c.UserContext(), id, req.PermissionIDs)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.RoleToRoleResponse(role))
}

type PermissionHandler struct {
	*contentHandler[models.Permission, dto.PermissionResponse]
	permissionService services.PermissionService
}

func NewPermissionHandler(permissionService services.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		contentHandler:    newContentHandler[models.Permission]("permission", permissionService, dto.PermissionNodeToResponse),
		permissionService: permissionService,
	}
}

func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePermissionRequest
	if !parseBody(c, &req) {
		return nil
	}

	perm, err := h.permissionService.Create(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.CreatedResponse(c, dto.PermissionToPermissionResponse(perm))
}

func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req dto.UpdatePermissionRequest
	if !parseBody(c, &req) {
		return nil
	}

	perm, err := h.permissionService.Update(c.UserContext(), id, &req)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, dto.PermissionToPermissionResponse(perm))
}
