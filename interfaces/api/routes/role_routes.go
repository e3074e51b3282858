package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupRoleRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	roles := api.Group("/roles")
	mountReads(roles, g, "role.read", h.RoleHandler)
	roles.Post("/", g.route(g.can("role.create"), h.RoleHandler.Create)...)
	roles.Put("/:id", g.route(g.can("role.update"), h.RoleHandler.Update)...)
	roles.Put("/:id/permissions", g.route(g.can("role.update"), h.RoleHandler.SetPermissions)...)
	mountDeletes(roles, g, "role", h.RoleHandler)

	perms := api.Group("/permissions")
	mountReads(perms, g, "permission.read", h.PermissionHandler)
	perms.Post("/", g.route(g.can("permission.create"), h.PermissionHandler.Create)...)
	perms.Put("/:id", g.route(g.can("permission.update"), h.PermissionHandler.Update)...)
	mountDeletes(perms, g, "permission", h.PermissionHandler)
}
