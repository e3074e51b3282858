package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	users := api.Group("/users")

	mountReads(users, g, "user.read", h.UserHandler)
	users.Get("/:id/permissions", g.route(g.can("user.read"), h.UserHandler.Permissions)...)

	users.Post("/", g.route(g.can("user.create"), h.UserHandler.Create)...)
	users.Put("/:id", g.route(g.can("user.update"), h.UserHandler.Update)...)
	users.Put("/:id/roles", g.route(g.can("user.update"), h.UserHandler.AssignRoles)...)

	mountDeletes(users, g, "user", h.UserHandler)
}
