package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupCategoryRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	categories := api.Group("/categories")

	// Public routes (ต้องลงทะเบียนก่อน /:id)
	categories.Get("/tree", h.CategoryHandler.Tree)
	categories.Get("/slug/:slug", h.CategoryHandler.GetBySlug)
	mountReads(categories, g, "", h.CategoryHandler)
	categories.Get("/:id/subtree", h.CategoryHandler.Subtree)
	categories.Get("/:id/descendants", h.CategoryHandler.Descendants)
	categories.Get("/:id/breadcrumbs", h.CategoryHandler.Breadcrumbs)
	categories.Get("/:id/stats", h.CategoryHandler.Stats)
	categories.Get("/:id/posts", h.PostHandler.InCategory)

	// Protected routes
	categories.Post("/", g.route(g.can("category.create"), h.CategoryHandler.Create)...)
	categories.Put("/:id", g.route(g.can("category.update"), h.CategoryHandler.Update)...)
	mountDeletes(categories, g, "category", h.CategoryHandler)
}
