package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupPostRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	posts := api.Group("/posts")

	posts.Get("/slug/:slug", h.PostHandler.GetBySlug)
	mountReads(posts, g, "", h.PostHandler)
	posts.Get("/:id/comments", h.CommentHandler.ForPost)

	posts.Post("/", g.route(g.can("post.create"), h.PostHandler.Create)...)
	posts.Put("/:id", g.route(g.can("post.update"), h.PostHandler.Update)...)
	posts.Post("/:id/cover", g.route(g.can("post.update"), h.PostHandler.UploadCover)...)
	mountDeletes(posts, g, "post", h.PostHandler)

	// comment ใหม่ต้อง login แต่ไม่ต้องมี permission พิเศษ
	posts.Post("/:id/comments", g.protected, h.CommentHandler.Create)
}
