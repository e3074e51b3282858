package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupCommentRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	comments := api.Group("/comments")

	mountReads(comments, g, "", h.CommentHandler)
	comments.Get("/:id/thread", h.CommentHandler.Thread)

	comments.Put("/:id", g.route(g.can("comment.update"), h.CommentHandler.Update)...)
	mountDeletes(comments, g, "comment", h.CommentHandler)
}
