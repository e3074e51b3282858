package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	auth := api.Group("/auth")
	auth.Post("/login", h.AuthHandler.Login)

	// profile ของผู้ใช้ที่ login อยู่
	me := auth.Group("/me", g.protected)
	me.Get("/", h.UserHandler.GetProfile)
	me.Put("/", h.UserHandler.UpdateProfile)
	me.Put("/password", h.UserHandler.ChangePassword)
	me.Get("/permissions", h.UserHandler.MyPermissions)
}
