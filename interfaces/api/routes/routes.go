package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
	"gofiber-cms/interfaces/api/middleware"
)

type Options struct {
	JWTSecret string
	// FilesPath เสิร์ฟไฟล์ของ local storage ที่ /files (ว่าง = ไม่เสิร์ฟ)
	FilesPath string
}

// contentRoutes คือ endpoint มาตรฐานที่ทุก entity handler มี
type contentRoutes interface {
	Paginate(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	Detail(c *fiber.Ctx) error
	DeleteOne(c *fiber.Ctx) error
	DeleteMany(c *fiber.Ctx) error
	Restore(c *fiber.Ctx) error
}

type guard struct {
	protected fiber.Handler
	checker   middleware.PermissionChecker
}

// can คืน middleware chain: ต้อง login และมี permission
func (g guard) can(permission string) []fiber.Handler {
	return []fiber.Handler{g.protected, middleware.RequirePermission(g.checker, permission)}
}

func (g guard) route(handlers []fiber.Handler, h fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, handlers...), h)
}

// mountReads ลงทะเบียน list/detail; permission ว่าง = public
func mountReads(r fiber.Router, g guard, permission string, h contentRoutes) {
	var chain []fiber.Handler
	if permission != "" {
		chain = g.can(permission)
	}
	r.Get("/", g.route(chain, h.Paginate)...)
	r.Get("/all", g.route(chain, h.List)...)
	r.Get("/:id", g.route(chain, h.Detail)...)
}

// mountDeletes ลงทะเบียน delete/restore ภายใต้ "<entity>.delete" และ "<entity>.restore"
func mountDeletes(r fiber.Router, g guard, entity string, h contentRoutes) {
	r.Post("/delete", g.route(g.can(entity+".delete"), h.DeleteMany)...)
	r.Post("/restore", g.route(g.can(entity+".restore"), h.Restore)...)
	r.Delete("/:id", g.route(g.can(entity+".delete"), h.DeleteOne)...)
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, opts Options) {
	SetupHealthRoutes(app, h)

	if opts.FilesPath != "" {
		app.Static("/files", opts.FilesPath)
	}

	g := guard{
		protected: middleware.Protected(opts.JWTSecret),
		checker:   h.Permissions,
	}

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, g)
	SetupUserRoutes(api, h, g)
	SetupRoleRoutes(api, h, g)
	SetupCategoryRoutes(api, h, g)
	SetupPostRoutes(api, h, g)
	SetupCommentRoutes(api, h, g)
	SetupMonitoringRoutes(api, h, g)
}
