package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-cms/interfaces/api/handlers"
)

func SetupMonitoringRoutes(api fiber.Router, h *handlers.Handlers, g guard) {
	monitoring := api.Group("/monitoring")
	monitoring.Get("/events", g.route(g.can("system.monitor"), h.MonitoringHandler.GetEventStream)...)
	monitoring.Get("/jobs", g.route(g.can("system.monitor"), h.MonitoringHandler.GetJobs)...)
	monitoring.Post("/trash/purge", g.route(g.can("system.purge"), h.MonitoringHandler.PurgeTrash)...)
}
