package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"gofiber-cms/domain/services"
	natspkg "gofiber-cms/infrastructure/nats"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/scheduler"
	"gofiber-cms/pkg/utils"
)

// MonitoringHandler handles health, event stream and scheduled job endpoints
type MonitoringHandler struct {
	natsClient   *natspkg.Client // nil เมื่อปิด NATS
	scheduler    scheduler.EventScheduler
	trashService services.TrashService
	pingDB       func(ctx context.Context) error
}

func NewMonitoringHandler(natsClient *natspkg.Client, sched scheduler.EventScheduler, trashService services.TrashService, pingDB func(ctx context.Context) error) *MonitoringHandler {
	return &MonitoringHandler{
		natsClient:   natsClient,
		scheduler:    sched,
		trashService: trashService,
		pingDB:       pingDB,
	}
}

// HealthCheck GET /health
func (h *MonitoringHandler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	health := fiber.Map{
		"status":   "ok",
		"database": "ok",
		"nats":     "disabled",
	}
	status := fiber.StatusOK

	if h.pingDB != nil {
		if err := h.pingDB(ctx); err != nil {
			logger.WarnContext(ctx, "Database ping failed", "error", err)
			health["database"] = "down"
			health["status"] = "degraded"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.natsClient != nil {
		health["nats"] = "ok"
		if !h.natsClient.IsConnected() {
			health["nats"] = "down"
			health["status"] = "degraded"
		}
	}

	return c.Status(status).JSON(utils.Response{Success: status == fiber.StatusOK, Data: health})
}

// GetEventStream GET /api/v1/monitoring/events
// สถานะของ JetStream stream ที่เก็บ content events
func (h *MonitoringHandler) GetEventStream(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if h.natsClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "NATS not available", nil)
	}

	status, err := h.natsClient.GetStatus(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get JetStream status", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
	return utils.SuccessResponse(c, status)
}

// GetJobs GET /api/v1/monitoring/jobs
func (h *MonitoringHandler) GetJobs(c *fiber.Ctx) error {
	if h.scheduler == nil {
		return utils.SuccessResponse(c, []scheduler.JobInfo{})
	}
	return utils.SuccessResponse(c, fiber.Map{
		"running": h.scheduler.IsRunning(),
		"jobs":    h.scheduler.ListJobs(),
	})
}

// PurgeTrash POST /api/v1/monitoring/trash/purge
// ลบถาวรทุกแถวที่อยู่ในถังขยะนานเกิน retention ทันที
func (h *MonitoringHandler) PurgeTrash(c *fiber.Ctx) error {
	ctx := c.UserContext()

	purged, err := h.trashService.Purge(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Trash purge failed", "purged", purged, "error", err)
		return utils.InternalServerErrorResponse(c)
	}
	return utils.SuccessResponse(c, purged)
}
