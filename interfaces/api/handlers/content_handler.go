package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gofiber-cms/domain/dto"
	"gofiber-cms/domain/models"
	"gofiber-cms/domain/services"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/utils"
)

// contentHandler คือ endpoint ที่ทุก entity มีเหมือนกัน:
// list, paginate, detail, delete, restore
type contentHandler[E any, R any] struct {
	name    string
	service services.ContentService[E]
	toNode  func(models.FlatNode[E]) R
}

func newContentHandler[E any, R any](name string, service services.ContentService[E], toNode func(models.FlatNode[E]) R) *contentHandler[E, R] {
	return &contentHandler[E, R]{name: name, service: service, toNode: toNode}
}

func (h *contentHandler[E, R]) mapNodes(nodes []models.FlatNode[E]) []R {
	out := make([]R, len(nodes))
	for i, n := range nodes {
		out[i] = h.toNode(n)
	}
	return out
}

// Paginate GET /?page=&limit=&trashed=&orderBy=&depth=
func (h *contentHandler[E, R]) Paginate(c *fiber.Ctx) error {
	opts, page, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	result, err := h.service.Paginate(c.UserContext(), opts, page)
	if err != nil {
		return handleError(c, err)
	}
	return utils.PaginatedSuccessResponse(c, h.mapNodes(result.Items), result.Meta)
}

// List GET /all ทุกแถวโดยไม่แบ่งหน้า (tree ถูก flatten แล้ว)
func (h *contentHandler[E, R]) List(c *fiber.Ctx) error {
	opts, _, ok := parseListQuery(c)
	if !ok {
		return nil
	}

	nodes, err := h.service.List(c.UserContext(), opts)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, h.mapNodes(nodes))
}

// Detail GET /:id?trashed=
func (h *contentHandler[E, R]) Detail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	trashed, ok := trashedQuery(c)
	if !ok {
		return nil
	}

	entity, err := h.service.Detail(c.UserContext(), id, trashed)
	if err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, h.toNode(models.FlatNode[E]{Entity: entity}))
}

// DeleteOne DELETE /:id?force=true ตอบ 204 เมื่อสำเร็จ
func (h *contentHandler[E, R]) DeleteOne(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.delete(c, []uuid.UUID{id}, c.QueryBool("force")); err != nil {
		return handleError(c, err)
	}
	return utils.NoContentResponse(c)
}

// DeleteMany POST /delete {ids, force}
func (h *contentHandler[E, R]) DeleteMany(c *fiber.Ctx) error {
	var req dto.DeleteRequest
	if !parseBody(c, &req) {
		return nil
	}
	if err := h.delete(c, req.IDs, req.Force); err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.Map{"deleted": len(req.IDs), "force": req.Force})
}

func (h *contentHandler[E, R]) delete(c *fiber.Ctx, ids []uuid.UUID, force bool) error {
	ctx := c.UserContext()
	err := h.service.Delete(ctx, ids, !force)
	if err != nil {
		logger.WarnContext(ctx, "Delete failed", "entity", h.name, "error", err)
	}
	return err
}

// Restore POST /restore {ids}
func (h *contentHandler[E, R]) Restore(c *fiber.Ctx) error {
	var req dto.RestoreRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := h.service.Restore(c.UserContext(), req.IDs); err != nil {
		return handleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.Map{"restored": len(req.IDs)})
}
