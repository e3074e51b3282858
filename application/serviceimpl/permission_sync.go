package serviceimpl

import (
	"context"

	"github.com/google/uuid"

	"gofiber-cms/domain/ports"
	"gofiber-cms/pkg/logger"
)

// PermissionCacheSync ล้าง permission cache ของ instance นี้ เมื่อ instance อื่น
// เปลี่ยน user / role / permission (ใช้คู่กับ cache ใน memory)
type PermissionCacheSync struct {
	subscriber ports.EventSubscriberPort
	cache      ports.PermissionCachePort
}

func NewPermissionCacheSync(subscriber ports.EventSubscriberPort, cache ports.PermissionCachePort) *PermissionCacheSync {
	return &PermissionCacheSync{subscriber: subscriber, cache: cache}
}

func (s *PermissionCacheSync) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, "user", s.onUser(ctx)); err != nil {
		return err
	}
	for _, entity := range []string{"role", "permission"} {
		if err := s.subscriber.Subscribe(ctx, entity, s.onGrant(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (s *PermissionCacheSync) Stop() error {
	return s.subscriber.Unsubscribe()
}

func (s *PermissionCacheSync) onUser(ctx context.Context) ports.EventHandler {
	return func(event *ports.ContentEvent) {
		if event.Action == ports.ActionCreated {
			return
		}
		ids := make([]uuid.UUID, 0, len(event.IDs))
		for _, raw := range event.IDs {
			if id, err := uuid.Parse(raw); err == nil {
				ids = append(ids, id)
			}
		}
		if err := s.cache.Invalidate(ctx, ids...); err != nil {
			logger.WarnContext(ctx, "Failed to invalidate permission cache", "error", err)
		}
	}
}

// onGrant: event ของ role ไม่บอกว่า user คนไหนได้รับผลกระทบ จึงล้างทั้งหมด
func (s *PermissionCacheSync) onGrant(ctx context.Context) ports.EventHandler {
	return func(event *ports.ContentEvent) {
		if event.Action == ports.ActionCreated {
			return
		}
		if err := s.cache.InvalidateAll(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to flush permission cache", "entity", event.Entity, "error", err)
		}
	}
}
