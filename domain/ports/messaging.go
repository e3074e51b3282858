package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Content Events - แจ้งระบบอื่นเมื่อ content เปลี่ยน
// ═══════════════════════════════════════════════════════════════════════════════

type EventAction string

const (
	ActionCreated  EventAction = "created"
	ActionUpdated  EventAction = "updated"
	ActionMoved    EventAction = "moved"
	ActionDeleted  EventAction = "deleted"
	ActionTrashed  EventAction = "trashed"
	ActionRestored EventAction = "restored"
)

// ContentEvent - Plain struct (ไม่มี NATS dependency)
type ContentEvent struct {
	Entity     string // category, comment, post, user, role, permission
	Action     EventAction
	IDs        []string
	OccurredAt time.Time
}

// EventPublisherPort - Interface สำหรับส่ง content events
type EventPublisherPort interface {
	Publish(ctx context.Context, event *ContentEvent) error
}

// EventHandler - Callback function type
type EventHandler func(event *ContentEvent)

// EventSubscriberPort - Interface สำหรับรับ content events
type EventSubscriberPort interface {
	// Subscribe เริ่ม listen events ของ entity ที่ระบุ ("" = ทุก entity)
	Subscribe(ctx context.Context, entity string, handler EventHandler) error

	// Unsubscribe หยุด listen
	Unsubscribe() error
}
