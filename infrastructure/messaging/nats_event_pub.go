package messaging

import (
	"context"
	"fmt"

	"gofiber-cms/domain/ports"
	natspkg "gofiber-cms/infrastructure/nats"
)

// NATSEventPublisher implements EventPublisherPort using JetStream
type NATSEventPublisher struct {
	publisher *natspkg.Publisher
}

func NewNATSEventPublisher(publisher *natspkg.Publisher) ports.EventPublisherPort {
	return &NATSEventPublisher{publisher: publisher}
}

func (p *NATSEventPublisher) Publish(ctx context.Context, event *ports.ContentEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Entity == "" || event.Action == "" {
		return fmt.Errorf("event entity and action are required")
	}

	return p.publisher.PublishEvent(ctx, &natspkg.ContentEventMessage{
		Entity:     event.Entity,
		Action:     string(event.Action),
		IDs:        event.IDs,
		OccurredAt: event.OccurredAt.UnixMilli(),
	})
}

// NoopEventPublisher ใช้เมื่อไม่มี NATS: ทิ้ง event ทั้งหมด
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event *ports.ContentEvent) error {
	return nil
}
