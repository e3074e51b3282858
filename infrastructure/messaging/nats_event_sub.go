package messaging

import (
	"context"

	"gofiber-cms/domain/ports"
	natspkg "gofiber-cms/infrastructure/nats"
	"gofiber-cms/pkg/logger"
)

// NATSEventSubscriber implements EventSubscriberPort using NATS Pub/Sub
type NATSEventSubscriber struct {
	subscriber *natspkg.Subscriber
	cancels    []context.CancelFunc
}

func NewNATSEventSubscriber(subscriber *natspkg.Subscriber) ports.EventSubscriberPort {
	return &NATSEventSubscriber{subscriber: subscriber}
}

func (s *NATSEventSubscriber) Subscribe(ctx context.Context, entity string, handler ports.EventHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancels = append(s.cancels, cancel)

	s.subscriber.OnEvent(entity, func(msg *natspkg.ContentEventMessage) {
		if ctx.Err() != nil {
			return
		}
		if msg == nil || msg.Action == "" {
			logger.Warn("Received content event without action")
			return
		}
		handler(&ports.ContentEvent{
			Entity:     msg.Entity,
			Action:     ports.EventAction(msg.Action),
			IDs:        msg.IDs,
			OccurredAt: msg.Time(),
		})
	})

	if !s.subscriber.IsRunning() {
		return s.subscriber.Start()
	}
	return nil
}

func (s *NATSEventSubscriber) Unsubscribe() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	return s.subscriber.Stop()
}
