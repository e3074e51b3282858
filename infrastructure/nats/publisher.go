package nats

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"gofiber-cms/pkg/logger"
)

// Publisher publishes content events to JetStream
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent ส่ง event ไปที่ content.<entity>.<action>
func (p *Publisher) PublishEvent(ctx context.Context, msg *ContentEventMessage) error {
	if msg.Source == "" {
		msg.Source = p.client.source
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := Subject(msg.Entity, msg.Action)
	ack, err := p.client.js.Publish(ctx, subject, data, jetstream.WithExpectStream(StreamName))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish content event",
			"subject", subject,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.DebugContext(ctx, "Content event published",
		"subject", subject,
		"ids", len(msg.IDs),
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}
