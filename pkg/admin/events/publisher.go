package events

import (
	"context"

	"subscription-webhook-be/internal/pkg/logger"
	pkgEvents "subscription-webhook-be/pkg/events"
	pktNats "subscription-webhook-be/pkg/nats"
)

// Publisher forwards subscription lifecycle events to external consumers.
type Publisher interface {
	Publish(ctx context.Context, evt pkgEvents.Event, msgId string)
}

// NatsPublisher implements Publisher using NATS. A nil NATS publisher makes
// every call a no-op, so the service runs without a broker.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) Publish(ctx context.Context, evt pkgEvents.Event, msgId string) {
	if p.publisher == nil {
		return
	}

	if err := p.publisher.Publish(ctx, evt, msgId); err != nil {
		p.logger.Error("ADMIN", "Failed to forward event to NATS", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
