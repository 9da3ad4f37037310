// FILE: internal/service/consumer_service.go
package service

import (
	"context"

	"subscription-webhook-be/internal/pkg/cache"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/pkg/mailer"
	adminEvents "subscription-webhook-be/pkg/admin/events"
	"subscription-webhook-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reacts to subscription events after the HTTP response has
// been written: cache invalidation, NATS fan-out and anomaly e-mails.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	cache      cache.StatusCache
	forwarder  adminEvents.Publisher
	mailer     mailer.IEmailService // nil when SMTP is not configured
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	statusCache cache.StatusCache,
	forwarder adminEvents.Publisher,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		cache:      statusCache,
		forwarder:  forwarder,
		mailer:     emailService,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Every outcome is acked: side effects here are best-effort and a Nack
	// would redeliver forever on the in-process channel.
	defer msg.Ack()

	evt, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode event", map[string]interface{}{"message_id": msg.UUID, "error": err.Error()})
		return
	}

	if userId, ok := events.UserId(evt); ok {
		cs.cache.Invalidate(ctx, userId)
	}

	cs.forwarder.Publish(ctx, evt, msg.UUID)

	if evt.Type == events.SubscriberNotFound && cs.mailer != nil {
		if err := cs.mailer.SendAlert("Payment received for unknown subscriber", evt.Data); err != nil {
			cs.logger.Error("MAILER", "Failed to send anomaly alert", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.logger.Debug("CONSUMER", "Event handled", map[string]interface{}{"event_type": evt.Type, "message_id": msg.UUID})
}
