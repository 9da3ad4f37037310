// FILE: internal/service/publisher_service.go
package service

import (
	"context"

	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SubscriptionEventsTopic is the in-process topic every subscription
// mutation is announced on.
const SubscriptionEventsTopic = "subscription.events"

type IPublisherService interface {
	// Publish never fails the caller; delivery problems are logged.
	Publish(ctx context.Context, evt events.Event)
}

type publisherService struct {
	pubSub    message.Publisher
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub message.Publisher, topicName string, logger logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    logger,
	}
}

func (s *publisherService) Publish(ctx context.Context, evt events.Event) {
	payload, err := events.Encode(evt)
	if err != nil {
		s.logger.Error("PUBLISHER", "Failed to encode event", map[string]interface{}{"event_type": evt.EventType(), "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(context.WithoutCancel(ctx))

	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("PUBLISHER", "Failed to publish event", map[string]interface{}{"event_type": evt.EventType(), "error": err.Error()})
	}
}
