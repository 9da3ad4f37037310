package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/cache"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu     sync.Mutex
	events []events.Event
	msgIds []string
}

func (f *recordingForwarder) Publish(_ context.Context, evt events.Event, msgId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	f.msgIds = append(f.msgIds, msgId)
}

func (f *recordingForwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type recordingMailer struct {
	mu       sync.Mutex
	subjects []string
}

func (m *recordingMailer) SendAlert(subject string, _ map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subjects)
}

func TestConsumerHandlesSubscriptionEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	statusCache := cache.NewLocalStatusCache(time.Minute)
	statusCache.Set(ctx, "u1", &dto.SubscriptionStatusResponse{UserId: "u1", Status: "pending"}, time.Minute)

	forwarder := &recordingForwarder{}
	mailer := &recordingMailer{}
	consumer := NewConsumerService(pubSub, SubscriptionEventsTopic, statusCache, forwarder, mailer, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, SubscriptionEventsTopic, logger.NewNopLogger())
	at := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	publisher.Publish(ctx, events.NewSubscriptionEvent(events.SubscriptionActivated, "u1", nil, at))
	publisher.Publish(ctx, events.NewSubscriptionEvent(events.SubscriberNotFound, "u2", map[string]interface{}{"event": "payment.captured"}, at))

	assert.Eventually(t, func() bool { return forwarder.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return mailer.count() == 1 }, time.Second, 10*time.Millisecond)

	_, cached := statusCache.Get(ctx, "u1")
	assert.False(t, cached, "activation must drop the cached status")
	assert.Equal(t, events.SubscriptionActivated, forwarder.events[0].EventType())
}
