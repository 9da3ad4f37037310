package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/repository/memory"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/events"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedSubscription(t *testing.T, repo *memory.SubscriptionRepository, sub entity.Subscription) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &sub))
}

var utcCalendar = billing.NewCalendar(time.UTC)
