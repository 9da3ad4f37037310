package contract

import (
	"context"

	"subscription-webhook-be/internal/entity"

	"github.com/google/uuid"
)

type WebhookEventRepository interface {
	// CreateIfNotExists inserts event unless its ProviderEventId is already
	// recorded, and returns the stored row either way.
	CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (stored *entity.WebhookEvent, created bool, err error)
	MarkProcessed(ctx context.Context, id uuid.UUID, outcome entity.WebhookOutcome, processingError *string) error
}
