package contract

import (
	"context"

	"subscription-webhook-be/internal/entity"
)

type SubscriptionRepository interface {
	// FindByUserId returns (nil, nil) when no record exists.
	FindByUserId(ctx context.Context, userId string) (*entity.Subscription, error)

	// UpdateByUserId applies update in one atomic conditional write and
	// reports how many rows matched userId and guard.
	UpdateByUserId(ctx context.Context, userId string, update entity.SubscriptionUpdate, guard entity.UpdateGuard) (int64, error)

	Create(ctx context.Context, subscription *entity.Subscription) error
	Ping(ctx context.Context) error
}
