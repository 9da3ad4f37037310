package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SubscriptionRepository keeps subscriptions in a process-local go-cache. A
// mutex serializes writers so UpdateByUserId is an atomic compare-and-set.
type SubscriptionRepository struct {
	mu     sync.Mutex
	cache  *cache.Cache
	nextId int64
	now    func() time.Time
}

var _ contract.SubscriptionRepository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

func (r *SubscriptionRepository) FindByUserId(ctx context.Context, userId string) (*entity.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if x, found := r.cache.Get(userId); found {
		return clone(x.(*entity.Subscription)), nil
	}
	return nil, nil
}

func (r *SubscriptionRepository) UpdateByUserId(ctx context.Context, userId string, update entity.SubscriptionUpdate, guard entity.UpdateGuard) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(userId)
	if !found {
		return 0, nil
	}
	current := clone(x.(*entity.Subscription))
	if !guard.Matches(current) {
		return 0, nil
	}
	update.Apply(current)
	r.cache.Set(userId, current, cache.NoExpiration)
	return 1, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(subscription.UserId); found {
		return fmt.Errorf("subscription for user %q already exists", subscription.UserId)
	}

	r.nextId++
	stored := clone(subscription)
	stored.Id = r.nextId
	if stored.Status == "" {
		stored.Status = entity.SubscriptionStatusPending
	}
	if stored.SuperadminStatus == "" {
		stored.SuperadminStatus = entity.SuperadminStatusActivated
	}
	if stored.CreatedAt == nil {
		now := r.now().Truncate(time.Millisecond)
		stored.CreatedAt = &now
	}
	r.cache.Set(stored.UserId, stored, cache.NoExpiration)
	*subscription = *clone(stored)
	return nil
}

func (r *SubscriptionRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func clone(s *entity.Subscription) *entity.Subscription {
	c := *s
	c.StartDate = copyTime(s.StartDate)
	c.EndDate = copyTime(s.EndDate)
	c.CreatedAt = copyTime(s.CreatedAt)
	c.UpdatedAt = copyTime(s.UpdatedAt)
	if s.UserEmail != nil {
		v := *s.UserEmail
		c.UserEmail = &v
	}
	if s.RazorpaySubscriptionId != nil {
		v := *s.RazorpaySubscriptionId
		c.RazorpaySubscriptionId = &v
	}
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
