package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// WebhookEventRepository is the in-memory ledger. Entries expire after a week,
// comfortably past the provider's redelivery window.
//
// mu serializes ledger writes; idMu guards byId and is the only lock taken by
// the eviction callback, so mu may be held while deleting from the cache.
type WebhookEventRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	idMu  sync.Mutex
	byId  map[uuid.UUID]string
	now   func() time.Time
}

var _ contract.WebhookEventRepository = (*WebhookEventRepository)(nil)

func NewWebhookEventRepository() *WebhookEventRepository {
	return newWebhookEventRepository(7*24*time.Hour, time.Hour)
}

func newWebhookEventRepository(ttl, cleanupInterval time.Duration) *WebhookEventRepository {
	r := &WebhookEventRepository{
		cache: cache.New(ttl, cleanupInterval),
		byId:  make(map[uuid.UUID]string),
		now:   time.Now,
	}
	r.cache.OnEvicted(func(_ string, x interface{}) {
		r.idMu.Lock()
		defer r.idMu.Unlock()
		delete(r.byId, x.(*entity.WebhookEvent).Id)
	})
	return r
}

func (r *WebhookEventRepository) indexed() int {
	r.idMu.Lock()
	defer r.idMu.Unlock()
	return len(r.byId)
}

func (r *WebhookEventRepository) keyOf(id uuid.UUID) (string, bool) {
	r.idMu.Lock()
	defer r.idMu.Unlock()
	key, ok := r.byId[id]
	return key, ok
}

func (r *WebhookEventRepository) CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (*entity.WebhookEvent, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(event.ProviderEventId); found {
		stored := *x.(*entity.WebhookEvent)
		return &stored, false, nil
	}

	// Drops an expired entry the janitor has not collected yet, firing the
	// eviction callback for its id.
	r.cache.Delete(event.ProviderEventId)

	stored := *event
	if stored.Id == uuid.Nil {
		stored.Id = uuid.New()
	}
	r.cache.Set(stored.ProviderEventId, &stored, cache.DefaultExpiration)
	r.idMu.Lock()
	r.byId[stored.Id] = stored.ProviderEventId
	r.idMu.Unlock()

	out := stored
	return &out, true, nil
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id uuid.UUID, outcome entity.WebhookOutcome, processingError *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keyOf(id)
	if !ok {
		return fmt.Errorf("webhook event %s not found", id)
	}
	x, found := r.cache.Get(key)
	if !found {
		r.cache.Delete(key)
		return fmt.Errorf("webhook event %s expired", id)
	}

	updated := *x.(*entity.WebhookEvent)
	now := r.now()
	updated.ProcessedAt = &now
	updated.Outcome = &outcome
	updated.ProcessingError = processingError
	r.cache.Set(key, &updated, cache.DefaultExpiration)
	return nil
}
