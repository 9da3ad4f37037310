package implementation

import (
	"context"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/mapper"
	"subscription-webhook-be/internal/model"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WebhookEventMapper
	now    func() time.Time
}

func NewWebhookEventRepository(db *gorm.DB) contract.WebhookEventRepository {
	return &WebhookEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewWebhookEventMapper(),
		now:    time.Now,
	}
}

func (r *WebhookEventRepositoryImpl) CreateIfNotExists(ctx context.Context, event *entity.WebhookEvent) (*entity.WebhookEvent, bool, error) {
	m := r.mapper.ToModel(event)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "provider_event_id"}}, DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return r.mapper.ToEntity(m), true, nil
	}

	var stored model.RazorpayWebhookEvent
	query := specification.Apply(r.db.WithContext(ctx), specification.ByProviderEventId{ProviderEventId: event.ProviderEventId})
	if err := query.First(&stored).Error; err != nil {
		return nil, false, err
	}
	return r.mapper.ToEntity(&stored), false, nil
}

func (r *WebhookEventRepositoryImpl) MarkProcessed(ctx context.Context, id uuid.UUID, outcome entity.WebhookOutcome, processingError *string) error {
	query := specification.Apply(r.db.WithContext(ctx).Model(&model.RazorpayWebhookEvent{}), specification.ByID{ID: id})
	return query.Updates(map[string]interface{}{
		"processed_at":     r.now(),
		"outcome":          string(outcome),
		"processing_error": processingError,
	}).Error
}

