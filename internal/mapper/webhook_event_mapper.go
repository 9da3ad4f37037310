package mapper

import (
	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/model"

	"gorm.io/datatypes"
)

type WebhookEventMapper struct{}

func NewWebhookEventMapper() *WebhookEventMapper {
	return &WebhookEventMapper{}
}

func (m *WebhookEventMapper) ToEntity(e *model.RazorpayWebhookEvent) *entity.WebhookEvent {
	if e == nil {
		return nil
	}
	var outcome *entity.WebhookOutcome
	if e.Outcome != nil {
		o := entity.WebhookOutcome(*e.Outcome)
		outcome = &o
	}
	return &entity.WebhookEvent{
		Id:              e.Id,
		ProviderEventId: e.ProviderEventId,
		EventType:       e.EventType,
		Payload:         []byte(e.Payload),
		ReceivedAt:      e.ReceivedAt,
		ProcessedAt:     e.ProcessedAt,
		Outcome:         outcome,
		ProcessingError: e.ProcessingError,
	}
}

func (m *WebhookEventMapper) ToModel(e *entity.WebhookEvent) *model.RazorpayWebhookEvent {
	if e == nil {
		return nil
	}
	var outcome *string
	if e.Outcome != nil {
		o := string(*e.Outcome)
		outcome = &o
	}
	return &model.RazorpayWebhookEvent{
		Id:              e.Id,
		ProviderEventId: e.ProviderEventId,
		EventType:       e.EventType,
		Payload:         datatypes.JSON(e.Payload),
		ReceivedAt:      e.ReceivedAt,
		ProcessedAt:     e.ProcessedAt,
		Outcome:         outcome,
		ProcessingError: e.ProcessingError,
	}
}
