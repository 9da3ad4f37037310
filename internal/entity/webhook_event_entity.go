package entity

import (
	"time"

	"github.com/google/uuid"
)

type WebhookOutcome string

const (
	WebhookOutcomeProcessed WebhookOutcome = "processed"
	WebhookOutcomeIgnored   WebhookOutcome = "ignored"
	WebhookOutcomeNotFound  WebhookOutcome = "not_found"
	WebhookOutcomeFailed    WebhookOutcome = "failed"
)

// WebhookEvent is one verified provider delivery in the ledger.
type WebhookEvent struct {
	Id              uuid.UUID
	ProviderEventId string
	EventType       string
	Payload         []byte
	ReceivedAt      time.Time
	ProcessedAt     *time.Time
	Outcome         *WebhookOutcome
	ProcessingError *string
}

// Settled reports whether an earlier delivery already finished without a
// retryable failure.
func (e *WebhookEvent) Settled() bool {
	if e.ProcessedAt == nil {
		return false
	}
	return e.Outcome == nil || *e.Outcome != WebhookOutcomeFailed
}
