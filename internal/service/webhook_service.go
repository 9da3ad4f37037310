// FILE: internal/service/webhook_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/pkg/razorpay"
)

// WebhookDelivery is one inbound provider request. Body must be the exact
// bytes received.
type WebhookDelivery struct {
	Body      []byte
	Signature string
	EventId   string
}

type WebhookResult struct {
	Message string
	Outcome entity.WebhookOutcome
}

const (
	msgProcessed = "Webhook processed successfully"
	msgIgnored   = "Event ignored"
	msgNoEntity  = "No actionable entity in payload"
	msgNoUser    = "No user_id in notes"
	msgDuplicate = "Duplicate delivery ignored"
)

type IWebhookService interface {
	HandleDelivery(ctx context.Context, delivery WebhookDelivery) (*WebhookResult, error)
}

type webhookService struct {
	secret       string
	reconciler   ISubscriptionReconciler
	ledger       contract.WebhookEventRepository
	logger       logger.ILogger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewWebhookService(
	secret string,
	reconciler ISubscriptionReconciler,
	ledger contract.WebhookEventRepository,
	logger logger.ILogger,
	storeTimeout time.Duration,
) IWebhookService {
	return &webhookService{
		secret:       secret,
		reconciler:   reconciler,
		ledger:       ledger,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (s *webhookService) HandleDelivery(ctx context.Context, d WebhookDelivery) (*WebhookResult, error) {
	if err := razorpay.VerifySignature(d.Body, s.secret, d.Signature); err != nil {
		if errors.Is(err, razorpay.ErrSecretMissing) {
			s.logger.Error("WEBHOOK", "Webhook secret not configured", nil)
			return nil, apperror.Wrap(apperror.KindMisconfigured, "Config error: webhook secret missing", err)
		}
		s.logger.Warn("WEBHOOK", "Rejected webhook with bad signature", map[string]interface{}{"reason": err.Error()})
		return nil, apperror.Wrap(apperror.KindUnauthorized, "signature verification failed", err)
	}

	evt, err := razorpay.ParseEvent(d.Body)
	if err != nil {
		s.logger.Warn("WEBHOOK", "Ignoring malformed webhook payload", map[string]interface{}{"error": err.Error(), "size": len(d.Body)})
		return nil, apperror.Wrap(apperror.KindMalformedPayload, "malformed payload", err)
	}

	record, err := s.record(ctx, d, evt.Name)
	if err != nil {
		return nil, err
	}
	if record.Settled() {
		s.logger.Info("WEBHOOK", "Duplicate delivery skipped", map[string]interface{}{"provider_event_id": record.ProviderEventId, "event": evt.Name})
		return &WebhookResult{Message: msgDuplicate, Outcome: entity.WebhookOutcomeIgnored}, nil
	}

	result, procErr := s.process(ctx, evt)
	s.settle(ctx, record, result, procErr)
	return result, procErr
}

func (s *webhookService) process(ctx context.Context, evt *razorpay.Event) (*WebhookResult, error) {
	if !razorpay.IsActivationEvent(evt.Name) {
		s.logger.Debug("WEBHOOK", "Unhandled event type", map[string]interface{}{"event": evt.Name})
		return &WebhookResult{Message: msgIgnored, Outcome: entity.WebhookOutcomeIgnored}, nil
	}
	if evt.Entity == nil {
		s.logger.Warn("WEBHOOK", "Event carries no payment, link or subscription entity", map[string]interface{}{"event": evt.Name})
		return &WebhookResult{Message: msgNoEntity, Outcome: entity.WebhookOutcomeIgnored}, nil
	}
	userId, ok := evt.UserID()
	if !ok {
		s.logger.Warn("WEBHOOK", "Event has no user_id in notes", map[string]interface{}{"event": evt.Name, "entity": string(evt.Entity.Kind)})
		return &WebhookResult{Message: msgNoUser, Outcome: entity.WebhookOutcomeIgnored}, nil
	}

	_, err := s.reconciler.Activate(ctx, ActivationCommand{
		UserId:      userId,
		Plan:        evt.Plan(),
		Reference:   evt.CreatedAt,
		ProviderRef: evt.Entity.ProviderRef(),
		EventName:   evt.Name,
	})
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return &WebhookResult{Outcome: entity.WebhookOutcomeNotFound}, err
		}
		s.logger.Error("WEBHOOK", "Failed to reconcile subscription", map[string]interface{}{"user_id": userId, "event": evt.Name, "error": err})
		return &WebhookResult{Outcome: entity.WebhookOutcomeFailed}, err
	}
	return &WebhookResult{Message: msgProcessed, Outcome: entity.WebhookOutcomeProcessed}, nil
}

// record stores the delivery in the ledger, keyed by the provider event id or
// a hash of the body when the header is absent.
func (s *webhookService) record(ctx context.Context, d WebhookDelivery, eventName string) (*entity.WebhookEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	stored, _, err := s.ledger.CreateIfNotExists(ctx, &entity.WebhookEvent{
		ProviderEventId: deliveryKey(d),
		EventType:       eventName,
		Payload:         d.Body,
		ReceivedAt:      s.now(),
	})
	if err != nil {
		s.logger.Error("WEBHOOK", "Failed to record webhook event", map[string]interface{}{"error": err})
		return nil, apperror.Store("record webhook event", err)
	}
	return stored, nil
}

func (s *webhookService) settle(ctx context.Context, record *entity.WebhookEvent, result *WebhookResult, procErr error) {
	outcome := entity.WebhookOutcomeFailed
	if result != nil {
		outcome = result.Outcome
	}
	var errText *string
	if procErr != nil {
		msg := procErr.Error()
		errText = &msg
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()

	if err := s.ledger.MarkProcessed(ctx, record.Id, outcome, errText); err != nil {
		// The row stays unsettled, so a redelivery is processed again.
		s.logger.Warn("WEBHOOK", "Failed to mark webhook event processed", map[string]interface{}{"provider_event_id": record.ProviderEventId, "error": err.Error()})
	}
}

func deliveryKey(d WebhookDelivery) string {
	if d.EventId != "" {
		return d.EventId
	}
	sum := sha256.Sum256(d.Body)
	return "hash:" + hex.EncodeToString(sum[:])
}
