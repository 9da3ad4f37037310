// FILE: internal/service/reconciler_service.go
package service

import (
	"context"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/events"
)

// ActivationCommand is a verified successful payment for one subscriber.
type ActivationCommand struct {
	UserId      string
	Plan        billing.PlanDuration
	Reference   time.Time // event time; zero means "now"
	ProviderRef string
	EventName   string
}

type ISubscriptionReconciler interface {
	// Activate sets the subscriber active for one plan cycle starting at the
	// command's reference instant. Missing subscribers yield KindNotFound.
	Activate(ctx context.Context, cmd ActivationCommand) (*billing.Period, error)
}

type subscriptionReconciler struct {
	repo         contract.SubscriptionRepository
	calendar     *billing.Calendar
	publisher    IPublisherService
	logger       logger.ILogger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewSubscriptionReconciler(
	repo contract.SubscriptionRepository,
	calendar *billing.Calendar,
	publisher IPublisherService,
	logger logger.ILogger,
	storeTimeout time.Duration,
) ISubscriptionReconciler {
	return &subscriptionReconciler{
		repo:         repo,
		calendar:     calendar,
		publisher:    publisher,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (r *subscriptionReconciler) Activate(ctx context.Context, cmd ActivationCommand) (*billing.Period, error) {
	existing, err := r.find(ctx, cmd.UserId)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, r.notFound(ctx, cmd)
	}

	now := r.calendar.Normalize(r.now())
	ref := cmd.Reference
	if ref.IsZero() {
		ref = now
	}
	period := r.calendar.Period(ref, cmd.Plan)

	active := entity.SubscriptionStatusActive
	update := entity.SubscriptionUpdate{
		Status:    &active,
		StartDate: &period.Start,
		EndDate:   &period.End,
		UpdatedAt: now,
	}
	if cmd.ProviderRef != "" {
		providerRef := cmd.ProviderRef
		update.RazorpaySubscriptionId = &providerRef
	}

	// One conditional UPDATE keyed by user_id; the lookup above only decides
	// whether to report an anomaly and never feeds the written values.
	updated, err := r.update(ctx, cmd.UserId, update)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, r.notFound(ctx, cmd)
	}

	r.logger.Info("RECONCILER", "Subscription activated", map[string]interface{}{
		"user_id":       cmd.UserId,
		"event":         cmd.EventName,
		"plan_duration": string(cmd.Plan),
		"start_date":    r.calendar.Format(period.Start),
		"end_date":      r.calendar.Format(period.End),
	})
	r.publisher.Publish(ctx, events.NewSubscriptionEvent(events.SubscriptionActivated, cmd.UserId, map[string]interface{}{
		"plan_duration":            string(cmd.Plan),
		"start_date":               r.calendar.Format(period.Start),
		"end_date":                 r.calendar.Format(period.End),
		"razorpay_subscription_id": cmd.ProviderRef,
		"source_event":             cmd.EventName,
	}, now))

	return &period, nil
}

func (r *subscriptionReconciler) find(ctx context.Context, userId string) (*entity.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	sub, err := r.repo.FindByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.Store("find subscription", err)
	}
	return sub, nil
}

func (r *subscriptionReconciler) update(ctx context.Context, userId string, update entity.SubscriptionUpdate) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	n, err := r.repo.UpdateByUserId(ctx, userId, update, entity.UpdateGuard{})
	if err != nil {
		return 0, apperror.Store("update subscription", err)
	}
	return n, nil
}

func (r *subscriptionReconciler) notFound(ctx context.Context, cmd ActivationCommand) error {
	r.logger.Warn("RECONCILER", "Payment received for unknown subscriber", map[string]interface{}{
		"user_id":      cmd.UserId,
		"event":        cmd.EventName,
		"provider_ref": cmd.ProviderRef,
	})
	r.publisher.Publish(ctx, events.NewSubscriptionEvent(events.SubscriberNotFound, cmd.UserId, map[string]interface{}{
		"event":        cmd.EventName,
		"provider_ref": cmd.ProviderRef,
	}, r.now()))
	return apperror.New(apperror.KindNotFound, "subscriber "+cmd.UserId+" not found")
}
