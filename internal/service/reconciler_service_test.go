package service

import (
	"context"
	"testing"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/repository/memory"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler(repo *memory.SubscriptionRepository, pub *recordingPublisher, now time.Time) *subscriptionReconciler {
	r := NewSubscriptionReconciler(repo, utcCalendar, pub, logger.NewNopLogger(), time.Second).(*subscriptionReconciler)
	r.now = fixedClock(now)
	return r
}

func TestReconcilerUnknownSubscriber(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	pub := &recordingPublisher{}
	r := newTestReconciler(repo, pub, time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC))

	period, err := r.Activate(context.Background(), ActivationCommand{UserId: "u1", Plan: billing.PlanMonthly, EventName: "payment.captured"})

	require.Error(t, err)
	assert.Nil(t, period)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, []string{events.SubscriberNotFound}, pub.types())

	sub, err := repo.FindByUserId(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, sub, "no row may be created for an unknown subscriber")
}

func TestReconcilerActivatesPendingSubscriber(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSubscription(t, repo, entity.Subscription{UserId: "u2", PlanDuration: billing.PlanYearly, Status: entity.SubscriptionStatusPending})
	pub := &recordingPublisher{}
	ref := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	r := newTestReconciler(repo, pub, ref.Add(3*time.Second))

	period, err := r.Activate(context.Background(), ActivationCommand{
		UserId:      "u2",
		Plan:        billing.NormalizePlanDuration(""),
		Reference:   ref,
		ProviderRef: "pay_1",
		EventName:   "payment.captured",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-31 10:00:00.000", utcCalendar.Format(period.Start))
	assert.Equal(t, "2024-02-29 10:00:00.000", utcCalendar.Format(period.End))

	sub, err := repo.FindByUserId(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, billing.PlanYearly, sub.PlanDuration, "stored plan is not touched by activation")
	assert.True(t, sub.StartDate.Equal(period.Start))
	assert.True(t, sub.EndDate.Equal(period.End))
	assert.Equal(t, "pay_1", *sub.RazorpaySubscriptionId)
	assert.Equal(t, []string{events.SubscriptionActivated}, pub.types())
}

func TestReconcilerReplayIsIdempotent(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSubscription(t, repo, entity.Subscription{UserId: "u2", PlanDuration: billing.PlanMonthly})
	pub := &recordingPublisher{}
	ref := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	cmd := ActivationCommand{UserId: "u2", Plan: billing.PlanYearly, Reference: ref, EventName: "payment_link.paid"}

	first := newTestReconciler(repo, pub, ref.Add(time.Second))
	_, err := first.Activate(context.Background(), cmd)
	require.NoError(t, err)
	before, _ := repo.FindByUserId(context.Background(), "u2")

	second := newTestReconciler(repo, pub, ref.Add(time.Hour))
	_, err = second.Activate(context.Background(), cmd)
	require.NoError(t, err)
	after, _ := repo.FindByUserId(context.Background(), "u2")

	assert.True(t, before.StartDate.Equal(*after.StartDate))
	assert.True(t, before.EndDate.Equal(*after.EndDate))
	assert.Equal(t, "2025-03-15 08:30:00.000", utcCalendar.Format(*after.EndDate))
	assert.True(t, after.UpdatedAt.After(*before.UpdatedAt))
}

func TestReconcilerFallsBackToNowWithoutReference(t *testing.T) {
	repo := memory.NewSubscriptionRepository()
	seedSubscription(t, repo, entity.Subscription{UserId: "u3", PlanDuration: billing.PlanMonthly})
	now := time.Date(2024, 5, 31, 23, 59, 59, 123456789, time.UTC)
	r := newTestReconciler(repo, &recordingPublisher{}, now)

	period, err := r.Activate(context.Background(), ActivationCommand{UserId: "u3", Plan: billing.PlanMonthly})
	require.NoError(t, err)

	assert.Equal(t, "2024-05-31 23:59:59.123", utcCalendar.Format(period.Start))
	assert.Equal(t, "2024-06-30 23:59:59.123", utcCalendar.Format(period.End))
}
