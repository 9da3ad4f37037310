package subscription

import (
	"context"
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/pkg/billing"
)

// Manager handles administrative subscription transitions:
//
//	pending|cancelled -> active   (Activate)
//	active -> cancelled           (Cancel)
//	active -> active              (ChangePlan, end re-derived from start_date)
//
// Every write is guarded by the state that was read, so a concurrent writer
// turns the second transition into a Conflict instead of a lost update.
type Manager struct {
	repo         contract.SubscriptionRepository
	calendar     *billing.Calendar
	logger       logger.ILogger
	storeTimeout time.Duration
	now          func() time.Time
}

func NewManager(repo contract.SubscriptionRepository, calendar *billing.Calendar, logger logger.ILogger, storeTimeout time.Duration) *Manager {
	return &Manager{
		repo:         repo,
		calendar:     calendar,
		logger:       logger,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (m *Manager) Activate(ctx context.Context, userId string) (*entity.Subscription, error) {
	sub, err := m.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub.Status == entity.SubscriptionStatusActive {
		return nil, apperror.New(apperror.KindConflict, "subscription is already active")
	}

	now := m.calendar.Normalize(m.now())
	period := m.calendar.Period(now, sub.PlanDuration)
	active := entity.SubscriptionStatusActive
	update := entity.SubscriptionUpdate{
		Status:    &active,
		StartDate: &period.Start,
		EndDate:   &period.End,
		UpdatedAt: now,
	}
	guard := entity.UpdateGuard{StatusIn: []entity.SubscriptionStatus{sub.Status}}

	return m.apply(ctx, sub, update, guard, "activate")
}

func (m *Manager) Cancel(ctx context.Context, userId string) (*entity.Subscription, error) {
	sub, err := m.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionStatusActive {
		return nil, apperror.New(apperror.KindConflict, "only active subscriptions can be cancelled")
	}

	cancelled := entity.SubscriptionStatusCancelled
	update := entity.SubscriptionUpdate{
		Status:    &cancelled,
		UpdatedAt: m.calendar.Normalize(m.now()),
	}
	guard := entity.UpdateGuard{StatusIn: []entity.SubscriptionStatus{entity.SubscriptionStatusActive}}

	return m.apply(ctx, sub, update, guard, "cancel")
}

// ChangePlan switches the billing cycle. An active subscription keeps its
// start_date and gets a new end_date; other states only record the plan.
func (m *Manager) ChangePlan(ctx context.Context, userId string, plan billing.PlanDuration) (*entity.Subscription, error) {
	sub, err := m.load(ctx, userId)
	if err != nil {
		return nil, err
	}

	update := entity.SubscriptionUpdate{
		PlanDuration: &plan,
		UpdatedAt:    m.calendar.Normalize(m.now()),
	}
	guard := entity.UpdateGuard{StatusIn: []entity.SubscriptionStatus{sub.Status}}

	if sub.Status == entity.SubscriptionStatusActive {
		if sub.StartDate == nil {
			return nil, apperror.New(apperror.KindConflict, "active subscription has no start_date")
		}
		end := m.calendar.Extend(*sub.StartDate, plan)
		update.EndDate = &end
		guard.StartDate = sub.StartDate
	}

	return m.apply(ctx, sub, update, guard, "change_plan")
}

// SetSuperadminStatus toggles the administrative override; billing fields are
// left alone.
func (m *Manager) SetSuperadminStatus(ctx context.Context, userId string, status entity.SuperadminStatus) (*entity.Subscription, error) {
	sub, err := m.load(ctx, userId)
	if err != nil {
		return nil, err
	}

	update := entity.SubscriptionUpdate{
		SuperadminStatus: &status,
		UpdatedAt:        m.calendar.Normalize(m.now()),
	}
	return m.apply(ctx, sub, update, entity.UpdateGuard{}, "superadmin_status")
}

func (m *Manager) load(ctx context.Context, userId string) (*entity.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	sub, err := m.repo.FindByUserId(ctx, userId)
	if err != nil {
		return nil, apperror.Store("find subscription", err)
	}
	if sub == nil {
		return nil, apperror.New(apperror.KindNotFound, "subscription not found")
	}
	return sub, nil
}

func (m *Manager) apply(ctx context.Context, sub *entity.Subscription, update entity.SubscriptionUpdate, guard entity.UpdateGuard, action string) (*entity.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	n, err := m.repo.UpdateByUserId(ctx, sub.UserId, update, guard)
	if err != nil {
		return nil, apperror.Store("update subscription", err)
	}
	if n == 0 {
		m.logger.Warn("ADMIN", "Subscription changed concurrently", map[string]interface{}{"user_id": sub.UserId, "action": action})
		return nil, apperror.New(apperror.KindConflict, "subscription was modified concurrently, reload and retry")
	}

	update.Apply(sub)
	m.logger.Info("ADMIN", "Subscription updated", map[string]interface{}{
		"user_id":           sub.UserId,
		"action":            action,
		"status":            string(sub.Status),
		"plan_duration":     string(sub.PlanDuration),
		"superadmin_status": string(sub.SuperadminStatus),
	})
	return sub, nil
}
