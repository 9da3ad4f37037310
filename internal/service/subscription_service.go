// FILE: internal/service/subscription_service.go
package service

import (
	"context"
	"strings"
	"time"

	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/cache"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/pkg/billing"
)

type ISubscriptionService interface {
	GetStatus(ctx context.Context, userId string) (*dto.SubscriptionStatusResponse, error)
}

type subscriptionService struct {
	repo         contract.SubscriptionRepository
	cache        cache.StatusCache
	calendar     *billing.Calendar
	logger       logger.ILogger
	storeTimeout time.Duration
	cacheTTL     time.Duration
	now          func() time.Time
}

func NewSubscriptionService(
	repo contract.SubscriptionRepository,
	statusCache cache.StatusCache,
	calendar *billing.Calendar,
	logger logger.ILogger,
	storeTimeout, cacheTTL time.Duration,
) ISubscriptionService {
	return &subscriptionService{
		repo:         repo,
		cache:        statusCache,
		calendar:     calendar,
		logger:       logger,
		storeTimeout: storeTimeout,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

func (s *subscriptionService) GetStatus(ctx context.Context, userId string) (*dto.SubscriptionStatusResponse, error) {
	userId = strings.TrimSpace(userId)
	if userId == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "userId is required")
	}

	if cached, ok := s.cache.Get(ctx, userId); ok {
		return cached, nil
	}

	findCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	sub, err := s.repo.FindByUserId(findCtx, userId)
	if err != nil {
		s.logger.Error("SUBSCRIPTION", "Failed to load subscription", map[string]interface{}{"user_id": userId, "error": err})
		return nil, apperror.Store("find subscription", err)
	}
	if sub == nil {
		return &dto.SubscriptionStatusResponse{UserId: userId, Status: entity.AccessStatusNotFound}, nil
	}

	now := s.now()
	active, status := sub.Access(now)
	res := &dto.SubscriptionStatusResponse{
		UserId:           userId,
		Active:           active,
		Status:           status,
		PlanDuration:     string(sub.PlanDuration),
		SuperadminStatus: string(sub.SuperadminStatus),
		StartDate:        formatPtr(s.calendar, sub.StartDate),
		EndDate:          formatPtr(s.calendar, sub.EndDate),
	}

	// An active answer must not outlive the paid window.
	ttl := s.cacheTTL
	if active && sub.EndDate != nil {
		if remaining := sub.EndDate.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		s.cache.Set(ctx, userId, res, ttl)
	}
	return res, nil
}

func toSubscriptionResponse(cal *billing.Calendar, sub *entity.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		UserId:                 sub.UserId,
		PlanDuration:           string(sub.PlanDuration),
		Status:                 string(sub.Status),
		SuperadminStatus:       string(sub.SuperadminStatus),
		StartDate:              formatPtr(cal, sub.StartDate),
		EndDate:                formatPtr(cal, sub.EndDate),
		RazorpaySubscriptionId: sub.RazorpaySubscriptionId,
		UpdatedAt:              formatPtr(cal, sub.UpdatedAt),
	}
}

func formatPtr(cal *billing.Calendar, t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := cal.Format(*t)
	return &s
}
