// FILE: internal/service/admin_service.go
package service

import (
	"context"
	"time"

	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/pkg/admin/subscription"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/events"
)

type IAdminService interface {
	ActivateSubscription(ctx context.Context, userId string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, userId string) (*dto.SubscriptionResponse, error)
	ChangePlan(ctx context.Context, userId string, req *dto.AdminChangePlanRequest) (*dto.SubscriptionResponse, error)
	SetSuperadminStatus(ctx context.Context, userId string, req *dto.AdminSuperadminStatusRequest) (*dto.SubscriptionResponse, error)
}

type adminService struct {
	manager   *subscription.Manager
	calendar  *billing.Calendar
	publisher IPublisherService
}

func NewAdminService(manager *subscription.Manager, calendar *billing.Calendar, publisher IPublisherService) IAdminService {
	return &adminService{
		manager:   manager,
		calendar:  calendar,
		publisher: publisher,
	}
}

func (s *adminService) ActivateSubscription(ctx context.Context, userId string) (*dto.SubscriptionResponse, error) {
	sub, err := s.manager.Activate(ctx, userId)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.SubscriptionActivated, sub, map[string]interface{}{"source_event": "admin"})
	return toSubscriptionResponse(s.calendar, sub), nil
}

func (s *adminService) CancelSubscription(ctx context.Context, userId string) (*dto.SubscriptionResponse, error) {
	sub, err := s.manager.Cancel(ctx, userId)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.SubscriptionCancelled, sub, nil)
	return toSubscriptionResponse(s.calendar, sub), nil
}

func (s *adminService) ChangePlan(ctx context.Context, userId string, req *dto.AdminChangePlanRequest) (*dto.SubscriptionResponse, error) {
	plan, err := billing.ParsePlanDuration(req.PlanDuration)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidRequest, "plan_duration must be monthly or yearly", err)
	}
	sub, err := s.manager.ChangePlan(ctx, userId, plan)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.SubscriptionPlanChanged, sub, nil)
	return toSubscriptionResponse(s.calendar, sub), nil
}

func (s *adminService) SetSuperadminStatus(ctx context.Context, userId string, req *dto.AdminSuperadminStatusRequest) (*dto.SubscriptionResponse, error) {
	status, err := entity.ParseSuperadminStatus(req.SuperadminStatus)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidRequest, "superadmin_status must be activated or deactivated", err)
	}
	sub, err := s.manager.SetSuperadminStatus(ctx, userId, status)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.SubscriptionSuperadminStatusChange, sub, nil)
	return toSubscriptionResponse(s.calendar, sub), nil
}

func (s *adminService) announce(ctx context.Context, eventType string, sub *entity.Subscription, extra map[string]interface{}) {
	data := map[string]interface{}{
		"status":            string(sub.Status),
		"plan_duration":     string(sub.PlanDuration),
		"superadmin_status": string(sub.SuperadminStatus),
	}
	if sub.StartDate != nil {
		data["start_date"] = s.calendar.Format(*sub.StartDate)
	}
	if sub.EndDate != nil {
		data["end_date"] = s.calendar.Format(*sub.EndDate)
	}
	for k, v := range extra {
		data[k] = v
	}
	occurredAt := time.Now()
	if sub.UpdatedAt != nil {
		occurredAt = *sub.UpdatedAt
	}
	s.publisher.Publish(ctx, events.NewSubscriptionEvent(eventType, sub.UserId, data, occurredAt))
}
