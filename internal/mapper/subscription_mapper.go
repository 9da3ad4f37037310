package mapper

import (
	"time"

	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/model"
	"subscription-webhook-be/pkg/billing"
)

// SubscriptionMapper converts between the textual storage row and the entity.
// Unrecognized enum text is normalized here rather than trusted.
type SubscriptionMapper struct {
	calendar *billing.Calendar
}

func NewSubscriptionMapper(calendar *billing.Calendar) *SubscriptionMapper {
	return &SubscriptionMapper{calendar: calendar}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}

	status, err := entity.ParseSubscriptionStatus(s.Status)
	if err != nil {
		status = entity.SubscriptionStatusPending
	}
	superadmin, err := entity.ParseSuperadminStatus(s.SuperadminStatus)
	if err != nil {
		superadmin = entity.SuperadminStatusActivated
	}

	return &entity.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		UserEmail:              s.UserEmail,
		PlanDuration:           billing.NormalizePlanDuration(s.PlanDuration),
		Status:                 status,
		SuperadminStatus:       superadmin,
		StartDate:              m.parse(s.StartDate),
		EndDate:                m.parse(s.EndDate),
		RazorpaySubscriptionId: s.RazorpaySubscriptionId,
		CreatedAt:              m.parse(s.CreatedAt),
		UpdatedAt:              m.parse(s.UpdatedAt),
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		UserEmail:              s.UserEmail,
		PlanDuration:           string(s.PlanDuration),
		Status:                 string(s.Status),
		SuperadminStatus:       string(s.SuperadminStatus),
		StartDate:              m.format(s.StartDate),
		EndDate:                m.format(s.EndDate),
		RazorpaySubscriptionId: s.RazorpaySubscriptionId,
		CreatedAt:              m.format(s.CreatedAt),
		UpdatedAt:              m.format(s.UpdatedAt),
	}
}

// UpdateColumns renders an update as a column map for a single UPDATE.
func (m *SubscriptionMapper) UpdateColumns(u entity.SubscriptionUpdate) map[string]interface{} {
	cols := map[string]interface{}{
		"updated_at": m.calendar.Format(u.UpdatedAt),
	}
	if u.Status != nil {
		cols["status"] = string(*u.Status)
	}
	if u.PlanDuration != nil {
		cols["plan_duration"] = string(*u.PlanDuration)
	}
	if u.SuperadminStatus != nil {
		cols["superadmin_status"] = string(*u.SuperadminStatus)
	}
	if u.StartDate != nil {
		cols["start_date"] = m.calendar.Format(*u.StartDate)
	}
	if u.EndDate != nil {
		cols["end_date"] = m.calendar.Format(*u.EndDate)
	}
	if u.RazorpaySubscriptionId != nil {
		cols["razorpay_subscription_id"] = *u.RazorpaySubscriptionId
	}
	return cols
}

func (m *SubscriptionMapper) FormatTime(t time.Time) string {
	return m.calendar.Format(t)
}

func (m *SubscriptionMapper) format(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := m.calendar.Format(*t)
	return &s
}

func (m *SubscriptionMapper) parse(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := m.calendar.Parse(*s)
	if err != nil {
		return nil
	}
	return &t
}
