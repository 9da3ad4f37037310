// FILE: internal/entity/subscription_entity.go
package entity

import (
	"fmt"
	"time"

	"subscription-webhook-be/pkg/billing"
)

type SubscriptionStatus string
type SuperadminStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	SuperadminStatusActivated   SuperadminStatus = "activated"
	SuperadminStatusDeactivated SuperadminStatus = "deactivated"
)

func ParseSubscriptionStatus(raw string) (SubscriptionStatus, error) {
	switch s := SubscriptionStatus(raw); s {
	case SubscriptionStatusPending, SubscriptionStatusActive, SubscriptionStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown subscription status %q", raw)
}

func ParseSuperadminStatus(raw string) (SuperadminStatus, error) {
	switch s := SuperadminStatus(raw); s {
	case SuperadminStatusActivated, SuperadminStatusDeactivated:
		return s, nil
	}
	return "", fmt.Errorf("unknown superadmin status %q", raw)
}

// Subscription is one subscriber's billing record, keyed by UserId.
type Subscription struct {
	Id                     int64
	UserId                 string
	UserEmail              *string
	PlanDuration           billing.PlanDuration
	Status                 SubscriptionStatus
	SuperadminStatus       SuperadminStatus
	StartDate              *time.Time
	EndDate                *time.Time
	RazorpaySubscriptionId *string
	CreatedAt              *time.Time
	UpdatedAt              *time.Time
}

// Access status values reported to clients in addition to SubscriptionStatus.
const (
	AccessStatusNotFound           = "not_found"
	AccessStatusAccountDeactivated = "account_deactivated"
	AccessStatusExpired            = "expired"
)

// Access decides whether the subscriber may use paid features at now.
// The superadmin override wins over billing state.
func (s *Subscription) Access(now time.Time) (bool, string) {
	if s.SuperadminStatus == SuperadminStatusDeactivated {
		return false, AccessStatusAccountDeactivated
	}
	if s.Status != SubscriptionStatusActive {
		return false, string(s.Status)
	}
	if s.EndDate == nil || !s.EndDate.After(now) {
		return false, AccessStatusExpired
	}
	return true, string(SubscriptionStatusActive)
}

// SubscriptionUpdate lists the columns one conditional write sets. Nil fields
// are left untouched; UpdatedAt is always written.
type SubscriptionUpdate struct {
	Status                 *SubscriptionStatus
	PlanDuration           *billing.PlanDuration
	SuperadminStatus       *SuperadminStatus
	StartDate              *time.Time
	EndDate                *time.Time
	RazorpaySubscriptionId *string
	UpdatedAt              time.Time
}

// UpdateGuard narrows a write to rows still in the state the caller observed.
// The zero guard matches any row for the user.
type UpdateGuard struct {
	StatusIn  []SubscriptionStatus
	StartDate *time.Time
}

// Matches evaluates the guard against an in-memory record.
func (g UpdateGuard) Matches(s *Subscription) bool {
	if len(g.StatusIn) > 0 {
		ok := false
		for _, st := range g.StatusIn {
			if s.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if g.StartDate != nil {
		if s.StartDate == nil || !s.StartDate.Equal(*g.StartDate) {
			return false
		}
	}
	return true
}

// Apply writes u onto s.
func (u SubscriptionUpdate) Apply(s *Subscription) {
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.PlanDuration != nil {
		s.PlanDuration = *u.PlanDuration
	}
	if u.SuperadminStatus != nil {
		s.SuperadminStatus = *u.SuperadminStatus
	}
	if u.StartDate != nil {
		t := *u.StartDate
		s.StartDate = &t
	}
	if u.EndDate != nil {
		t := *u.EndDate
		s.EndDate = &t
	}
	if u.RazorpaySubscriptionId != nil {
		id := *u.RazorpaySubscriptionId
		s.RazorpaySubscriptionId = &id
	}
	updated := u.UpdatedAt
	s.UpdatedAt = &updated
}
