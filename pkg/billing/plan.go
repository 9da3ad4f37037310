package billing

import (
	"fmt"
	"strings"
)

// PlanDuration is the closed set of billing cycles a subscriber can be on.
type PlanDuration string

const (
	PlanMonthly PlanDuration = "monthly"
	PlanYearly  PlanDuration = "yearly"
)

func (p PlanDuration) String() string {
	return string(p)
}

// Months returns the length of one billing cycle in calendar months.
func (p PlanDuration) Months() int {
	switch p {
	case PlanYearly:
		return 12
	default:
		return 1
	}
}

// ParsePlanDuration matches raw case-insensitively and rejects anything
// outside the closed set.
func ParsePlanDuration(raw string) (PlanDuration, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PlanMonthly):
		return PlanMonthly, nil
	case string(PlanYearly):
		return PlanYearly, nil
	}
	return "", fmt.Errorf("unknown plan duration %q", raw)
}

// NormalizePlanDuration is the lenient variant used for provider metadata:
// anything that is not yearly bills monthly.
func NormalizePlanDuration(raw string) PlanDuration {
	if p, err := ParsePlanDuration(raw); err == nil {
		return p
	}
	return PlanMonthly
}
