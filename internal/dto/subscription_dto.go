package dto

// SubscriptionStatusResponse answers "may this user use paid features now".
type SubscriptionStatusResponse struct {
	UserId           string  `json:"user_id"`
	Active           bool    `json:"active"`
	Status           string  `json:"status"`
	PlanDuration     string  `json:"plan_duration,omitempty"`
	SuperadminStatus string  `json:"superadmin_status,omitempty"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
}

type SubscriptionResponse struct {
	UserId                 string  `json:"user_id"`
	PlanDuration           string  `json:"plan_duration"`
	Status                 string  `json:"status"`
	SuperadminStatus       string  `json:"superadmin_status"`
	StartDate              *string `json:"start_date"`
	EndDate                *string `json:"end_date"`
	RazorpaySubscriptionId *string `json:"razorpay_subscription_id"`
	UpdatedAt              *string `json:"updated_at"`
}
