package dto

type AdminChangePlanRequest struct {
	PlanDuration string `json:"plan_duration" validate:"required,oneof=monthly yearly"`
}

type AdminSuperadminStatusRequest struct {
	SuperadminStatus string `json:"superadmin_status" validate:"required,oneof=activated deactivated"`
}
