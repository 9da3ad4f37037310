package model

// Subscription mirrors the subscriptions table. Timestamps are stored as text
// in the billing layout (YYYY-MM-DD HH:mm:ss.SSS) of the configured zone.
type Subscription struct {
	Id                     int64   `gorm:"primaryKey;autoIncrement"`
	UserId                 string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserEmail              *string `gorm:"type:varchar(255)"`
	PlanDuration           string  `gorm:"type:varchar(20);not null;default:'monthly'"`
	Status                 string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	SuperadminStatus       string  `gorm:"type:varchar(20);not null;default:'activated'"`
	StartDate              *string `gorm:"type:varchar(23)"`
	EndDate                *string `gorm:"type:varchar(23)"`
	RazorpaySubscriptionId *string `gorm:"type:varchar(255)"`
	CreatedAt              *string `gorm:"type:varchar(23)"`
	UpdatedAt              *string `gorm:"type:varchar(23)"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
