package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RazorpayWebhookEvent struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderEventId string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	EventType       string         `gorm:"type:varchar(100);not null;index"`
	Payload         datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt      time.Time      `gorm:"not null"`
	ProcessedAt     *time.Time
	Outcome         *string `gorm:"type:varchar(20)"`
	ProcessingError *string `gorm:"type:text"`
}

func (RazorpayWebhookEvent) TableName() string {
	return "razorpay_webhook_events"
}
