package models

import (
	"time"

	"gorm.io/datatypes"

	"coursegate/internal/shared/constants"
)

type WebhookEventModel struct {
	ID          uint           `gorm:"primarykey"`
	EventID     string         `gorm:"uniqueIndex;not null;size:128"`
	Provider    string         `gorm:"not null;size:20;index:idx_webhook_provider"`
	EventType   string         `gorm:"size:64"`
	UserID      string         `gorm:"size:64;index:idx_webhook_user"`
	Email       string         `gorm:"size:255"`
	Payload     datatypes.JSON `gorm:"not null"`
	Status      string         `gorm:"not null;size:20"`
	Error       string         `gorm:"type:text"`
	ReceivedAt  time.Time      `gorm:"not null;index:idx_webhook_received"`
	ProcessedAt *time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
