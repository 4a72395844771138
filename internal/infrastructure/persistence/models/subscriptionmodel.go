package models

import (
	"time"

	"coursegate/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions.
// (user_id, course_slug, provider_subscription_id) is the upsert key.
type SubscriptionModel struct {
	ID                     uint      `gorm:"primarykey"`
	UserID                 string    `gorm:"not null;size:64;uniqueIndex:uk_subscription_natural_key,priority:1;index:idx_user_course,priority:1"`
	CourseSlug             string    `gorm:"not null;size:128;uniqueIndex:uk_subscription_natural_key,priority:2;index:idx_user_course,priority:2"`
	ProviderSubscriptionID string    `gorm:"not null;size:128;uniqueIndex:uk_subscription_natural_key,priority:3"`
	Provider               string    `gorm:"not null;size:20"`
	Email                  string    `gorm:"size:255;index:idx_subscription_email"`
	PlanID                 string    `gorm:"size:128"`
	ExpiresAt              time.Time `gorm:"not null;index:idx_expires_at"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
