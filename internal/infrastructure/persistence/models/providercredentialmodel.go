package models

import (
	"time"

	"coursegate/internal/shared/constants"
)

type ProviderCredentialModel struct {
	Provider    string `gorm:"primaryKey;size:20"`
	AccessToken string `gorm:"type:text;not null"`
	TokenType   string `gorm:"size:32"`
	ExpiresAt   *time.Time
	UpdatedAt   time.Time
}

func (ProviderCredentialModel) TableName() string {
	return constants.TableProviderCredentials
}
