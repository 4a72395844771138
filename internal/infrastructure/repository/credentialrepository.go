package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/persistence/models"
	"coursegate/internal/shared/logger"
)

type CredentialRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCredentialRepository(db *gorm.DB, logger logger.Interface) *CredentialRepositoryImpl {
	return &CredentialRepositoryImpl{db: db, logger: logger}
}

func (r *CredentialRepositoryImpl) Get(ctx context.Context, provider subscription.Provider) (*subscription.ProviderCredential, error) {
	var model models.ProviderCredentialModel
	if err := r.db.WithContext(ctx).Where("provider = ?", provider.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to load provider credential", "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to load provider credential: %w", err)
	}

	cred := &subscription.ProviderCredential{
		Provider:    provider,
		AccessToken: model.AccessToken,
		TokenType:   model.TokenType,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.ExpiresAt != nil {
		cred.ExpiresAt = model.ExpiresAt.UTC()
	}
	return cred, nil
}

func (r *CredentialRepositoryImpl) Save(ctx context.Context, cred *subscription.ProviderCredential) error {
	model := &models.ProviderCredentialModel{
		Provider:    cred.Provider.String(),
		AccessToken: cred.AccessToken,
		TokenType:   cred.TokenType,
		UpdatedAt:   time.Now().UTC(),
	}
	if !cred.ExpiresAt.IsZero() {
		exp := cred.ExpiresAt.UTC()
		model.ExpiresAt = &exp
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "token_type", "expires_at", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to persist provider credential", "provider", cred.Provider, "error", err)
		return fmt.Errorf("failed to persist provider credential: %w", err)
	}
	return nil
}
