package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/persistence/mappers"
	"coursegate/internal/infrastructure/persistence/models"
	"coursegate/internal/shared/logger"
)

var naturalKeyColumns = []clause.Column{
	{Name: "user_id"},
	{Name: "course_slug"},
	{Name: "provider_subscription_id"},
}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

// Upsert writes s in a single INSERT ... ON CONFLICT statement keyed by the natural key.
// On conflict only expiry, audit columns and updated_at move; created_at is preserved.
func (r *SubscriptionRepositoryImpl) Upsert(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	model := r.mapper.ToModel(s)
	model.ID = 0
	model.UpdatedAt = time.Now().UTC()

	tx := r.db.WithContext(ctx)
	err := tx.Clauses(clause.OnConflict{
		Columns:   naturalKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"expires_at", "provider", "email", "plan_id", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert subscription", "key", s.Key().String(), "error", err)
		return nil, fmt.Errorf("%w: %v", subscription.ErrStoreWrite, err)
	}

	// The auto-increment ID reported after ON DUPLICATE KEY is driver dependent; read the row back.
	var stored models.SubscriptionModel
	err = tx.Where("user_id = ? AND course_slug = ? AND provider_subscription_id = ?",
		s.UserID(), s.CourseSlug(), s.ProviderSubscriptionID()).
		First(&stored).Error
	if err != nil {
		r.logger.Errorw("failed to read back upserted subscription", "key", s.Key().String(), "error", err)
		return nil, fmt.Errorf("%w: %v", subscription.ErrStoreWrite, err)
	}

	entity, err := r.mapper.ToEntity(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}
	return entity, nil
}

func (r *SubscriptionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	var ms []*models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("course_slug ASC").
		Order("expires_at DESC").
		Find(&ms).Error
	if err != nil {
		r.logger.Errorw("failed to list subscriptions by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(ms)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) MaxExpiresAt(ctx context.Context, userID, courseSlug string) (time.Time, bool, error) {
	var model models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_slug = ?", userID, courseSlug).
		Order("expires_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		r.logger.Errorw("failed to query max expiry", "user_id", userID, "course_slug", courseSlug, "error", err)
		return time.Time{}, false, fmt.Errorf("failed to query max expiry: %w", err)
	}
	return model.ExpiresAt.UTC(), true, nil
}

// FindUserIDByEmail uses the email recorded on previously reconciled rows.
func (r *SubscriptionRepositoryImpl) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	var model models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("updated_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		r.logger.Errorw("failed to look up user by email", "error", err)
		return "", fmt.Errorf("failed to look up user by email: %w", err)
	}
	return model.UserID, nil
}
