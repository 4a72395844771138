package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/persistence/models"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewWebhookEventRepository(db *gorm.DB, logger logger.Interface) *WebhookEventRepositoryImpl {
	return &WebhookEventRepositoryImpl{db: db, logger: logger}
}

func (r *WebhookEventRepositoryImpl) Record(ctx context.Context, event *subscription.WebhookEvent) (bool, error) {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC()
	}
	if event.Status == "" {
		event.Status = subscription.WebhookEventReceived
	}

	model := &models.WebhookEventModel{
		EventID:    event.EventID,
		Provider:   event.Provider.String(),
		EventType:  event.EventType,
		UserID:     event.UserID,
		Email:      event.Email,
		Payload:    datatypes.JSON(event.Payload),
		Status:     string(event.Status),
		ReceivedAt: event.ReceivedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return r.reclaim(ctx, event)
		}
		r.logger.Errorw("failed to record webhook event", "event_id", event.EventID, "error", err)
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}

	event.ID = model.ID
	return true, nil
}

// reclaim flips a failed or abandoned event back to received in one conditional
// update, so only one of several concurrent redeliveries wins.
func (r *WebhookEventRepositoryImpl) reclaim(ctx context.Context, event *subscription.WebhookEvent) (bool, error) {
	staleBefore := event.ReceivedAt.Add(-subscription.WebhookClaimStaleAfter)
	result := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Where("event_id = ?", event.EventID).
		Where("status = ? OR (status = ? AND received_at < ?)",
			string(subscription.WebhookEventFailed),
			string(subscription.WebhookEventReceived),
			staleBefore,
		).
		Updates(map[string]interface{}{
			"status":       string(subscription.WebhookEventReceived),
			"received_at":  event.ReceivedAt,
			"processed_at": nil,
			"error":        "",
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reclaim webhook event", "event_id", event.EventID, "error", result.Error)
		return false, fmt.Errorf("failed to reclaim webhook event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Infow("webhook event already recorded", "event_id", event.EventID, "provider", event.Provider)
		return false, nil
	}

	r.logger.Infow("reclaimed webhook event for redelivery", "event_id", event.EventID, "provider", event.Provider)
	return true, nil
}

func (r *WebhookEventRepositoryImpl) MarkProcessed(ctx context.Context, eventID string, cause error) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       string(subscription.WebhookEventProcessed),
		"processed_at": now,
		"error":        "",
	}
	if cause != nil {
		updates["status"] = string(subscription.WebhookEventFailed)
		updates["error"] = cause.Error()
	}

	result := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Where("event_id = ?", eventID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to settle webhook event", "event_id", eventID, "error", result.Error)
		return fmt.Errorf("failed to settle webhook event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WebhookEventRepositoryImpl) PruneSettledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("received_at < ? AND status <> ?", cutoff.UTC(), string(subscription.WebhookEventReceived)).
		Delete(&models.WebhookEventModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to prune webhook events", "cutoff", cutoff, "error", result.Error)
		return 0, fmt.Errorf("failed to prune webhook events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
