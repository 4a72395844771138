package mappers

import (
	"fmt"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.Email,
		model.CourseSlug,
		subscription.Provider(model.Provider),
		model.ProviderSubscriptionID,
		model.PlanID,
		model.ExpiresAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}
	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:                     entity.ID(),
		UserID:                 entity.UserID(),
		CourseSlug:             entity.CourseSlug(),
		ProviderSubscriptionID: entity.ProviderSubscriptionID(),
		Provider:               entity.Provider().String(),
		Email:                  entity.Email(),
		PlanID:                 entity.PlanID(),
		ExpiresAt:              entity.ExpiresAt().UTC(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) ToEntities(ms []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
