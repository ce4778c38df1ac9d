package mappers

import (
	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error)
	ToModel(entity *billing.Subscription) *models.SubscriptionModel
	ToEntities(subModels []*models.SubscriptionModel) ([]*billing.Subscription, error)
}

type subscriptionMapper struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &subscriptionMapper{}
}

func (m *subscriptionMapper) ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	if model == nil {
		return nil, nil
	}
	return billing.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.PlanID,
		model.TransactionID,
		model.StartDate,
		model.EndDate,
		vo.SubscriptionStatus(model.Status),
		model.CreditsRemaining,
		model.AutoRenew,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *subscriptionMapper) ToModel(entity *billing.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:               entity.ID(),
		UserID:           entity.UserID(),
		PlanID:           entity.PlanID(),
		TransactionID:    entity.TransactionID(),
		StartDate:        entity.StartDate(),
		EndDate:          entity.EndDate(),
		Status:           entity.Status().String(),
		CreditsRemaining: entity.CreditsRemaining(),
		AutoRenew:        entity.AutoRenew(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}

func (m *subscriptionMapper) ToEntities(subModels []*models.SubscriptionModel) ([]*billing.Subscription, error) {
	entities := make([]*billing.Subscription, 0, len(subModels))
	for _, model := range subModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
