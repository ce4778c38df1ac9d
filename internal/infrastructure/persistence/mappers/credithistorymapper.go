package mappers

import (
	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/persistence/models"
)

type CreditHistoryMapper interface {
	ToEntity(model *models.CreditHistoryModel) *billing.CreditEntry
	ToModel(entity *billing.CreditEntry) *models.CreditHistoryModel
	ToEntities(entryModels []*models.CreditHistoryModel) []*billing.CreditEntry
}

type creditHistoryMapper struct{}

func NewCreditHistoryMapper() CreditHistoryMapper {
	return &creditHistoryMapper{}
}

func (m *creditHistoryMapper) ToEntity(model *models.CreditHistoryModel) *billing.CreditEntry {
	if model == nil {
		return nil
	}
	return billing.ReconstructCreditEntry(
		model.ID,
		model.UserID,
		model.SubscriptionID,
		model.ListingID,
		model.CreditsAdded,
		model.CreditsUsed,
		vo.CreditAction(model.Action),
		model.Description,
		model.TransactionID,
		model.CreatedAt,
	)
}

func (m *creditHistoryMapper) ToModel(entity *billing.CreditEntry) *models.CreditHistoryModel {
	if entity == nil {
		return nil
	}
	return &models.CreditHistoryModel{
		ID:             entity.ID(),
		UserID:         entity.UserID(),
		SubscriptionID: entity.SubscriptionID(),
		ListingID:      entity.ListingID(),
		CreditsAdded:   entity.CreditsAdded(),
		CreditsUsed:    entity.CreditsUsed(),
		Action:         entity.Action().String(),
		Description:    entity.Description(),
		TransactionID:  entity.TransactionID(),
		CreatedAt:      entity.CreatedAt(),
	}
}

func (m *creditHistoryMapper) ToEntities(entryModels []*models.CreditHistoryModel) []*billing.CreditEntry {
	entities := make([]*billing.CreditEntry, 0, len(entryModels))
	for _, model := range entryModels {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
