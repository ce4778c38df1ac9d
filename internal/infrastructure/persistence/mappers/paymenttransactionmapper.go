package mappers

import (
	"sokofiti/internal/domain/billing"
	"sokofiti/internal/infrastructure/persistence/models"
)

type PaymentTransactionMapper interface {
	ToEntity(model *models.PaymentTransactionModel) *billing.PaymentRecord
	ToModel(entity *billing.PaymentRecord) *models.PaymentTransactionModel
	ToEntities(recordModels []*models.PaymentTransactionModel) []*billing.PaymentRecord
}

type paymentTransactionMapper struct{}

func NewPaymentTransactionMapper() PaymentTransactionMapper {
	return &paymentTransactionMapper{}
}

func (m *paymentTransactionMapper) ToEntity(model *models.PaymentTransactionModel) *billing.PaymentRecord {
	if model == nil {
		return nil
	}
	return billing.ReconstructPaymentRecord(
		model.ID,
		model.UserID,
		model.SubscriptionID,
		model.TransactionID,
		model.ReceiptNumber,
		model.PhoneNumber,
		model.Amount,
		model.Purpose,
		model.CreatedAt,
	)
}

func (m *paymentTransactionMapper) ToModel(entity *billing.PaymentRecord) *models.PaymentTransactionModel {
	if entity == nil {
		return nil
	}
	return &models.PaymentTransactionModel{
		ID:             entity.ID(),
		UserID:         entity.UserID(),
		SubscriptionID: entity.SubscriptionID(),
		TransactionID:  entity.TransactionID(),
		ReceiptNumber:  entity.ReceiptNumber(),
		PhoneNumber:    entity.PhoneNumber(),
		Amount:         entity.Amount(),
		Purpose:        entity.Purpose(),
		CreatedAt:      entity.CreatedAt(),
	}
}

func (m *paymentTransactionMapper) ToEntities(recordModels []*models.PaymentTransactionModel) []*billing.PaymentRecord {
	entities := make([]*billing.PaymentRecord, 0, len(recordModels))
	for _, model := range recordModels {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
