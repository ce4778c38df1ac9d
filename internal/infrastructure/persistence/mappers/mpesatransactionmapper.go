package mappers

import (
	"fmt"

	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/infrastructure/persistence/models"
)

type MpesaTransactionMapper interface {
	ToEntity(model *models.MpesaTransactionModel) (*payment.Transaction, error)
	ToModel(entity *payment.Transaction) *models.MpesaTransactionModel
	ToEntities(txModels []*models.MpesaTransactionModel) ([]*payment.Transaction, error)
}

type mpesaTransactionMapper struct{}

func NewMpesaTransactionMapper() MpesaTransactionMapper {
	return &mpesaTransactionMapper{}
}

func (m *mpesaTransactionMapper) ToEntity(model *models.MpesaTransactionModel) (*payment.Transaction, error) {
	if model == nil {
		return nil, nil
	}

	phone, err := vo.NewPhoneNumber(model.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("stored phone number is invalid: %w", err)
	}

	return payment.ReconstructTransaction(payment.TransactionReconstructParams{
		ID:                model.ID,
		UserID:            model.UserID,
		PlanID:            model.PlanID,
		MerchantRequestID: model.MerchantRequestID,
		CheckoutRequestID: model.CheckoutRequestID,
		PhoneNumber:       phone,
		Amount:            model.Amount,
		AccountReference:  model.AccountReference,
		Description:       model.Description,
		Purpose:           model.Purpose,
		Status:            vo.PaymentStatus(model.Status),
		ResultCode:        model.ResultCode,
		ResultDesc:        model.ResultDesc,
		ReceiptNumber:     model.ReceiptNumber,
		TransactionDate:   model.TransactionDate,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
}

func (m *mpesaTransactionMapper) ToModel(entity *payment.Transaction) *models.MpesaTransactionModel {
	if entity == nil {
		return nil
	}
	return &models.MpesaTransactionModel{
		ID:                entity.ID(),
		UserID:            entity.UserID(),
		PlanID:            entity.PlanID(),
		MerchantRequestID: entity.MerchantRequestID(),
		CheckoutRequestID: entity.CheckoutRequestID(),
		PhoneNumber:       entity.PhoneNumber().String(),
		Amount:            entity.Amount(),
		AccountReference:  entity.AccountReference(),
		Description:       entity.Description(),
		Purpose:           entity.Purpose(),
		Status:            string(entity.Status()),
		ResultCode:        entity.ResultCode(),
		ResultDesc:        entity.ResultDesc(),
		ReceiptNumber:     entity.ReceiptNumber(),
		TransactionDate:   entity.TransactionDate(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}
}

func (m *mpesaTransactionMapper) ToEntities(txModels []*models.MpesaTransactionModel) ([]*payment.Transaction, error) {
	entities := make([]*payment.Transaction, 0, len(txModels))
	for _, model := range txModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
