package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sokofiti/internal/domain/billing"
	"sokofiti/internal/infrastructure/persistence/mappers"
	"sokofiti/internal/infrastructure/persistence/models"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
)

type paymentTransactionRepository struct {
	db     *gorm.DB
	mapper mappers.PaymentTransactionMapper
	logger logger.Interface
}

func NewPaymentTransactionRepository(gormDB *gorm.DB, logger logger.Interface) billing.PaymentRecordRepository {
	return &paymentTransactionRepository{
		db:     gormDB,
		mapper: mappers.NewPaymentTransactionMapper(),
		logger: logger,
	}
}

func (r *paymentTransactionRepository) Create(ctx context.Context, record *billing.PaymentRecord) error {
	model := r.mapper.ToModel(record)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment record",
			"transaction_id", record.TransactionID(), "error", err)
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	if err := record.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set payment record ID: %w", err)
	}
	return nil
}

func (r *paymentTransactionRepository) FindByUserID(ctx context.Context, userID uint) ([]*billing.PaymentRecord, error) {
	var recordModels []*models.PaymentTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recordModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	return r.mapper.ToEntities(recordModels), nil
}

func (r *paymentTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*billing.PaymentRecord, error) {
	var model models.PaymentTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("transaction_id = ?", transactionID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrPaymentRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}
