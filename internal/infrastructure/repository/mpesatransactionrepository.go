package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/infrastructure/persistence/mappers"
	"sokofiti/internal/infrastructure/persistence/models"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
)

type mpesaTransactionRepository struct {
	db     *gorm.DB
	mapper mappers.MpesaTransactionMapper
	logger logger.Interface
}

func NewMpesaTransactionRepository(gormDB *gorm.DB, logger logger.Interface) payment.TransactionRepository {
	return &mpesaTransactionRepository{
		db:     gormDB,
		mapper: mappers.NewMpesaTransactionMapper(),
		logger: logger,
	}
}

func (r *mpesaTransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	model := r.mapper.ToModel(tx)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create mpesa transaction",
			"checkout_request_id", tx.CheckoutRequestID(), "error", err)
		return fmt.Errorf("failed to create mpesa transaction: %w", err)
	}
	if err := tx.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set transaction ID: %w", err)
	}
	return nil
}

func (r *mpesaTransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	model := r.mapper.ToModel(tx)
	if err := db.GetTxFromContext(ctx, r.db).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update mpesa transaction",
			"transaction_id", tx.ID(), "error", err)
		return fmt.Errorf("failed to update mpesa transaction: %w", err)
	}
	return nil
}

// FinalizeFromPending is a conditional update keyed on the pending status.
// Two deliveries of the same callback each pass the in-memory checks on
// their own snapshot; only the one whose UPDATE matches the pending row may
// fulfill.
func (r *mpesaTransactionRepository) FinalizeFromPending(ctx context.Context, tx *payment.Transaction) (bool, error) {
	model := r.mapper.ToModel(tx)
	res := db.GetTxFromContext(ctx, r.db).
		Model(&models.MpesaTransactionModel{}).
		Where("id = ? AND status = ?", tx.ID(), string(vo.StatusPending)).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"result_code":      model.ResultCode,
			"result_desc":      model.ResultDesc,
			"receipt_number":   model.ReceiptNumber,
			"transaction_date": model.TransactionDate,
		})
	if res.Error != nil {
		r.logger.Errorw("failed to finalize mpesa transaction",
			"transaction_id", tx.ID(), "error", res.Error)
		return false, fmt.Errorf("failed to finalize mpesa transaction: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *mpesaTransactionRepository) FindByID(ctx context.Context, id uint) (*payment.Transaction, error) {
	var model models.MpesaTransactionModel
	err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payment.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mpesa transaction: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *mpesaTransactionRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.Transaction, error) {
	var model models.MpesaTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payment.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mpesa transaction: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *mpesaTransactionRepository) FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*payment.Transaction, error) {
	var model models.MpesaTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_request_id = ?", merchantRequestID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payment.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mpesa transaction: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *mpesaTransactionRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*payment.Transaction, error) {
	var txModels []*models.MpesaTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mpesa transactions: %w", err)
	}
	return r.mapper.ToEntities(txModels)
}

func (r *mpesaTransactionRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Transaction, error) {
	var txModels []*models.MpesaTransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND created_at <= ?", string(vo.StatusPending), cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&txModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending mpesa transactions: %w", err)
	}
	return r.mapper.ToEntities(txModels)
}
