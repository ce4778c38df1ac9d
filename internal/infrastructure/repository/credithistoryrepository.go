package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/persistence/mappers"
	"sokofiti/internal/infrastructure/persistence/models"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
)

type creditHistoryRepository struct {
	db     *gorm.DB
	mapper mappers.CreditHistoryMapper
	logger logger.Interface
}

func NewCreditHistoryRepository(gormDB *gorm.DB, logger logger.Interface) billing.CreditLedgerRepository {
	return &creditHistoryRepository{
		db:     gormDB,
		mapper: mappers.NewCreditHistoryMapper(),
		logger: logger,
	}
}

// Create returns the driver error unchanged on a unique index collision
// so callers can detect the duplicate with sharederrors.IsDuplicateError.
func (r *creditHistoryRepository) Create(ctx context.Context, entry *billing.CreditEntry) error {
	model := r.mapper.ToModel(entry)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set credit entry ID: %w", err)
	}
	return nil
}

func (r *creditHistoryRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*billing.CreditEntry, error) {
	var entryModels []*models.CreditHistoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entryModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list credit history: %w", err)
	}
	return r.mapper.ToEntities(entryModels), nil
}

func (r *creditHistoryRepository) FindBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*billing.CreditEntry, error) {
	var entryModels []*models.CreditHistoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&entryModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list credit history: %w", err)
	}
	return r.mapper.ToEntities(entryModels), nil
}

func (r *creditHistoryRepository) ExistsConsumption(ctx context.Context, userID, listingID uint, action vo.CreditAction) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.CreditHistoryModel{}).
		Where("user_id = ? AND listing_id = ? AND action = ?", userID, listingID, action.String()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check credit consumption: %w", err)
	}
	return count > 0, nil
}
