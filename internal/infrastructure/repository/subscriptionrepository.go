package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/persistence/mappers"
	"sokofiti/internal/infrastructure/persistence/models"
	"sokofiti/internal/shared/db"
	"sokofiti/internal/shared/logger"
)

type subscriptionRepository struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(gormDB *gorm.DB, logger logger.Interface) billing.SubscriptionRepository {
	return &subscriptionRepository{
		db:     gormDB,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	model := r.mapper.ToModel(sub)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "user_id", sub.UserID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	model := r.mapper.ToModel(sub)
	if err := db.GetTxFromContext(ctx, r.db).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update subscription", "subscription_id", sub.ID(), "error", err)
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uint) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *subscriptionRepository) FindActiveByUserID(ctx context.Context, userID uint) (*billing.Subscription, error) {
	q := db.GetTxFromContext(ctx, r.db)
	// Callers inside a managed transaction go on to mutate the row; lock
	// it there so concurrent consumes or renewals cannot act on the same
	// credit snapshot. SQLite's single writer already serializes and does
	// not accept the clause.
	if db.InTransaction(ctx) && q.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.SubscriptionModel
	err := q.
		Where("user_id = ? AND status = ?", userID, vo.StatusActive.String()).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *subscriptionRepository) FindByUserID(ctx context.Context, userID uint) ([]*billing.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return r.mapper.ToEntities(subModels)
}

func (r *subscriptionRepository) FindDateExpired(ctx context.Context, now time.Time, limit int) ([]*billing.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", vo.StatusActive.String(), now).
		Order("end_date ASC").
		Limit(limit).
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list date-expired subscriptions: %w", err)
	}
	return r.mapper.ToEntities(subModels)
}
