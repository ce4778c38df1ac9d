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

type planRepository struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(gormDB *gorm.DB, logger logger.Interface) billing.PlanRepository {
	return &planRepository{
		db:     gormDB,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *planRepository) Create(ctx context.Context, plan *billing.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		return fmt.Errorf("failed to map plan: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "plan_id", plan.ID(), "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) Update(ctx context.Context, plan *billing.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		return fmt.Errorf("failed to map plan: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update plan", "plan_id", plan.ID(), "error", err)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *planRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	var model models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *planRepository) FindActive(ctx context.Context) ([]*billing.Plan, error) {
	var planModels []*models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&planModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return r.mapper.ToEntities(planModels)
}

func (r *planRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	var planModels []*models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("sort_order ASC, id ASC").
		Find(&planModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return r.mapper.ToEntities(planModels)
}
