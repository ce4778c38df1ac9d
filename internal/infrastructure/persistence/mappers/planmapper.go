package mappers

import (
	"encoding/json"
	"fmt"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*billing.Plan, error)
	ToModel(entity *billing.Plan) (*models.PlanModel, error)
	ToEntities(planModels []*models.PlanModel) ([]*billing.Plan, error)
}

type planMapper struct{}

func NewPlanMapper() PlanMapper {
	return &planMapper{}
}

func (m *planMapper) ToEntity(model *models.PlanModel) (*billing.Plan, error) {
	if model == nil {
		return nil, nil
	}

	period, err := vo.ParsePlanPeriod(model.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid plan period: %w", err)
	}

	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	return billing.ReconstructPlan(
		model.ID,
		model.Name,
		model.Price,
		period,
		features,
		model.CreditsGranted,
		model.Active,
		model.SortOrder,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *planMapper) ToModel(entity *billing.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	features, err := json.Marshal(entity.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan features: %w", err)
	}

	return &models.PlanModel{
		ID:             entity.ID(),
		Name:           entity.Name(),
		Price:          entity.Price(),
		Period:         entity.Period().String(),
		Features:       features,
		CreditsGranted: entity.CreditsGranted(),
		Active:         entity.IsActive(),
		SortOrder:      entity.SortOrder(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

func (m *planMapper) ToEntities(planModels []*models.PlanModel) ([]*billing.Plan, error) {
	entities := make([]*billing.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
