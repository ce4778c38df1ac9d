package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/shared/logger"
)

type PlanView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Price          int64     `json:"price"`
	DisplayPrice   string    `json:"display_price"`
	Period         string    `json:"period"`
	Features       []string  `json:"features"`
	CreditsGranted int       `json:"credits_granted"`
	SortOrder      int       `json:"sort_order"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreditPackageView struct {
	Key          string `json:"key"`
	Credits      int    `json:"credits"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"display_price"`
}

type ListPlansResult struct {
	Plans          []PlanView          `json:"plans"`
	CreditPackages []CreditPackageView `json:"credit_packages"`
}

// ListPlansUseCase serves the public plan catalog consumed by the mobile app.
type ListPlansUseCase struct {
	planRepo billing.PlanRepository
	printer  *message.Printer
	logger   logger.Interface
}

func NewListPlansUseCase(planRepo billing.PlanRepository, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		printer:  message.NewPrinter(language.English),
		logger:   logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) (*ListPlansResult, error) {
	plans, err := uc.planRepo.FindActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := &ListPlansResult{
		Plans:          make([]PlanView, 0, len(plans)),
		CreditPackages: make([]CreditPackageView, 0, 4),
	}
	for _, plan := range plans {
		result.Plans = append(result.Plans, PlanView{
			ID:             plan.ID(),
			Name:           plan.Name(),
			Price:          plan.Price(),
			DisplayPrice:   uc.formatKES(plan.Price()),
			Period:         plan.Period().String(),
			Features:       plan.Features(),
			CreditsGranted: plan.CreditsGranted(),
			SortOrder:      plan.SortOrder(),
			UpdatedAt:      plan.UpdatedAt(),
		})
	}
	for _, pkg := range vo.CreditPackages() {
		result.CreditPackages = append(result.CreditPackages, CreditPackageView{
			Key:          pkg.Key,
			Credits:      pkg.Credits,
			Price:        pkg.Price,
			DisplayPrice: uc.formatKES(pkg.Price),
		})
	}
	return result, nil
}

// formatKES renders a whole-shilling amount with thousands separators.
func (uc *ListPlansUseCase) formatKES(amount int64) string {
	return uc.printer.Sprintf("KES %d", amount)
}
