package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
)

func renewDeps(t *testing.T) (*mockPlanRepository, *mockSubscriptionRepository, *mockCreditLedgerRepository, *mockPaymentRecordRepository, *RenewSubscriptionUseCase) {
	t.Helper()
	planRepo := new(mockPlanRepository)
	subRepo := new(mockSubscriptionRepository)
	ledgerRepo := new(mockCreditLedgerRepository)
	paymentRepo := new(mockPaymentRecordRepository)
	uc := NewRenewSubscriptionUseCase(planRepo, subRepo, ledgerRepo, paymentRepo, passthroughTxRunner{}, new(mockLogger))
	return planRepo, subRepo, ledgerRepo, paymentRepo, uc
}

func TestRenewSubscription_ExtensionCarriesCredits(t *testing.T) {
	planRepo, subRepo, ledgerRepo, paymentRepo, uc := renewDeps(t)

	// Current subscription still has 10 days and 5 credits left.
	end := time.Now().UTC().AddDate(0, 0, 10)
	current := activeSubscription(t, 10, "premium", &end, 5)

	planRepo.On("FindByID", mock.Anything, "premium").Return(premiumPlan(t), nil)
	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).Return(current, nil)
	subRepo.On("Update", mock.Anything, current).Return(nil)
	subRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
		return s.StartDate().Equal(end) && s.CreditsRemaining() == 20
	})).Return(nil)
	ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		UserID: 10, PlanID: "premium", TransactionID: "ws_CO_456", Amount: 2500,
	})

	require.NoError(t, err)
	assert.Equal(t, RenewalTypeExtension, result.RenewalType)
	assert.Equal(t, 15, result.CreditsAdded)
	assert.Equal(t, 20, result.CreditsRemaining, "5 remaining + 15 plan credits carry over")
	assert.Equal(t, vo.StatusRenewed, current.Status())
	subRepo.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestRenewSubscription_RenewalAfterExpiry(t *testing.T) {
	planRepo, subRepo, ledgerRepo, paymentRepo, uc := renewDeps(t)

	// Current subscription ran out yesterday with credits left over.
	end := time.Now().UTC().AddDate(0, 0, -1)
	current := activeSubscription(t, 10, "premium", &end, 5)

	planRepo.On("FindByID", mock.Anything, "premium").Return(premiumPlan(t), nil)
	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).Return(current, nil)
	subRepo.On("Update", mock.Anything, current).Return(nil)
	subRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
		return s.CreditsRemaining() == 15
	})).Return(nil)
	ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		UserID: 10, PlanID: "premium", TransactionID: "ws_CO_456", Amount: 2500,
	})

	require.NoError(t, err)
	assert.Equal(t, RenewalTypeRenewal, result.RenewalType)
	assert.Equal(t, 15, result.CreditsRemaining, "stale credits do not carry over")
	assert.Equal(t, vo.StatusExpired, current.Status())
}

func TestRenewSubscription_NoCurrentSubscription(t *testing.T) {
	planRepo, subRepo, ledgerRepo, paymentRepo, uc := renewDeps(t)

	planRepo.On("FindByID", mock.Anything, "premium").Return(premiumPlan(t), nil)
	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).
		Return(nil, billing.ErrNoActiveSubscription)
	subRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		UserID: 10, PlanID: "premium", TransactionID: "ws_CO_456", Amount: 2500,
	})

	require.NoError(t, err)
	assert.Equal(t, RenewalTypeRenewal, result.RenewalType)
	assert.Equal(t, 15, result.CreditsRemaining)
}

func TestRenewSubscription_AmountMismatch(t *testing.T) {
	planRepo, subRepo, _, _, uc := renewDeps(t)

	planRepo.On("FindByID", mock.Anything, "premium").Return(premiumPlan(t), nil)

	_, err := uc.Execute(context.Background(), RenewSubscriptionCommand{
		UserID: 10, PlanID: "premium", TransactionID: "ws_CO_456", Amount: 99,
	})

	assert.ErrorIs(t, err, billing.ErrAmountMismatch)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
