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

func purchaseDeps(t *testing.T) (*mockSubscriptionRepository, *mockCreditLedgerRepository, *mockPaymentRecordRepository, *PurchaseCreditsUseCase) {
	t.Helper()
	subRepo := new(mockSubscriptionRepository)
	ledgerRepo := new(mockCreditLedgerRepository)
	paymentRepo := new(mockPaymentRecordRepository)
	uc := NewPurchaseCreditsUseCase(subRepo, ledgerRepo, paymentRepo, passthroughTxRunner{}, new(mockLogger))
	return subRepo, ledgerRepo, paymentRepo, uc
}

func TestPurchaseCredits_Success(t *testing.T) {
	subRepo, ledgerRepo, paymentRepo, uc := purchaseDeps(t)

	end := time.Now().UTC().AddDate(0, 0, 10)
	sub := activeSubscription(t, 10, "premium", &end, 3)

	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	subRepo.On("Update", mock.Anything, sub).Return(nil)
	ledgerRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *billing.CreditEntry) bool {
		return e.CreditsAdded() == 15 && e.Action() == vo.ActionCreditPurchase
	})).Return(nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := uc.Execute(context.Background(), PurchaseCreditsCommand{
		UserID: 10, PackageKey: "medium", TransactionID: "ws_CO_789", Amount: 250,
	})

	require.NoError(t, err)
	assert.Equal(t, 15, result.CreditsAdded)
	assert.Equal(t, 18, result.CreditsRemaining)
	paymentRepo.AssertExpectations(t)
}

func TestPurchaseCredits_InvalidPackage(t *testing.T) {
	_, _, _, uc := purchaseDeps(t)

	_, err := uc.Execute(context.Background(), PurchaseCreditsCommand{
		UserID: 10, PackageKey: "jumbo", TransactionID: "ws_CO_789", Amount: 250,
	})
	assert.ErrorIs(t, err, billing.ErrInvalidCreditPackage)
}

func TestPurchaseCredits_AmountMismatchLeavesBalance(t *testing.T) {
	subRepo, _, _, uc := purchaseDeps(t)

	_, err := uc.Execute(context.Background(), PurchaseCreditsCommand{
		UserID: 10, PackageKey: "small", TransactionID: "ws_CO_789", Amount: 99,
	})

	assert.ErrorIs(t, err, billing.ErrAmountMismatch)
	subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPurchaseCredits_NoActiveSubscription(t *testing.T) {
	subRepo, _, _, uc := purchaseDeps(t)
	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).
		Return(nil, billing.ErrNoActiveSubscription)

	_, err := uc.Execute(context.Background(), PurchaseCreditsCommand{
		UserID: 10, PackageKey: "small", TransactionID: "ws_CO_789", Amount: 100,
	})
	assert.ErrorIs(t, err, billing.ErrNoActiveSubscription)
}

func TestPurchaseCredits_DateExpiredSubscription(t *testing.T) {
	subRepo, ledgerRepo, _, uc := purchaseDeps(t)

	end := time.Now().UTC().AddDate(0, 0, -1)
	sub := activeSubscription(t, 10, "premium", &end, 3)

	subRepo.On("FindActiveByUserID", mock.Anything, uint(10)).Return(sub, nil)
	subRepo.On("Update", mock.Anything, sub).Return(nil)

	_, err := uc.Execute(context.Background(), PurchaseCreditsCommand{
		UserID: 10, PackageKey: "small", TransactionID: "ws_CO_789", Amount: 100,
	})

	assert.ErrorIs(t, err, billing.ErrNoActiveSubscription)
	assert.Equal(t, vo.StatusExpired, sub.Status())
	ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
