package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	billingusecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	vo "sokofiti/internal/domain/payment/valueobjects"
)

// staleTx rebuilds a pending transaction created in the past.
func staleTx(t *testing.T, checkoutRequestID string, age time.Duration) *payment.Transaction {
	t.Helper()
	phone, err := vo.NewPhoneNumber("254712345678")
	require.NoError(t, err)
	planID := "premium"
	created := time.Now().UTC().Add(-age)
	tx, err := payment.ReconstructTransaction(payment.TransactionReconstructParams{
		ID:                1,
		UserID:            10,
		PlanID:            &planID,
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: checkoutRequestID,
		PhoneNumber:       phone,
		Amount:            2500,
		AccountReference:  "premium",
		Purpose:           payment.PurposePlanActivation,
		Status:            vo.StatusPending,
		CreatedAt:         created,
		UpdatedAt:         created,
	})
	require.NoError(t, err)
	return tx
}

func queryDeps(t *testing.T) (*mockTransactionRepository, *mockSTKGateway, *mockPlanActivator, *QueryPaymentStatusUseCase) {
	t.Helper()
	repo := new(mockTransactionRepository)
	gateway := new(mockSTKGateway)
	activator := new(mockPlanActivator)
	fulfiller := NewFulfiller(activator, new(mockSubscriptionRenewer), new(mockCreditPurchaser), new(mockLogger))
	uc := NewQueryPaymentStatusUseCase(repo, gateway, fulfiller, 5*time.Minute, new(mockLogger))
	return repo, gateway, activator, uc
}

func TestQueryPaymentStatus_FreshPendingNotPolled(t *testing.T) {
	repo, gateway, _, uc := queryDeps(t)
	tx := staleTx(t, "ws_CO_1", time.Minute)

	repo.On("FindByCheckoutRequestID", mock.Anything, tx.CheckoutRequestID()).Return(tx, nil)

	result, err := uc.Execute(context.Background(), QueryPaymentStatusCommand{CheckoutRequestID: tx.CheckoutRequestID()})

	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	gateway.AssertNotCalled(t, "QueryStatus", mock.Anything, mock.Anything)
}

func TestQueryPaymentStatus_StalePendingReconciled(t *testing.T) {
	repo, gateway, activator, uc := queryDeps(t)
	tx := staleTx(t, "ws_CO_1", 10*time.Minute)

	repo.On("FindByCheckoutRequestID", mock.Anything, tx.CheckoutRequestID()).Return(tx, nil)
	gateway.On("QueryStatus", mock.Anything, tx.CheckoutRequestID()).Return(&paymentgateway.StatusQueryResponse{
		ResultCode: 0,
		ResultDesc: "The service request is processed successfully.",
	}, nil)
	repo.On("FinalizeFromPending", mock.Anything, tx).Return(true, nil)
	activator.On("Execute", mock.Anything, mock.Anything).
		Return(&billingusecases.ActivatePaidPlanResult{SubscriptionID: 5}, nil)

	result, err := uc.Execute(context.Background(), QueryPaymentStatusCommand{CheckoutRequestID: tx.CheckoutRequestID()})

	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	activator.AssertExpectations(t)
}

func TestQueryPaymentStatus_StillPendingAtGateway(t *testing.T) {
	repo, gateway, activator, uc := queryDeps(t)
	tx := staleTx(t, "ws_CO_1", 10*time.Minute)

	repo.On("FindByCheckoutRequestID", mock.Anything, tx.CheckoutRequestID()).Return(tx, nil)
	gateway.On("QueryStatus", mock.Anything, tx.CheckoutRequestID()).Return(&paymentgateway.StatusQueryResponse{
		ResultCode: 1037,
		ResultDesc: "DS timeout user cannot be reached",
	}, nil)

	result, err := uc.Execute(context.Background(), QueryPaymentStatusCommand{CheckoutRequestID: tx.CheckoutRequestID()})

	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	repo.AssertNotCalled(t, "FinalizeFromPending", mock.Anything, mock.Anything)
	activator.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestQueryPaymentStatus_NotFound(t *testing.T) {
	repo, _, _, uc := queryDeps(t)
	repo.On("FindByCheckoutRequestID", mock.Anything, "ws_CO_missing").
		Return(nil, payment.ErrTransactionNotFound)

	_, err := uc.Execute(context.Background(), QueryPaymentStatusCommand{CheckoutRequestID: "ws_CO_missing"})
	assert.ErrorIs(t, err, payment.ErrTransactionNotFound)
}

func TestReconcilePendingPayments_Sweep(t *testing.T) {
	repo := new(mockTransactionRepository)
	gateway := new(mockSTKGateway)
	activator := new(mockPlanActivator)
	fulfiller := NewFulfiller(activator, new(mockSubscriptionRenewer), new(mockCreditPurchaser), new(mockLogger))
	uc := NewReconcilePendingPaymentsUseCase(repo, gateway, fulfiller, 5*time.Minute, new(mockLogger))

	completed := staleTx(t, "ws_CO_done", 10*time.Minute)
	cancelled := staleTx(t, "ws_CO_cancel", 20*time.Minute)

	repo.On("FindPendingOlderThan", mock.Anything, mock.Anything, reconcileBatchSize).
		Return([]*payment.Transaction{completed, cancelled}, nil)
	gateway.On("QueryStatus", mock.Anything, completed.CheckoutRequestID()).Return(&paymentgateway.StatusQueryResponse{ResultCode: 0, ResultDesc: "OK"}, nil).Once()
	gateway.On("QueryStatus", mock.Anything, cancelled.CheckoutRequestID()).Return(&paymentgateway.StatusQueryResponse{ResultCode: 1032, ResultDesc: "Request cancelled by user"}, nil).Once()
	repo.On("FinalizeFromPending", mock.Anything, mock.Anything).Return(true, nil)
	activator.On("Execute", mock.Anything, mock.Anything).
		Return(&billingusecases.ActivatePaidPlanResult{}, nil).Once()

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, vo.StatusCompleted, completed.Status())
	assert.Equal(t, vo.StatusCancelled, cancelled.Status())
}

func TestReconcilePendingPayments_LateCallbackWinsFinalize(t *testing.T) {
	repo := new(mockTransactionRepository)
	gateway := new(mockSTKGateway)
	activator := new(mockPlanActivator)
	fulfiller := NewFulfiller(activator, new(mockSubscriptionRenewer), new(mockCreditPurchaser), new(mockLogger))
	uc := NewReconcilePendingPaymentsUseCase(repo, gateway, fulfiller, 5*time.Minute, new(mockLogger))

	tx := staleTx(t, "ws_CO_raced", 10*time.Minute)

	repo.On("FindPendingOlderThan", mock.Anything, mock.Anything, reconcileBatchSize).
		Return([]*payment.Transaction{tx}, nil)
	gateway.On("QueryStatus", mock.Anything, tx.CheckoutRequestID()).
		Return(&paymentgateway.StatusQueryResponse{ResultCode: 0, ResultDesc: "OK"}, nil)
	repo.On("FinalizeFromPending", mock.Anything, tx).Return(false, nil)

	_, err := uc.Execute(context.Background())

	require.NoError(t, err)
	activator.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
