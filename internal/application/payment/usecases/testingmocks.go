package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	billingusecases "sokofiti/internal/application/billing/usecases"
	"sokofiti/internal/application/payment/paymentgateway"
	"sokofiti/internal/domain/payment"
	"sokofiti/internal/shared/logger"
)

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	args := m.Called(ctx, tx)
	if args.Error(0) == nil && tx.ID() == 0 {
		_ = tx.SetID(1)
	}
	return args.Error(0)
}

func (m *mockTransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) FinalizeFromPending(ctx context.Context, tx *payment.Transaction) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id uint) (*payment.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.Transaction, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByMerchantRequestID(ctx context.Context, merchantRequestID string) (*payment.Transaction, error) {
	args := m.Called(ctx, merchantRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*payment.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *mockTransactionRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Transaction, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

type mockSTKGateway struct {
	mock.Mock
}

func (m *mockSTKGateway) RequestSTKPush(ctx context.Context, req paymentgateway.STKPushRequest) (*paymentgateway.STKPushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.STKPushResponse), args.Error(1)
}

func (m *mockSTKGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*paymentgateway.StatusQueryResponse, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.StatusQueryResponse), args.Error(1)
}

type mockPlanActivator struct {
	mock.Mock
}

func (m *mockPlanActivator) Execute(ctx context.Context, cmd billingusecases.ActivatePaidPlanCommand) (*billingusecases.ActivatePaidPlanResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingusecases.ActivatePaidPlanResult), args.Error(1)
}

type mockSubscriptionRenewer struct {
	mock.Mock
}

func (m *mockSubscriptionRenewer) Execute(ctx context.Context, cmd billingusecases.RenewSubscriptionCommand) (*billingusecases.RenewSubscriptionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingusecases.RenewSubscriptionResult), args.Error(1)
}

type mockCreditPurchaser struct {
	mock.Mock
}

func (m *mockCreditPurchaser) Execute(ctx context.Context, cmd billingusecases.PurchaseCreditsCommand) (*billingusecases.PurchaseCreditsResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingusecases.PurchaseCreditsResult), args.Error(1)
}
