package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/shared/logger"
)

// passthroughTxRunner runs the function directly, with no real transaction.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}

type mockPlanRepository struct {
	mock.Mock
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *billing.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *billing.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *mockPlanRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindActive(ctx context.Context) ([]*billing.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Plan), args.Error(1)
}

func (m *mockPlanRepository) FindAll(ctx context.Context) ([]*billing.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Plan), args.Error(1)
}

type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	args := m.Called(ctx, sub)
	if args.Error(0) == nil && sub.ID() == 0 {
		_ = sub.SetID(1)
	}
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) FindByID(ctx context.Context, id uint) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) FindActiveByUserID(ctx context.Context, userID uint) (*billing.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) FindByUserID(ctx context.Context, userID uint) ([]*billing.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepository) FindDateExpired(ctx context.Context, now time.Time, limit int) ([]*billing.Subscription, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Subscription), args.Error(1)
}

type mockCreditLedgerRepository struct {
	mock.Mock
}

func (m *mockCreditLedgerRepository) Create(ctx context.Context, entry *billing.CreditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockCreditLedgerRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]*billing.CreditEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.CreditEntry), args.Error(1)
}

func (m *mockCreditLedgerRepository) FindBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*billing.CreditEntry, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.CreditEntry), args.Error(1)
}

func (m *mockCreditLedgerRepository) ExistsConsumption(ctx context.Context, userID, listingID uint, action vo.CreditAction) (bool, error) {
	args := m.Called(ctx, userID, listingID, action)
	return args.Bool(0), args.Error(1)
}

type mockPaymentRecordRepository struct {
	mock.Mock
}

func (m *mockPaymentRecordRepository) Create(ctx context.Context, record *billing.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockPaymentRecordRepository) FindByUserID(ctx context.Context, userID uint) ([]*billing.PaymentRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.PaymentRecord), args.Error(1)
}

func (m *mockPaymentRecordRepository) FindByTransactionID(ctx context.Context, transactionID string) (*billing.PaymentRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentRecord), args.Error(1)
}
