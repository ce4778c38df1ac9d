package repository

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sokofiti/internal/domain/billing"
	billingvo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/domain/payment"
	paymentvo "sokofiti/internal/domain/payment/valueobjects"
	"sokofiti/internal/infrastructure/migration"
	sharederrors "sokofiti/internal/shared/errors"
	"sokofiti/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// The full strategy rather than bare AutoMigrate, so schema-level
	// constraints like the unique active-subscription index are present.
	require.NoError(t, migration.NewGormAutoMigrateStrategy(testLogger()).Migrate(db))

	return db
}

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}

func createTestPlan(t *testing.T, id string, price int64) *billing.Plan {
	period := billingvo.PeriodMonth
	if price == 0 {
		period = billingvo.PeriodNone
	}
	plan, err := billing.NewPlan(id, id+" plan", price, period, []string{"15 credits"}, 15, 1)
	require.NoError(t, err)
	return plan
}

func createTestSubscription(t *testing.T, userID uint, planID string, start time.Time, endDate *time.Time, credits int) *billing.Subscription {
	sub, err := billing.NewSubscription(userID, planID, nil, start, endDate, credits)
	require.NoError(t, err)
	return sub
}

func TestPlanRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlanRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create and find by id", func(t *testing.T) {
		plan := createTestPlan(t, "premium", 2500)
		require.NoError(t, repo.Create(ctx, plan))

		found, err := repo.FindByID(ctx, "premium")
		require.NoError(t, err)
		assert.Equal(t, "premium", found.ID())
		assert.Equal(t, int64(2500), found.Price())
		assert.Equal(t, []string{"15 credits"}, found.Features())
	})

	t.Run("find by id not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, billing.ErrPlanNotFound)
	})

	t.Run("find active skips deactivated plans", func(t *testing.T) {
		active := createTestPlan(t, "basic", 500)
		require.NoError(t, repo.Create(ctx, active))

		retired := createTestPlan(t, "legacy", 900)
		retired.Deactivate()
		require.NoError(t, repo.Create(ctx, retired))

		plans, err := repo.FindActive(ctx)
		require.NoError(t, err)
		for _, p := range plans {
			assert.NotEqual(t, "legacy", p.ID())
		}
	})
}

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create assigns id", func(t *testing.T) {
		sub := createTestSubscription(t, 1, "free", time.Now().UTC(), nil, 7)
		require.NoError(t, repo.Create(ctx, sub))
		assert.NotZero(t, sub.ID())
	})

	t.Run("find active by user id", func(t *testing.T) {
		end := time.Now().UTC().AddDate(0, 1, 0)
		sub := createTestSubscription(t, 2, "premium", time.Now().UTC(), &end, 15)
		require.NoError(t, repo.Create(ctx, sub))

		found, err := repo.FindActiveByUserID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, sub.ID(), found.ID())
		assert.Equal(t, billingvo.StatusActive, found.Status())
	})

	t.Run("no active subscription", func(t *testing.T) {
		_, err := repo.FindActiveByUserID(ctx, 999)
		assert.ErrorIs(t, err, billing.ErrNoActiveSubscription)
	})

	t.Run("expired status is excluded from active lookup", func(t *testing.T) {
		sub := createTestSubscription(t, 3, "premium", time.Now().UTC(), nil, 0)
		require.NoError(t, repo.Create(ctx, sub))
		sub.Expire()
		require.NoError(t, repo.Update(ctx, sub))

		_, err := repo.FindActiveByUserID(ctx, 3)
		assert.ErrorIs(t, err, billing.ErrNoActiveSubscription)
	})

	t.Run("second active subscription hits unique index", func(t *testing.T) {
		first := createTestSubscription(t, 6, "free", time.Now().UTC(), nil, 7)
		require.NoError(t, repo.Create(ctx, first))

		second := createTestSubscription(t, 6, "premium", time.Now().UTC(), nil, 15)
		err := repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, sharederrors.IsDuplicateError(err))

		// Expired rows do not count against the constraint.
		first.Expire()
		require.NoError(t, repo.Update(ctx, first))
		require.NoError(t, repo.Create(ctx, createTestSubscription(t, 6, "premium", time.Now().UTC(), nil, 15)))
	})

	t.Run("find date expired", func(t *testing.T) {
		monthAgo := time.Now().UTC().AddDate(0, -1, 0)
		past := time.Now().UTC().Add(-time.Hour)
		stale := createTestSubscription(t, 4, "premium", monthAgo, &past, 5)
		require.NoError(t, repo.Create(ctx, stale))

		future := time.Now().UTC().AddDate(0, 1, 0)
		fresh := createTestSubscription(t, 5, "premium", time.Now().UTC(), &future, 5)
		require.NoError(t, repo.Create(ctx, fresh))

		expired, err := repo.FindDateExpired(ctx, time.Now().UTC(), 10)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, stale.ID(), expired[0].ID())
	})
}

func TestCreditHistoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditHistoryRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create grant entry", func(t *testing.T) {
		entry, err := billing.NewGrantEntry(1, 10, 15, billingvo.ActionPlanActivation, "premium activation", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))
		assert.NotZero(t, entry.ID())
	})

	t.Run("duplicate consumption hits unique index", func(t *testing.T) {
		first, err := billing.NewConsumptionEntry(2, 10, 77, "listing created")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, first))

		second, err := billing.NewConsumptionEntry(2, 10, 77, "listing created")
		require.NoError(t, err)
		err = repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, sharederrors.IsDuplicateError(err))
	})

	t.Run("exists consumption", func(t *testing.T) {
		entry, err := billing.NewConsumptionEntry(3, 11, 88, "listing created")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))

		exists, err := repo.ExistsConsumption(ctx, 3, 88, billingvo.ActionListingCreation)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsConsumption(ctx, 3, 89, billingvo.ActionListingCreation)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find by user id with paging", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			entry, err := billing.NewGrantEntry(4, 12, 5, billingvo.ActionCreditPurchase, "top up", nil)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, entry))
		}

		entries, err := repo.FindByUserID(ctx, 4, 2, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = repo.FindByUserID(ctx, 4, 2, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func createTestTransaction(t *testing.T, userID uint, checkoutRequestID, purpose string) *payment.Transaction {
	phone, err := paymentvo.NewPhoneNumber("254712345678")
	require.NoError(t, err)

	planID := "premium"
	var planRef *string
	if purpose != payment.PurposeCreditPurchase {
		planRef = &planID
	}

	tx, err := payment.NewTransaction(payment.CreateTransactionParams{
		UserID:            userID,
		PlanID:            planRef,
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: checkoutRequestID,
		PhoneNumber:       phone,
		Amount:            2500,
		AccountReference:  "premium",
		Description:       "Premium plan",
		Purpose:           purpose,
	})
	require.NoError(t, err)
	return tx
}

func TestMpesaTransactionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMpesaTransactionRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create and find by checkout request id", func(t *testing.T) {
		tx := createTestTransaction(t, 1, "ws_CO_001", payment.PurposePlanActivation)
		require.NoError(t, repo.Create(ctx, tx))
		assert.NotZero(t, tx.ID())

		found, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_001")
		require.NoError(t, err)
		assert.Equal(t, tx.ID(), found.ID())
		assert.Equal(t, paymentvo.StatusPending, found.Status())
		require.NotNil(t, found.PlanID())
		assert.Equal(t, "premium", *found.PlanID())
	})

	t.Run("duplicate checkout request id fails", func(t *testing.T) {
		first := createTestTransaction(t, 2, "ws_CO_DUP", payment.PurposeRenewal)
		require.NoError(t, repo.Create(ctx, first))

		second := createTestTransaction(t, 2, "ws_CO_DUP", payment.PurposeRenewal)
		assert.Error(t, repo.Create(ctx, second))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_missing")
		assert.ErrorIs(t, err, payment.ErrTransactionNotFound)

		_, err = repo.FindByMerchantRequestID(ctx, "missing")
		assert.ErrorIs(t, err, payment.ErrTransactionNotFound)
	})

	t.Run("update persists callback result", func(t *testing.T) {
		tx := createTestTransaction(t, 3, "ws_CO_003", payment.PurposePlanActivation)
		require.NoError(t, repo.Create(ctx, tx))

		when := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, tx.ApplyResult(0, "Success", "NLJ7RT61SV", &when))
		require.NoError(t, repo.Update(ctx, tx))

		found, err := repo.FindByID(ctx, tx.ID())
		require.NoError(t, err)
		assert.Equal(t, paymentvo.StatusCompleted, found.Status())
		assert.Equal(t, "NLJ7RT61SV", found.ReceiptNumber())
		require.NotNil(t, found.ResultCode())
		assert.Equal(t, 0, *found.ResultCode())
	})

	t.Run("finalize from pending claims the row once", func(t *testing.T) {
		tx := createTestTransaction(t, 5, "ws_CO_005", payment.PurposePlanActivation)
		require.NoError(t, repo.Create(ctx, tx))

		// Two deliveries of the same callback read their own pending
		// snapshot before either writes.
		first, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_005")
		require.NoError(t, err)
		second, err := repo.FindByCheckoutRequestID(ctx, "ws_CO_005")
		require.NoError(t, err)

		require.NoError(t, first.ApplyResult(0, "Success", "NLJ7RT61SV", nil))
		require.NoError(t, second.ApplyResult(0, "Success", "NLJ7RT61SV", nil))

		claimed, err := repo.FinalizeFromPending(ctx, first)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = repo.FinalizeFromPending(ctx, second)
		require.NoError(t, err)
		assert.False(t, claimed, "the losing delivery must not fulfill")

		found, err := repo.FindByID(ctx, tx.ID())
		require.NoError(t, err)
		assert.Equal(t, paymentvo.StatusCompleted, found.Status())
		assert.Equal(t, "NLJ7RT61SV", found.ReceiptNumber())
	})

	t.Run("find pending older than", func(t *testing.T) {
		tx := createTestTransaction(t, 4, "ws_CO_004", payment.PurposeCreditPurchase)
		require.NoError(t, repo.Create(ctx, tx))

		stale, err := repo.FindPendingOlderThan(ctx, time.Now().UTC().Add(time.Minute), 10)
		require.NoError(t, err)
		ids := make([]uint, 0, len(stale))
		for _, s := range stale {
			ids = append(ids, s.ID())
		}
		assert.Contains(t, ids, tx.ID())

		none, err := repo.FindPendingOlderThan(ctx, time.Now().UTC().Add(-time.Hour), 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestPaymentTransactionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentTransactionRepository(db, testLogger())
	ctx := context.Background()

	t.Run("create and find by transaction id", func(t *testing.T) {
		subID := uint(10)
		record, err := billing.NewPaymentRecord(1, &subID, "ws_CO_100", "NLJ7RT61SV", "254712345678", 2500, billing.PurposePlanActivation)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, record))
		assert.NotZero(t, record.ID())

		found, err := repo.FindByTransactionID(ctx, "ws_CO_100")
		require.NoError(t, err)
		assert.Equal(t, record.ID(), found.ID())
		assert.Equal(t, int64(2500), found.Amount())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByTransactionID(ctx, "missing")
		assert.ErrorIs(t, err, billing.ErrPaymentRecordNotFound)
	})

	t.Run("find by user id ordered newest first", func(t *testing.T) {
		for _, txID := range []string{"ws_CO_101", "ws_CO_102"} {
			record, err := billing.NewPaymentRecord(2, nil, txID, "", "254712345678", 250, billing.PurposeCreditPurchase)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, record))
		}

		records, err := repo.FindByUserID(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
