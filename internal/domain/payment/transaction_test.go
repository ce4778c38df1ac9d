package payment

import (
	"testing"
	"time"

	vo "sokofiti/internal/domain/payment/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransaction(t *testing.T) *Transaction {
	t.Helper()
	phone, err := vo.NewPhoneNumber("254712345678")
	require.NoError(t, err)
	planID := "premium"
	tx, err := NewTransaction(CreateTransactionParams{
		UserID:            10,
		PlanID:            &planID,
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		PhoneNumber:       phone,
		Amount:            2500,
		AccountReference:  "premium",
		Description:       "Premium plan",
		Purpose:           PurposePlanActivation,
	})
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	tx := newPendingTransaction(t)

	assert.Equal(t, vo.StatusPending, tx.Status())
	assert.False(t, tx.IsFinal())
	assert.Nil(t, tx.ResultCode())
	assert.Empty(t, tx.ReceiptNumber())
}

func TestNewTransaction_Invalid(t *testing.T) {
	phone, err := vo.NewPhoneNumber("254712345678")
	require.NoError(t, err)

	base := CreateTransactionParams{
		UserID:            10,
		MerchantRequestID: "m",
		CheckoutRequestID: "ws_CO_1",
		PhoneNumber:       phone,
		Amount:            100,
		Purpose:           PurposePlanActivation,
	}

	p := base
	p.Amount = 0
	_, err = NewTransaction(p)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	p = base
	p.CheckoutRequestID = ""
	_, err = NewTransaction(p)
	assert.Error(t, err)

	p = base
	p.Purpose = "tips"
	_, err = NewTransaction(p)
	assert.Error(t, err)

	p = base
	p.UserID = 0
	_, err = NewTransaction(p)
	assert.Error(t, err)
}

func TestTransaction_ApplyResult_Success(t *testing.T) {
	tx := newPendingTransaction(t)
	paid := time.Now().UTC()

	require.NoError(t, tx.ApplyResult(0, "The service request is processed successfully.", "NLJ7RT61SV", &paid))

	assert.Equal(t, vo.StatusCompleted, tx.Status())
	assert.True(t, tx.IsFinal())
	assert.Equal(t, "NLJ7RT61SV", tx.ReceiptNumber())
	require.NotNil(t, tx.ResultCode())
	assert.Equal(t, 0, *tx.ResultCode())
	require.NotNil(t, tx.TransactionDate())
}

func TestTransaction_ApplyResult_Cancelled(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.ApplyResult(1032, "Request cancelled by user", "", nil))

	assert.Equal(t, vo.StatusCancelled, tx.Status())
	assert.Empty(t, tx.ReceiptNumber(), "no receipt on a cancelled transaction")
}

func TestTransaction_ApplyResult_TimeoutStaysPending(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.ApplyResult(1037, "DS timeout user cannot be reached", "", nil))

	assert.Equal(t, vo.StatusPending, tx.Status())
	assert.False(t, tx.IsFinal(), "1037 may still resolve later")

	// A later definitive result is still accepted.
	require.NoError(t, tx.ApplyResult(0, "OK", "NLJ7RT61SV", nil))
	assert.Equal(t, vo.StatusCompleted, tx.Status())
}

func TestTransaction_ApplyResult_AlreadyFinal(t *testing.T) {
	tx := newPendingTransaction(t)
	require.NoError(t, tx.ApplyResult(0, "OK", "NLJ7RT61SV", nil))

	err := tx.ApplyResult(1032, "duplicate callback", "", nil)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, vo.StatusCompleted, tx.Status(), "status unchanged by duplicate callback")
	assert.Equal(t, "NLJ7RT61SV", tx.ReceiptNumber())
}

func TestTransaction_MarkFailed(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.MarkFailed("reconciliation: gateway reports no such request"))
	assert.Equal(t, vo.StatusFailed, tx.Status())

	assert.ErrorIs(t, tx.MarkFailed("again"), ErrAlreadyFinalized)
}

func TestTransaction_PendingLongerThan(t *testing.T) {
	tx := newPendingTransaction(t)
	now := tx.CreatedAt()

	assert.False(t, tx.PendingLongerThan(5*time.Minute, now.Add(4*time.Minute)))
	assert.True(t, tx.PendingLongerThan(5*time.Minute, now.Add(5*time.Minute)))

	require.NoError(t, tx.MarkFailed("gone"))
	assert.False(t, tx.PendingLongerThan(5*time.Minute, now.Add(time.Hour)), "final transactions are never pending")
}

func TestTransaction_SetID(t *testing.T) {
	tx := newPendingTransaction(t)

	require.NoError(t, tx.SetID(7))
	assert.Equal(t, uint(7), tx.ID())

	assert.Error(t, tx.SetID(8), "ID can be set only once")
}
