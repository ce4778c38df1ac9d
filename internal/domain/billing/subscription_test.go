package billing

import (
	"testing"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newMonthlySubscription(t *testing.T, credits int) *Subscription {
	t.Helper()
	start := time.Now().UTC()
	end := start.AddDate(0, 1, 0)
	sub, err := NewSubscription(10, "premium", nil, start, &end, credits)
	require.NoError(t, err)
	return sub
}

func reconstructWithStatus(t *testing.T, status vo.SubscriptionStatus, endDate *time.Time) *Subscription {
	t.Helper()
	start := time.Now().UTC().AddDate(0, -1, 0)
	sub, err := ReconstructSubscription(1, 10, "premium", nil, start, endDate, status, 5, false, start, start)
	require.NoError(t, err)
	return sub
}

// =====================================================================
// TestNewSubscription_*
// =====================================================================

func TestNewSubscription_ValidInput(t *testing.T) {
	sub := newMonthlySubscription(t, 15)

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, 15, sub.CreditsRemaining())
	assert.False(t, sub.AutoRenew())
	assert.Nil(t, sub.TransactionID())
}

func TestNewSubscription_NoEndDateForFreePlan(t *testing.T) {
	start := time.Now().UTC()
	sub, err := NewSubscription(10, FreePlanID, nil, start, nil, 7)

	require.NoError(t, err)
	assert.Nil(t, sub.EndDate())
	assert.False(t, sub.IsDateExpired(start.AddDate(10, 0, 0)), "no end date never expires")
}

func TestNewSubscription_InvalidInput(t *testing.T) {
	start := time.Now().UTC()
	badEnd := start.AddDate(0, -1, 0)

	tests := []struct {
		name    string
		userID  uint
		planID  string
		endDate *time.Time
		credits int
	}{
		{"zero user", 0, "premium", nil, 5},
		{"empty plan", 10, "", nil, 5},
		{"negative credits", 10, "premium", nil, -1},
		{"end before start", 10, "premium", &badEnd, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewSubscription(tt.userID, tt.planID, nil, start, tt.endDate, tt.credits)
			assert.Error(t, err)
			assert.Nil(t, sub)
		})
	}
}

// =====================================================================
// TestSubscription_EffectiveStatus
// =====================================================================

func TestSubscription_EffectiveStatus(t *testing.T) {
	now := time.Now().UTC()
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		status  vo.SubscriptionStatus
		endDate *time.Time
		want    vo.SubscriptionStatus
	}{
		{"active within period", vo.StatusActive, &future, vo.StatusActive},
		{"active past end date", vo.StatusActive, &past, vo.StatusExpired},
		{"active without end date", vo.StatusActive, nil, vo.StatusActive},
		{"cancelled stays cancelled", vo.StatusCancelled, &past, vo.StatusCancelled},
		{"renewed stays renewed", vo.StatusRenewed, &past, vo.StatusRenewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := reconstructWithStatus(t, tt.status, tt.endDate)
			assert.Equal(t, tt.want, sub.EffectiveStatus(now))
			assert.Equal(t, tt.status, sub.Status(), "EffectiveStatus must not mutate stored status")
		})
	}
}

// =====================================================================
// TestSubscription_Transitions
// =====================================================================

func TestSubscription_Expire(t *testing.T) {
	sub := newMonthlySubscription(t, 5)
	sub.Expire()
	assert.Equal(t, vo.StatusExpired, sub.Status())

	cancelled := reconstructWithStatus(t, vo.StatusCancelled, nil)
	cancelled.Expire()
	assert.Equal(t, vo.StatusCancelled, cancelled.Status(), "expiring an inactive subscription is a no-op")
}

func TestSubscription_MarkRenewed(t *testing.T) {
	sub := newMonthlySubscription(t, 5)
	require.NoError(t, sub.MarkRenewed())
	assert.Equal(t, vo.StatusRenewed, sub.Status())

	err := sub.MarkRenewed()
	assert.Error(t, err, "only active subscriptions can be marked renewed")
}

func TestSubscription_ConsumeCredit(t *testing.T) {
	sub := newMonthlySubscription(t, 2)

	require.NoError(t, sub.ConsumeCredit())
	require.NoError(t, sub.ConsumeCredit())
	assert.Equal(t, 0, sub.CreditsRemaining())

	err := sub.ConsumeCredit()
	assert.ErrorIs(t, err, ErrNoCreditsRemaining)
	assert.Equal(t, 0, sub.CreditsRemaining())
}

func TestSubscription_AddCredits(t *testing.T) {
	sub := newMonthlySubscription(t, 3)

	require.NoError(t, sub.AddCredits(15))
	assert.Equal(t, 18, sub.CreditsRemaining())

	assert.Error(t, sub.AddCredits(0))
	assert.Error(t, sub.AddCredits(-5))
}

func TestSubscription_SetID(t *testing.T) {
	sub := newMonthlySubscription(t, 5)

	require.NoError(t, sub.SetID(42))
	assert.Equal(t, uint(42), sub.ID())

	assert.Error(t, sub.SetID(43), "ID can be set only once")
	assert.Error(t, reconstructWithStatus(t, vo.StatusActive, nil).SetID(0))
}
