package billing

import (
	"testing"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMonthlyPlan(t *testing.T, id string, price int64, features []string, credits int) *Plan {
	t.Helper()
	plan, err := NewPlan(id, "Test Plan", price, vo.PeriodMonth, features, credits, 0)
	require.NoError(t, err)
	return plan
}

func TestNewPlan_ValidInput(t *testing.T) {
	plan, err := NewPlan("premium", "Premium", 2500, vo.PeriodMonth, []string{"15 credits"}, 15, 2)

	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "premium", plan.ID())
	assert.Equal(t, int64(2500), plan.Price())
	assert.True(t, plan.IsActive(), "new plans start active")
	assert.False(t, plan.IsFree())
}

func TestNewPlan_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		planName string
		price    int64
		credits  int
	}{
		{"empty id", "", "Premium", 100, 5},
		{"empty name", "premium", "", 100, 5},
		{"negative price", "premium", "Premium", -1, 5},
		{"negative credits", "premium", "Premium", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(tt.id, tt.planName, tt.price, vo.PeriodMonth, nil, tt.credits, 0)
			assert.Error(t, err)
			assert.Nil(t, plan)
		})
	}
}

func TestPlan_IsFree(t *testing.T) {
	free, err := NewPlan(FreePlanID, "Free", 0, vo.PeriodNone, nil, 0, 0)
	require.NoError(t, err)
	assert.True(t, free.IsFree())

	paid := newMonthlyPlan(t, "basic", 500, nil, 5)
	assert.False(t, paid.IsFree())
}

func TestPlan_CreditGrant_ExplicitFieldWins(t *testing.T) {
	plan := newMonthlyPlan(t, "premium", 2500, []string{"99 credits"}, 15)
	assert.Equal(t, 15, plan.CreditGrant(7))
}

func TestPlan_CreditGrant_ParsedFromFeatures(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		want     int
	}{
		{"plain", []string{"Priority support", "15 credits"}, 15},
		{"singular", []string{"1 credit"}, 1},
		{"free prefix", []string{"7 free credits"}, 7},
		{"case insensitive", []string{"20 Credits included"}, 20},
		{"first match wins", []string{"10 credits", "50 credits"}, 10},
		{"no match", []string{"Priority support"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newMonthlyPlan(t, "basic", 500, tt.features, 0)
			assert.Equal(t, tt.want, plan.CreditGrant(7))
		})
	}
}

func TestPlan_CreditGrant_FreePlanDefault(t *testing.T) {
	free, err := NewPlan(FreePlanID, "Free", 0, vo.PeriodNone, []string{"Basic listings"}, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 7, free.CreditGrant(7), "free plan falls back to the configured default")

	paid := newMonthlyPlan(t, "basic", 500, []string{"Basic listings"}, 0)
	assert.Equal(t, 0, paid.CreditGrant(7), "paid plans never get the free default")
}

func TestReconstructPlan(t *testing.T) {
	now := time.Now().UTC()
	plan := ReconstructPlan("basic", "Basic", 500, vo.PeriodMonth, []string{"5 credits"}, 5, false, 1, now, now)

	assert.Equal(t, "basic", plan.ID())
	assert.False(t, plan.IsActive())
	assert.Equal(t, 5, plan.CreditGrant(7))
}
