package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"
)

// FreePlanID is the well-known identifier of the free plan.
const FreePlanID = "free"

// creditFeaturePattern extracts a credit grant from a human-readable feature
// string such as "7 free credits(ads)" or "20 credits". Legacy plan rows
// encode the grant this way; CreditsGranted supersedes it when set.
var creditFeaturePattern = regexp.MustCompile(`(?i)(\d+)\s+(?:free\s+)?credits?`)

// Plan is a subscription plan from the catalog. Plans are immutable once
// referenced by a subscription.
type Plan struct {
	id             string
	name           string
	price          int64 // whole KES
	period         vo.PlanPeriod
	features       []string
	creditsGranted int
	active         bool
	sortOrder      int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPlan creates a plan for the catalog.
func NewPlan(id, name string, price int64, period vo.PlanPeriod, features []string, creditsGranted, sortOrder int) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if price < 0 {
		return nil, fmt.Errorf("plan price cannot be negative")
	}
	if creditsGranted < 0 {
		return nil, fmt.Errorf("credits granted cannot be negative")
	}

	now := time.Now().UTC()
	return &Plan{
		id:             id,
		name:           name,
		price:          price,
		period:         period,
		features:       features,
		creditsGranted: creditsGranted,
		active:         true,
		sortOrder:      sortOrder,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id, name string,
	price int64,
	period vo.PlanPeriod,
	features []string,
	creditsGranted int,
	active bool,
	sortOrder int,
	createdAt, updatedAt time.Time,
) *Plan {
	return &Plan{
		id:             id,
		name:           name,
		price:          price,
		period:         period,
		features:       features,
		creditsGranted: creditsGranted,
		active:         active,
		sortOrder:      sortOrder,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Deactivate retires the plan from the catalog. Existing subscriptions
// keep referencing it.
func (p *Plan) Deactivate() {
	p.active = false
	p.updatedAt = time.Now().UTC()
}

// Activate returns a retired plan to the catalog.
func (p *Plan) Activate() {
	p.active = true
	p.updatedAt = time.Now().UTC()
}

func (p *Plan) ID() string               { return p.id }
func (p *Plan) Name() string             { return p.name }
func (p *Plan) Price() int64             { return p.price }
func (p *Plan) Period() vo.PlanPeriod    { return p.period }
func (p *Plan) Features() []string       { return p.features }
func (p *Plan) CreditsGranted() int      { return p.creditsGranted }
func (p *Plan) IsActive() bool           { return p.active }
func (p *Plan) SortOrder() int           { return p.sortOrder }
func (p *Plan) CreatedAt() time.Time     { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time     { return p.updatedAt }

// IsFree reports whether this is the free plan.
func (p *Plan) IsFree() bool {
	return p.id == FreePlanID
}

// CreditGrant resolves how many credits an activation of this plan grants.
// The explicit CreditsGranted field wins when set; otherwise the feature
// strings are scanned, first match wins. defaultFreeCredits applies only to
// the free plan when neither source yields a value.
func (p *Plan) CreditGrant(defaultFreeCredits int) int {
	if p.creditsGranted > 0 {
		return p.creditsGranted
	}
	for _, feature := range p.features {
		if m := creditFeaturePattern.FindStringSubmatch(feature); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return n
		}
	}
	if p.IsFree() {
		return defaultFreeCredits
	}
	return 0
}
