package billing

import (
	"fmt"
	"time"

	vo "sokofiti/internal/domain/billing/valueobjects"
)

// Subscription is one lifecycle instance of a user's plan membership. A user
// has at most one active subscription; superseded rows stay behind with
// status expired or renewed, never deleted.
type Subscription struct {
	id               uint
	userID           uint
	planID           string
	transactionID    *string
	startDate        time.Time
	endDate          *time.Time // nil means never expires
	status           vo.SubscriptionStatus
	creditsRemaining int
	autoRenew        bool
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates an active subscription starting at startDate.
// endDate nil means the subscription never expires (free plan).
func NewSubscription(userID uint, planID string, transactionID *string, startDate time.Time, endDate *time.Time, credits int) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if credits < 0 {
		return nil, fmt.Errorf("credits cannot be negative")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:           userID,
		planID:           planID,
		transactionID:    transactionID,
		startDate:        startDate,
		endDate:          endDate,
		status:           vo.StatusActive,
		creditsRemaining: credits,
		autoRenew:        false,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id, userID uint,
	planID string,
	transactionID *string,
	startDate time.Time,
	endDate *time.Time,
	status vo.SubscriptionStatus,
	creditsRemaining int,
	autoRenew bool,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	return &Subscription{
		id:               id,
		userID:           userID,
		planID:           planID,
		transactionID:    transactionID,
		startDate:        startDate,
		endDate:          endDate,
		status:           status,
		creditsRemaining: creditsRemaining,
		autoRenew:        autoRenew,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                         { return s.id }
func (s *Subscription) UserID() uint                     { return s.userID }
func (s *Subscription) PlanID() string                   { return s.planID }
func (s *Subscription) TransactionID() *string           { return s.transactionID }
func (s *Subscription) StartDate() time.Time             { return s.startDate }
func (s *Subscription) EndDate() *time.Time              { return s.endDate }
func (s *Subscription) Status() vo.SubscriptionStatus    { return s.status }
func (s *Subscription) CreditsRemaining() int            { return s.creditsRemaining }
func (s *Subscription) AutoRenew() bool                  { return s.autoRenew }
func (s *Subscription) CreatedAt() time.Time             { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time             { return s.updatedAt }

// SetID sets the subscription ID after insertion. Persistence layer use only.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsDateExpired reports whether the subscription's period has passed at now.
// Subscriptions without an end date never expire by date.
func (s *Subscription) IsDateExpired(now time.Time) bool {
	return s.endDate != nil && now.After(*s.endDate)
}

// EffectiveStatus computes the status as of now, regardless of what is
// persisted: an active subscription whose end date has passed is effectively
// expired. Read paths must use this; the stored status catches up lazily and
// through the background sweep.
func (s *Subscription) EffectiveStatus(now time.Time) vo.SubscriptionStatus {
	if s.status == vo.StatusActive && s.IsDateExpired(now) {
		return vo.StatusExpired
	}
	return s.status
}

// Expire flips the subscription to expired. Expiring an already inactive
// subscription is a no-op.
func (s *Subscription) Expire() {
	if s.status != vo.StatusActive {
		return
	}
	s.status = vo.StatusExpired
	s.updatedAt = time.Now().UTC()
}

// MarkRenewed records that this subscription was superseded by an extension.
func (s *Subscription) MarkRenewed() error {
	if s.status != vo.StatusActive {
		return fmt.Errorf("cannot mark %s subscription as renewed", s.status)
	}
	s.status = vo.StatusRenewed
	s.updatedAt = time.Now().UTC()
	return nil
}

// ConsumeCredit debits exactly one credit.
func (s *Subscription) ConsumeCredit() error {
	if s.creditsRemaining <= 0 {
		return ErrNoCreditsRemaining
	}
	s.creditsRemaining--
	s.updatedAt = time.Now().UTC()
	return nil
}

// AddCredits credits the subscription with a purchased or granted amount.
func (s *Subscription) AddCredits(n int) error {
	if n <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}
	s.creditsRemaining += n
	s.updatedAt = time.Now().UTC()
	return nil
}
