package valueobjects

import (
	"fmt"
	"time"
)

// PlanPeriod is the billing period of a plan. PeriodNone means the plan never
// expires (the free plan).
type PlanPeriod string

const (
	PeriodNone  PlanPeriod = "none"
	PeriodMonth PlanPeriod = "month"
	PeriodYear  PlanPeriod = "year"
)

// ParsePlanPeriod validates a stored period value. Legacy rows use "forever"
// and the empty string for plans without an expiry.
func ParsePlanPeriod(s string) (PlanPeriod, error) {
	switch s {
	case "month":
		return PeriodMonth, nil
	case "year":
		return PeriodYear, nil
	case "none", "forever", "":
		return PeriodNone, nil
	default:
		return "", fmt.Errorf("invalid plan period: %q", s)
	}
}

func (p PlanPeriod) String() string {
	return string(p)
}

// EndDateFrom returns the expiry for a period starting at start, or nil for
// plans that never expire.
func (p PlanPeriod) EndDateFrom(start time.Time) *time.Time {
	var end time.Time
	switch p {
	case PeriodMonth:
		end = start.AddDate(0, 1, 0)
	case PeriodYear:
		end = start.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &end
}
