// Package biztime provides business timezone helpers. All storage and
// transport use UTC; the business timezone (Nairobi for M-Pesa) is only used
// where the gateway protocol or display requires local time.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Africa/Nairobi"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to Africa/Nairobi.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with the
// default timezone if Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToBizTimezone converts a UTC time to business timezone for display or
// protocol fields that require local time.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// DarajaTimestamp formats a time as the YYYYMMDDHHmmss string the Daraja API
// expects, in business timezone. The same string feeds the STK password hash.
func DarajaTimestamp(t time.Time) string {
	return t.In(Location()).Format("20060102150405")
}

// ParseDarajaTimestamp parses a Daraja YYYYMMDDHHmmss value (as delivered in
// callback metadata) as business local time and returns the UTC equivalent.
func ParseDarajaTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation("20060102150405", s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid daraja timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
