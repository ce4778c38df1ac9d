package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// Safaricom MSISDN in international format without a plus sign.
var phonePattern = regexp.MustCompile(`^254\d{9}$`)

// PhoneNumber is a normalized Kenyan mobile number (2547XXXXXXXX).
type PhoneNumber struct {
	value string
}

// NewPhoneNumber normalizes and validates a Kenyan phone number. It accepts
// the common user-entered shapes (07XX..., +2547XX..., 2547XX...) and always
// stores the 254-prefixed form Daraja expects.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	v := strings.TrimSpace(raw)
	v = strings.ReplaceAll(v, " ", "")
	v = strings.TrimPrefix(v, "+")
	if strings.HasPrefix(v, "0") && len(v) == 10 {
		v = "254" + v[1:]
	}
	if !phonePattern.MatchString(v) {
		return PhoneNumber{}, fmt.Errorf("invalid phone number: must be a Kenyan number in 254XXXXXXXXX format")
	}
	return PhoneNumber{value: v}, nil
}

func (p PhoneNumber) String() string {
	return p.value
}

// Masked returns the number with the middle digits hidden, for logs.
func (p PhoneNumber) Masked() string {
	if len(p.value) != 12 {
		return p.value
	}
	return p.value[:6] + "***" + p.value[9:]
}
