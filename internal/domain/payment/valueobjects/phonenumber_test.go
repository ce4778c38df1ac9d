package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "254712345678", "254712345678"},
		{"plus prefix", "+254712345678", "254712345678"},
		{"local zero prefix", "0712345678", "254712345678"},
		{"with spaces", " 254 712 345 678 ", "254712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPhoneNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestNewPhoneNumber_Invalid(t *testing.T) {
	tests := []string{
		"",
		"712345678",
		"25571234567",
		"2547123456789",
		"25471234567a",
		"+1 555 123 4567",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := NewPhoneNumber(input)
			assert.Error(t, err)
		})
	}
}

func TestPhoneNumber_Masked(t *testing.T) {
	p, err := NewPhoneNumber("254712345678")
	require.NoError(t, err)
	assert.Equal(t, "254712***678", p.Masked())
}

func TestStatusFromResultCode(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusFromResultCode(0))
	assert.Equal(t, StatusCancelled, StatusFromResultCode(1032))
	assert.Equal(t, StatusPending, StatusFromResultCode(1037))
	assert.Equal(t, StatusFailed, StatusFromResultCode(1))
	assert.Equal(t, StatusFailed, StatusFromResultCode(2001))
}
