package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount   float64
		code     string
		expected string
	}{
		{1234.5, "EUR", "EUR 1,234.50"},
		{99, "usd", "USD 99.00"},
		{12000, "JPY", "JPY 12,000"},
		{1500000, "CHF", "CHF 1,500,000.00"},
		{-42.129, "GBP", "-GBP 42.13"},
		{0, "EUR", "EUR 0.00"},
		{10.5, "???", "??? 10.50"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.amount, tt.code))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("EUR"))
	assert.False(t, Valid("EURO"))
	assert.False(t, Valid(""))
}
