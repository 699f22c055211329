package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestINR(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"999.5", "₹999.50"},
		{"1000", "₹1,000.00"},
		{"123456.789", "₹1,23,456.79"},
		{"1234567", "₹12,34,567.00"},
		{"100000000", "₹10,00,00,000.00"},
		{"-1500", "-₹1,500.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, INR(decimal.RequireFromString(tc.input)))
		})
	}
}

func TestQty(t *testing.T) {
	assert.Equal(t, "0", Qty(0))
	assert.Equal(t, "950", Qty(950))
	assert.Equal(t, "1,500", Qty(1500))
	assert.Equal(t, "12,00,000", Qty(1200000))
	assert.Equal(t, "-12,345", Qty(-12345))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "", Date(""))
	assert.Equal(t, "05/03/2025", Date("2025-03-05"))
	assert.Equal(t, "31/12/2024", Date("2024-12-31T18:30:00Z"))
	assert.Equal(t, "next week", Date("next week"))
}
