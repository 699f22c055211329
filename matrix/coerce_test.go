package matrix

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceQty(t *testing.T) {
	testCases := []struct {
		raw      any
		expected int
	}{
		{nil, 0},
		{"", 0},
		{"   ", 0},
		{"0", 0},
		{"25", 25},
		{" 25 ", 25},
		{"25.99", 25},
		{"-7", 0},
		{"1e3", 1},
		{"2E2", 2},
		{json.Number("1e3"), 1000},
		{1e3, 1000},
		{"12abc", 12},
		{"abc12", 0},
		{12, 12},
		{-1, 0},
		{int64(9), 9},
		{3.99, 3},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{json.Number("42"), 42},
		{decimal.RequireFromString("8.5"), 8},
		{"99999999999999999999", math.MaxInt32},
		{true, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, CoerceQty(tc.raw), "input %#v", tc.raw)
	}
}

func TestCoercePrice(t *testing.T) {
	testCases := []struct {
		raw      any
		expected string
		ok       bool
	}{
		{"100", "100", true},
		{"12.345", "12.35", true},
		{12.5, "12.5", true},
		{0, "0", true},
		{"0", "0", true},
		{"", "0", false},
		{"abc", "0", false},
		{-3, "0", false},
		{"-0.01", "0", false},
		{nil, "0", false},
		{math.NaN(), "0", false},
		{json.Number("7.1"), "7.1", true},
	}

	for _, tc := range testCases {
		got, ok := CoercePrice(tc.raw)
		assert.Equal(t, tc.expected, got.String(), "input %#v", tc.raw)
		assert.Equal(t, tc.ok, ok, "input %#v", tc.raw)
	}
}
