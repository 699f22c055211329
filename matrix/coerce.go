package matrix

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var maxQty = decimal.NewFromInt(math.MaxInt32)

// CoerceQty turns raw cell input into a quantity. Empty or non-numeric input
// is 0, fractions are truncated, negatives are clamped to 0 and a leading
// integer prefix is honoured ("12 pcs" is 12). Text is never read in
// exponent form: "1e3" is 1.
func CoerceQty(raw any) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		return max(v, 0)
	case int32:
		return max(int(v), 0)
	case int64:
		return qtyFromDecimal(decimal.NewFromInt(v))
	case float32:
		return CoerceQty(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return qtyFromDecimal(decimal.NewFromFloat(v))
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0
		}
		return qtyFromDecimal(d)
	case decimal.Decimal:
		return qtyFromDecimal(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if strings.ContainsAny(s, "eE") {
			return qtyFromDecimal(leadingInt(s))
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return qtyFromDecimal(d)
		}
		return qtyFromDecimal(leadingInt(s))
	default:
		return 0
	}
}

func qtyFromDecimal(d decimal.Decimal) int {
	d = d.Truncate(0)
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxQty) {
		d = maxQty
	}
	return int(d.IntPart())
}

// leadingInt parses an optional sign followed by digits and ignores the rest.
func leadingInt(s string) decimal.Decimal {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s[:end])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CoercePrice turns raw price input into a unit price with at most two
// decimals. ok is false when the input had to be replaced by 0 (empty,
// non-numeric or negative); a caller may surface that as a warning.
func CoercePrice(raw any) (price decimal.Decimal, ok bool) {
	var d decimal.Decimal
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		d = v
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float32:
		return CoercePrice(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		return CoercePrice(v.String())
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

func normalizePrice(d decimal.Decimal) decimal.Decimal {
	p, _ := CoercePrice(d)
	return p
}
