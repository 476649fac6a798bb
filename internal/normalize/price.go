// Package normalize turns loosely shaped extraction output into canonical
// order data. Every function here is lenient: unexpected shapes produce
// defaults, never errors.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonNumeric matches everything that cannot be part of a plain decimal.
	nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

	// leadingFloat matches the longest decimal prefix of a stripped string.
	leadingFloat = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)`)
)

// NormalizePrice coerces a price-like value into a float64.
//
// Numbers are returned unchanged. Strings are stripped down to digits, dots
// and minus signs and the leading decimal is parsed, so "$12.34" becomes
// 12.34. Anything else, including nil, NaN and unparsable strings, yields 0.
func NormalizePrice(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		f = parseLenient(n.String())
	case string:
		f = parseLenient(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeQuantity coerces a quantity-like value into a count of at least 1.
func NormalizeQuantity(v any) int {
	q := math.Trunc(NormalizePrice(v))
	if q < 1 || q > math.MaxInt32 {
		return 1
	}
	return int(q)
}

func parseLenient(s string) float64 {
	s = nonNumeric.ReplaceAllString(strings.TrimSpace(s), "")
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}
