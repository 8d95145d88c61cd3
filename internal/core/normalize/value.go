package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money coerces a numeric or string-encoded decimal to float64. Anything that
// does not parse, including NaN and infinities, is 0.
func Money(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return parseDecimal(n.String())
	case string:
		return parseDecimal(n)
	case decimal.Decimal:
		return n.InexactFloat64()
	default:
		return 0
	}
}

// Int coerces v like Money and truncates toward zero.
func Int(v any) int {
	return int(Money(v))
}

func parseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// String returns v as a string, formatting numbers, or fallback when v is
// absent or not scalar.
func String(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fallback
	}
}

// Bool accepts booleans, "true"/"1"/"yes" strings and non-zero numbers.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	default:
		return Money(v) != 0
	}
}

// Field returns the first non-nil value among keys.
func Field(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Text is String over the first present key, falling back to "".
func Text(rec map[string]any, keys ...string) string {
	return String(Field(rec, keys...), "")
}
