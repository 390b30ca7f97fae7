package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// maxSafeInt is the largest integer a JSON number round-trips exactly.
const maxSafeInt = 1<<53 - 1

// ValidTimestamp reports whether ms survives a JSON round trip and would be
// kept by Normalize.
func ValidTimestamp(ms int64) bool {
	return ms >= -maxSafeInt && ms <= maxSafeInt
}

// UniqueID returns base if it is not taken, otherwise the first free
// base-1, base-2, ...
func UniqueID(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// coerceString renders scalar JSON values as strings. Objects, arrays and
// null give "".
func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// asFloat reports v as a finite float64 when it is a JSON number.
func asFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
