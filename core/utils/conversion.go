package utils

import (
	"strconv"
	"strings"
)

// ParseSKU converts a raw SKU column value to an integer key.
// It handles integer types, strings and byte slices. Non-numeric values (including
// decimals such as "12.5" and blanks) are rejected with ok=false.
func ParseSKU(val any) (sku int64, ok bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	case string:
		return parseDigits(v)
	case []byte:
		return parseDigits(string(v))
	default:
		return 0, false
	}
}

// FormatSKU renders a SKU as the string key used to join source and destination.
func FormatSKU(sku int64) string {
	return strconv.FormatInt(sku, 10)
}

func parseDigits(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
