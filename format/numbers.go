package format

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Currency renders a dollar amount with thousands separators. Whole amounts
// drop the cents, fractional amounts keep two decimal places.
func Currency(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	cents := math.Round((v - float64(whole)) * 100)
	if cents >= 100 {
		whole++
		cents = 0
	}

	s := "$" + groupThousands(whole)
	if cents > 0 {
		s = fmt.Sprintf("%s.%02d", s, int64(cents))
	}
	if neg {
		s = "-" + s
	}
	return s
}

// Count renders an integer with thousands separators.
func Count(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

// Percent renders a rate with a trailing percent sign, trimming a
// trailing ".0".
func Percent(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s + "%"
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// currencyKey reports whether a summary field holds a money amount.
func currencyKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, marker := range []string{"revenue", "expense", "income", "amount", "volume", "notional", "value"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// percentKey reports whether a summary field holds a rate.
func percentKey(key string) bool {
	lowered := strings.ToLower(key)
	return strings.Contains(lowered, "rate") || strings.Contains(lowered, "percent")
}

// fieldValue renders one summary or record value according to its key.
// Counts stay unseparated here; the prompt reader handles plain integers
// better than localized ones.
func fieldValue(key string, v any) string {
	switch n := v.(type) {
	case float64:
		switch {
		case currencyKey(key):
			return Currency(n)
		case percentKey(key):
			return Percent(n)
		case n == math.Trunc(n):
			return fmt.Sprintf("%d", int64(n))
		default:
			return fmt.Sprintf("%.2f", n)
		}
	case int:
		if currencyKey(key) {
			return Currency(float64(n))
		}
		return fmt.Sprintf("%d", n)
	case int64:
		if currencyKey(key) {
			return Currency(float64(n))
		}
		return fmt.Sprintf("%d", n)
	case string:
		return n
	case bool:
		return fmt.Sprintf("%t", n)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", n)
	}
}

// humanizeKey turns a camelCase field name into an upper-case label:
// "totalActiveCustomers" -> "TOTAL ACTIVE CUSTOMERS".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
