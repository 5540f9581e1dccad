package retrieval

import (
	"strings"
	"time"
)

// ParseDatePhrase extracts an inclusive lower-bound date from the fixed
// English phrases the product recognizes: "today", "last week" and
// "last month". Anything else returns ok=false. Arbitrary ranges, fiscal
// periods and timezones are a known limitation; boundaries are UTC.
func ParseDatePhrase(query string, now time.Time) (time.Time, bool) {
	lowered := strings.ToLower(query)
	now = now.UTC()

	switch {
	case strings.Contains(lowered, "last month"):
		return now.AddDate(0, -1, 0), true
	case strings.Contains(lowered, "last week"):
		return now.AddDate(0, 0, -7), true
	case strings.Contains(lowered, "today"):
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
