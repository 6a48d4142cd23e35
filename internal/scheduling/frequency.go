package scheduling

import "strings"

// DefaultIntervalDays is used when a frequency label is not in the canonical
// vocabulary. Callers are expected to validate labels before accepting them;
// the table itself never rejects input.
const DefaultIntervalDays = 30

var intervalByLabel = map[string]int{
	"daily":      1,
	"weekly":     7,
	"biweekly":   15,
	"monthly":    30,
	"bimonthly":  60,
	"quarterly":  90,
	"semiannual": 180,
	"annual":     365,
}

// IntervalDays maps a frequency label to its interval in days. Labels are
// matched case-insensitively; anything outside the canonical vocabulary
// (including the empty string) falls back to DefaultIntervalDays.
func IntervalDays(label string) int {
	if days, ok := intervalByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return days
	}
	return DefaultIntervalDays
}

// KnownLabel reports whether a label belongs to the canonical vocabulary.
func KnownLabel(label string) bool {
	_, ok := intervalByLabel[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Labels returns the canonical frequency vocabulary, ordered by interval.
func Labels() []string {
	return []string{"daily", "weekly", "biweekly", "monthly", "bimonthly", "quarterly", "semiannual", "annual"}
}
