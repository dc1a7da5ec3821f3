package utils

import (
	"fmt"
	"strings"
	"time"
)

// effectiveDateLayouts are tried in order when parsing a price list effective date
var effectiveDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01-02-2006 15:04:05", // Backend fallback format
	"01-02-2006",
}

// ParseEffectiveDate parses the effective date formats the backend and the AWS price list emit
func ParseEffectiveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty effective date")
	}
	for _, layout := range effectiveDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized effective date %q", s)
}

// FormatEffectiveDate renders an effective date as MM-DD-YYYY HH:MM:SS.
// Unparseable values are returned unchanged.
func FormatEffectiveDate(s string) string {
	t, err := ParseEffectiveDate(s)
	if err != nil {
		return s
	}
	return t.Format("01-02-2006 15:04:05")
}

// IsRecent reports whether t is later than the given number of days before now
func IsRecent(t, now time.Time, days int) bool {
	return t.After(now.AddDate(0, 0, -days))
}
