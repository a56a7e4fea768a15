package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration as the two most significant calendar-ish
// units, e.g. "2 years, 3 months" or "5 days, 4 hours". Months are 30 days
// and years 365 days; this labels countdowns, it does not schedule them.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}

	type unit struct {
		name string
		span time.Duration
	}
	units := []unit{
		{"year", 365 * 24 * time.Hour},
		{"month", 30 * 24 * time.Hour},
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}

	var parts []string
	remaining := d
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		n := remaining / u.span
		if n == 0 {
			// Keep units adjacent: "2 years, 3 months", never "2 years, 5 hours".
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, pluralize(int64(n), u.name))
		remaining -= n * u.span
	}

	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, ", ")
}

// FormatUntil renders the time remaining until a future instant.
func FormatUntil(t, now time.Time) string {
	return FormatDuration(t.Sub(now))
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
