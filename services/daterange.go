package services

import (
	"time"

	"doctrack/backend/progress-service/models"
)

const defaultWindowDays = 30

// Layouts accepted for the from/to query parameters.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// ResolveDateRange normalizes caller-supplied from/to strings into a
// valid, ordered, inclusive window. Missing or unparseable values fall
// back rather than error: to defaults to now, from defaults to 30 days
// before to, and an inverted range discards from and recomputes it from
// to. It never fails.
func ResolveDateRange(from, to string) models.DateRange {
	return resolveDateRangeAt(from, to, time.Now())
}

func resolveDateRangeAt(from, to string, now time.Time) models.DateRange {
	end := now
	if t, ok := parseDate(to); ok {
		end = t
	}

	start := end.AddDate(0, 0, -defaultWindowDays)
	if t, ok := parseDate(from); ok {
		start = t
	}

	if start.After(end) {
		start = end.AddDate(0, 0, -defaultWindowDays)
	}

	return models.DateRange{From: start, To: end}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
