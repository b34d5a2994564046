package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar format used for every date leaving the API,
// e.g. "Mon Jan 01 2024".
const DateLayout = "Mon Jan 02 2006"

// maxEpochMillis bounds numeric dates to ±100,000,000 days around the epoch.
const maxEpochMillis = 8.64e15

// dateLayouts are tried in order for non-numeric input. All of them are
// locale independent; ambiguous forms such as 01/02/2006 are not accepted.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
	"Mon Jan 2 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006/01/02",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate converts raw exercise-date input into a canonical day.
//
//	""           → today (relative to now)
//	"   "        → rejected
//	"1609459200000" → milliseconds since the Unix epoch
//	"1.6094592e12"  → same, any finite number is accepted
//	"2024-01-31" → parsed with one of dateLayouts
//
// Fractional milliseconds are truncated toward zero. The result is always
// truncated to UTC midnight.
func NormalizeDate(raw string, now time.Time) (time.Time, bool) {
	if raw == "" {
		return TruncateDay(now), true
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(ms) || ms > maxEpochMillis || ms < -maxEpochMillis {
			return time.Time{}, false
		}
		return TruncateDay(time.UnixMilli(int64(ms))), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), true
		}
	}
	return time.Time{}, false
}

// ParseBound is the lenient variant used for from/to query bounds: absent or
// unparseable input means "no bound" and is never an error.
func ParseBound(raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	return NormalizeDate(raw, time.Time{})
}

// TruncateDay drops the time of day, returning UTC midnight of t's UTC date.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t at day granularity using DateLayout.
func FormatDate(t time.Time) string {
	return TruncateDay(t).Format(DateLayout)
}
