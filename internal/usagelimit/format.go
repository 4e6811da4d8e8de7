package usagelimit

import (
	"fmt"
	"math"
	"time"
)

// FormatResetTime renders the time left until resetAt as "42m", "3h" or
// "1h 35m", rounding minutes up. It returns "" for a nil or past reset.
func FormatResetTime(resetAt *time.Time, now time.Time) string {
	if resetAt == nil {
		return ""
	}
	diff := resetAt.Sub(now)
	if diff <= 0 {
		return ""
	}

	mins := int(math.Ceil(diff.Minutes()))
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	hours, rem := mins/60, mins%60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// IsLimitReached reports whether either usage window is exhausted.
func IsLimitReached(d Data) bool {
	return isFull(d.FiveHour) || isFull(d.SevenDay)
}

func isFull(pct *int) bool {
	return pct != nil && *pct == 100
}
