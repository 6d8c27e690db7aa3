package sampler

import (
	"fmt"
	"math/rand"
	"time"

	"orgseed/internal/shared"
)

const (
	// TimestampLayout is the fixed-precision timestamp format used
	// across the store.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the date-only format used for due dates.
	DateLayout = "2006-01-02"
)

// RandomTimestamp draws a uniform integer day offset in
// [minDaysAgo, maxDaysAgo] inclusive and returns "now minus that many
// days" as a timestamp string. The time-of-day component comes from the
// wall clock at the moment of the call, not from the random stream.
func RandomTimestamp(r *rand.Rand, maxDaysAgo, minDaysAgo int) string {
	daysAgo := IntBetween(r, minDaysAgo, maxDaysAgo)
	return time.Now().AddDate(0, 0, -daysAgo).Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp string back to a [time.Time].
// A malformed input indicates an internal contract violation and is
// fatal upstream.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", shared.ErrInvalidTimestamp, ts)
	}
	return t, nil
}

// AddDays offsets a timestamp string by the given number of days.
func AddDays(ts string, days int) (string, error) {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(TimestampLayout), nil
}

// AddHours offsets a timestamp string by the given number of hours.
func AddHours(ts string, hours int) (string, error) {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(hours) * time.Hour).Format(TimestampLayout), nil
}

// DateOnly truncates a timestamp string to its date component.
func DateOnly(ts string) (string, error) {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
