package domain

import "time"

// TimestampLayout is the ISO-8601 form used for every sort key written by the
// panel. Fixed millisecond width keeps lexicographic order chronological.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
