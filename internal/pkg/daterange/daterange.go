// Package daterange normalizes the inclusive date bounds accepted by the
// usage-log endpoints into full sort-key timestamps.
package daterange

const bareDateLen = len("2006-01-02")

// StartOfDay expands a bare YYYY-MM-DD date to the first millisecond of that
// day. Anything else, including the empty string, is returned unchanged.
func StartOfDay(s string) string {
	if len(s) == bareDateLen {
		return s + "T00:00:00.000Z"
	}
	return s
}

// EndOfDay expands a bare YYYY-MM-DD date to the last millisecond of that day.
func EndOfDay(s string) string {
	if len(s) == bareDateLen {
		return s + "T23:59:59.999Z"
	}
	return s
}

// Contains reports whether ts falls within [start, end]. Bounds are compared as
// strings; an empty bound is open.
func Contains(ts, start, end string) bool {
	if start != "" && ts < start {
		return false
	}
	if end != "" && ts > end {
		return false
	}
	return true
}

// Inverted reports whether both bounds are set and start sorts after end.
func Inverted(start, end string) bool {
	return start != "" && end != "" && start > end
}
