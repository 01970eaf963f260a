// Package reldate renders dates relative to a reference day. Everything works
// at calendar-day granularity: two timestamps on the same day compare equal,
// whatever their time-of-day. All functions are pure and take "today"
// explicitly so callers (and tests) control the reference point.
package reldate

import (
	"fmt"
	"time"
)

const dateLayout = "Jan 2, 2006"

// StartOfDay returns midnight of t's calendar day, in UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayDiff returns the number of calendar days from today to date. Positive
// means the date is still ahead.
func DayDiff(date, today time.Time) int {
	return int(StartOfDay(date).Sub(StartOfDay(today)).Hours() / 24)
}

// Label produces the short relative label for a date: "Today", "Tomorrow",
// "Yesterday", "in N days", or "N days ago".
func Label(date, today time.Time) string {
	switch diff := DayDiff(date, today); {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff == -1:
		return "Yesterday"
	case diff > 1:
		return fmt.Sprintf("in %d days", diff)
	default:
		return fmt.Sprintf("%d days ago", -diff)
	}
}

// FormatDate renders the short absolute form, e.g. "Mar 5, 2026".
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// TimeRemaining renders the longer "time remaining" string for an event that
// starts on start and optionally runs through end.
//
// With no end date it falls back to the relative label. A future event shows
// its date (or "start → end" range) with the inclusive day span in
// parentheses; an event that has already started shows the days remaining
// through its last day instead, e.g. "(3 days left)". A range wholly in the
// past reads "(ended)".
func TimeRemaining(start time.Time, end *time.Time, today time.Time) string {
	if end == nil {
		return Label(start, today)
	}

	last := *end
	if StartOfDay(last).Before(StartOfDay(start)) {
		last = start
	}

	if DayDiff(start, today) > 0 {
		span := DayDiff(last, start) + 1
		return fmt.Sprintf("%s (%s)", formatRange(start, last), pluralDays(span, ""))
	}

	left := DayDiff(last, today) + 1
	if left < 1 {
		return fmt.Sprintf("%s (ended)", formatRange(start, last))
	}
	return fmt.Sprintf("%s (%s)", formatRange(start, last), pluralDays(left, " left"))
}

// formatRange collapses a same-day range into a single date.
func formatRange(start, end time.Time) string {
	if StartOfDay(start).Equal(StartOfDay(end)) {
		return FormatDate(start)
	}
	return FormatDate(start) + " → " + FormatDate(end)
}

func pluralDays(n int, suffix string) string {
	if n == 1 {
		return fmt.Sprintf("1 day%s", suffix)
	}
	return fmt.Sprintf("%d days%s", n, suffix)
}
