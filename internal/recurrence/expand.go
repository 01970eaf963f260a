// Package recurrence turns one seed event plus a repeat rule into the bounded,
// date-ordered series of concrete event instances that rule implies.
package recurrence

import (
	"time"

	"github.com/google/uuid"

	"upnext/internal/models"
)

// MaxSeriesInstances caps every expansion regardless of termination mode.
// "Repeat indefinitely" is stored as an open-ended rule but never expanded
// past this many instances; raise the constant rather than removing the cap
// if a longer horizon is ever needed.
const MaxSeriesInstances = 100

// Expand produces the series implied by seed and rule. The seed itself is
// always the first instance; siblings advance the previous instance's date by
// one period and copy every non-date field from the seed. All instances share
// a freshly generated series ID and get fresh event IDs of their own.
//
// A rule with frequency "never" is an identity: the result is just the seed,
// with no series ID. A termination date before the seed's date also yields
// only the seed. Neither case is an error.
func Expand(seed models.Event, rule models.RepeatRule) []models.Event {
	seed.Normalize()

	if rule.Frequency == "" || rule.Frequency == models.RepeatNever {
		seed.SeriesID = nil
		return []models.Event{seed}
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	limit := MaxSeriesInstances
	if c := rule.Termination.Count; c > 0 && c < limit {
		limit = c
	}

	seriesID := uuid.New()
	seed.SeriesID = &seriesID

	var span int // extra days covered by a multi-day seed
	if seed.EndDate != nil {
		span = daysBetween(seed.Date, *seed.EndDate)
	}

	out := make([]models.Event, 0, limit)
	out = append(out, seed)

	cur := seed.Date
	for len(out) < limit {
		cur = advance(cur, rule.Frequency, interval, rule.Unit)
		if until := rule.Termination.Until; until != nil && cur.After(*until) {
			break
		}
		sibling := seed
		sibling.EventID = uuid.New()
		sibling.Date = cur
		if seed.EndDate != nil {
			end := cur.AddDate(0, 0, span)
			sibling.EndDate = &end
		}
		out = append(out, sibling)
	}
	return out
}

// advance moves a date forward by one period of the rule.
func advance(t time.Time, freq models.RepeatOption, interval int, unit models.RepeatUnit) time.Time {
	switch freq {
	case models.RepeatDaily:
		return t.AddDate(0, 0, interval)
	case models.RepeatWeekly:
		return t.AddDate(0, 0, 7*interval)
	case models.RepeatMonthly:
		return addMonthsClamped(t, interval)
	case models.RepeatYearly:
		return addMonthsClamped(t, 12*interval)
	case models.RepeatCustom:
		switch unit {
		case models.UnitWeeks:
			return t.AddDate(0, 0, 7*interval)
		case models.UnitMonths:
			return addMonthsClamped(t, interval)
		case models.UnitYears:
			return addMonthsClamped(t, 12*interval)
		default:
			return t.AddDate(0, 0, interval)
		}
	}
	return t.AddDate(0, 0, interval)
}

// addMonthsClamped adds n calendar months, clamping the day-of-month to the
// target month's length: Jan 31 + 1 month is the last day of February, and
// Feb 29 + 12 months lands on Feb 28 in a non-leap year. This matches how
// calendar apps advance monthly and yearly repeats, unlike time.AddDate,
// which normalizes the overflow into the next month.
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + n
	year += m / 12
	m %= 12
	target := time.Month(m + 1)

	if last := lastDayOfMonth(year, target); day > last {
		day = last
	}
	return time.Date(year, target, day, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(a, b time.Time) int {
	return int(models.DateOnly(b).Sub(models.DateOnly(a)).Hours() / 24)
}
