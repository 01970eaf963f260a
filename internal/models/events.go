package models

import (
	"sort"

	"github.com/google/uuid"
)

// Operations over a user's full event list. All of these are pure: they copy
// rather than mutate, so callers can load a list, transform it, and persist
// the result.

// SortByDate orders events ascending by start date.
func SortByDate(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// DeleteOne removes exactly the event with the given ID.
func DeleteOne(events []Event, id uuid.UUID) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.EventID != id {
			out = append(out, e)
		}
	}
	return out
}

// DeleteUpcoming removes the target and every later instance of its series
// (same SeriesID, date on or after the target's). A target without a series
// degrades to DeleteOne.
func DeleteUpcoming(events []Event, target Event) []Event {
	if target.SeriesID == nil {
		return DeleteOne(events, target.EventID)
	}
	pivot := DateOnly(target.Date)
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.SeriesID != nil && *e.SeriesID == *target.SeriesID && !DateOnly(e.Date).Before(pivot) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// DeleteSeries removes every instance sharing the series marker.
func DeleteSeries(events []Event, seriesID uuid.UUID) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.SeriesID != nil && *e.SeriesID == seriesID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ReplaceSeries removes the old event (and, if it belongs to a series, all of
// that series) and merges the freshly expanded replacement instances in,
// keeping the list date-ordered. This is the edit path for recurring events:
// repeat-field changes regenerate the whole series from the edited seed.
func ReplaceSeries(events []Event, old Event, replacement []Event) []Event {
	var remaining []Event
	if old.SeriesID != nil {
		remaining = DeleteSeries(events, *old.SeriesID)
	} else {
		remaining = DeleteOne(events, old.EventID)
	}
	return SortByDate(append(remaining, replacement...))
}

// FindEvent returns the event with the given ID.
func FindEvent(events []Event, id uuid.UUID) (Event, bool) {
	for _, e := range events {
		if e.EventID == id {
			return e, true
		}
	}
	return Event{}, false
}

// FilterCategory keeps events whose category name matches exactly. Stale
// names left behind by a category deletion match nothing once the category
// list no longer contains them; the caller decides which names are offered.
func FilterCategory(events []Event, name string) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Category == name {
			out = append(out, e)
		}
	}
	return out
}
