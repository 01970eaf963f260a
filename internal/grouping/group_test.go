package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/models"
)

var today = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func on(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func event(title string, date time.Time) models.Event {
	return models.NewEvent(title, date)
}

func windowEnd() time.Time { return today.AddDate(1, 0, 0) }

func TestForDisplayBucketOrder(t *testing.T) {
	// Insertion order deliberately scrambled; output order must be
	// chronological, not lexical ("Tomorrow" before "in 5 days").
	events := []models.Event{
		event("far", on(2026, 6, 15)),
		event("now", on(2026, 6, 10)),
		event("next", on(2026, 6, 11)),
	}

	groups := ForDisplay(events, windowEnd(), today, "")
	require.Len(t, groups, 1)

	var labels []string
	for _, b := range groups[0].Buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Today", "Tomorrow", "in 5 days"}, labels)
}

func TestForDisplayMonthsAscending(t *testing.T) {
	events := []models.Event{
		event("august", on(2026, 8, 3)),
		event("june", on(2026, 6, 20)),
		event("july", on(2026, 7, 1)),
	}

	groups := ForDisplay(events, windowEnd(), today, "")
	require.Len(t, groups, 3)
	assert.Equal(t, "June 2026", groups[0].Label)
	assert.Equal(t, "July 2026", groups[1].Label)
	assert.Equal(t, "August 2026", groups[2].Label)
	assert.Equal(t, on(2026, 7, 1), groups[1].Month)
}

func TestForDisplayWindowFilter(t *testing.T) {
	past := event("gone", on(2026, 6, 1))
	beyond := event("too far", on(2027, 9, 1))
	inside := event("kept", on(2026, 6, 20))
	// Started before today but still running: its end date is in the window.
	running := event("running", on(2026, 6, 5))
	end := on(2026, 6, 12)
	running.EndDate = &end

	groups := ForDisplay([]models.Event{past, beyond, inside, running}, windowEnd(), today, "")

	var titles []string
	for _, g := range groups {
		for _, b := range g.Buckets {
			for _, e := range b.Events {
				titles = append(titles, e.Title)
			}
		}
	}
	assert.ElementsMatch(t, []string{"kept", "running"}, titles)
}

func TestForDisplayLiveSpanCollapsesIntoToday(t *testing.T) {
	running := event("conference", on(2026, 6, 8))
	end := on(2026, 6, 12)
	running.EndDate = &end

	groups := ForDisplay([]models.Event{running}, windowEnd(), today, "")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Buckets, 1)
	assert.Equal(t, "Today", groups[0].Buckets[0].Label,
		"an event whose span covers today buckets under Today, not its start label")
}

func TestForDisplayCategoryFilter(t *testing.T) {
	work := event("standup", on(2026, 6, 11))
	work.Category = "Work"
	home := event("laundry", on(2026, 6, 11))
	home.Category = "Home"

	groups := ForDisplay([]models.Event{work, home}, windowEnd(), today, "Work")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Buckets, 1)
	require.Len(t, groups[0].Buckets[0].Events, 1)
	assert.Equal(t, "standup", groups[0].Buckets[0].Events[0].Title)
}

func TestForDisplayEventsWithinBucketSorted(t *testing.T) {
	// Two events in the same month and bucket ("in 5 days" vs "in 6 days"
	// are different buckets, so use a shared date with different titles and
	// a multi-day companion landing in the same bucket).
	a := event("b-side", on(2026, 6, 15))
	b := event("a-side", on(2026, 6, 15))

	groups := ForDisplay([]models.Event{a, b}, windowEnd(), today, "")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Buckets, 1)
	assert.Len(t, groups[0].Buckets[0].Events, 2)
}

func TestForDisplayIdempotent(t *testing.T) {
	events := []models.Event{
		event("one", on(2026, 6, 10)),
		event("two", on(2026, 6, 15)),
		event("three", on(2026, 7, 2)),
	}

	first := ForDisplay(events, windowEnd(), today, "")
	second := ForDisplay(events, windowEnd(), today, "")
	assert.Equal(t, first, second, "grouping must be a pure read-side transformation")
}

func TestForDisplayEmptyInput(t *testing.T) {
	assert.Empty(t, ForDisplay(nil, windowEnd(), today, ""))
}
