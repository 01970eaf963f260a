package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeSeries builds n weekly instances sharing one series marker.
func makeSeries(n int, start time.Time) ([]Event, uuid.UUID) {
	seriesID := uuid.New()
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		e := NewEvent("Standup", start.AddDate(0, 0, 7*i))
		e.RepeatOption = RepeatWeekly
		e.SeriesID = &seriesID
		events = append(events, e)
	}
	return events, seriesID
}

func TestDeleteOne(t *testing.T) {
	events, _ := makeSeries(3, on(2026, 1, 5))
	got := DeleteOne(events, events[1].EventID)

	require.Len(t, got, 2)
	assert.Equal(t, events[0].EventID, got[0].EventID)
	assert.Equal(t, events[2].EventID, got[1].EventID)
}

func TestDeleteUpcoming(t *testing.T) {
	events, seriesID := makeSeries(10, on(2026, 1, 5))

	// Deleting "this and upcoming" at the 4th instance keeps exactly the
	// first three, series marker intact.
	got := DeleteUpcoming(events, events[3])
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, events[i].EventID, e.EventID)
		require.NotNil(t, e.SeriesID)
		assert.Equal(t, seriesID, *e.SeriesID)
	}
}

func TestDeleteUpcomingLeavesOtherSeriesAlone(t *testing.T) {
	a, _ := makeSeries(5, on(2026, 1, 5))
	b, _ := makeSeries(5, on(2026, 1, 6))

	got := DeleteUpcoming(append(a, b...), a[0])
	assert.Len(t, got, 5, "a parallel series with the same repeat option must survive")
}

func TestDeleteUpcomingWithoutSeries(t *testing.T) {
	single := NewEvent("One-off", on(2026, 2, 1))
	other := NewEvent("Other", on(2026, 2, 2))

	got := DeleteUpcoming([]Event{single, other}, single)
	require.Len(t, got, 1)
	assert.Equal(t, other.EventID, got[0].EventID)
}

func TestDeleteSeries(t *testing.T) {
	series, seriesID := makeSeries(4, on(2026, 1, 5))
	loner := NewEvent("Dentist", on(2026, 1, 7))

	got := DeleteSeries(append(series, loner), seriesID)
	require.Len(t, got, 1)
	assert.Equal(t, loner.EventID, got[0].EventID)
}

func TestReplaceSeries(t *testing.T) {
	old, _ := makeSeries(4, on(2026, 1, 5))
	replacement, _ := makeSeries(2, on(2026, 3, 2))
	loner := NewEvent("Dentist", on(2026, 2, 1))

	got := ReplaceSeries(append(old, loner), old[1], replacement)
	require.Len(t, got, 3)
	// Date order is restored after the merge.
	assert.Equal(t, loner.EventID, got[0].EventID)
	assert.Equal(t, replacement[0].EventID, got[1].EventID)
	assert.Equal(t, replacement[1].EventID, got[2].EventID)
}

func TestRenameCategoryCascades(t *testing.T) {
	categories := []Category{
		NewCategory("Work", DefaultColor),
		NewCategory("Home", DefaultColor),
	}
	tagged := NewEvent("Standup", on(2026, 1, 5))
	tagged.Category = "Work"
	other := NewEvent("Laundry", on(2026, 1, 6))
	other.Category = "Home"
	stale := NewEvent("Old offsite", on(2025, 11, 1))
	stale.Category = "Work"

	gotCats, gotEvents := RenameCategory(categories, []Event{tagged, other, stale}, "Work", "Job")

	require.Len(t, gotCats, 2)
	assert.Equal(t, "Job", gotCats[0].Name)
	assert.Equal(t, categories[0].CategoryID, gotCats[0].CategoryID, "rename keeps the category's identity")
	assert.Equal(t, "Job", gotEvents[0].Category)
	assert.Equal(t, "Home", gotEvents[1].Category, "other categories are untouched")
	assert.Equal(t, "Job", gotEvents[2].Category, "every event carrying the old name is updated")
}

func TestRenameCategoryMissingIsNoop(t *testing.T) {
	categories := []Category{NewCategory("Work", DefaultColor)}
	e := NewEvent("Standup", on(2026, 1, 5))
	e.Category = "Work"

	gotCats, gotEvents := RenameCategory(categories, []Event{e}, "Nope", "Job")
	assert.Equal(t, categories, gotCats)
	assert.Equal(t, "Work", gotEvents[0].Category)
}

func TestMoveCategory(t *testing.T) {
	categories := []Category{
		NewCategory("A", DefaultColor),
		NewCategory("B", DefaultColor),
		NewCategory("C", DefaultColor),
	}

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"B", "C", "A"}},
		{"backward", 2, 0, []string{"C", "A", "B"}},
		{"same position", 1, 1, []string{"A", "B", "C"}},
		{"out of range", 0, 5, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveCategory(categories, tt.from, tt.to)
			var names []string
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNormalizeClampsEndDate(t *testing.T) {
	e := NewEvent("Trip", on(2026, 5, 10))
	end := on(2026, 5, 1)
	e.EndDate = &end

	e.Normalize()
	require.NotNil(t, e.EndDate)
	assert.Equal(t, e.Date, *e.EndDate, "an end date before the start clamps to the start")
}

func TestNormalizeClearsSeriesForNonRepeating(t *testing.T) {
	e := NewEvent("Trip", on(2026, 5, 10))
	id := uuid.New()
	e.SeriesID = &id

	e.Normalize()
	assert.Nil(t, e.SeriesID)
}

func TestFilterCategory(t *testing.T) {
	a := NewEvent("Standup", on(2026, 1, 5))
	a.Category = "Work"
	b := NewEvent("Laundry", on(2026, 1, 6))

	got := FilterCategory([]Event{a, b}, "Work")
	require.Len(t, got, 1)
	assert.Equal(t, a.EventID, got[0].EventID)
}
