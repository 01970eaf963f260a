package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/models"
)

func on(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayKey(e models.Event, day time.Time) string {
	return fmt.Sprintf("%s@%s", e.EventID, day.Format("2006-01-02"))
}

func TestDueNotifications(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)

	today := models.NewEvent("Dentist", on(2026, 6, 10))
	tomorrow := models.NewEvent("Rent", on(2026, 6, 11))
	nextWeek := models.NewEvent("Trip", on(2026, 6, 17))
	yesterday := models.NewEvent("Gone", on(2026, 6, 9))
	muted := models.NewEvent("Quiet", on(2026, 6, 10))
	muted.NotificationsEnabled = false

	tests := []struct {
		name     string
		events   []models.Event
		notified map[string]time.Time
		want     []string
	}{
		{
			"today and tomorrow are due, the rest are not",
			[]models.Event{nextWeek, today, yesterday, tomorrow},
			map[string]time.Time{},
			[]string{"Dentist", "Rent"},
		},
		{
			"already-sent marker for today skips the event",
			[]models.Event{today, tomorrow},
			map[string]time.Time{dayKey(today, on(2026, 6, 10)): now},
			[]string{"Rent"},
		},
		{
			"yesterday's marker does not suppress today's reminder",
			[]models.Event{tomorrow},
			map[string]time.Time{dayKey(tomorrow, on(2026, 6, 9)): now.AddDate(0, 0, -1)},
			[]string{"Rent"},
		},
		{
			"disabled notifications are never due",
			[]models.Event{muted},
			map[string]time.Time{},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := dueNotifications(tt.events, tt.notified, now)

			var titles []string
			for _, p := range due {
				titles = append(titles, p.event.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestDueNotificationsKeyCarriesDeliveryDay(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	e := models.NewEvent("Dentist", on(2026, 6, 11))

	due := dueNotifications([]models.Event{e}, map[string]time.Time{}, now)
	require.Len(t, due, 1)
	assert.Equal(t, dayKey(e, on(2026, 6, 10)), due[0].key,
		"the marker is keyed by the day the message goes out")

	// Marking it and re-running the same day yields nothing; the next day
	// (the event day itself) it is due again under a fresh key.
	notified := map[string]time.Time{due[0].key: now}
	assert.Empty(t, dueNotifications([]models.Event{e}, notified, now))

	nextDay := now.AddDate(0, 0, 1)
	due = dueNotifications([]models.Event{e}, notified, nextDay)
	require.Len(t, due, 1)
	assert.Equal(t, dayKey(e, on(2026, 6, 11)), due[0].key)
}

func TestPruneNotified(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	notified := map[string]time.Time{
		"fresh":  now.AddDate(0, 0, -1),
		"edge":   now.AddDate(0, 0, -7),
		"stale":  now.AddDate(0, 0, -8),
		"staler": now.AddDate(0, -1, 0),
	}

	changed := pruneNotified(notified, now)
	assert.True(t, changed)
	assert.Equal(t, map[string]time.Time{
		"fresh": now.AddDate(0, 0, -1),
		"edge":  now.AddDate(0, 0, -7),
	}, notified)

	assert.False(t, pruneNotified(notified, now),
		"a second pass over fresh markers changes nothing")
}
