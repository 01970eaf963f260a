// Package grouping builds the month → relative-date-bucket → events structure
// the display layer renders. It is a read-side transformation: no mutation,
// deterministic for a given "today", safe to call repeatedly.
package grouping

import (
	"sort"
	"time"

	"upnext/internal/models"
	"upnext/internal/reldate"
)

// Bucket is one relative-date group within a month, e.g. "Tomorrow".
type Bucket struct {
	Label  string
	Events []models.Event

	// offset is the day distance the label represents, used to order buckets
	// chronologically rather than lexically.
	offset int
}

// MonthGroup is one calendar month's worth of buckets.
type MonthGroup struct {
	Month   time.Time // first of the month, the chronological sort key
	Label   string    // "January 2026"
	Buckets []Bucket
}

// ForDisplay filters events to [start of today, windowEnd], optionally to a
// single category (empty string means no filter), and groups them by calendar
// month and relative-date bucket. Months come back ascending; buckets within
// a month are ordered by the date their label stands for; events within a
// bucket are ascending by date. Events whose span covers today collapse into
// a single "Today" bucket whatever their start date.
func ForDisplay(events []models.Event, windowEnd, today time.Time, categoryFilter string) []MonthGroup {
	day := reldate.StartOfDay(today)
	end := reldate.StartOfDay(windowEnd)

	type bucketKey struct {
		month  time.Time
		offset int
	}
	buckets := make(map[bucketKey][]models.Event)

	for _, e := range events {
		if categoryFilter != "" && e.Category != categoryFilter {
			continue
		}
		start := reldate.StartOfDay(e.Date)
		last := reldate.StartOfDay(e.End())
		if !inWindow(start, day, end) && !inWindow(last, day, end) {
			continue
		}

		offset := reldate.DayDiff(e.Date, today)
		if !start.After(day) && !last.Before(day) {
			// Live span: the event is running today.
			offset = 0
		}

		key := bucketKey{month: firstOfMonth(e.Date), offset: offset}
		buckets[key] = append(buckets[key], e)
	}

	byMonth := make(map[time.Time][]Bucket)
	for key, evs := range buckets {
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Date.Before(evs[j].Date) })
		label := reldate.Label(day.AddDate(0, 0, key.offset), today)
		byMonth[key.month] = append(byMonth[key.month], Bucket{
			Label:  label,
			Events: evs,
			offset: key.offset,
		})
	}

	groups := make([]MonthGroup, 0, len(byMonth))
	for month, bs := range byMonth {
		sort.Slice(bs, func(i, j int) bool { return bs[i].offset < bs[j].offset })
		groups = append(groups, MonthGroup{
			Month:   month,
			Label:   month.Format("January 2006"),
			Buckets: bs,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Month.Before(groups[j].Month) })
	return groups
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
