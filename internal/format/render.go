package format

import (
	"fmt"
	"time"

	"upnext/internal/grouping"
	"upnext/internal/models"
	"upnext/internal/reldate"
)

// RenderGroups renders the grouped upcoming-events view: a bold month
// heading, an italic relative-date bucket heading, then one line per event.
func RenderGroups(groups []grouping.MonthGroup, today time.Time) Message {
	if len(groups) == 0 {
		return (&Builder{}).Text("📅 Nothing coming up.").Message()
	}

	b := &Builder{}
	b.Text("📅 ").Bold("Upcoming").Text("\n")
	for _, month := range groups {
		b.Text("\n").Bold(month.Label).Text("\n")
		for _, bucket := range month.Buckets {
			b.Italic(bucket.Label).Text("\n")
			for _, e := range bucket.Events {
				writeEventLine(b, e, today)
			}
		}
	}
	return b.Message()
}

// RenderEventList renders a flat numbered list, used by /all and as the
// target picker for /edit and /delete.
func RenderEventList(events []models.Event, today time.Time) Message {
	if len(events) == 0 {
		return (&Builder{}).Text("📅 No events yet. Add one with /add.").Message()
	}

	b := &Builder{}
	b.Text("📅 ").Bold("All events").Text("\n\n")
	for i, e := range events {
		b.Bold(fmt.Sprintf("%d.", i+1)).Text(" " + e.Title + "\n")
		b.Text("    " + reldate.TimeRemaining(e.Date, e.EndDate, today))
		if e.Category != "" {
			b.Text("  ·  " + e.Category)
		}
		if e.IsRecurring() {
			b.Text("  ·  🔄 " + RepeatSummary(e))
		}
		b.Text("\n")
	}
	return b.Message()
}

func writeEventLine(b *Builder, e models.Event, today time.Time) {
	b.Text("  • " + e.Title)
	if e.Category != "" {
		b.Text("  ·  ").Italic(e.Category)
	}
	b.Text("\n      " + reldate.TimeRemaining(e.Date, e.EndDate, today) + "\n")
}

// RepeatSummary describes an event's repeat schedule in a word or two.
func RepeatSummary(e models.Event) string {
	var s string
	switch e.RepeatOption {
	case models.RepeatDaily:
		s = "daily"
	case models.RepeatWeekly:
		s = "weekly"
	case models.RepeatMonthly:
		s = "monthly"
	case models.RepeatYearly:
		s = "yearly"
	case models.RepeatCustom:
		n := e.CustomRepeatCount
		if n < 1 {
			n = 1
		}
		unit := string(e.RepeatUnit)
		if unit == "" {
			unit = string(models.UnitDays)
		}
		if n == 1 {
			unit = unit[:len(unit)-1] // "every 1 weeks" reads badly
			s = fmt.Sprintf("every %s", unit)
		} else {
			s = fmt.Sprintf("every %d %s", n, unit)
		}
	default:
		return "once"
	}
	if e.RepeatUntil != nil {
		s += " until " + reldate.FormatDate(*e.RepeatUntil)
	}
	return s
}
