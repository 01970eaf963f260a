// Package ics exports a user's events as an iCalendar feed. Recurring series
// are collapsed back to their seed instance and emitted as a single VEVENT
// carrying an RFC 5545 RRULE, so subscribing calendars expand them natively.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"upnext/internal/models"
)

const prodID = "-//upnext//EN"

// stubCalendar is returned for an empty event list; some clients reject a
// VCALENDAR with no components from an encoder round trip.
const stubCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + prodID + "\r\nEND:VCALENDAR\r\n"

// Export encodes the event list as a VCALENDAR. Every series contributes one
// VEVENT (its earliest instance, with the repeat rule attached); standalone
// events contribute one VEVENT each.
func Export(events []models.Event, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for _, e := range seedsOf(events) {
		cal.Children = append(cal.Children, toVEvent(e, now))
	}
	if len(cal.Children) == 0 {
		return []byte(stubCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// seedsOf reduces the expanded list to one representative per series (the
// earliest instance) plus all standalone events, in input order.
func seedsOf(events []models.Event) []models.Event {
	earliest := make(map[uuid.UUID]int)
	var out []models.Event
	for _, e := range events {
		if e.SeriesID == nil {
			out = append(out, e)
			continue
		}
		idx, seen := earliest[*e.SeriesID]
		if !seen {
			earliest[*e.SeriesID] = len(out)
			out = append(out, e)
		} else if e.Date.Before(out[idx].Date) {
			out[idx] = e
		}
	}
	return out
}

func toVEvent(e models.Event, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.EventID.String())
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

	// Events are date-only, so DTSTART/DTEND go out as all-day VALUE=DATE
	// values; a timed UTC midnight would land on the previous day for
	// clients west of UTC.
	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(models.DateOnly(e.Date))
	ve.Props.Set(start)
	// DTEND is exclusive; a single-day event ends the next day.
	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(e.End().AddDate(0, 0, 1))
	ve.Props.Set(end)

	if e.Category != "" {
		ve.Props.SetText(ical.PropCategories, e.Category)
	}
	if rule, ok := RuleString(e); ok {
		p := ical.NewProp(ical.PropRecurrenceRule)
		p.Value = rule
		ve.Props.Set(p)
	}
	return ve
}

// RuleString renders the event's repeat schedule as an RRULE value. The
// second return is false for one-off events and schedules RFC 5545 cannot
// express (there are none today, but the guard keeps export total).
func RuleString(e models.Event) (string, bool) {
	if !e.IsRecurring() {
		return "", false
	}

	opt := rrule.ROption{Interval: 1, Dtstart: models.DateOnly(e.Date)}
	switch e.RepeatOption {
	case models.RepeatDaily:
		opt.Freq = rrule.DAILY
	case models.RepeatWeekly:
		opt.Freq = rrule.WEEKLY
	case models.RepeatMonthly:
		opt.Freq = rrule.MONTHLY
	case models.RepeatYearly:
		opt.Freq = rrule.YEARLY
	case models.RepeatCustom:
		opt.Interval = e.CustomRepeatCount
		if opt.Interval < 1 {
			opt.Interval = 1
		}
		switch e.RepeatUnit {
		case models.UnitWeeks:
			opt.Freq = rrule.WEEKLY
		case models.UnitMonths:
			opt.Freq = rrule.MONTHLY
		case models.UnitYears:
			opt.Freq = rrule.YEARLY
		default:
			opt.Freq = rrule.DAILY
		}
	default:
		return "", false
	}
	if e.RepeatUntil != nil {
		opt.Until = models.DateOnly(*e.RepeatUntil)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", false
	}
	return r.String(), true
}
