package models

import (
	"time"

	"github.com/google/uuid"
)

// RepeatOption is the schedule a user picked for an event.
type RepeatOption string

const (
	RepeatNever   RepeatOption = "never"
	RepeatDaily   RepeatOption = "daily"
	RepeatWeekly  RepeatOption = "weekly"
	RepeatMonthly RepeatOption = "monthly"
	RepeatYearly  RepeatOption = "yearly"
	RepeatCustom  RepeatOption = "custom"
)

// RepeatUnit is the period unit for custom repeats ("every 2 weeks").
type RepeatUnit string

const (
	UnitDays   RepeatUnit = "days"
	UnitWeeks  RepeatUnit = "weeks"
	UnitMonths RepeatUnit = "months"
	UnitYears  RepeatUnit = "years"
)

// Color is a display color stored as RGBA components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// DefaultColor is used when the user did not pick one.
var DefaultColor = Color{R: 0.28, G: 0.49, B: 0.91, A: 1}

// Event is a single concrete event instance. Dates are date-only: they are
// normalized to midnight UTC and time-of-day carries no meaning.
type Event struct {
	EventID              uuid.UUID    `json:"event_id"`
	Title                string       `json:"title"`
	Date                 time.Time    `json:"date"`
	EndDate              *time.Time   `json:"end_date,omitempty"`
	Color                Color        `json:"color"`
	Category             string       `json:"category,omitempty"`
	NotificationsEnabled bool         `json:"notifications_enabled"`
	RepeatOption         RepeatOption `json:"repeat_option"`
	RepeatUntil          *time.Time   `json:"repeat_until,omitempty"`
	SeriesID             *uuid.UUID   `json:"series_id,omitempty"`
	CustomRepeatCount    int          `json:"custom_repeat_count,omitempty"`
	RepeatUnit           RepeatUnit   `json:"repeat_unit,omitempty"`
}

// NewEvent creates a one-off event on the given day with defaults applied.
func NewEvent(title string, date time.Time) Event {
	return Event{
		EventID:              uuid.New(),
		Title:                title,
		Date:                 DateOnly(date),
		Color:                DefaultColor,
		NotificationsEnabled: true,
		RepeatOption:         RepeatNever,
	}
}

// DateOnly strips the time-of-day and location from t, keeping the calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsRecurring returns true if this event belongs to a repeat schedule.
func (e *Event) IsRecurring() bool {
	return e.RepeatOption != "" && e.RepeatOption != RepeatNever
}

// End returns the inclusive last day of the event (its start day when no
// end date is set).
func (e *Event) End() time.Time {
	if e.EndDate != nil {
		return DateOnly(*e.EndDate)
	}
	return DateOnly(e.Date)
}

// Normalize repairs authoring-layer mistakes instead of rejecting them:
// dates lose their time-of-day, an end date before the start is clamped to
// the start, and a custom repeat count below 1 becomes 1.
func (e *Event) Normalize() {
	e.Date = DateOnly(e.Date)
	if e.EndDate != nil {
		end := DateOnly(*e.EndDate)
		if end.Before(e.Date) {
			end = e.Date
		}
		e.EndDate = &end
	}
	if e.RepeatUntil != nil {
		until := DateOnly(*e.RepeatUntil)
		e.RepeatUntil = &until
	}
	if e.RepeatOption == RepeatCustom && e.CustomRepeatCount < 1 {
		e.CustomRepeatCount = 1
	}
	if e.RepeatOption == "" {
		e.RepeatOption = RepeatNever
	}
	if e.RepeatOption == RepeatNever {
		e.SeriesID = nil
	}
}

// Termination bounds a repeat series. The zero value means indefinite
// (subject to the expansion safety cap). Count > 0 stops after that many
// instances; Until stops once a generated date passes it.
type Termination struct {
	Count int
	Until *time.Time
}

// RepeatRule is the expanded form of an event's repeat fields.
type RepeatRule struct {
	Frequency   RepeatOption
	Interval    int
	Unit        RepeatUnit // meaningful only for RepeatCustom
	Termination Termination
}

// Rule derives the repeat rule from the event's authored fields. The
// occurrence-count termination is not persisted on the event; callers that
// accept one set Termination.Count on the returned rule.
func (e *Event) Rule() RepeatRule {
	rule := RepeatRule{
		Frequency: e.RepeatOption,
		Interval:  1,
		Unit:      e.RepeatUnit,
	}
	if rule.Frequency == "" {
		rule.Frequency = RepeatNever
	}
	if rule.Frequency == RepeatCustom {
		rule.Interval = e.CustomRepeatCount
		if rule.Interval < 1 {
			rule.Interval = 1
		}
		if rule.Unit == "" {
			rule.Unit = UnitDays
		}
	}
	if e.RepeatUntil != nil {
		until := DateOnly(*e.RepeatUntil)
		rule.Termination.Until = &until
	}
	return rule
}
