package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"upnext/internal/format"
	"upnext/internal/grouping"
	"upnext/internal/ics"
	"upnext/internal/models"
	"upnext/internal/recurrence"
	"upnext/internal/reldate"
)

const dayLayout = "2006-01-02"

func (h *Handlers) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendText(msg.Chat.ID, "Usage: /add <date> <title> [options]\nExample: /add 2026-03-05 Dentist repeat=monthly until=2026-12-31")
		return
	}

	now := time.Now()
	date, err := parseDay(args[0], now)
	if err != nil {
		h.sendText(msg.Chat.ID, fmt.Sprintf("I couldn't read %q as a date. Use YYYY-MM-DD, today, or tomorrow.", args[0]))
		return
	}

	opts, err := parseEventOpts(args[1:])
	if err != nil {
		h.sendText(msg.Chat.ID, err.Error())
		return
	}
	if opts.title == "" {
		h.sendText(msg.Chat.ID, "The event needs a title.")
		return
	}

	seed := models.NewEvent(opts.title, date)
	opts.apply(&seed)

	rule := seed.Rule()
	rule.Termination.Count = opts.count
	series := recurrence.Expand(seed, rule)

	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the event, please try again.")
		return
	}
	events = models.SortByDate(append(events, series...))
	if err := h.store.SaveEvents(ctx, msg.From.ID, events); err != nil {
		log.Printf("Failed to save events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the event, please try again.")
		return
	}
	h.notify()

	b := &format.Builder{}
	b.Text("✅ ").Bold(seed.Title).Text(" · " + reldate.TimeRemaining(seed.Date, seed.EndDate, now))
	if seed.IsRecurring() {
		b.Text(fmt.Sprintf("\n🔄 %s (%d dates)", format.RepeatSummary(seed), len(series)))
	}
	h.sendRendered(msg.Chat.ID, b.Message())
}

func (h *Handlers) handleUpcoming(ctx context.Context, msg *tgbotapi.Message) {
	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}

	now := time.Now()
	windowEnd := now.AddDate(0, 0, h.windowDays)
	categoryFilter := strings.TrimSpace(msg.CommandArguments())
	groups := grouping.ForDisplay(events, windowEnd, now, categoryFilter)
	h.sendRendered(msg.Chat.ID, format.RenderGroups(groups, now))
}

func (h *Handlers) handleAll(ctx context.Context, msg *tgbotapi.Message) {
	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	h.sendRendered(msg.Chat.ID, format.RenderEventList(models.SortByDate(events), time.Now()))
}

func (h *Handlers) handleEdit(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendText(msg.Chat.ID, "Usage: /edit <number from /all> [new title] [options]")
		return
	}

	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	sorted := models.SortByDate(events)
	target, ok := eventByNumber(sorted, args[0])
	if !ok {
		h.sendText(msg.Chat.ID, "No event with that number; check /all.")
		return
	}

	opts, err := parseEventOpts(args[1:])
	if err != nil {
		h.sendText(msg.Chat.ID, err.Error())
		return
	}

	edited := target
	opts.apply(&edited)
	if opts.date != nil {
		edited.Date = *opts.date
	}
	edited.Normalize()

	if edited.IsRecurring() || target.IsRecurring() {
		// Repeat semantics may have changed; throw the old series away and
		// expand the edited seed fresh.
		seed := edited
		seed.SeriesID = nil
		rule := seed.Rule()
		rule.Termination.Count = opts.count
		events = models.ReplaceSeries(events, target, recurrence.Expand(seed, rule))
	} else {
		events = models.SortByDate(append(models.DeleteOne(events, target.EventID), edited))
	}

	if err := h.store.SaveEvents(ctx, msg.From.ID, events); err != nil {
		log.Printf("Failed to save events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the changes, please try again.")
		return
	}
	h.notify()

	b := &format.Builder{}
	b.Text("✏️ ").Bold(edited.Title).Text(" · " + reldate.TimeRemaining(edited.Date, edited.EndDate, time.Now()))
	h.sendRendered(msg.Chat.ID, b.Message())
}

func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.sendText(msg.Chat.ID, "Usage: /delete <number from /all>")
		return
	}

	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	target, ok := eventByNumber(models.SortByDate(events), arg)
	if !ok {
		h.sendText(msg.Chat.ID, "No event with that number; check /all.")
		return
	}

	if target.SeriesID == nil {
		remaining := models.DeleteOne(events, target.EventID)
		if err := h.store.SaveEvents(ctx, msg.From.ID, remaining); err != nil {
			log.Printf("Failed to save events: %v", err)
			h.sendText(msg.Chat.ID, "Couldn't delete the event, please try again.")
			return
		}
		h.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Deleted %q.", target.Title))
		return
	}

	// Recurring: ask which slice of the series to remove.
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Only this one", "del:one:"+target.EventID.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("This and upcoming", "del:up:"+target.EventID.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Whole series", "del:all:"+target.EventID.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "del:cancel:"+target.EventID.String()),
		),
	)
	prompt := tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("%q repeats (%s). Delete what?", target.Title, format.RepeatSummary(target)))
	prompt.ReplyMarkup = keyboard
	if _, err := h.api.Send(prompt); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// HandleCallbackQuery resolves the delete-policy keyboard.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	parts := strings.SplitN(callback.Data, ":", 3)
	if len(parts) != 3 || parts[0] != "del" {
		return
	}
	policy := parts[1]
	eventID, err := uuid.Parse(parts[2])
	if err != nil {
		return
	}
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if policy == "cancel" {
		h.editMessageText(chatID, messageID, "Kept everything.")
		return
	}

	userID := callback.From.ID
	events, err := h.store.Events(ctx, userID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		return
	}
	target, ok := models.FindEvent(events, eventID)
	if !ok {
		h.editMessageText(chatID, messageID, "That event is already gone.")
		return
	}

	var remaining []models.Event
	var what string
	switch policy {
	case "one":
		remaining = models.DeleteOne(events, target.EventID)
		what = "that date"
	case "up":
		remaining = models.DeleteUpcoming(events, target)
		what = "that date and everything after it"
	case "all":
		if target.SeriesID != nil {
			remaining = models.DeleteSeries(events, *target.SeriesID)
		} else {
			remaining = models.DeleteOne(events, target.EventID)
		}
		what = "the whole series"
	default:
		return
	}

	if err := h.store.SaveEvents(ctx, userID, remaining); err != nil {
		log.Printf("Failed to save events: %v", err)
		h.editMessageText(chatID, messageID, "Couldn't delete, please try again.")
		return
	}
	h.editMessageText(chatID, messageID, fmt.Sprintf("🗑 Deleted %s of %q.", what, target.Title))
}

func (h *Handlers) handleNotify(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		h.sendText(msg.Chat.ID, "Usage: /notify <number from /all> on|off")
		return
	}

	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	target, ok := eventByNumber(models.SortByDate(events), args[0])
	if !ok {
		h.sendText(msg.Chat.ID, "No event with that number; check /all.")
		return
	}

	for i := range events {
		if events[i].EventID == target.EventID {
			events[i].NotificationsEnabled = args[1] == "on"
		}
	}
	if err := h.store.SaveEvents(ctx, msg.From.ID, events); err != nil {
		log.Printf("Failed to save events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the change, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🔔 Notifications %s for %q.", args[1], target.Title))
}

func (h *Handlers) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	if len(events) == 0 {
		h.sendText(msg.Chat.ID, "Nothing to export yet.")
		return
	}

	data, err := ics.Export(events, time.Now())
	if err != nil {
		log.Printf("Failed to export calendar: %v", err)
		h.sendText(msg.Chat.ID, "Export failed, please try again.")
		return
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "upnext.ics", Bytes: data})
	doc.Caption = "Your events as an iCalendar file."
	if _, err := h.api.Send(doc); err != nil {
		log.Printf("Failed to send document: %v", err)
	}
}

// eventByNumber resolves a 1-based position in the date-sorted list.
func eventByNumber(sorted []models.Event, arg string) (models.Event, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(sorted) {
		return models.Event{}, false
	}
	return sorted[n-1], true
}

func parseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(s) {
	case "today":
		return models.DateOnly(now), nil
	case "tomorrow":
		return models.DateOnly(now).AddDate(0, 0, 1), nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return models.DateOnly(t), nil
}

// eventOpts holds the parsed key=value options shared by /add and /edit.
// Tokens that are not options accumulate into the title.
type eventOpts struct {
	title    string
	date     *time.Time
	endDate  *time.Time
	category string
	repeat   models.RepeatOption
	interval int
	unit     models.RepeatUnit
	until    *time.Time
	count    int
}

func parseEventOpts(tokens []string) (eventOpts, error) {
	var opts eventOpts
	var title []string
	now := time.Now()

	for _, tok := range tokens {
		key, value, isOpt := strings.Cut(tok, "=")
		if !isOpt {
			title = append(title, tok)
			continue
		}
		switch key {
		case "end":
			t, err := parseDay(value, now)
			if err != nil {
				return opts, fmt.Errorf("end=%s is not a date (YYYY-MM-DD)", value)
			}
			opts.endDate = &t
		case "date":
			t, err := parseDay(value, now)
			if err != nil {
				return opts, fmt.Errorf("date=%s is not a date (YYYY-MM-DD)", value)
			}
			opts.date = &t
		case "cat", "category":
			opts.category = value
		case "repeat":
			if err := opts.parseRepeat(value); err != nil {
				return opts, err
			}
		case "until":
			t, err := parseDay(value, now)
			if err != nil {
				return opts, fmt.Errorf("until=%s is not a date (YYYY-MM-DD)", value)
			}
			opts.until = &t
		case "count":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return opts, fmt.Errorf("count=%s is not a positive number", value)
			}
			opts.count = n
		default:
			// Not a recognized option; treat "key=value" as part of the title.
			title = append(title, tok)
		}
	}

	opts.title = strings.Join(title, " ")
	return opts, nil
}

// parseRepeat accepts the named frequencies plus the "N-units" custom form,
// e.g. repeat=2-weeks.
func (o *eventOpts) parseRepeat(value string) error {
	switch value {
	case "never":
		o.repeat = models.RepeatNever
	case "daily":
		o.repeat = models.RepeatDaily
	case "weekly":
		o.repeat = models.RepeatWeekly
	case "monthly":
		o.repeat = models.RepeatMonthly
	case "yearly":
		o.repeat = models.RepeatYearly
	default:
		nStr, unitStr, ok := strings.Cut(value, "-")
		n, err := strconv.Atoi(nStr)
		if !ok || err != nil {
			return fmt.Errorf("repeat=%s is not recognized; see /help", value)
		}
		if n < 1 {
			n = 1
		}
		switch strings.TrimSuffix(unitStr, "s") + "s" {
		case "days":
			o.unit = models.UnitDays
		case "weeks":
			o.unit = models.UnitWeeks
		case "months":
			o.unit = models.UnitMonths
		case "years":
			o.unit = models.UnitYears
		default:
			return fmt.Errorf("repeat=%s is not recognized; see /help", value)
		}
		o.repeat = models.RepeatCustom
		o.interval = n
	}
	return nil
}

func (o eventOpts) apply(e *models.Event) {
	if o.title != "" {
		e.Title = o.title
	}
	if o.endDate != nil {
		e.EndDate = o.endDate
	}
	if o.category != "" {
		e.Category = o.category
	}
	if o.repeat != "" {
		e.RepeatOption = o.repeat
		e.CustomRepeatCount = o.interval
		e.RepeatUnit = o.unit
	}
	if o.until != nil {
		e.RepeatUntil = o.until
	}
	e.Normalize()
}
