package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"upnext/internal/format"
	"upnext/internal/grouping"
	"upnext/internal/models"
	"upnext/internal/recurrence"
	"upnext/internal/reldate"
)

// handleAIMessage turns a free-text message into an event operation.
func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	if h.ai == nil {
		h.sendText(msg.Chat.ID, "I only understand commands right now; see /help. (Natural-language input needs an AI key configured.)")
		return
	}

	intent, err := h.ai.ParseIntent(ctx, msg.Text)
	if err != nil {
		log.Printf("Failed to parse intent: %v", err)
		h.sendText(msg.Chat.ID, "I couldn't work that one out; try /help for the command forms.")
		return
	}

	switch intent.Action {
	case "create_event":
		h.aiCreateEvent(ctx, msg, intent.Parameters, intent.Message)
	case "list_events":
		h.handleUpcomingFiltered(ctx, msg, intent.Parameters["category"])
	case "delete_event":
		h.aiDeleteEvent(ctx, msg, intent.Parameters["number"])
	default:
		reply := intent.Message
		if reply == "" {
			reply = "I track upcoming events; tell me what's happening and when, or see /help."
		}
		h.sendText(msg.Chat.ID, reply)
	}
}

func (h *Handlers) aiCreateEvent(ctx context.Context, msg *tgbotapi.Message, params map[string]string, reply string) {
	title := strings.TrimSpace(params["title"])
	date, err := time.Parse(dayLayout, params["date"])
	if err != nil || title == "" {
		h.sendText(msg.Chat.ID, "I got the idea but not a clear title and date; try /add <date> <title>.")
		return
	}

	seed := models.NewEvent(title, date)
	if v, err := time.Parse(dayLayout, params["end_date"]); err == nil {
		end := models.DateOnly(v)
		seed.EndDate = &end
	}
	if cat := strings.TrimSpace(params["category"]); cat != "" {
		seed.Category = cat
	}
	switch params["repeat"] {
	case "daily":
		seed.RepeatOption = models.RepeatDaily
	case "weekly":
		seed.RepeatOption = models.RepeatWeekly
	case "monthly":
		seed.RepeatOption = models.RepeatMonthly
	case "yearly":
		seed.RepeatOption = models.RepeatYearly
	}
	if v, err := time.Parse(dayLayout, params["repeat_until"]); err == nil {
		until := models.DateOnly(v)
		seed.RepeatUntil = &until
	}
	seed.Normalize()

	series := recurrence.Expand(seed, seed.Rule())
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
	if reply != "" {
		b.Text(reply + "\n")
	}
	b.Text("✅ ").Bold(seed.Title).Text(" · " + reldate.TimeRemaining(seed.Date, seed.EndDate, time.Now()))
	if seed.IsRecurring() {
		b.Text(fmt.Sprintf("\n🔄 %s (%d dates)", format.RepeatSummary(seed), len(series)))
	}
	h.sendRendered(msg.Chat.ID, b.Message())
}

func (h *Handlers) aiDeleteEvent(ctx context.Context, msg *tgbotapi.Message, number string) {
	if number == "" {
		h.sendText(msg.Chat.ID, "Which one? Give me the number from /all.")
		return
	}
	// Reuse the command path, including the series-policy keyboard.
	fake := *msg
	fake.Text = "/delete " + number
	fake.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/delete")}}
	h.handleDelete(ctx, &fake)
}

func (h *Handlers) handleUpcomingFiltered(ctx context.Context, msg *tgbotapi.Message, categoryFilter string) {
	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your events, please try again.")
		return
	}
	now := time.Now()
	groups := grouping.ForDisplay(events, now.AddDate(0, 0, h.windowDays), now, categoryFilter)
	h.sendRendered(msg.Chat.ID, format.RenderGroups(groups, now))
}
