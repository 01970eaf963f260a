package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"upnext/internal/ai"
	"upnext/internal/format"
	"upnext/internal/store"
)

type Handlers struct {
	api        *tgbotapi.BotAPI
	store      *store.Store
	ai         *ai.Client
	windowDays int

	// notifyScheduler pokes the notification loop after mutations; wired by
	// the composition root, nil in tests.
	notifyScheduler func()
}

func New(api *tgbotapi.BotAPI, st *store.Store, aiClient *ai.Client, windowDays int, notifyScheduler func()) *Handlers {
	return &Handlers{
		api:             api,
		store:           st,
		ai:              aiClient,
		windowDays:      windowDays,
		notifyScheduler: notifyScheduler,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.store.GetOrCreateAccount(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.Printf("Failed to get/create account: %v", err)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "add":
		h.handleAdd(ctx, msg)
	case "upcoming":
		h.handleUpcoming(ctx, msg)
	case "all":
		h.handleAll(ctx, msg)
	case "edit":
		h.handleEdit(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	case "notify":
		h.handleNotify(ctx, msg)
	case "category":
		h.handleCategory(ctx, msg)
	case "categories":
		h.handleCategories(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	default:
		h.sendText(msg.Chat.ID, "Unknown command, see /help")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.store.GetOrCreateAccount(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.Printf("Failed to get/create account: %v", err)
		return
	}

	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) notify() {
	if h.notifyScheduler != nil {
		h.notifyScheduler()
	}
}

func (h *Handlers) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendRendered(chatID int64, rendered format.Message) {
	msg := tgbotapi.NewMessage(chatID, rendered.Text)
	msg.Entities = rendered.Entities
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	text := `👋 Hi ` + msg.From.FirstName + `!

I keep track of the dates you don't want to sneak up on you: birthdays, trips, deadlines, renewals.

• /add 2026-03-05 Dentist — record an event
• /upcoming — what's ahead, grouped by month
• just tell me "team offsite next friday" and I'll figure it out

See /help for everything.`
	h.sendText(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	b := &format.Builder{}
	b.Text("📖 ").Bold("Commands").Text(`

`).Bold("Events").Text(`
/add <date> <title> [options] — add an event
    date: YYYY-MM-DD, today, or tomorrow
    options: end=YYYY-MM-DD  cat=Name
             repeat=daily|weekly|monthly|yearly|N-days|N-weeks|N-months|N-years
             until=YYYY-MM-DD  count=N
/upcoming [category] — events ahead, grouped by month
/all — every event, numbered
/edit <n> [new title] [options] — edit event n from /all
/delete <n> — delete event n (asks about the series if it repeats)
/notify <n> on|off — toggle the event's notifications
/export — download everything as an .ics calendar

`).Bold("Categories").Text(`
/categories — list categories
/category add <name> [#RRGGBB]
/category rename <old> <new>
/category color <name> <#RRGGBB>
/category move <name> <position>
/category del <name>

💡 Plain messages work too: "dentist appointment March 5".`)
	h.sendRendered(msg.Chat.ID, b.Message())
}
