// Package scheduler delivers event notifications. The app this service grew
// out of scheduled device-local alerts; here a background loop pushes a
// Telegram message on the morning of each event and the morning before,
// deduplicated through the store's notified blob.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"upnext/internal/format"
	"upnext/internal/models"
	"upnext/internal/reldate"
	"upnext/internal/store"
)

type Scheduler struct {
	api           *tgbotapi.BotAPI
	store         *store.Store
	notifyHour    int
	checkInterval time.Duration
	notifyCh      chan struct{}
}

func New(api *tgbotapi.BotAPI, st *store.Store, notifyHour int) *Scheduler {
	return &Scheduler{
		api:           api,
		store:         st,
		notifyHour:    notifyHour,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := time.Now()
	if now.Hour() < s.notifyHour {
		return
	}

	userIDs, err := s.store.AccountIDs(ctx)
	if err != nil {
		log.Printf("Failed to list accounts: %v", err)
		return
	}
	for _, userID := range userIDs {
		s.checkUser(ctx, userID, now)
	}
}

func (s *Scheduler) checkUser(ctx context.Context, userID int64, now time.Time) {
	events, err := s.store.Events(ctx, userID)
	if err != nil {
		log.Printf("Failed to load events for user %d: %v", userID, err)
		return
	}
	notified, err := s.store.Notified(ctx, userID)
	if err != nil {
		log.Printf("Failed to load notified markers for user %d: %v", userID, err)
		return
	}

	dirty := false
	for _, p := range dueNotifications(events, notified, now) {
		if err := s.send(userID, p.event, now); err != nil {
			log.Printf("Failed to notify user %d about event %s: %v", userID, p.event.EventID, err)
			continue
		}
		notified[p.key] = now
		dirty = true
	}

	if pruneNotified(notified, now) {
		dirty = true
	}
	if dirty {
		if err := s.store.SaveNotified(ctx, userID, notified); err != nil {
			log.Printf("Failed to save notified markers for user %d: %v", userID, err)
		}
	}
}

// pending is an event due for delivery plus the marker key it claims once sent.
type pending struct {
	event models.Event
	key   string
}

// dueNotifications selects the events to announce: notifications enabled,
// starting today or tomorrow, and not already marked under today's key.
// The key ties the event ID to the delivery day, so tomorrow's reminder and
// the event-day one are distinct markers.
func dueNotifications(events []models.Event, notified map[string]time.Time, now time.Time) []pending {
	var due []pending
	for _, e := range events {
		if !e.NotificationsEnabled {
			continue
		}
		diff := reldate.DayDiff(e.Date, now)
		if diff != 0 && diff != 1 {
			continue
		}
		key := fmt.Sprintf("%s@%s", e.EventID, models.DateOnly(now).Format("2006-01-02"))
		if _, sent := notified[key]; sent {
			continue
		}
		due = append(due, pending{event: e, key: key})
	}
	return due
}

func (s *Scheduler) send(userID int64, e models.Event, now time.Time) error {
	b := &format.Builder{}
	if reldate.DayDiff(e.Date, now) == 0 {
		b.Text("🔔 ").Bold(e.Title).Text(" starts today")
	} else {
		b.Text("🔔 ").Bold(e.Title).Text(" starts tomorrow")
	}
	if e.EndDate != nil {
		b.Text("\n" + reldate.TimeRemaining(e.Date, e.EndDate, now))
	}
	if e.Category != "" {
		b.Text("\n").Italic(e.Category)
	}

	rendered := b.Message()
	// Chat ID and user ID coincide for direct chats.
	msg := tgbotapi.NewMessage(userID, rendered.Text)
	msg.Entities = rendered.Entities
	_, err := s.api.Send(msg)
	return err
}

// pruneNotified drops markers older than a week so the blob stays small.
func pruneNotified(notified map[string]time.Time, now time.Time) bool {
	cutoff := now.AddDate(0, 0, -7)
	changed := false
	for key, at := range notified {
		if at.Before(cutoff) {
			delete(notified, key)
			changed = true
		}
	}
	return changed
}
