// Package store persists each user's data as JSON blobs in Postgres: one
// "events" blob, one "categories" blob, and a "notified" blob the scheduler
// uses for delivery bookkeeping. Callers decode, transform with the pure
// model operations, and save the result back whole.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"upnext/internal/database"
	"upnext/internal/models"
)

const (
	keyEvents     = "events"
	keyCategories = "categories"
	keyNotified   = "notified"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// GetOrCreateAccount registers the user on first contact.
func (s *Store) GetOrCreateAccount(ctx context.Context, userID int64, username string) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO account (user_id, username) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, username,
	)
	return err
}

// AccountIDs lists every registered user, for scheduler sweeps.
func (s *Store) AccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT user_id FROM account ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Events loads the user's event list. A missing blob is an empty list; a blob
// that fails to decode is logged and treated as empty rather than failing the
// caller.
func (s *Store) Events(ctx context.Context, userID int64) ([]models.Event, error) {
	var events []models.Event
	if err := s.load(ctx, userID, keyEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) SaveEvents(ctx context.Context, userID int64, events []models.Event) error {
	return s.save(ctx, userID, keyEvents, events)
}

// Categories loads the user's category list in its saved (user-chosen) order.
func (s *Store) Categories(ctx context.Context, userID int64) ([]models.Category, error) {
	var categories []models.Category
	if err := s.load(ctx, userID, keyCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) SaveCategories(ctx context.Context, userID int64, categories []models.Category) error {
	return s.save(ctx, userID, keyCategories, categories)
}

// Notified loads the scheduler's sent-notification markers, keyed by
// event ID plus notification day.
func (s *Store) Notified(ctx context.Context, userID int64) (map[string]time.Time, error) {
	notified := make(map[string]time.Time)
	if err := s.load(ctx, userID, keyNotified, &notified); err != nil {
		return nil, err
	}
	if notified == nil {
		notified = make(map[string]time.Time)
	}
	return notified, nil
}

func (s *Store) SaveNotified(ctx context.Context, userID int64, notified map[string]time.Time) error {
	return s.save(ctx, userID, keyNotified, notified)
}

func (s *Store) load(ctx context.Context, userID int64, key string, dest any) error {
	var raw []byte
	err := s.db.Pool.QueryRow(ctx,
		`SELECT value FROM blob WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("Discarding undecodable %q blob for user %d: %v", key, userID, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, userID int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO blob (user_id, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		userID, key, raw,
	)
	return err
}
