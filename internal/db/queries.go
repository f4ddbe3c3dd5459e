package db

import (
	"crypto/rand"
	"database/sql"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/spark/internal/errors"
)

// Preference keys.
const (
	PrefEmotion         = "emotion"
	PrefLastWeather     = "last_weather"
	PrefLocationAllowed = "location_permission"
)

// GetPreference returns the stored value for key. ok is false when unset.
func GetPreference(db *sql.DB, key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetPreference upserts key.
func SetPreference(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.Exec(query, key, value, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// UnlockEvent is one row of the append-only unlock history.
type UnlockEvent struct {
	ID         string `json:"id"`
	EntryID    string `json:"entry_id"`
	Title      string `json:"title"`
	UnlockedAt int64  `json:"unlocked_at"`
	RecordedAt int64  `json:"recorded_at"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newEventID(now time.Time) (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RecordUnlock appends an unlock event. ID and RecordedAt are filled in when empty.
func RecordUnlock(db *sql.DB, ev *UnlockEvent) error {
	now := time.Now()
	if ev.ID == "" {
		id, err := newEventID(now)
		if err != nil {
			return errors.NewInternal(err)
		}
		ev.ID = id
	}
	if ev.RecordedAt == 0 {
		ev.RecordedAt = now.Unix()
	}

	query := `
		INSERT INTO unlock_events (id, entry_id, title, unlocked_at, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.Exec(query, ev.ID, ev.EntryID, ev.Title, ev.UnlockedAt, ev.RecordedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListUnlocksFilters narrows ListUnlocks.
type ListUnlocksFilters struct {
	EntryID *string
}

// ListUnlocks returns unlock events, most recent first, plus the total matching count.
func ListUnlocks(db *sql.DB, filters ListUnlocksFilters, limit, offset int) ([]UnlockEvent, int, error) {
	where := ""
	var args []any
	if filters.EntryID != nil {
		where = " WHERE entry_id = ?"
		args = append(args, *filters.EntryID)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlock_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT id, entry_id, title, unlocked_at, recorded_at FROM unlock_events` + where +
		` ORDER BY unlocked_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	events := []UnlockEvent{}
	for rows.Next() {
		var ev UnlockEvent
		if err := rows.Scan(&ev.ID, &ev.EntryID, &ev.Title, &ev.UnlockedAt, &ev.RecordedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return events, total, nil
}
