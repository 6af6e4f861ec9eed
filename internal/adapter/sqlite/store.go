// Package sqlite persists operator test events and alarm state in a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

const alarmStateKey = "alarm_state"

// ErrEmptyMessage is returned when a test event has no text to extract from.
var ErrEmptyMessage = errors.New("test event message is empty")

// Store implements the pipeline's TestEventStore and AlarmStore.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewStore opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, clock: clockwork.NewRealClock()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS test_events (
			id TEXT PRIMARY KEY,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			direction REAL,
			source TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_test_events_created_at ON test_events(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddTestEvent stores a test note. The ID and CreatedAt are filled in when
// empty; the stored event is returned.
func (s *Store) AddTestEvent(ctx context.Context, ev domain.TestEvent) (domain.TestEvent, error) {
	ev.Message = strings.TrimSpace(ev.Message)
	if ev.Message == "" {
		return domain.TestEvent{}, ErrEmptyMessage
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.clock.Now()
	}
	ev.CreatedAt = ev.CreatedAt.UTC().Truncate(time.Millisecond)

	var direction sql.NullFloat64
	if ev.Direction != nil {
		direction = sql.NullFloat64{Float64: *ev.Direction, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO test_events (id, message, type, direction, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Message, ev.Type, direction, ev.Source, ev.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return domain.TestEvent{}, fmt.Errorf("insert test event: %w", err)
	}
	return ev, nil
}

// ListTestEvents returns every stored test note, oldest first.
func (s *Store) ListTestEvents(ctx context.Context) ([]domain.TestEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, type, direction, source, created_at FROM test_events ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query test events: %w", err)
	}
	defer rows.Close()

	var out []domain.TestEvent
	for rows.Next() {
		var (
			ev        domain.TestEvent
			direction sql.NullFloat64
			createdMs int64
		)
		if err := rows.Scan(&ev.ID, &ev.Message, &ev.Type, &direction, &ev.Source, &createdMs); err != nil {
			return nil, fmt.Errorf("scan test event: %w", err)
		}
		if direction.Valid {
			d := direction.Float64
			ev.Direction = &d
		}
		ev.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test events: %w", err)
	}
	return out, nil
}

// ClearTestEvents deletes every test note and reports how many were removed.
func (s *Store) ClearTestEvents(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM test_events`)
	if err != nil {
		return 0, fmt.Errorf("clear test events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear test events: %w", err)
	}
	return n, nil
}

// LoadAlarmState returns the persisted alarm state. The bool is false when
// nothing has been saved yet.
func (s *Store) LoadAlarmState(ctx context.Context) (domain.AlarmSnapshot, bool, error) {
	raw, ok, err := s.setting(ctx, alarmStateKey)
	if err != nil || !ok {
		return domain.AlarmSnapshot{}, false, err
	}
	var snap domain.AlarmSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return domain.AlarmSnapshot{}, false, fmt.Errorf("decode alarm state: %w", err)
	}
	return snap, true, nil
}

// SaveAlarmState replaces the persisted alarm state.
func (s *Store) SaveAlarmState(ctx context.Context, snap domain.AlarmSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode alarm state: %w", err)
	}
	return s.setSetting(ctx, alarmStateKey, string(raw))
}

func (s *Store) setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
