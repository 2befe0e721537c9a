package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/maelqr/ecomeet/core/model"
	"github.com/maelqr/ecomeet/core/storage"
)

// SQLiteStore persists events and participants in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS events (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
    CREATE TABLE IF NOT EXISTS participants (
        id TEXT PRIMARY KEY,
        event_id TEXT NOT NULL REFERENCES events(id),
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        join_mode TEXT NOT NULL,
        active INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_participants_event ON participants(event_id);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// CreateEvent inserts an event and any participants listed on it.
func (s *SQLiteStore) CreateEvent(ctx context.Context, ev model.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, name, lon, lat) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.Name, ev.Location.Lon, ev.Location.Lat); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, p := range ev.Participants {
		if err := insertParticipant(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// CreateParticipant inserts a participant.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p model.Participant) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insertParticipant(ctx, tx, p); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertParticipant(ctx context.Context, tx *sql.Tx, p model.Participant) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO participants (id, event_id, lon, lat, join_mode, active) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.Location.Lon, p.Location.Lat, string(p.JoinMode), boolToInt(p.Active))
	return err
}

// GetEvent loads an event with its full participant set.
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var ev model.Event
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, lon, lat FROM events WHERE id = ?`, id).
		Scan(&ev.ID, &ev.Name, &ev.Location.Lon, &ev.Location.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, fmt.Errorf("store: event %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return model.Event{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, lon, lat, join_mode, active FROM participants WHERE event_id = ? ORDER BY id`, id)
	if err != nil {
		return model.Event{}, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var p model.Participant
		var mode string
		var active int
		if err := rows.Scan(&p.ID, &p.EventID, &p.Location.Lon, &p.Location.Lat, &mode, &active); err != nil {
			return model.Event{}, err
		}
		p.JoinMode = model.JoinMode(mode)
		p.Active = active != 0
		ev.Participants = append(ev.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// SetParticipantActive flips the live-connection flag.
func (s *SQLiteStore) SetParticipantActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE participants SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("store: participant %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
