// Package sqlite provides a SQLite-backed session store for the memory
// service. Each session holds exactly one record, serialized as JSON and
// replaced wholesale on every save.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/reveriegames/reverie/pkg/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Driver implements store.Remote backed by SQLite. It is used on the
// service side; clients reach it through the HTTP API.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (and migrates) a SQLite database at dbPath. The path can
// be ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Load fetches the record for a session.
func (d *Driver) Load(ctx context.Context, sessionID string) (*memory.Record, bool, error) {
	var raw string
	err := d.db.QueryRowContext(ctx,
		"SELECT record FROM sessions WHERE session_id = ?", sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	record := &memory.Record{}
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		return nil, false, fmt.Errorf("parsing session %s: %w", sessionID, err)
	}

	return record, true, nil
}

// Save upserts the record under its session id.
func (d *Driver) Save(ctx context.Context, record *memory.Record) error {
	if record == nil {
		return errors.New("cannot save nil record")
	}
	if record.SessionID == "" {
		return errors.New("record has no session id")
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			record = excluded.record,
			updated_at = excluded.updated_at`,
		record.SessionID, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", record.SessionID, err)
	}

	return nil
}

// Delete removes the session's record. Unknown sessions are a no-op.
func (d *Driver) Delete(ctx context.Context, sessionID string) error {
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE session_id = ?", sessionID,
	); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}

	return nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}
