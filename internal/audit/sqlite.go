package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/casefile/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id        TEXT PRIMARY KEY,
	matter_id TEXT NOT NULL,
	type      TEXT NOT NULL,
	category  TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	actor     TEXT NOT NULL,
	message   TEXT NOT NULL,
	details   TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_events_matter ON audit_events(matter_id, timestamp);
`

// SQLiteStore persists events in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, event model.AuditEvent) error {
	var details []byte
	if len(event.Details) > 0 {
		var err error
		if details, err = json.Marshal(event.Details); err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO audit_events (id, matter_id, type, category, timestamp, actor, message, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.MatterID, string(event.Type), string(event.Category),
		event.Timestamp.UTC().Format(time.RFC3339Nano), event.Actor, event.Message, nullable(details),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, matterID string) ([]model.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, matter_id, type, category, timestamp, actor, message, details
		FROM audit_events WHERE matter_id = ? ORDER BY timestamp, rowid`, matterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.AuditEvent
	for rows.Next() {
		var (
			e       model.AuditEvent
			ts      string
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.MatterID, &e.Type, &e.Category, &ts, &e.Actor, &e.Message, &details); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("audit event %s: bad timestamp: %w", e.ID, err)
		}
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
				return nil, fmt.Errorf("audit event %s: bad details: %w", e.ID, err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context, matterID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM audit_events WHERE matter_id = ?`, matterID); err != nil {
		return fmt.Errorf("failed to clear audit events: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
