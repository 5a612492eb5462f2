package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteRecorder persists history records to a single append-only
// SQLite table with JSON snapshot blobs.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens (creating if needed) a SQLite-backed recorder
// at the given path. Use ":memory:" for an ephemeral database.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		return nil, fmt.Errorf("history: database path cannot be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		action TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		snapshot BLOB,
		actor TEXT
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_entity
		ON history (entity_id, recorded_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history index: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// Add implements Recorder
func (r *SQLiteRecorder) Add(ctx context.Context, entityID, entityType string, action Action, snapshot any, actor string) (*Record, error) {
	record, err := NewRecord(entityID, entityType, action, snapshot, actor)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO history (id, entity_id, entity_type, action, recorded_at, snapshot, actor)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.EntityID, record.EntityType, string(record.Action),
		record.Timestamp.UnixNano(), []byte(record.Snapshot), record.Actor,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history record: %w", err)
	}
	return record, nil
}

// GetAll implements Recorder
func (r *SQLiteRecorder) GetAll(ctx context.Context, entityID string) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity_id, entity_type, action, recorded_at, snapshot, actor
		 FROM history WHERE entity_id = ? ORDER BY recorded_at DESC`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}

// GetAtPointInTime implements Recorder
func (r *SQLiteRecorder) GetAtPointInTime(ctx context.Context, entityID string, at time.Time) (json.RawMessage, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT action, snapshot FROM history
		 WHERE entity_id = ? AND recorded_at <= ?
		 ORDER BY recorded_at DESC LIMIT 1`,
		entityID, at.UnixNano(),
	)

	var action string
	var snapshot []byte
	if err := row.Scan(&action, &snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select point in time: %w", err)
	}
	if Action(action) == ActionDelete {
		return nil, ErrNotFound
	}
	return json.RawMessage(snapshot), nil
}

// Close releases the underlying database handle
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var rec Record
	var action string
	var recordedAt int64
	var snapshot []byte
	if err := rows.Scan(&rec.ID, &rec.EntityID, &rec.EntityType, &action, &recordedAt, &snapshot, &rec.Actor); err != nil {
		return nil, fmt.Errorf("scan history record: %w", err)
	}
	rec.Action = Action(action)
	rec.Timestamp = time.Unix(0, recordedAt).UTC()
	rec.Snapshot = json.RawMessage(snapshot)
	return &rec, nil
}
