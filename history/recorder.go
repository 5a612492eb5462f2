package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no record answers a query, or when the
// entity was deleted at the requested point in time.
var ErrNotFound = errors.New("history: no record found")

// Recorder is the sink for history records
type Recorder interface {
	// Add appends a record for an entity and returns it
	Add(ctx context.Context, entityID, entityType string, action Action, snapshot any, actor string) (*Record, error)

	// GetAll returns every record for an entity, newest first
	GetAll(ctx context.Context, entityID string) ([]*Record, error)

	// GetAtPointInTime returns the entity snapshot as of the given
	// time: the latest record at or before it. A delete record is a
	// tombstone; the entity is absent until a later create.
	GetAtPointInTime(ctx context.Context, entityID string, at time.Time) (json.RawMessage, error)
}

// MemoryRecorder is an in-memory, append-only recorder. Safe for
// concurrent use.
type MemoryRecorder struct {
	mu      sync.RWMutex
	records map[string][]*Record
}

// NewMemoryRecorder creates an empty in-memory recorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		records: make(map[string][]*Record),
	}
}

// Add implements Recorder
func (r *MemoryRecorder) Add(ctx context.Context, entityID, entityType string, action Action, snapshot any, actor string) (*Record, error) {
	record, err := NewRecord(entityID, entityType, action, snapshot, actor)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[entityID] = append(r.records[entityID], record)
	return record, nil
}

// GetAll implements Recorder
func (r *MemoryRecorder) GetAll(ctx context.Context, entityID string) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[entityID]
	result := make([]*Record, len(stored))
	for i, rec := range stored {
		result[len(stored)-1-i] = rec
	}
	return result, nil
}

// GetAtPointInTime implements Recorder
func (r *MemoryRecorder) GetAtPointInTime(ctx context.Context, entityID string, at time.Time) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[entityID]
	for i := len(stored) - 1; i >= 0; i-- {
		rec := stored[i]
		if rec.Timestamp.After(at) {
			continue
		}
		if rec.Action == ActionDelete {
			return nil, ErrNotFound
		}
		return rec.Snapshot, nil
	}
	return nil, ErrNotFound
}
