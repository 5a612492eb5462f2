package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action represents the kind of change a record captures
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Record is one append-only history entry for an entity. For creates
// the snapshot is the entity as written; for updates and deletes it is
// the state the entity had before the change.
type Record struct {
	ID         string          `json:"id"`
	EntityID   string          `json:"entityId"`
	EntityType string          `json:"entityType"`
	Action     Action          `json:"action"`
	Timestamp  time.Time       `json:"timestamp"`
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	Actor      string          `json:"actor,omitempty"`
}

// NewRecord creates a history record with a fresh ID and timestamp.
// The snapshot is serialized at creation so later mutations of the
// entity cannot rewrite history.
func NewRecord(entityID, entityType string, action Action, snapshot any, actor string) (*Record, error) {
	var raw json.RawMessage
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot for %s %s: %w", entityType, entityID, err)
		}
		raw = data
	}

	return &Record{
		ID:         uuid.NewString(),
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		Timestamp:  time.Now().UTC(),
		Snapshot:   raw,
		Actor:      actor,
	}, nil
}
