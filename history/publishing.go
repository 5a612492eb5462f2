package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// RecordPublisher pushes serialized history records to an external
// sink, such as an AMQP exchange.
type RecordPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// PublishingRecorder decorates a Recorder, publishing every appended
// record as JSON. Publish failures follow the same policy as recorder
// failures inside the history interceptor: the record is already
// persisted, so they are logged and swallowed.
type PublishingRecorder struct {
	inner     Recorder
	publisher RecordPublisher
	prefix    string
	logger    *slog.Logger
}

// NewPublishingRecorder wraps inner so each record is also published
// under "<prefix>.<entityType>".
func NewPublishingRecorder(inner Recorder, publisher RecordPublisher, prefix string, logger *slog.Logger) *PublishingRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = "history"
	}
	return &PublishingRecorder{
		inner:     inner,
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
	}
}

// Add implements Recorder
func (r *PublishingRecorder) Add(ctx context.Context, entityID, entityType string, action Action, snapshot any, actor string) (*Record, error) {
	record, err := r.inner.Add(ctx, entityID, entityType, action, snapshot, actor)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("history: marshal record for publish",
			"recordId", record.ID,
			"error", err,
		)
		return record, nil
	}
	if err := r.publisher.Publish(ctx, r.prefix+"."+entityType, body); err != nil {
		r.logger.Error("history: publish record",
			"recordId", record.ID,
			"entityId", entityID,
			"error", err,
		)
	}
	return record, nil
}

// GetAll implements Recorder
func (r *PublishingRecorder) GetAll(ctx context.Context, entityID string) ([]*Record, error) {
	return r.inner.GetAll(ctx, entityID)
}

// GetAtPointInTime implements Recorder
func (r *PublishingRecorder) GetAtPointInTime(ctx context.Context, entityID string, at time.Time) (json.RawMessage, error) {
	return r.inner.GetAtPointInTime(ctx, entityID, at)
}
