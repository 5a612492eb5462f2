// Package history is the reference consumer of the interception
// engine: an interceptor that records before/after snapshots of
// repository-shaped operations (Add, Update, Remove) as append-only
// history records.
//
// The flow for one audited call:
//   - BeforeInvoke: for Update/Remove, fetch the entity's current
//     persisted state through the repository's own read side
//     (EntityLoader) and stash it in the call's item bag
//   - AfterInvoke: derive {snapshot, action} from the call result (Add)
//     or the stashed prior state (Update/Remove) and forward a Record
//     to the Recorder
//
// So a Create records the entity as written, while an Update or Delete
// records the state the entity had before the change. Recorder
// failures are logged inside the interceptor and never abort the
// already-committed primary operation.
//
// Recorders:
//   - MemoryRecorder: mutex-guarded in-memory store
//   - SQLiteRecorder: single append-only SQLite table
//   - PublishingRecorder: decorator that also publishes each record as
//     JSON, e.g. through amqppub to a RabbitMQ exchange
//
// GetAtPointInTime reconstructs an entity at a timestamp from the
// latest record at or before it; a delete record is a tombstone until
// a later create.
package history
