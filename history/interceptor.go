package history

import (
	"context"
	"log/slog"

	"github.com/glimte/intercept-go/interception"
)

// Repository-shaped operation names the interceptor reacts to
const (
	opAdd    = "Add"
	opUpdate = "Update"
	opRemove = "Remove"
)

// priorStateKey is the item-bag key for the pre-change snapshot. The
// bag is call-scoped, so the stashed state dies with the call.
const priorStateKey = "intercept:history:prior"

var _ interception.Interceptor = (*Interceptor)(nil)

// Entity is the keyed-entity capability audited entities expose
type Entity interface {
	EntityID() string
}

// EntityLoader is the read side of the audited repository, used to
// capture an entity's persisted state before it changes.
type EntityLoader interface {
	GetByID(ctx context.Context, id string) (any, error)
}

// Interceptor records a history entry for every repository-shaped
// mutation (Add, Update, Remove). Before an update or remove it
// fetches the current persisted state through the loader and stashes
// it in the call's item bag; after the call succeeds it derives the
// record from the result (Add) or the stashed prior state (Update,
// Remove) and forwards it to the recorder.
//
// Recorder failures never abort the primary operation: by AfterInvoke
// time the real call has already committed, so they are logged and
// swallowed here rather than propagated through the chain.
type Interceptor struct {
	interception.BaseInterceptor
	recorder   Recorder
	loader     EntityLoader
	entityType string
	actor      func(ctx context.Context) string
	logger     *slog.Logger
	order      int
}

// InterceptorOption configures the history interceptor
type InterceptorOption func(*Interceptor)

// WithActor supplies the acting principal recorded on each entry
func WithActor(actor func(ctx context.Context) string) InterceptorOption {
	return func(i *Interceptor) {
		i.actor = actor
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) InterceptorOption {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithOrder sets the interceptor's chain position
func WithOrder(order int) InterceptorOption {
	return func(i *Interceptor) {
		i.order = order
	}
}

// NewInterceptor creates a history interceptor recording changes of
// the given entity type.
func NewInterceptor(recorder Recorder, loader EntityLoader, entityType string, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		recorder:   recorder,
		loader:     loader,
		entityType: entityType,
		actor:      func(context.Context) string { return "" },
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// BeforeInvoke implements interception.Interceptor. For Update and
// Remove it captures the entity's current persisted state. A failed
// capture is logged and the call proceeds; auditing never blocks the
// primary operation.
func (i *Interceptor) BeforeInvoke(ctx context.Context, call *interception.CallContext) error {
	op := call.Operation().Name
	if op != opUpdate && op != opRemove {
		return nil
	}

	id, ok := i.entityID(call)
	if !ok {
		i.logger.Warn("history: cannot derive entity id",
			"operation", call.Operation().String(),
		)
		return nil
	}

	prior, err := i.loader.GetByID(ctx, id)
	if err != nil {
		i.logger.Warn("history: prior state unavailable",
			"operation", call.Operation().String(),
			"entityId", id,
			"error", err,
		)
		return nil
	}
	call.Set(priorStateKey, prior)
	return nil
}

// AfterInvoke implements interception.Interceptor
func (i *Interceptor) AfterInvoke(ctx context.Context, call *interception.CallContext) error {
	var (
		id       string
		action   Action
		snapshot any
		ok       bool
	)

	switch call.Operation().Name {
	case opAdd:
		action = ActionCreate
		snapshot, id, ok = i.createdEntity(call)
	case opUpdate:
		action = ActionUpdate
		snapshot, _ = call.Get(priorStateKey)
		id, ok = i.entityID(call)
	case opRemove:
		action = ActionDelete
		snapshot, _ = call.Get(priorStateKey)
		id, ok = i.entityID(call)
	default:
		return nil
	}
	if !ok {
		return nil
	}

	if _, err := i.recorder.Add(ctx, id, i.entityType, action, snapshot, i.actor(ctx)); err != nil {
		i.logger.Error("history: recording failed",
			"operation", call.Operation().String(),
			"entityId", id,
			"action", string(action),
			"error", err,
		)
	}
	return nil
}

// Order implements interception.Interceptor
func (i *Interceptor) Order() int { return i.order }

// Name implements interception.Interceptor
func (i *Interceptor) Name() string { return "HistoryInterceptor" }

// entityID derives the entity id from the call's first argument:
// the entity itself for Add/Update, the raw id for Remove.
func (i *Interceptor) entityID(call *interception.CallContext) (string, bool) {
	arg, err := call.Argument(0)
	if err != nil {
		return "", false
	}
	switch v := arg.(type) {
	case Entity:
		return v.EntityID(), true
	case string:
		return v, true
	default:
		return "", false
	}
}

// createdEntity resolves the snapshot for an Add: the call result when
// the repository returns the stored entity, otherwise the argument.
func (i *Interceptor) createdEntity(call *interception.CallContext) (any, string, bool) {
	if result, ok := call.Result(); ok {
		if ent, ok := result.(Entity); ok {
			return ent, ent.EntityID(), true
		}
	}
	arg, err := call.Argument(0)
	if err != nil {
		return nil, "", false
	}
	if ent, ok := arg.(Entity); ok {
		return ent, ent.EntityID(), true
	}
	return nil, "", false
}
