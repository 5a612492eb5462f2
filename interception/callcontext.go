package interception

import (
	"fmt"
	"sync"
)

// Operation identifies an intercepted operation on a service
type Operation struct {
	Service string
	Name    string
}

// String returns the qualified operation name
func (o Operation) String() string {
	if o.Service == "" {
		return o.Name
	}
	return o.Service + "." + o.Name
}

// CallContext carries the state of a single intercepted invocation.
// It is created per call, shared by every interceptor in that call's
// chain, and discarded when the call settles.
type CallContext struct {
	target     any
	targetType string
	op         Operation
	args       []any

	mu     sync.RWMutex
	result any
	err    error
	items  map[string]any
}

// NewCallContext creates a call context for one invocation.
// The argument list is fixed at creation.
func NewCallContext(target any, op Operation, args ...any) *CallContext {
	return &CallContext{
		target:     target,
		targetType: fmt.Sprintf("%T", target),
		op:         op,
		args:       args,
		items:      make(map[string]any),
	}
}

// Target returns the concrete instance the call is bound to.
// The context holds a reference only; it does not own the target.
func (c *CallContext) Target() any {
	return c.target
}

// TargetType returns the concrete type name of the target
func (c *CallContext) TargetType() string {
	return c.targetType
}

// Operation returns the operation descriptor for this call
func (c *CallContext) Operation() Operation {
	return c.op
}

// ArgCount returns the number of arguments the call was made with
func (c *CallContext) ArgCount() int {
	return len(c.args)
}

// Argument returns the argument at the given position
func (c *CallContext) Argument(pos int) (any, error) {
	if pos < 0 || pos >= len(c.args) {
		return nil, fmt.Errorf("%w: position %d of %d arguments", ErrArgumentOutOfRange, pos, len(c.args))
	}
	return c.args[pos], nil
}

// Arg returns the argument at the given position asserted to T
func Arg[T any](c *CallContext, pos int) (T, error) {
	var zero T
	v, err := c.Argument(pos)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("argument %d of %s is %T, not %T", pos, c.op, v, zero)
	}
	return typed, nil
}

// SetResult marks the call as successfully settled with the given
// value. Result and error are mutually exclusive; setting a result
// clears any previously recorded error.
func (c *CallContext) SetResult(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = v
	c.err = nil
}

// Result returns the call result, if one has been recorded
func (c *CallContext) Result() (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, false
	}
	return c.result, c.result != nil
}

// SetError marks the call as failed. Setting an error clears any
// previously recorded result.
func (c *CallContext) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	c.result = nil
}

// Err returns the call failure, if one has been recorded
func (c *CallContext) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Set stores a call-scoped value in the item bag
func (c *CallContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Get retrieves a call-scoped value from the item bag
func (c *CallContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, exists := c.items[key]
	return value, exists
}

// GetString retrieves a string value from the item bag
func (c *CallContext) GetString(key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// Delete removes a value from the item bag
func (c *CallContext) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
