package interception

import (
	"errors"
	"fmt"
)

var (
	// Proxy binding errors
	ErrNilTarget   = errors.New("interception: target instance is nil")
	ErrNilExecutor = errors.New("interception: chain executor is nil")

	// Call context errors
	ErrArgumentOutOfRange = errors.New("interception: argument position out of range")
)

// Phase identifies which hook of an interceptor failed
type Phase string

const (
	PhaseBefore    Phase = "before"
	PhaseAfter     Phase = "after"
	PhaseOnError   Phase = "on-error"
	PhaseTransform Phase = "transform"
)

// HookError reports the failure of a single interceptor hook.
// The wrapped operation's own failure is never a HookError; it is
// surfaced to the caller unchanged.
type HookError struct {
	Phase       Phase
	Interceptor string
	Op          Operation
	Err         error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("interceptor %s: %s hook failed for %s: %v", e.Interceptor, e.Phase, e.Op, e.Err)
}

// Unwrap returns the underlying hook failure
func (e *HookError) Unwrap() error {
	return e.Err
}
