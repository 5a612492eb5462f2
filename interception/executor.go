package interception

import (
	"context"
	"errors"
	"log/slog"
)

// ProceedFunc represents the real, un-intercepted operation. It honors
// context cancellation; a suspending operation simply blocks the
// calling goroutine, which the runtime parks without pinning a thread.
type ProceedFunc func(ctx context.Context) (any, error)

// ChainExecutor sequences interceptors around a real call. It holds
// references to interceptors through registrations supplied at
// construction; it does not own them, and registrations do not change
// for the lifetime of the executor. Concurrent calls are safe: all
// per-call state lives in the CallContext.
type ChainExecutor struct {
	registrations []*Registration
	logger        *slog.Logger
}

// NewChainExecutor creates a chain executor over the given registrations
func NewChainExecutor(logger *slog.Logger, registrations ...*Registration) *ChainExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChainExecutor{
		registrations: registrations,
		logger:        logger,
	}
}

// HasInterceptors reports whether any registration applies to the
// operation. Callers use it to skip context allocation entirely on the
// zero-interceptor fast path.
func (e *ChainExecutor) HasInterceptors(op Operation) bool {
	for _, reg := range e.registrations {
		if reg.Matches(op) {
			return true
		}
	}
	return false
}

// Execute runs the applicable interceptors around proceed.
//
// On success the result is folded through each interceptor's
// TransformResult in ascending order, then AfterInvoke runs in
// descending order, mirroring a call-stack unwind. On failure, or when
// a Before hook fails (the real call then never runs), OnError runs on
// every applicable interceptor in ascending order and the original
// failure is returned unchanged. Hook failures in the After and OnError
// phases are aggregated and logged; they never mask the call's own
// outcome. Context cancellation surfaces as the context error, not a
// generic failure.
func (e *ChainExecutor) Execute(ctx context.Context, call *CallContext, proceed ProceedFunc) (any, error) {
	chain := applicable(e.registrations, call.Operation())
	if len(chain) == 0 {
		return proceed(ctx)
	}

	for _, ic := range chain {
		if err := ic.BeforeInvoke(ctx, call); err != nil {
			hookErr := &HookError{Phase: PhaseBefore, Interceptor: ic.Name(), Op: call.Operation(), Err: err}
			return nil, e.fail(ctx, call, chain, hookErr)
		}
	}

	// A cancellation requested before the real call settles must
	// surface as cancellation, never as a success.
	if err := ctx.Err(); err != nil {
		return nil, e.fail(ctx, call, chain, err)
	}

	result, err := proceed(ctx)
	if err != nil {
		return nil, e.fail(ctx, call, chain, err)
	}
	call.SetResult(result)

	// Pipelined transformation: each interceptor sees the previous
	// interceptor's output, not the original result.
	out := result
	for _, ic := range chain {
		next, terr := ic.TransformResult(ctx, call, out)
		if terr != nil {
			hookErr := &HookError{Phase: PhaseTransform, Interceptor: ic.Name(), Op: call.Operation(), Err: terr}
			return nil, e.fail(ctx, call, chain, hookErr)
		}
		out = next
		call.SetResult(out)
	}

	var hookErrs []error
	for i := len(chain) - 1; i >= 0; i-- {
		if aerr := chain[i].AfterInvoke(ctx, call); aerr != nil {
			hookErrs = append(hookErrs, &HookError{Phase: PhaseAfter, Interceptor: chain[i].Name(), Op: call.Operation(), Err: aerr})
		}
	}
	if len(hookErrs) > 0 {
		e.logger.Error("after hooks failed",
			"operation", call.Operation().String(),
			"error", errors.Join(hookErrs...),
		)
	}

	return out, nil
}

// fail drives the failure path: record the error, notify every
// interceptor, and return the original failure unchanged. A hook
// failing during notification never stops the fan-out and never
// replaces cause.
func (e *ChainExecutor) fail(ctx context.Context, call *CallContext, chain []Interceptor, cause error) error {
	call.SetError(cause)

	var hookErrs []error
	for _, ic := range chain {
		if herr := ic.OnError(ctx, call); herr != nil {
			hookErrs = append(hookErrs, &HookError{Phase: PhaseOnError, Interceptor: ic.Name(), Op: call.Operation(), Err: herr})
		}
	}
	if len(hookErrs) > 0 {
		e.logger.Error("error hooks failed",
			"operation", call.Operation().String(),
			"cause", cause,
			"error", errors.Join(hookErrs...),
		)
	}

	return cause
}
