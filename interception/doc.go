// Package interception provides a generic method-interception engine:
// cross-cutting behavior (auditing, history tracking, instrumentation)
// runs around every call of a wrapped service without touching the call
// site or the underlying implementation.
//
// The pieces:
//   - CallContext: per-invocation record shared by all interceptors in
//     one call (target, operation, arguments, result/error, item bag)
//   - Interceptor: four hooks (BeforeInvoke, AfterInvoke, OnError,
//     TransformResult) plus an integer Order
//   - Registration: binds interceptors to an OperationFilter
//   - ChainExecutor: sequences the applicable interceptors around the
//     real call
//   - Binding: ties a concrete instance to an executor so wrapper types
//     can route each method through the chain
//
// Hook ordering follows stack-nesting semantics. For interceptors
// A(Order=1) and B(Order=2) a successful call runs exactly:
//
//	A.BeforeInvoke, B.BeforeInvoke, <real call>,
//	A.TransformResult, B.TransformResult,
//	B.AfterInvoke, A.AfterInvoke
//
// On failure AfterInvoke never runs; OnError runs on every applicable
// interceptor and the caller receives the original error unchanged.
// Cancellation propagates as the context error, distinct from a
// generic failure.
//
// Wrapping a service:
//
//	exec := interception.NewChainExecutor(logger,
//		interception.NewRegistration(interception.NewLoggingInterceptor(logger, 0)),
//		interception.NewRegistration(audit).
//			WithFilter(interception.NewOperationNameFilter("Remove")),
//	)
//	binding, err := interception.NewBinding(concrete, exec)
//
//	// Wrapper type per service interface:
//	func (p *widgetProxy) Add(ctx context.Context, w Widget) (Widget, error) {
//		return interception.Call(ctx, p.binding, "Add", []any{w},
//			func(ctx context.Context) (Widget, error) {
//				return p.binding.Target().Add(ctx, w)
//			})
//	}
//
// Interceptors holding shared state synchronize it themselves; the
// engine guarantees only that each call gets its own CallContext.
package interception
