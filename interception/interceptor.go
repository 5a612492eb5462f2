package interception

import (
	"context"
	"log/slog"
	"time"
)

// Interceptor adds cross-cutting behavior around an intercepted call.
// Hooks run in the order documented on ChainExecutor: BeforeInvoke
// ascending by Order, TransformResult ascending, AfterInvoke
// descending, OnError ascending. An interceptor observes a failure
// through OnError but cannot suppress it; the engine always re-surfaces
// the original error.
type Interceptor interface {
	// BeforeInvoke runs before the real call. A returned error aborts
	// the chain and the real call never runs.
	BeforeInvoke(ctx context.Context, call *CallContext) error

	// AfterInvoke runs after a successful call, once results have been
	// transformed. Its error is logged, never surfaced.
	AfterInvoke(ctx context.Context, call *CallContext) error

	// OnError observes a failed call. The original failure is
	// re-surfaced regardless of what this hook returns.
	OnError(ctx context.Context, call *CallContext) error

	// TransformResult lets the interceptor layer onto the previous
	// interceptor's output. Returning prev unchanged is the no-op.
	TransformResult(ctx context.Context, call *CallContext, prev any) (any, error)

	// Order controls chain position: lower runs earlier in the Before
	// phase and later in the After phase.
	Order() int

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// BaseInterceptor provides no-op defaults for every hook so
// implementations override only what they need. Name is intentionally
// not provided; every interceptor names itself.
type BaseInterceptor struct{}

// BeforeInvoke implements Interceptor
func (BaseInterceptor) BeforeInvoke(ctx context.Context, call *CallContext) error { return nil }

// AfterInvoke implements Interceptor
func (BaseInterceptor) AfterInvoke(ctx context.Context, call *CallContext) error { return nil }

// OnError implements Interceptor
func (BaseInterceptor) OnError(ctx context.Context, call *CallContext) error { return nil }

// TransformResult implements Interceptor
func (BaseInterceptor) TransformResult(ctx context.Context, call *CallContext, prev any) (any, error) {
	return prev, nil
}

// Order implements Interceptor
func (BaseInterceptor) Order() int { return 0 }

// FuncInterceptor is a function adapter for Interceptor. Nil hook
// fields behave as no-ops.
type FuncInterceptor struct {
	name      string
	order     int
	Before    func(ctx context.Context, call *CallContext) error
	After     func(ctx context.Context, call *CallContext) error
	OnFailure func(ctx context.Context, call *CallContext) error
	Transform func(ctx context.Context, call *CallContext, prev any) (any, error)
}

// NewFuncInterceptor creates a new function-based interceptor
func NewFuncInterceptor(name string, order int) *FuncInterceptor {
	return &FuncInterceptor{name: name, order: order}
}

// BeforeInvoke implements Interceptor
func (i *FuncInterceptor) BeforeInvoke(ctx context.Context, call *CallContext) error {
	if i.Before == nil {
		return nil
	}
	return i.Before(ctx, call)
}

// AfterInvoke implements Interceptor
func (i *FuncInterceptor) AfterInvoke(ctx context.Context, call *CallContext) error {
	if i.After == nil {
		return nil
	}
	return i.After(ctx, call)
}

// OnError implements Interceptor
func (i *FuncInterceptor) OnError(ctx context.Context, call *CallContext) error {
	if i.OnFailure == nil {
		return nil
	}
	return i.OnFailure(ctx, call)
}

// TransformResult implements Interceptor
func (i *FuncInterceptor) TransformResult(ctx context.Context, call *CallContext, prev any) (any, error) {
	if i.Transform == nil {
		return prev, nil
	}
	return i.Transform(ctx, call, prev)
}

// Order implements Interceptor
func (i *FuncInterceptor) Order() int { return i.order }

// Name implements Interceptor
func (i *FuncInterceptor) Name() string { return i.name }

// Built-in interceptors

const loggingStartKey = "intercept:logging:start"

// LoggingInterceptor logs every intercepted call with timing information
type LoggingInterceptor struct {
	BaseInterceptor
	logger *slog.Logger
	order  int
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger, order int) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger, order: order}
}

// BeforeInvoke implements Interceptor
func (i *LoggingInterceptor) BeforeInvoke(ctx context.Context, call *CallContext) error {
	call.Set(loggingStartKey, time.Now())
	i.logger.Info("invoking operation",
		"operation", call.Operation().String(),
		"target", call.TargetType(),
		"args", call.ArgCount(),
	)
	return nil
}

// AfterInvoke implements Interceptor
func (i *LoggingInterceptor) AfterInvoke(ctx context.Context, call *CallContext) error {
	i.logger.Info("operation succeeded",
		"operation", call.Operation().String(),
		"duration", i.elapsed(call),
	)
	return nil
}

// OnError implements Interceptor
func (i *LoggingInterceptor) OnError(ctx context.Context, call *CallContext) error {
	i.logger.Error("operation failed",
		"operation", call.Operation().String(),
		"duration", i.elapsed(call),
		"error", call.Err(),
	)
	return nil
}

func (i *LoggingInterceptor) elapsed(call *CallContext) time.Duration {
	if v, ok := call.Get(loggingStartKey); ok {
		if start, ok := v.(time.Time); ok {
			return time.Since(start)
		}
	}
	return 0
}

// Order implements Interceptor
func (i *LoggingInterceptor) Order() int { return i.order }

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string { return "LoggingInterceptor" }

// MetricsCollector defines the interface for collecting call metrics
type MetricsCollector interface {
	IncrementCallCount(operation string)
	RecordDuration(operation string, duration time.Duration)
	IncrementErrorCount(operation string, errorType string)
}

const metricsStartKey = "intercept:metrics:start"

// MetricsInterceptor collects metrics about intercepted calls
type MetricsInterceptor struct {
	BaseInterceptor
	collector MetricsCollector
	order     int
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector, order int) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector, order: order}
}

// BeforeInvoke implements Interceptor
func (i *MetricsInterceptor) BeforeInvoke(ctx context.Context, call *CallContext) error {
	call.Set(metricsStartKey, time.Now())
	i.collector.IncrementCallCount(call.Operation().String())
	return nil
}

// AfterInvoke implements Interceptor
func (i *MetricsInterceptor) AfterInvoke(ctx context.Context, call *CallContext) error {
	i.record(call)
	return nil
}

// OnError implements Interceptor
func (i *MetricsInterceptor) OnError(ctx context.Context, call *CallContext) error {
	i.record(call)
	i.collector.IncrementErrorCount(call.Operation().String(), "invocation_error")
	return nil
}

func (i *MetricsInterceptor) record(call *CallContext) {
	if v, ok := call.Get(metricsStartKey); ok {
		if start, ok := v.(time.Time); ok {
			i.collector.RecordDuration(call.Operation().String(), time.Since(start))
		}
	}
}

// Order implements Interceptor
func (i *MetricsInterceptor) Order() int { return i.order }

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string { return "MetricsInterceptor" }
