package interception

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Binding ties a concrete service instance to a chain executor. A
// wrapper type satisfying the service interface embeds or holds a
// Binding and routes every method through Invoke, so callers cannot
// distinguish the wrapper from the target except through interceptor
// side effects. Go has no runtime proxy generation; the wrapper per
// interface is written (or generated) explicitly.
type Binding[T any] struct {
	target  T
	exec    *ChainExecutor
	service string
}

// BindingOption configures a binding
type BindingOption[T any] func(*Binding[T])

// WithServiceName overrides the service name derived from the target type
func WithServiceName[T any](name string) BindingOption[T] {
	return func(b *Binding[T]) {
		b.service = name
	}
}

// NewBinding creates a proxy binding for the target instance. It fails
// fast when the target or the executor is missing.
func NewBinding[T any](target T, exec *ChainExecutor, opts ...BindingOption[T]) (*Binding[T], error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	if isNil(target) {
		return nil, ErrNilTarget
	}

	b := &Binding[T]{
		target:  target,
		exec:    exec,
		service: serviceName(target),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Target returns the bound concrete instance
func (b *Binding[T]) Target() T {
	return b.target
}

// Service returns the service name calls are attributed to
func (b *Binding[T]) Service() string {
	return b.service
}

// Invoke packages one call into a CallContext and hands it to the
// executor. With no applicable interceptors, proceed runs directly and
// no context is allocated.
func (b *Binding[T]) Invoke(ctx context.Context, operation string, args []any, proceed ProceedFunc) (any, error) {
	op := Operation{Service: b.service, Name: operation}
	if !b.exec.HasInterceptors(op) {
		return proceed(ctx)
	}
	call := NewCallContext(b.target, op, args...)
	return b.exec.Execute(ctx, call, proceed)
}

// Call routes a value-returning operation through the binding's chain,
// asserting the (possibly transformed) result back to R.
func Call[T, R any](ctx context.Context, b *Binding[T], operation string, args []any, proceed func(ctx context.Context) (R, error)) (R, error) {
	var zero R
	out, err := b.Invoke(ctx, operation, args, func(ctx context.Context) (any, error) {
		return proceed(ctx)
	})
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(R)
	if !ok {
		return zero, fmt.Errorf("operation %s.%s: result is %T, not %T", b.service, operation, out, zero)
	}
	return typed, nil
}

// Do routes an operation with no return value through the binding's chain
func Do[T any](ctx context.Context, b *Binding[T], operation string, args []any, proceed func(ctx context.Context) error) error {
	_, err := b.Invoke(ctx, operation, args, func(ctx context.Context) (any, error) {
		return nil, proceed(ctx)
	})
	return err
}

// serviceName derives a service name from the concrete target type
func serviceName(target any) string {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// isNil reports whether the target is nil, including a typed nil inside
// an interface value.
func isNil(target any) bool {
	v := reflect.ValueOf(target)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
