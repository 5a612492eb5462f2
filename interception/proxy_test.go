package interception

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample service used to exercise the wrapper pattern.

type widget struct {
	ID   string
	Name string
}

type widgetRepository interface {
	Add(ctx context.Context, w widget) (widget, error)
	Update(ctx context.Context, w widget) (widget, error)
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (widget, error)
}

type memWidgetRepository struct {
	mu      sync.Mutex
	widgets map[string]widget
}

func newMemWidgetRepository() *memWidgetRepository {
	return &memWidgetRepository{widgets: make(map[string]widget)}
}

func (r *memWidgetRepository) Add(ctx context.Context, w widget) (widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[w.ID] = w
	return w, nil
}

func (r *memWidgetRepository) Update(ctx context.Context, w widget) (widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.widgets[w.ID]; !ok {
		return widget{}, fmt.Errorf("widget %s not found", w.ID)
	}
	r.widgets[w.ID] = w
	return w, nil
}

func (r *memWidgetRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.widgets[id]; !ok {
		return fmt.Errorf("widget %s not found", id)
	}
	delete(r.widgets, id)
	return nil
}

func (r *memWidgetRepository) GetByID(ctx context.Context, id string) (widget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.widgets[id]
	if !ok {
		return widget{}, fmt.Errorf("widget %s not found", id)
	}
	return w, nil
}

// widgetRepositoryProxy is the explicit wrapper routing every call
// through the binding's chain. This is the pattern generated (or
// hand-written) per service interface.
type widgetRepositoryProxy struct {
	binding *Binding[widgetRepository]
}

func newWidgetRepositoryProxy(target widgetRepository, exec *ChainExecutor) (*widgetRepositoryProxy, error) {
	binding, err := NewBinding(target, exec, WithServiceName[widgetRepository]("WidgetRepository"))
	if err != nil {
		return nil, err
	}
	return &widgetRepositoryProxy{binding: binding}, nil
}

func (p *widgetRepositoryProxy) Add(ctx context.Context, w widget) (widget, error) {
	return Call(ctx, p.binding, "Add", []any{w}, func(ctx context.Context) (widget, error) {
		return p.binding.Target().Add(ctx, w)
	})
}

func (p *widgetRepositoryProxy) Update(ctx context.Context, w widget) (widget, error) {
	return Call(ctx, p.binding, "Update", []any{w}, func(ctx context.Context) (widget, error) {
		return p.binding.Target().Update(ctx, w)
	})
}

func (p *widgetRepositoryProxy) Remove(ctx context.Context, id string) error {
	return Do(ctx, p.binding, "Remove", []any{id}, func(ctx context.Context) error {
		return p.binding.Target().Remove(ctx, id)
	})
}

func (p *widgetRepositoryProxy) GetByID(ctx context.Context, id string) (widget, error) {
	return Call(ctx, p.binding, "GetByID", []any{id}, func(ctx context.Context) (widget, error) {
		return p.binding.Target().GetByID(ctx, id)
	})
}

var _ widgetRepository = (*widgetRepositoryProxy)(nil)

func TestNewBinding(t *testing.T) {
	t.Run("fails fast on nil target", func(t *testing.T) {
		var target widgetRepository
		_, err := NewBinding(target, NewChainExecutor(nil))
		assert.ErrorIs(t, err, ErrNilTarget)
	})

	t.Run("fails fast on typed nil target", func(t *testing.T) {
		var target *memWidgetRepository
		_, err := NewBinding[widgetRepository](target, NewChainExecutor(nil))
		assert.ErrorIs(t, err, ErrNilTarget)
	})

	t.Run("fails fast on nil executor", func(t *testing.T) {
		_, err := NewBinding[widgetRepository](newMemWidgetRepository(), nil)
		assert.ErrorIs(t, err, ErrNilExecutor)
	})

	t.Run("derives the service name from the target type", func(t *testing.T) {
		binding, err := NewBinding[widgetRepository](newMemWidgetRepository(), NewChainExecutor(nil))
		require.NoError(t, err)
		assert.Equal(t, "memWidgetRepository", binding.Service())
	})

	t.Run("WithServiceName overrides the derived name", func(t *testing.T) {
		binding, err := NewBinding[widgetRepository](newMemWidgetRepository(), NewChainExecutor(nil),
			WithServiceName[widgetRepository]("WidgetRepository"))
		require.NoError(t, err)
		assert.Equal(t, "WidgetRepository", binding.Service())
	})
}

func TestProxyPassThrough(t *testing.T) {
	t.Run("empty chain behaves exactly like the concrete instance", func(t *testing.T) {
		concrete := newMemWidgetRepository()
		proxy, err := newWidgetRepositoryProxy(concrete, NewChainExecutor(nil))
		require.NoError(t, err)

		ctx := context.Background()
		added, err := proxy.Add(ctx, widget{ID: "w1", Name: "anvil"})
		assert.NoError(t, err)
		assert.Equal(t, widget{ID: "w1", Name: "anvil"}, added)

		direct, err := concrete.GetByID(ctx, "w1")
		assert.NoError(t, err)
		proxied, err := proxy.GetByID(ctx, "w1")
		assert.NoError(t, err)
		assert.Equal(t, direct, proxied)

		assert.NoError(t, proxy.Remove(ctx, "w1"))
		_, err = proxy.GetByID(ctx, "w1")
		assert.Error(t, err)
	})

	t.Run("errors pass through unchanged", func(t *testing.T) {
		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(), NewChainExecutor(nil))
		require.NoError(t, err)

		_, err = proxy.Update(context.Background(), widget{ID: "missing"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestProxyInterception(t *testing.T) {
	t.Run("interceptors observe proxied calls", func(t *testing.T) {
		var ops []string
		ic := NewFuncInterceptor("observer", 0)
		ic.Before = func(ctx context.Context, call *CallContext) error {
			ops = append(ops, call.Operation().String())
			return nil
		}

		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(),
			NewChainExecutor(nil, NewRegistration(ic)))
		require.NoError(t, err)

		ctx := context.Background()
		_, _ = proxy.Add(ctx, widget{ID: "w1", Name: "anvil"})
		_ = proxy.Remove(ctx, "w1")

		assert.Equal(t, []string{"WidgetRepository.Add", "WidgetRepository.Remove"}, ops)
	})

	t.Run("transformed results flow back typed", func(t *testing.T) {
		ic := NewFuncInterceptor("shouter", 0)
		ic.Transform = func(ctx context.Context, call *CallContext, prev any) (any, error) {
			w := prev.(widget)
			w.Name = strings.ToUpper(w.Name)
			return w, nil
		}

		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(),
			NewChainExecutor(nil, NewRegistration(ic)))
		require.NoError(t, err)

		added, err := proxy.Add(context.Background(), widget{ID: "w1", Name: "anvil"})
		assert.NoError(t, err)
		assert.Equal(t, "ANVIL", added.Name)
	})

	t.Run("a Remove-only registration never fires for Add or Update", func(t *testing.T) {
		var fired []string
		ic := NewFuncInterceptor("remover", 0)
		ic.Before = func(ctx context.Context, call *CallContext) error {
			fired = append(fired, call.Operation().Name)
			return nil
		}

		exec := NewChainExecutor(nil,
			NewRegistration(ic).WithFilter(NewOperationNameFilter("Remove")))
		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(), exec)
		require.NoError(t, err)

		ctx := context.Background()
		_, _ = proxy.Add(ctx, widget{ID: "w1", Name: "anvil"})
		_, _ = proxy.Update(ctx, widget{ID: "w1", Name: "hammer"})
		_ = proxy.Remove(ctx, "w1")

		assert.Equal(t, []string{"Remove"}, fired)
	})

	t.Run("cancellation reaches the proceed callback", func(t *testing.T) {
		ic := NewFuncInterceptor("observer", 0)
		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(),
			NewChainExecutor(nil, NewRegistration(ic)))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = proxy.Add(ctx, widget{ID: "w1"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCallTypeSafety(t *testing.T) {
	t.Run("a transform changing the result type fails loudly", func(t *testing.T) {
		ic := NewFuncInterceptor("breaker", 0)
		ic.Transform = func(ctx context.Context, call *CallContext, prev any) (any, error) {
			return "not a widget", nil
		}

		proxy, err := newWidgetRepositoryProxy(newMemWidgetRepository(),
			NewChainExecutor(nil, NewRegistration(ic)))
		require.NoError(t, err)

		_, err = proxy.Add(context.Background(), widget{ID: "w1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "result is")
	})

	t.Run("Do surfaces proceed errors", func(t *testing.T) {
		errRemove := errors.New("remove rejected")
		binding, err := NewBinding[widgetRepository](newMemWidgetRepository(), NewChainExecutor(nil))
		require.NoError(t, err)

		err = Do(context.Background(), binding, "Remove", []any{"w1"}, func(ctx context.Context) error {
			return errRemove
		})
		assert.ErrorIs(t, err, errRemove)
	})
}
