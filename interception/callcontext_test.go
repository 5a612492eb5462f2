package interception

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	t.Run("String qualifies with service", func(t *testing.T) {
		op := Operation{Service: "WidgetRepository", Name: "Add"}
		assert.Equal(t, "WidgetRepository.Add", op.String())
	})

	t.Run("String without service is just the name", func(t *testing.T) {
		op := Operation{Name: "Add"}
		assert.Equal(t, "Add", op.String())
	})
}

func TestCallContext(t *testing.T) {
	op := Operation{Service: "WidgetRepository", Name: "Add"}

	t.Run("NewCallContext captures target and arguments", func(t *testing.T) {
		target := &struct{ name string }{name: "concrete"}
		call := NewCallContext(target, op, "first", 42)

		assert.Same(t, target, call.Target())
		assert.Equal(t, op, call.Operation())
		assert.Equal(t, 2, call.ArgCount())
	})

	t.Run("Argument returns positional arguments", func(t *testing.T) {
		call := NewCallContext("target", op, "first", 42)

		first, err := call.Argument(0)
		assert.NoError(t, err)
		assert.Equal(t, "first", first)

		second, err := call.Argument(1)
		assert.NoError(t, err)
		assert.Equal(t, 42, second)
	})

	t.Run("Argument out of range fails", func(t *testing.T) {
		call := NewCallContext("target", op, "only")

		_, err := call.Argument(1)
		assert.ErrorIs(t, err, ErrArgumentOutOfRange)

		_, err = call.Argument(-1)
		assert.ErrorIs(t, err, ErrArgumentOutOfRange)
	})

	t.Run("Arg asserts the argument type", func(t *testing.T) {
		call := NewCallContext("target", op, "first", 42)

		s, err := Arg[string](call, 0)
		assert.NoError(t, err)
		assert.Equal(t, "first", s)

		_, err = Arg[int](call, 0)
		assert.Error(t, err)

		_, err = Arg[string](call, 5)
		assert.ErrorIs(t, err, ErrArgumentOutOfRange)
	})

	t.Run("result and error are mutually exclusive", func(t *testing.T) {
		call := NewCallContext("target", op)

		call.SetResult("value")
		result, ok := call.Result()
		assert.True(t, ok)
		assert.Equal(t, "value", result)
		assert.NoError(t, call.Err())

		call.SetError(errors.New("boom"))
		_, ok = call.Result()
		assert.False(t, ok)
		assert.Error(t, call.Err())

		call.SetResult("recovered")
		result, ok = call.Result()
		assert.True(t, ok)
		assert.Equal(t, "recovered", result)
		assert.NoError(t, call.Err())
	})

	t.Run("item bag stores call-scoped values", func(t *testing.T) {
		call := NewCallContext("target", op)

		call.Set("key", "value")
		v, ok := call.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "value", v)

		s, ok := call.GetString("key")
		assert.True(t, ok)
		assert.Equal(t, "value", s)

		call.Set("number", 7)
		_, ok = call.GetString("number")
		assert.False(t, ok)

		call.Delete("key")
		_, ok = call.Get("key")
		assert.False(t, ok)
	})
}
