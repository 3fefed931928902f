package action

import (
	"testing"

	"github.com/dekarrin/pegboot/clause"
	"github.com/stretchr/testify/assert"
)

func Test_Binder_Bind(t *testing.T) {
	ns := Namespace{
		"add": func(args []any) (any, error) {
			return args[0].(int) + args[1].(int), nil
		},
	}

	t.Run("evaluates against matching signature", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		fn, err := b.Bind("add(left, right)", clause.NewSignature("left", "right"))
		if !assert.NoError(err) {
			return
		}

		result, err := fn(map[string]any{"left": 2, "right": 3})
		if !assert.NoError(err) {
			return
		}
		assert.Equal(5, result)
	})

	t.Run("rejects reference to a capture not in the signature", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		_, err := b.Bind("add(left, right)", clause.NewSignature("left"))
		assert.Error(err)
	})

	t.Run("rejects a signature capture the action never uses", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		_, err := b.Bind("left", clause.NewSignature("left", "right"))
		assert.Error(err)
	})

	t.Run("caches by text and signature together", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		fn1, err := b.Bind("left", clause.NewSignature("left"))
		assert.NoError(err)
		fn2, err := b.Bind("left", clause.NewSignature("left"))
		assert.NoError(err)

		r1, _ := fn1(map[string]any{"left": 42})
		r2, _ := fn2(map[string]any{"left": 42})
		assert.Equal(r1, r2)
	})

	t.Run("propagates a parse error", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		_, err := b.Bind("add(", clause.NewSignature())
		assert.Error(err)
	})

	t.Run("unknown namespace function fails at eval time", func(t *testing.T) {
		assert := assert.New(t)
		b := NewBinder(ns)

		fn, err := b.Bind("missing(left)", clause.NewSignature("left"))
		if !assert.NoError(err) {
			return
		}
		_, err = fn(map[string]any{"left": 1})
		assert.Error(err)
	})
}
