package match

import (
	"testing"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/stretchr/testify/assert"
)

func lit(s string) clause.Value[domain.Text] {
	return clause.Value[domain.Text]{V: domain.NewText(s)}
}

func Test_Compile_Value(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](lit("ab"), nil)
	m, err := fn(domain.NewText("abc"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, m.At)
	assert.Equal(2, m.Length)

	_, err = fn(domain.NewText("xy"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_Sequence(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.Sequence{Children: []clause.Clause{lit("a"), lit("b")}}, nil)
	m, err := fn(domain.NewText("ab"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(2, m.Length)

	_, err = fn(domain.NewText("ac"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_Choice_PicksFirstMatch(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.Choice{Children: []clause.Clause{lit("a"), lit("b")}}, nil)

	m, err := fn(domain.NewText("b"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(1, m.Length)

	_, err = fn(domain.NewText("c"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_Choice_FatalBypassesFallback(t *testing.T) {
	assert := assert.New(t)

	entailed := clause.Entail{Children: []clause.Clause{lit("a"), lit("X")}}
	fn := Compile[domain.Text](clause.Choice{Children: []clause.Clause{entailed, lit("a")}}, nil)

	_, err := fn(domain.NewText("ab"), 0, NewMemo(), nil)
	if !assert.Error(err) {
		return
	}
	f, ok := err.(*Failure)
	if !assert.True(ok) {
		return
	}
	assert.True(f.IsFatal())
}

func Test_Compile_Repeat(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.Repeat{Child: lit("a")}, nil)

	m, err := fn(domain.NewText("aaab"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(3, m.Length)

	_, err = fn(domain.NewText("b"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_Not(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.Not{Child: lit("a")}, nil)

	m, err := fn(domain.NewText("b"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, m.Length)

	_, err = fn(domain.NewText("a"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_And(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.And{Child: lit("a")}, nil)

	m, err := fn(domain.NewText("a"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(0, m.Length)

	_, err = fn(domain.NewText("b"), 0, NewMemo(), nil)
	assert.Error(err)
}

func Test_Compile_Capture(t *testing.T) {
	assert := assert.New(t)

	fn := Compile[domain.Text](clause.Capture{Child: lit("ab"), Name: "x"}, nil)

	m, err := fn(domain.NewText("ab"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(m.Captures, 1) {
		return
	}
	assert.Equal("x", m.Captures[0].Name)
	assert.Equal(domain.NewText("ab"), m.Captures[0].Value)
}

func Test_Compile_Transform(t *testing.T) {
	assert := assert.New(t)

	actions := Actions{
		"double": func(captures map[string]any) (any, error) {
			v := captures["x"].(domain.Text)
			return string(v) + string(v), nil
		},
	}
	body := clause.Transform{
		Child:    clause.Capture{Child: lit("ab"), Name: "x"},
		ActionID: "double",
	}
	fn := Compile[domain.Text](body, actions)

	m, err := fn(domain.NewText("ab"), 0, NewMemo(), nil)
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(m.Results, 1) {
		return
	}
	assert.Equal("abab", m.Results[0])
	assert.Empty(m.Captures)
}

func Test_Compile_Transform_ActionErrorIsFatal(t *testing.T) {
	assert := assert.New(t)

	actions := Actions{
		"boom": func(captures map[string]any) (any, error) {
			panic("kaboom")
		},
	}
	body := clause.Transform{Child: lit("a"), ActionID: "boom"}
	fn := Compile[domain.Text](body, actions)

	_, err := fn(domain.NewText("a"), 0, NewMemo(), nil)
	if !assert.Error(err) {
		return
	}
	f, ok := err.(*Failure)
	if !assert.True(ok) {
		return
	}
	assert.True(f.IsFatal())
}

func Test_Compile_Reference_LeftRecursion(t *testing.T) {
	assert := assert.New(t)

	// expr := expr "+" digit | digit
	digit := clause.Range[domain.Text]{Lo: domain.NewText("0"), Hi: domain.NewText("9")}
	exprBody := clause.Choice{Children: []clause.Clause{
		clause.Sequence{Children: []clause.Clause{
			clause.Reference{Name: "expr"},
			lit("+"),
			digit,
		}},
		digit,
	}}

	rules := Rules[domain.Text]{}
	rules["expr"] = Compile[domain.Text](exprBody, nil)

	entry := Compile[domain.Text](clause.Reference{Name: "expr"}, nil)

	m, err := entry(domain.NewText("1+2+3"), 0, NewMemo(), rules)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(5, m.Length)
}

func Test_Compile_Reference_Memoizes(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	rules := Rules[domain.Text]{}
	rules["digit"] = func(of domain.Text, at int, memo *Memo, rules Rules[domain.Text]) (Match, error) {
		calls++
		return Plain(at, 1), nil
	}

	entry := Compile[domain.Text](clause.Sequence{Children: []clause.Clause{
		clause.Reference{Name: "digit"},
	}}, nil)

	memo := NewMemo()
	_, err := entry(domain.NewText("1"), 0, memo, rules)
	assert.NoError(err)

	callsAfterFirst := calls

	ref := Compile[domain.Text](clause.Reference{Name: "digit"}, nil)
	_, err = ref(domain.NewText("1"), 0, memo, rules)
	assert.NoError(err)

	// the seed-and-grow loop always re-invokes the rule body once more to
	// confirm it cannot grow further, even when it never recurses; a second
	// lookup at the same (position, rule) must hit the memoized match
	// without invoking the rule body again.
	assert.Equal(callsAfterFirst, calls)
}

func Test_Compile_Reference_Budget(t *testing.T) {
	assert := assert.New(t)

	rules := Rules[domain.Text]{}
	rules["loop"] = Compile[domain.Text](clause.Reference{Name: "loop"}, nil)

	entry := Compile[domain.Text](clause.Reference{Name: "loop"}, nil)

	memo := NewMemo().WithBudget(&Budget{MaxSteps: 1})
	_, err := entry(domain.NewText("x"), 0, memo, rules)
	if !assert.Error(err) {
		return
	}
	f, ok := err.(*Failure)
	if !assert.True(ok) {
		return
	}
	assert.Equal(Cancelled, f.Kind)
}
