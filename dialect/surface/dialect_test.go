package surface

import (
	"testing"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
	"github.com/stretchr/testify/assert"
)

func Test_Bootstrap_ReachesFixpoint(t *testing.T) {
	assert := assert.New(t)

	d, raw, err := Bootstrap()
	if !assert.NoError(err) {
		return
	}
	assert.NotNil(d)
	assert.NotEmpty(raw.Grammar.Rules)
	assert.Equal("grammar", raw.Grammar.Top())
}

func Test_Dialect_Parse_SumGrammar(t *testing.T) {
	assert := assert.New(t)

	d, _, err := Bootstrap()
	if !assert.NoError(err) {
		return
	}

	src := "top:\n" +
		"| left='0'-'9' \"+\" right='0'-'9' { add(left, right) }\n"

	raw, err := d.Parse(src)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("top", raw.Grammar.Top())
	if !assert.Len(raw.Actions, 1) {
		return
	}
	assert.Equal("add(left, right)", raw.Actions[0].Text)

	ns := action.Namespace{
		"add": func(args []any) (any, error) {
			l := string(args[0].(domain.Text))
			r := string(args[1].(domain.Text))
			return l + r, nil
		},
	}
	p, err := peg.NewParser[domain.Text](*raw, action.NewBinder(ns))
	if !assert.NoError(err) {
		return
	}
	result, err := p.Parse(domain.NewText("3+4"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("34", result)
}

func Test_Dialect_Parse_EntailAndOptional(t *testing.T) {
	assert := assert.New(t)

	d, _, err := Bootstrap()
	if !assert.NoError(err) {
		return
	}

	src := "top:\n" +
		"| \"(\" ~ [digit] \")\"\n" +
		"\n" +
		"digit:\n" +
		"| '0'-'9'\n"

	raw, err := d.Parse(src)
	if !assert.NoError(err) {
		return
	}

	p, err := peg.NewParser[domain.Text](*raw, action.NewBinder(nil))
	if !assert.NoError(err) {
		return
	}

	// the grammar has no action, so a full match yields no value and Parse
	// reports it as an unpack failure rather than a parse failure.
	_, err = p.Parse(domain.NewText("()"))
	assert.IsType(&peg.UnpackError{}, err)

	_, err = p.Parse(domain.NewText("(x"))
	assert.Error(err)
}

func Test_Namespace_ValueRejectsEmptyLiteral(t *testing.T) {
	assert := assert.New(t)

	ns := Namespace()
	fn, ok := ns["value"]
	if !assert.True(ok) {
		return
	}
	_, err := fn([]any{domain.NewText("")})
	assert.Error(err)
}

func Test_Namespace_RangeOfOrdersBounds(t *testing.T) {
	assert := assert.New(t)

	ns := Namespace()
	fn := ns["rangeOf"]
	result, err := fn([]any{domain.NewText("z"), domain.NewText("a")})
	if !assert.NoError(err) {
		return
	}
	r, ok := result.(clause.Range[domain.Text])
	if !assert.True(ok) {
		return
	}
	assert.Equal(domain.NewText("a"), r.Lo)
	assert.Equal(domain.NewText("z"), r.Hi)
}
