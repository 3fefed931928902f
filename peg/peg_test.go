package peg

import (
	"testing"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/stretchr/testify/assert"
)

func lit(s string) clause.Value[domain.Text] {
	return clause.Value[domain.Text]{V: domain.NewText(s)}
}

func digitClause() clause.Range[domain.Text] {
	return clause.Range[domain.Text]{Lo: domain.NewText("0"), Hi: domain.NewText("9")}
}

// sumGrammar builds top := digit "+" digit, transformed by an "add" action
// into the integer sum, over a two-capture signature.
func sumGrammar() RawGrammar {
	body := clause.Sequence{Children: []clause.Clause{
		clause.Capture{Child: digitClause(), Name: "left"},
		lit("+"),
		clause.Capture{Child: digitClause(), Name: "right"},
	}}
	top := clause.Rule{
		Name: "top",
		Body: clause.Transform{Child: body, ActionID: "add"},
	}
	return RawGrammar{
		Grammar: clause.Grammar{Rules: []clause.Rule{top}},
		Actions: []ActionSource{{ID: "add", Text: "add(left, right)"}},
	}
}

func sumBinder() *action.Binder {
	return action.NewBinder(action.Namespace{
		"add": func(args []any) (any, error) {
			l := string(args[0].(domain.Text))
			r := string(args[1].(domain.Text))
			return l + "+" + r, nil
		},
	})
}

func Test_NewParser_And_Parse(t *testing.T) {
	assert := assert.New(t)

	p, err := NewParser[domain.Text](sumGrammar(), sumBinder())
	if !assert.NoError(err) {
		return
	}

	result, err := p.Parse(domain.NewText("1+2"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("1+2", result)
}

func Test_NewParser_RejectsUnresolvedReference(t *testing.T) {
	assert := assert.New(t)

	g := clause.Grammar{Rules: []clause.Rule{
		{Name: "top", Body: clause.Reference{Name: "missing"}},
	}}

	_, err := NewParser[domain.Text](RawGrammar{Grammar: g}, action.NewBinder(nil))
	assert.Error(err)
}

func Test_NewParser_RejectsChoiceSignatureMismatch(t *testing.T) {
	assert := assert.New(t)

	body := clause.Choice{Children: []clause.Clause{
		clause.Capture{Child: digitClause(), Name: "x"},
		clause.Capture{Child: digitClause(), Name: "y"},
	}}
	g := clause.Grammar{Rules: []clause.Rule{
		{Name: "top", Body: clause.Transform{Child: body, ActionID: "a"}},
	}}

	_, err := NewParser[domain.Text](RawGrammar{
		Grammar: g,
		Actions: []ActionSource{{ID: "a", Text: "x"}},
	}, action.NewBinder(nil))
	assert.Error(err)
}

func Test_Parse_FailsOnPartialConsumption(t *testing.T) {
	assert := assert.New(t)

	p, err := NewParser[domain.Text](sumGrammar(), sumBinder())
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse(domain.NewText("1+2extra"))
	assert.Error(err)
}

func Test_Parse_ReportsRulePathOnFailure(t *testing.T) {
	assert := assert.New(t)

	// top := inner ; inner := "a"
	g := clause.Grammar{Rules: []clause.Rule{
		{Name: "top", Body: clause.Reference{Name: "inner"}},
		{Name: "inner", Body: lit("a")},
	}}

	p, err := NewParser[domain.Text](RawGrammar{Grammar: g}, action.NewBinder(nil))
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse(domain.NewText("b"))
	if !assert.Error(err) {
		return
	}
	pf, ok := err.(*ParseFailure)
	if !assert.True(ok) {
		return
	}
	assert.Contains(pf.Path, "top")
	assert.Equal(0, pf.Index)
}

func Test_Parse_EntailCommitsFatalFailure(t *testing.T) {
	assert := assert.New(t)

	// top := "(" entail{ digit } ; input "(x" should fail fatally inside
	// the entailed digit, not fall back past the "(".
	g := clause.Grammar{Rules: []clause.Rule{
		{Name: "top", Body: clause.Sequence{Children: []clause.Clause{
			lit("("),
			clause.Entail{Children: []clause.Clause{digitClause()}},
		}}},
	}}

	p, err := NewParser[domain.Text](RawGrammar{Grammar: g}, action.NewBinder(nil))
	if !assert.NoError(err) {
		return
	}

	_, err = p.Parse(domain.NewText("(x"))
	assert.Error(err)
}
