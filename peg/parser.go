package peg

import (
	"fmt"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/match"
)

// Parser is a Grammar plus compiled matchers and bound actions. It eagerly compiles a matcher per rule and a single entry matcher
// for Reference(rules[0].name), so construction does all the work that can
// fail before any input is ever parsed.
type Parser[D domain.Sequence[D]] struct {
	grammar clause.Grammar
	rules   match.Rules[D]
	entry   match.Func[D]
	budget  *match.Budget
}

// NewParser binds raw's action sources with binder and compiles every rule
// in raw.Grammar. It fails fast on any binding error: an unresolved reference, a Choice capture-signature mismatch, or an action
// whose declared parameters don't match its Transform's capture signature.
func NewParser[D domain.Sequence[D]](raw RawGrammar, binder *action.Binder) (*Parser[D], error) {
	if len(raw.Grammar.Rules) == 0 {
		return nil, fmt.Errorf("peg: grammar has no rules")
	}
	if err := checkReferences(raw.Grammar); err != nil {
		return nil, err
	}
	actions, err := Bind(raw, binder)
	if err != nil {
		return nil, err
	}

	rules := make(match.Rules[D], len(raw.Grammar.Rules))
	for _, rule := range raw.Grammar.Rules {
		rules[rule.Name] = match.Compile[D](rule.Body, actions)
	}

	top := raw.Grammar.Top()
	entry := match.Compile[D](clause.Reference{Name: top}, actions)

	return &Parser[D]{grammar: raw.Grammar, rules: rules, entry: entry}, nil
}

// NewParserWithActions builds a Parser from an already-compiled action
// table, skipping Bind entirely. This is how the hand-built bootstrap
// grammar (dialect/surface) wires itself up: its actions are native Go
// closures, not textual action bodies, so there is nothing for an
// action.Binder to parse.
func NewParserWithActions[D domain.Sequence[D]](g clause.Grammar, actions match.Actions) (*Parser[D], error) {
	if len(g.Rules) == 0 {
		return nil, fmt.Errorf("peg: grammar has no rules")
	}
	if err := checkReferences(g); err != nil {
		return nil, err
	}
	rules := make(match.Rules[D], len(g.Rules))
	for _, rule := range g.Rules {
		rules[rule.Name] = match.Compile[D](rule.Body, actions)
	}
	top := g.Top()
	entry := match.Compile[D](clause.Reference{Name: top}, actions)
	return &Parser[D]{grammar: g, rules: rules, entry: entry}, nil
}

// WithBudget attaches a cooperative cancellation budget, checked once per
// Reference expansion during Parse.
func (p *Parser[D]) WithBudget(b *match.Budget) *Parser[D] {
	p.budget = b
	return p
}

// Grammar returns the bound grammar, primarily so callers (and the
// diagnostic package) can introspect rule shapes.
func (p *Parser[D]) Grammar() clause.Grammar {
	return p.grammar
}

// Parse runs the entry rule over source from position 0 and unpacks the
// result: a successful top-level match must consume the
// entire input, yield exactly one result, and leave no pending captures
// (invariant 6). On any failure, the cause chain is walked into a
// *ParseFailure carrying the failing index, the source line around it, and
// the rule path.
func (p *Parser[D]) Parse(source D) (any, error) {
	memo := match.NewMemo()
	if p.budget != nil {
		memo = memo.WithBudget(p.budget)
	}

	m, err := p.entry(source, 0, memo, p.rules)
	if err != nil {
		return nil, report(source, err)
	}
	if m.End() != source.Len() {
		return nil, &ParseFailure{
			Message: fmt.Sprintf("parsed only %d of %d elements", m.Length, source.Len()),
			Index:   m.End(),
			Line:    sourceLine(source, m.End()),
			Column:  caretColumn(source, m.End()),
		}
	}
	return unpack(m)
}

// unpack enforces that a successful parse yields exactly one result and no
// leftover captures: extra captures, too many results, or zero results are
// a design error in the user grammar, not a match failure.
func unpack(m match.Match) (any, error) {
	if len(m.Captures) > 0 {
		names := make([]string, len(m.Captures))
		for i, c := range m.Captures {
			names[i] = c.Name
		}
		return nil, &UnpackError{Reason: fmt.Sprintf("found %d unused captures after parsing: %v", len(m.Captures), names)}
	}
	if len(m.Results) > 1 {
		return nil, &UnpackError{Reason: fmt.Sprintf("found %d unused results after parsing", len(m.Results))}
	}
	if len(m.Results) == 0 {
		return nil, &UnpackError{Reason: "found no resulting value after parsing"}
	}
	return m.Results[0], nil
}
