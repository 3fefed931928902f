// Package altpeg implements a second, hand-built grammar, structurally
// the same shape as dialect/surface's minimal bootstrap grammar, that
// reads classic PEG notation (`<-`, `/`, `[a-z]`, postfix `?`) onto the
// same clause algebra instead of the line-oriented surface syntax.
//
// Unlike dialect/surface, this dialect carries no action syntax: a rule's
// right-hand side is a bare expression, with no `{ ... }` block and no
// named captures. Grammars written in it describe recognition shape only
// -- useful for analyzing or cross-checking a clause graph already built
// another way, not for driving user actions. This is a deliberate scope
// reduction, not an oversight: parsing a reference grammar with this
// dialect only needs to confirm recognition shape, not a compiled action.
package altpeg

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
)

type ruleResult struct {
	Rule clause.Rule
}

type skipResult struct{}

func asClause(v any) clause.Clause {
	return v.(clause.Clause)
}

func seqClauses(cs []clause.Clause) clause.Clause {
	if len(cs) == 1 {
		return cs[0]
	}
	return clause.Sequence{Children: cs}
}

func choiceClauses(cs []clause.Clause) clause.Clause {
	if len(cs) == 1 {
		return cs[0]
	}
	return clause.Choice{Children: cs}
}

// unescape interprets the backslash escapes recognized inside a quoted
// literal or character class: \n, \t, \\, \" and \'. Anything else
// following a backslash is passed through unchanged, backslash included
// -- the same convention dialect/surface's unescape uses, so a literal
// like '\]' inside a character class keeps its backslash (meaningless
// here, but harmless) rather than silently dropping it.
func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case '\\', '"', '\'':
			out = append(out, s[i])
		default:
			out = append(out, '\\', s[i])
		}
	}
	return string(out)
}

// namespace is this dialect's action table, analogous to
// dialect/surface's clauseNamespace but built without a capture or entail
// vocabulary.
var namespace = map[string]func(args []any) (any, error){
	"skip": func(args []any) (any, error) {
		return skipResult{}, nil
	},
	"rule": func(args []any) (any, error) {
		name := string(args[0].(domain.Text))
		body := asClause(args[1])
		return ruleResult{Rule: clause.Rule{Name: name, Body: body}}, nil
	},
	"grammarOf": func(args []any) (any, error) {
		items := args[0].([]any)
		var rules []clause.Rule
		for _, it := range items {
			switch v := it.(type) {
			case skipResult:
				continue
			case ruleResult:
				rules = append(rules, v.Rule)
			default:
				return nil, fmt.Errorf("altpeg: unexpected grammar item %T", it)
			}
		}
		return peg.RawGrammar{Grammar: clause.Grammar{Rules: rules}}, nil
	},
	"seqOf": func(args []any) (any, error) {
		terms := args[0].([]any)
		cs := make([]clause.Clause, len(terms))
		for i, t := range terms {
			cs[i] = asClause(t)
		}
		return seqClauses(cs), nil
	},
	"choiceOrSingle": func(args []any) (any, error) {
		first := asClause(args[0])
		rest := args[1].([]any)
		children := []clause.Clause{first}
		for _, r := range rest {
			children = append(children, asClause(r))
		}
		return choiceClauses(children), nil
	},
	"mkTerm": func(args []any) (any, error) {
		c := asClause(args[1])
		if pfx, _ := args[0].(string); pfx == "not" {
			c = clause.Not{Child: c}
		} else if pfx == "and" {
			c = clause.And{Child: c}
		}
		switch post, _ := args[2].(string); post {
		case "plus":
			c = clause.Repeat{Child: c}
		case "star":
			c = clause.Choice{Children: []clause.Clause{clause.Repeat{Child: c}, clause.Empty{}}}
		case "opt":
			c = clause.Choice{Children: []clause.Clause{c, clause.Empty{}}}
		}
		return c, nil
	},
	"notMark":  func(args []any) (any, error) { return "not", nil },
	"andMark":  func(args []any) (any, error) { return "and", nil },
	"noMark":   func(args []any) (any, error) { return "none", nil },
	"plusMark": func(args []any) (any, error) { return "plus", nil },
	"starMark": func(args []any) (any, error) { return "star", nil },
	"optMark":  func(args []any) (any, error) { return "opt", nil },
	"anyC":     func(args []any) (any, error) { return clause.Any{K: 1}, nil },
	"ref": func(args []any) (any, error) {
		return clause.Reference{Name: string(args[0].(domain.Text))}, nil
	},
	"value": func(args []any) (any, error) {
		text := domain.NewText(unescape(string(args[0].(domain.Text))))
		if len(text) == 0 {
			return nil, fmt.Errorf("altpeg: literal must have length >= 1")
		}
		return clause.Value[domain.Text]{V: text}, nil
	},
	"classChar": func(args []any) (any, error) {
		ch := domain.NewText(unescape(string(args[0].(domain.Text))))
		r, err := clause.NewRange(ch, ch)
		if err != nil {
			return nil, err
		}
		return r, nil
	},
	"classRange": func(args []any) (any, error) {
		lo := domain.NewText(unescape(string(args[0].(domain.Text))))
		hi := domain.NewText(unescape(string(args[1].(domain.Text))))
		return clause.NewRange(lo, hi)
	},
	"charClassOf": func(args []any) (any, error) {
		items := args[0].([]any)
		cs := make([]clause.Clause, len(items))
		for i, it := range items {
			cs[i] = asClause(it)
		}
		return choiceClauses(cs), nil
	},
}
