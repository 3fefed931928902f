// Package surface implements the primary grammar dialect: a minimal,
// hand-built clause graph that parses the textual surface syntax, plus
// that same syntax written as self-describing data and the bootstrap
// driver that turns the former loose on the latter to reach a fixpoint.
//
// The indentation-sensitive notation of the full surface syntax is scoped
// down here to a line-oriented one: a rule's alternatives are one or more
// "| expr { action }" lines directly after "name:", with no requirement
// that they share a particular indent depth beyond starting after any
// leading whitespace. Action bodies may not nest braces. Both
// simplifications are recorded in the project's design notes.
package surface

import (
	"fmt"
	"strings"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
)

// builtAlt is what one rule alternative resolves to: the clause it
// matches, plus any action source it contributed (none, if the
// alternative had no { action } block).
type builtAlt struct {
	Clause  clause.Clause
	Actions []peg.ActionSource
}

// ruleResult is what a "name: alts" block resolves to.
type ruleResult struct {
	Rule    clause.Rule
	Actions []peg.ActionSource
}

// skipResult marks a blank or comment line, discarded by grammarOf.
type skipResult struct{}

// noActionResult marks an alternative with no { action } block.
type noActionResult struct{}

// entailMarker marks a bare "~" term, the entail/commit point within a
// sequence of terms.
type entailMarker struct{}

// capInfo carries a parsed "name=" or "*name=" capture prefix; nil means
// no capture prefix was present.
type capInfo struct {
	Name     string
	Variadic bool
}

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
// literal: \n, \t, \\, \" and \'. Anything else following a backslash is
// passed through unchanged, backslash included.
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

// clauseNamespace is an action namespace of clause constructors, plus
// user-supplied helpers -- here exclusively the former, since the
// surface grammar's own actions build clause values.
// It is shared between the hand-built minimal grammar (minimal.go, which
// calls into it directly) and the textual self-description (source.go,
// whose action bodies are parsed and bound against it by Bootstrap).
var clauseNamespace = map[string]func(args []any) (any, error){
	"skip": func(args []any) (any, error) {
		return skipResult{}, nil
	},
	"rule": func(args []any) (any, error) {
		name := string(args[0].(domain.Text))
		alts := args[1].([]any)
		var bodies []clause.Clause
		var actions []peg.ActionSource
		for _, a := range alts {
			ba := a.(builtAlt)
			bodies = append(bodies, ba.Clause)
			actions = append(actions, ba.Actions...)
		}
		return ruleResult{
			Rule:    clause.Rule{Name: name, Body: choiceClauses(bodies)},
			Actions: actions,
		}, nil
	},
	"grammarOf": func(args []any) (any, error) {
		items := args[0].([]any)
		var rules []clause.Rule
		var actions []peg.ActionSource
		for _, it := range items {
			switch v := it.(type) {
			case skipResult:
				continue
			case ruleResult:
				rules = append(rules, v.Rule)
				actions = append(actions, v.Actions...)
			default:
				return nil, fmt.Errorf("surface: unexpected grammar item %T", it)
			}
		}
		return peg.RawGrammar{Grammar: clause.Grammar{Rules: rules}, Actions: actions}, nil
	},
	"withAction": func(args []any) (any, error) {
		e := asClause(args[0])
		act := args[1]
		if _, ok := act.(noActionResult); ok {
			return builtAlt{Clause: e}, nil
		}
		// The action text itself is the ActionID: two Transforms sharing
		// identical source and signature are the same action, and reusing
		// the text keeps regenerating this grammar from its own source
		// deterministic (no counter to make two parses of the same text
		// disagree).
		text := strings.TrimSpace(string(act.(domain.Text)))
		return builtAlt{
			Clause:  clause.Transform{Child: e, ActionID: text},
			Actions: []peg.ActionSource{{ID: text, Text: text}},
		}, nil
	},
	"noAction": func(args []any) (any, error) {
		return noActionResult{}, nil
	},
	"seqOf": func(args []any) (any, error) {
		items := args[0].([]any)
		var prefix, rest []clause.Clause
		seenTilde := false
		for _, it := range items {
			if _, ok := it.(entailMarker); ok {
				seenTilde = true
				continue
			}
			c := asClause(it)
			if seenTilde {
				rest = append(rest, c)
			} else {
				prefix = append(prefix, c)
			}
		}
		if !seenTilde {
			return seqClauses(prefix), nil
		}
		entailChildren := rest
		if len(entailChildren) == 0 {
			entailChildren = []clause.Clause{clause.Not{Child: clause.Empty{}}}
		}
		ent := clause.Clause(clause.Entail{Children: entailChildren})
		if len(prefix) == 0 {
			return ent, nil
		}
		return clause.Sequence{Children: append(append([]clause.Clause{}, prefix...), ent)}, nil
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
		c := asClause(args[2])
		if pfx, _ := args[1].(string); pfx == "not" {
			c = clause.Not{Child: c}
		} else if pfx == "and" {
			c = clause.And{Child: c}
		}
		if post, _ := args[3].(string); post == "plus" {
			c = clause.Repeat{Child: c}
		} else if post == "star" {
			c = clause.Choice{Children: []clause.Clause{clause.Repeat{Child: c}, clause.Empty{}}}
		}
		if ci, ok := args[0].(*capInfo); ok && ci != nil {
			c = clause.Capture{Child: c, Name: ci.Name, Variadic: ci.Variadic}
		}
		return c, nil
	},
	"notMark":     func(args []any) (any, error) { return "not", nil },
	"andMark":     func(args []any) (any, error) { return "and", nil },
	"noMark":      func(args []any) (any, error) { return "none", nil },
	"plusMark":    func(args []any) (any, error) { return "plus", nil },
	"starMark":    func(args []any) (any, error) { return "star", nil },
	"tildeMark":   func(args []any) (any, error) { return entailMarker{}, nil },
	"noCap":       func(args []any) (any, error) { return (*capInfo)(nil), nil },
	"plainCap": func(args []any) (any, error) {
		return &capInfo{Name: string(args[0].(domain.Text))}, nil
	},
	"variadicCap": func(args []any) (any, error) {
		return &capInfo{Name: string(args[0].(domain.Text)), Variadic: true}, nil
	},
	"emptyC": func(args []any) (any, error) { return clause.Empty{}, nil },
	"anyC":    func(args []any) (any, error) { return clause.Any{K: 1}, nil },
	"rangeOf": func(args []any) (any, error) {
		lo := args[0].(domain.Text)
		hi := args[1].(domain.Text)
		return clause.NewRange(lo, hi)
	},
	"value": func(args []any) (any, error) {
		text := domain.NewText(unescape(string(args[0].(domain.Text))))
		if len(text) == 0 {
			return nil, fmt.Errorf("surface: literal must have length >= 1, use \"\" or '' for empty")
		}
		return clause.Value[domain.Text]{V: text}, nil
	},
	"ref": func(args []any) (any, error) {
		return clause.Reference{Name: string(args[0].(domain.Text))}, nil
	},
	"optOf": func(args []any) (any, error) {
		return clause.Choice{Children: []clause.Clause{asClause(args[0]), clause.Empty{}}}, nil
	},
}
