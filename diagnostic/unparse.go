// Package diagnostic implements the diagnostics renderer: formatting a
// ParseFailure as a caret-annotated excerpt is peg.Parser's job, since it
// alone has the source in hand; this package covers the other half,
// pretty-printing a clause.Clause back into the surface syntax
// dialect/surface recognizes, used both for error messages that want to
// show a rule's expected shape and for round-tripping a grammar back
// through its own notation.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/dekarrin/pegboot/clause"
)

// Unparse renders c as a surface-syntax expr: valid as the right-hand side
// of one "| expr" alt line, including any top-level "|" alternation. It
// does not render a trailing "{ action }" for c itself -- a top-level
// Transform's action is dropped, since actions only ever attach to a whole
// rule alternative, not to an arbitrary sub-expression. The alternatives of
// a Choice are rendered through unparseBranch, which does keep a
// Transform alternative's "{ action }". UnparseAlt renders a single
// alternative together with its action, and UnparseRule renders a whole
// rule.
func Unparse(c clause.Clause) string {
	switch v := c.(type) {
	case clause.Choice:
		if star, ok := starPattern(v); ok {
			return unparseAtom(star) + "*"
		}
		if opt, ok := optPattern(v); ok {
			return "[" + Unparse(opt) + "]"
		}
		parts := make([]string, len(v.Children))
		for i, child := range v.Children {
			parts[i] = unparseBranch(child)
		}
		return strings.Join(parts, " | ")
	case clause.Sequence:
		return unparseSequence(v.Children)
	case clause.Entail:
		return unparseEntail(v.Children)
	case clause.Repeat:
		return unparseAtom(v.Child) + "+"
	case clause.Not:
		return "!" + unparseAtom(v.Child)
	case clause.And:
		return "&" + unparseAtom(v.Child)
	case clause.Capture:
		return capturePrefix(v) + unparseTermBody(v.Child)
	case clause.Transform:
		return Unparse(v.Child)
	default:
		return unparseAtom(c)
	}
}

// UnparseAlt renders c as one rule alternative, appending a "{ action }"
// block when c is a Transform.
func UnparseAlt(c clause.Clause) string {
	if t, ok := c.(clause.Transform); ok {
		return fmt.Sprintf("%s { %s }", Unparse(t.Child), t.ActionID)
	}
	return Unparse(c)
}

// UnparseRule renders a whole rule as "name:\n| alt1\n| alt2\n...".
// The rule's body is expected to be either a single alternative or a
// Choice of alternatives, the shape clause.Rule bodies built by
// dialect/surface's rule() namespace function always have.
func UnparseRule(r clause.Rule) string {
	var alts []clause.Clause
	if c, ok := r.Body.(clause.Choice); ok {
		alts = c.Children
	} else {
		alts = []clause.Clause{r.Body}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", r.Name)
	for _, a := range alts {
		fmt.Fprintf(&b, "| %s\n", UnparseAlt(a))
	}
	return b.String()
}

// UnparseGrammar renders every rule in g, in order, separated by a blank
// line, the same arrangement surfaceGrammarSource uses for its own rules.
func UnparseGrammar(g clause.Grammar) string {
	var b strings.Builder
	for i, r := range g.Rules {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(UnparseRule(r))
	}
	return b.String()
}

func unparseBranch(c clause.Clause) string {
	if t, ok := c.(clause.Transform); ok {
		return fmt.Sprintf("%s { %s }", Unparse(t.Child), t.ActionID)
	}
	return Unparse(c)
}

// unparseSequence renders a Sequence's children space-separated, splitting
// out a trailing Entail (the shape seqOf builds for "prefix ~ rest") as a
// bare "~" marker rather than a grouped atom.
func unparseSequence(children []clause.Clause) string {
	if len(children) > 0 {
		if e, ok := children[len(children)-1].(clause.Entail); ok {
			prefix := termsJoined(children[:len(children)-1])
			tail := unparseEntail(e.Children)
			if prefix == "" {
				return tail
			}
			return prefix + " " + tail
		}
	}
	return termsJoined(children)
}

func unparseEntail(rest []clause.Clause) string {
	if isTrivialEntail(rest) {
		return "~"
	}
	return "~ " + termsJoined(rest)
}

// isTrivialEntail reports whether rest is the always-fails sentinel
// Not(Empty) a bare trailing "~" compiles to (dialect/surface's
// seqOf), meaning the original notation had nothing following the "~".
func isTrivialEntail(rest []clause.Clause) bool {
	if len(rest) != 1 {
		return false
	}
	n, ok := rest[0].(clause.Not)
	if !ok {
		return false
	}
	_, ok = n.Child.(clause.Empty)
	return ok
}

func termsJoined(terms []clause.Clause) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = unparseTerm(t)
	}
	return strings.Join(parts, " ")
}

func unparseTerm(c clause.Clause) string {
	if cap, ok := c.(clause.Capture); ok {
		return capturePrefix(cap) + unparseTermBody(cap.Child)
	}
	return unparseTermBody(c)
}

func capturePrefix(c clause.Capture) string {
	if c.Variadic {
		return "*" + c.Name + "="
	}
	return c.Name + "="
}

// unparseTermBody renders c as a not/and-prefixed, postfixed term (the
// part of the notation's grammar after an optional capture prefix and
// before the surrounding sequence), recognizing the Repeat/Choice shapes
// that encode "+" and "*".
func unparseTermBody(c clause.Clause) string {
	switch v := c.(type) {
	case clause.Not:
		return "!" + unparseAtom(v.Child)
	case clause.And:
		return "&" + unparseAtom(v.Child)
	case clause.Repeat:
		return unparseAtom(v.Child) + "+"
	case clause.Choice:
		if star, ok := starPattern(v); ok {
			return unparseAtom(star) + "*"
		}
		return unparseAtom(c)
	default:
		return unparseAtom(c)
	}
}

// starPattern recognizes Choice{[Repeat{x}, Empty]}, the "x*" encoding.
func starPattern(c clause.Choice) (clause.Clause, bool) {
	if len(c.Children) != 2 {
		return nil, false
	}
	if !isEmpty(c.Children[1]) {
		return nil, false
	}
	r, ok := c.Children[0].(clause.Repeat)
	if !ok {
		return nil, false
	}
	return r.Child, true
}

// optPattern recognizes Choice{[x, Empty]} where x is not a Repeat (that
// shape is starPattern instead), the "[x]" encoding.
func optPattern(c clause.Choice) (clause.Clause, bool) {
	if len(c.Children) != 2 {
		return nil, false
	}
	if !isEmpty(c.Children[1]) {
		return nil, false
	}
	if _, ok := c.Children[0].(clause.Repeat); ok {
		return nil, false
	}
	return c.Children[0], true
}

func isEmpty(c clause.Clause) bool {
	_, ok := c.(clause.Empty)
	return ok
}

// unparseAtom renders c as a surface-syntax atom: a literal, range, empty
// marker, any-marker, reference, or -- for anything else, including
// sequences and choices that need to appear where only an atom is valid --
// a parenthesized sub-expression.
func unparseAtom(c clause.Clause) string {
	switch v := c.(type) {
	case clause.Reference:
		return v.Name
	case clause.Empty:
		return `""`
	case clause.Any:
		if v.K == 1 {
			return "."
		}
		// Any(K>1) has no single-atom spelling in this notation; approximate
		// it with K concatenated "." atoms. This round-trips to an
		// equivalent but not identical clause (a Sequence of Any(1)s rather
		// than a single Any(K)).
		dots := make([]string, v.K)
		for i := range dots {
			dots[i] = "."
		}
		return "(" + strings.Join(dots, " ") + ")"
	default:
		if s, ok := literalText(c); ok {
			return s
		}
		return "(" + Unparse(c) + ")"
	}
}

// literalText handles the two generic variants, clause.Value and
// clause.Range, whose element type is only known to implement
// fmt.Stringer (domain.Text and domain.Bytes both do).
func literalText(c clause.Clause) (string, bool) {
	switch {
	case strings.HasPrefix(fmt.Sprintf("%T", c), "clause.Value["):
		return quoteValue(c), true
	case strings.HasPrefix(fmt.Sprintf("%T", c), "clause.Range["):
		lo, hi := rangeBounds(c)
		return fmt.Sprintf("'%s'-'%s'", escapeChar(lo), escapeChar(hi)), true
	}
	return "", false
}

// quoteValue renders a Value clause as a quoted literal, recovering its
// text via c.String(), since
// clause.Value[D]/clause.Range[D]'s type parameter is opaque here; both
// variants' own String() already formats their element with %v, which for
// domain.Text/domain.Bytes invokes the domain's Stringer. We re-derive the
// plain text from that rather than reflect into the generic field.
func quoteValue(c clause.Clause) string {
	s := c.String() // "Value(<text>)"
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "Value("), ")")
	if len(inner) == 0 {
		return `""`
	}
	return `"` + escapeLiteral(inner) + `"`
}

func rangeBounds(c clause.Clause) (string, string) {
	s := c.String() // "Range(<lo>, <hi>)"
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "Range("), ")")
	parts := strings.SplitN(inner, ", ", 2)
	if len(parts) != 2 {
		return inner, inner
	}
	return parts[0], parts[1]
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeChar(s string) string {
	return escapeLiteral(s)
}
