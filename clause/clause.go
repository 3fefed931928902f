// Package clause implements the tagged clause algebra of the PEG engine:
// the variants that describe how a grammar rule matches its
// input, plus the capture-signature analysis used to validate Choice and
// Transform at grammar-build time.
//
// Clauses are value-typed and immutable once constructed. They form a graph
// via Reference, and that graph is free to be cyclic (direct and indirect
// left recursion are ordinary, expected shapes) -- see the note on
// Reference-as-index rather than Reference-as-owning-edge in the doc for
// Reference below.
package clause

import "fmt"

// Clause is the tagged union of match operations. The concrete variants are
// Value, Range, Empty, Any, Sequence, Choice, Repeat, Not, And, Entail,
// Capture, Transform, and Reference.
type Clause interface {
	fmt.Stringer

	// Equal reports structural equality: two clauses are Equal if they are
	// the same variant and their fields are recursively Equal. Reference
	// equality compares only the referenced name, not the rule graph.
	Equal(other Clause) bool

	clauseMarker()
}

// Value matches the literal element sequence V (length >= 1).
type Value[D any] struct {
	V D
}

func (Value[D]) clauseMarker() {}

func (v Value[D]) Equal(other Clause) bool {
	o, ok := other.(Value[D])
	if !ok {
		return false
	}
	eq, ok := any(v.V).(interface{ Equal(D) bool })
	if !ok {
		return false
	}
	return eq.Equal(o.V)
}

func (v Value[D]) String() string {
	return fmt.Sprintf("Value(%v)", v.V)
}

// Range matches a slice of length len(Lo)==len(Hi) whose value lies in
// [Lo, Hi] inclusive by the domain's order. Bounds must already be ordered
// Lo <= Hi; NewRange enforces this.
type Range[D any] struct {
	Lo, Hi D
}

// Orderable is the subset of domain.Sequence needed to validate and compare
// Range bounds, spelled out locally so this package need not import domain.
type Orderable[D any] interface {
	Len() int
	Less(D) bool
}

// NewRange orders its arguments so that Lo <= Hi, and reports an error if
// the two bounds have different lengths.
func NewRange[D Orderable[D]](a, b D) (Range[D], error) {
	if a.Len() != b.Len() {
		return Range[D]{}, fmt.Errorf("clause: range bounds have unequal length (%d vs %d)", a.Len(), b.Len())
	}
	if b.Less(a) {
		a, b = b, a
	}
	return Range[D]{Lo: a, Hi: b}, nil
}

func (Range[D]) clauseMarker() {}

func (r Range[D]) Equal(other Clause) bool {
	o, ok := other.(Range[D])
	if !ok {
		return false
	}
	loEq, ok := any(r.Lo).(interface{ Equal(D) bool })
	if !ok {
		return false
	}
	hiEq, ok := any(r.Hi).(interface{ Equal(D) bool })
	if !ok {
		return false
	}
	return loEq.Equal(o.Lo) && hiEq.Equal(o.Hi)
}

func (r Range[D]) String() string {
	return fmt.Sprintf("Range(%v, %v)", r.Lo, r.Hi)
}

// Empty matches zero elements, and always succeeds.
type Empty struct{}

func (Empty) clauseMarker() {}

func (Empty) Equal(other Clause) bool {
	_, ok := other.(Empty)
	return ok
}

func (Empty) String() string { return "Empty" }

// Any matches any K elements (K >= 1).
type Any struct {
	K int
}

// NewAny validates that K >= 1.
func NewAny(k int) (Any, error) {
	if k < 1 {
		return Any{}, fmt.Errorf("clause: Any requires length >= 1, got %d", k)
	}
	return Any{K: k}, nil
}

func (Any) clauseMarker() {}

func (a Any) Equal(other Clause) bool {
	o, ok := other.(Any)
	return ok && a.K == o.K
}

func (a Any) String() string { return fmt.Sprintf("Any(%d)", a.K) }

// Sequence matches each child in order, concatenating matches.
type Sequence struct {
	Children []Clause
}

func (Sequence) clauseMarker() {}

func (s Sequence) Equal(other Clause) bool {
	o, ok := other.(Sequence)
	return ok && equalSlices(s.Children, o.Children)
}

func (s Sequence) String() string {
	return joinChildren("Sequence", s.Children)
}

// Choice tries children left-to-right, succeeding with the first match.
type Choice struct {
	Children []Clause
}

func (Choice) clauseMarker() {}

func (c Choice) Equal(other Clause) bool {
	o, ok := other.(Choice)
	return ok && equalSlices(c.Children, o.Children)
}

func (c Choice) String() string {
	return joinChildren("Choice", c.Children)
}

// Repeat matches Child one or more times, greedily. Choice(Repeat(c), Empty)
// encodes zero-or-more.
type Repeat struct {
	Child Clause
}

func (Repeat) clauseMarker() {}

func (r Repeat) Equal(other Clause) bool {
	o, ok := other.(Repeat)
	return ok && r.Child.Equal(o.Child)
}

func (r Repeat) String() string { return fmt.Sprintf("Repeat(%s)", r.Child) }

// Not succeeds with zero length iff Child would fail (discards sub-captures).
type Not struct {
	Child Clause
}

func (Not) clauseMarker() {}

func (n Not) Equal(other Clause) bool {
	o, ok := other.(Not)
	return ok && n.Child.Equal(o.Child)
}

func (n Not) String() string { return fmt.Sprintf("Not(%s)", n.Child) }

// And succeeds with zero length iff Child would succeed (discards
// sub-captures).
type And struct {
	Child Clause
}

func (And) clauseMarker() {}

func (a And) Equal(other Clause) bool {
	o, ok := other.(And)
	return ok && a.Child.Equal(o.Child)
}

func (a And) String() string { return fmt.Sprintf("And(%s)", a.Child) }

// Entail matches like Sequence, but any non-fatal failure inside is
// promoted to fatal: this is the commit operator.
type Entail struct {
	Children []Clause
}

func (Entail) clauseMarker() {}

func (e Entail) Equal(other Clause) bool {
	o, ok := other.(Entail)
	return ok && equalSlices(e.Children, o.Children)
}

func (e Entail) String() string {
	return joinChildren("Entail", e.Children)
}

// Capture matches Child and binds a named capture from its result. If
// Variadic, the captured value is Child's ordered results; otherwise it
// collapses Child's single result (or, if Child produced no results, the
// literal input slice it matched).
type Capture struct {
	Child    Clause
	Name     string
	Variadic bool
}

func (Capture) clauseMarker() {}

func (c Capture) Equal(other Clause) bool {
	o, ok := other.(Capture)
	return ok && c.Name == o.Name && c.Variadic == o.Variadic && c.Child.Equal(o.Child)
}

func (c Capture) String() string {
	prefix := ""
	if c.Variadic {
		prefix = "*"
	}
	return fmt.Sprintf("Capture(%s, %s%s)", c.Child, prefix, c.Name)
}

// Transform matches Child, then applies the action named ActionID to its
// collected captures, replacing the match's results with the single
// returned value.
type Transform struct {
	Child    Clause
	ActionID string
}

func (Transform) clauseMarker() {}

func (t Transform) Equal(other Clause) bool {
	o, ok := other.(Transform)
	return ok && t.ActionID == o.ActionID && t.Child.Equal(o.Child)
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform(%s, %q)", t.Child, t.ActionID)
}

// Reference indirectly matches the rule bound to Name in the enclosing
// grammar. It is an index into the rule table, never an owning edge, so
// that cyclic (recursive) grammars stay representable as a flat map.
type Reference struct {
	Name string
}

func (Reference) clauseMarker() {}

func (r Reference) Equal(other Clause) bool {
	o, ok := other.(Reference)
	return ok && r.Name == o.Name
}

func (r Reference) String() string { return r.Name }

// Rule is a named clause, the unit a Reference resolves to.
type Rule struct {
	Name string
	Body Clause
}

func (r Rule) Equal(other Rule) bool {
	return r.Name == other.Name && r.Body.Equal(other.Body)
}

// Grammar is an ordered list of rules; the first rule is the entry point
// ("top").
type Grammar struct {
	Rules []Rule
}

// Top returns the name of the entry rule, or "" if the grammar has no
// rules.
func (g Grammar) Top() string {
	if len(g.Rules) == 0 {
		return ""
	}
	return g.Rules[0].Name
}

// Lookup returns the rule bound to name, and whether it was found.
func (g Grammar) Lookup(name string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Equal reports whether two grammars have the same rules in the same
// order, by structural equality of each Rule. This is the notion of
// equality a self-hosting bootstrap's fixpoint check is stated over.
func (g Grammar) Equal(other Grammar) bool {
	if len(g.Rules) != len(other.Rules) {
		return false
	}
	for i := range g.Rules {
		if !g.Rules[i].Equal(other.Rules[i]) {
			return false
		}
	}
	return true
}

func equalSlices(a, b []Clause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func joinChildren(name string, children []Clause) string {
	s := name + "("
	for i, c := range children {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return s + ")"
}
