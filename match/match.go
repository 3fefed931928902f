// Package match implements the memoized top-down match interpreter:
// compiling a clause graph into matcher closures, running them over an
// input domain, and threading captures and results through adjacent
// matches.
package match

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
)

// Capture is one named value bound from a sub-match to an enclosing
// Transform.
type Capture struct {
	Name  string
	Value any
}

// Match is the immutable record produced by a successful match: a starting
// index, a length, the ordered results produced by Transform clauses within
// it, and the ordered pending captures bound by Capture clauses within it.
type Match struct {
	At       int
	Length   int
	Results  []any
	Captures []Capture
}

// End returns the index one past the last element this match consumed.
func (m Match) End() int {
	return m.At + m.Length
}

// Plain returns a zero-result, zero-capture match of the given length
// starting at at -- the building block every leaf clause's matcher returns.
func Plain(at, length int) Match {
	return Match{At: at, Length: length}
}

// Concat joins two adjacent matches: their lengths add, and their results
// and captures concatenate in order. It panics if the matches are not
// adjacent (m.End() != other.At), which would indicate a bug in a matcher
// rather than a user-facing condition -- adjacency is an interpreter
// invariant, never something grammar authors can violate from the
// surface syntax.
func (m Match) Concat(other Match) Match {
	if m.End() != other.At {
		panic(fmt.Sprintf("match: non-adjacent concatenation: %d != %d", m.End(), other.At))
	}
	out := Match{
		At:     m.At,
		Length: m.Length + other.Length,
	}
	out.Results = append(append(out.Results, m.Results...), other.Results...)
	out.Captures = append(append(out.Captures, m.Captures...), other.Captures...)
	return out
}

// Rules maps a rule name to its compiled matcher, a parallel table
// alongside the clause.Grammar's flat rule table.
type Rules[D domain.Sequence[D]] map[string]Func[D]

// Func is a compiled matcher: a pure function of its arguments (plus the
// immutable action table closed over at compile time) that either returns a
// Match or a *Failure.
type Func[D domain.Sequence[D]] func(of D, at int, memo *Memo, rules Rules[D]) (Match, error)
