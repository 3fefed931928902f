package match

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
)

// Kind distinguishes the two failure modes the interpreter can raise.
type Kind int

const (
	// Recoverable failures feed Choice fallback; they are the ordinary
	// result of a clause simply not matching.
	Recoverable Kind = iota
	// Fatal failures bypass every enclosing Choice and propagate to the
	// parser boundary. Entail promotion, a panicking/erroring action, and
	// a Capture whose child yields more than one result are the producers
	// of a Fatal failure.
	Fatal
	// Cancelled is a Fatal failure produced by a cooperative budget check
	// at Reference entry, rather than by the grammar itself.
	Cancelled
)

// Failure is the error type every matcher returns on a failed match. It
// carries the position and clause responsible, and chains to the failure
// that caused it (if any), so the parser boundary can walk the chain to
// reconstruct the rule path for diagnostics.
type Failure struct {
	At     int
	Clause clause.Clause
	Kind   Kind
	Cause  error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("at %d: expected %s (cause: %s)", f.At, f.Clause, f.Cause)
	}
	return fmt.Sprintf("at %d: expected %s", f.At, f.Clause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// IsFatal reports whether f (or its kind) should bypass Choice fallback.
func (f *Failure) IsFatal() bool {
	return f.Kind == Fatal || f.Kind == Cancelled
}

// recoverable constructs a new Recoverable Failure at the given position and
// clause.
func recoverable(at int, c clause.Clause) error {
	return &Failure{At: at, Clause: c, Kind: Recoverable}
}

// entail promotes cause (which occurred while matching c at at) to a Fatal
// failure -- the commit semantics of the Entail clause.
func entail(at int, c clause.Clause, cause error) error {
	return &Failure{At: at, Clause: c, Kind: Fatal, Cause: cause}
}

// actionFailure promotes a panic/error raised by a Transform's action to a
// Fatal failure at the position the transform started matching.
func actionFailure(at int, c clause.Clause, cause error) error {
	return &Failure{At: at, Clause: c, Kind: Fatal, Cause: cause}
}

// cancelled produces a Fatal failure of kind Cancelled, used by the
// cooperative Budget check at Reference entry.
func cancelled(at int, c clause.Clause) error {
	return &Failure{At: at, Clause: c, Kind: Cancelled, Cause: ErrBudgetExceeded}
}

// ErrBudgetExceeded is the sentinel cause of a Cancelled failure.
var ErrBudgetExceeded = fmt.Errorf("match: step or deadline budget exceeded")

// withReferenceContext wraps err so that, if it propagates further, its
// cause chain records that it passed through the named reference -- this is
// how the parser boundary reconstructs a rule path purely from chained
// causes: a propagating failure acquires the reference clause as
// context.
func withReferenceContext(at int, name string, err error) error {
	var kind Kind
	if f, ok := err.(*Failure); ok && f.IsFatal() {
		kind = f.Kind
	} else {
		kind = Recoverable
	}
	return &Failure{At: at, Clause: clause.Reference{Name: name}, Kind: kind, Cause: err}
}
