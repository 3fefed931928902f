package match

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
)

// ActionFunc is a compiled user action: a pure function of the named
// captures in scope for the Transform it is bound to (the binder hands
// these to Compile already bound and signature-checked).
type ActionFunc func(captures map[string]any) (any, error)

// Actions is the immutable, read-only table Compile closes over; the same
// table is shared, never mutated, across every matcher a grammar compiles
// to, and across concurrent parses.
type Actions map[string]ActionFunc

// Compile builds a matcher closure for c. Compilation is a one-time,
// grammar-level operation: the returned Func is a pure function of its
// (of, at, memo, rules) arguments plus actions.
func Compile[D domain.Sequence[D]](c clause.Clause, actions Actions) Func[D] {
	switch v := c.(type) {
	case clause.Value[D]:
		return compileValue[D](v)
	case clause.Range[D]:
		return compileRange[D](v)
	case clause.Empty:
		return compileEmpty[D]()
	case clause.Any:
		return compileAny[D](v)
	case clause.Sequence:
		return compileSequence[D](v, actions)
	case clause.Choice:
		return compileChoice[D](v, actions)
	case clause.Repeat:
		return compileRepeat[D](v, actions)
	case clause.Not:
		return compileNot[D](v, actions)
	case clause.And:
		return compileAnd[D](v, actions)
	case clause.Entail:
		return compileEntail[D](v, actions)
	case clause.Capture:
		return compileCapture[D](v, actions)
	case clause.Transform:
		return compileTransform[D](v, actions)
	case clause.Reference:
		return compileReference[D](v)
	default:
		panic(fmt.Sprintf("match: Compile: unhandled clause type %T", c))
	}
}

func compileValue[D domain.Sequence[D]](c clause.Value[D]) Func[D] {
	length := c.V.Len()
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if at+length > of.Len() {
			return Match{}, recoverable(at, c)
		}
		if !of.Slice(at, at+length).Equal(c.V) {
			return Match{}, recoverable(at, c)
		}
		return Plain(at, length), nil
	}
}

func compileRange[D domain.Sequence[D]](c clause.Range[D]) Func[D] {
	width := c.Lo.Len()
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if at+width > of.Len() {
			return Match{}, recoverable(at, c)
		}
		s := of.Slice(at, at+width)
		if s.Less(c.Lo) || c.Hi.Less(s) {
			return Match{}, recoverable(at, c)
		}
		return Plain(at, width), nil
	}
}

func compileEmpty[D domain.Sequence[D]]() Func[D] {
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		return Plain(at, 0), nil
	}
}

func compileAny[D domain.Sequence[D]](c clause.Any) Func[D] {
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if at+c.K > of.Len() {
			return Match{}, recoverable(at, c)
		}
		return Plain(at, c.K), nil
	}
}

func compileSequence[D domain.Sequence[D]](c clause.Sequence, actions Actions) Func[D] {
	subs := make([]Func[D], len(c.Children))
	for i, child := range c.Children {
		subs[i] = Compile[D](child, actions)
	}
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if len(subs) == 0 {
			return Plain(at, 0), nil
		}
		match, err := subs[0](of, at, memo, rules)
		if err != nil {
			return Match{}, err
		}
		for _, sub := range subs[1:] {
			next, err := sub(of, match.End(), memo, rules)
			if err != nil {
				return Match{}, err
			}
			match = match.Concat(next)
		}
		return match, nil
	}
}

func compileChoice[D domain.Sequence[D]](c clause.Choice, actions Actions) Func[D] {
	subs := make([]Func[D], len(c.Children))
	for i, child := range c.Children {
		subs[i] = Compile[D](child, actions)
	}
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		for _, sub := range subs {
			match, err := sub(of, at, memo, rules)
			if err == nil {
				return match, nil
			}
			if f, ok := err.(*Failure); ok && f.IsFatal() {
				return Match{}, err
			}
		}
		return Match{}, recoverable(at, c)
	}
}

func compileRepeat[D domain.Sequence[D]](c clause.Repeat, actions Actions) Func[D] {
	sub := Compile[D](c.Child, actions)
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		match, err := sub(of, at, memo, rules)
		if err != nil {
			return Match{}, err
		}
		for at < match.End() && match.End() < of.Len() {
			next, err := sub(of, match.End(), memo, rules)
			if err != nil {
				if f, ok := err.(*Failure); ok && f.IsFatal() {
					return Match{}, err
				}
				break
			}
			match = match.Concat(next)
		}
		return match, nil
	}
}

func compileNot[D domain.Sequence[D]](c clause.Not, actions Actions) Func[D] {
	sub := Compile[D](c.Child, actions)
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		_, err := sub(of, at, memo, rules)
		if err == nil {
			return Match{}, recoverable(at, c)
		}
		if f, ok := err.(*Failure); ok && f.IsFatal() {
			return Match{}, err
		}
		return Plain(at, 0), nil
	}
}

func compileAnd[D domain.Sequence[D]](c clause.And, actions Actions) Func[D] {
	sub := Compile[D](c.Child, actions)
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if _, err := sub(of, at, memo, rules); err != nil {
			return Match{}, err
		}
		return Plain(at, 0), nil
	}
}

func compileEntail[D domain.Sequence[D]](c clause.Entail, actions Actions) Func[D] {
	seq := compileSequence[D](clause.Sequence{Children: c.Children}, actions)
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		match, err := seq(of, at, memo, rules)
		if err != nil {
			if f, ok := err.(*Failure); ok && f.IsFatal() {
				return Match{}, err
			}
			return Match{}, entail(at, c, err)
		}
		return match, nil
	}
}

func compileCapture[D domain.Sequence[D]](c clause.Capture, actions Actions) Func[D] {
	sub := Compile[D](c.Child, actions)
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		match, err := sub(of, at, memo, rules)
		if err != nil {
			return Match{}, err
		}
		var value any
		switch {
		case c.Variadic:
			value = match.Results
		case len(match.Results) == 0:
			value = of.Slice(match.At, match.End())
		case len(match.Results) == 1:
			value = match.Results[0]
		default:
			return Match{}, actionFailure(at, c, fmt.Errorf(
				"match: Capture %q: child clause produced %d results, expected 0 or 1",
				c.Name, len(match.Results),
			))
		}
		return Match{
			At:       match.At,
			Length:   match.Length,
			Captures: []Capture{{Name: c.Name, Value: value}},
		}, nil
	}
}

func compileTransform[D domain.Sequence[D]](c clause.Transform, actions Actions) Func[D] {
	sub := Compile[D](c.Child, actions)
	action, ok := actions[c.ActionID]
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		match, err := sub(of, at, memo, rules)
		if err != nil {
			return Match{}, err
		}
		if !ok {
			return Match{}, actionFailure(at, c, fmt.Errorf("match: no action bound for %q", c.ActionID))
		}
		captureMap := make(map[string]any, len(match.Captures))
		for _, capture := range match.Captures {
			captureMap[capture.Name] = capture.Value
		}
		result, actErr := invokeAction(action, captureMap)
		if actErr != nil {
			return Match{}, actionFailure(at, c, actErr)
		}
		return Match{
			At:      match.At,
			Length:  match.Length,
			Results: []any{result},
		}, nil
	}
}

// invokeAction calls action, converting any panic into an error so a
// misbehaving action can never escape as an uncontrolled panic through the
// interpreter -- any exception during the action is promoted to a Fatal
// ParseFailure instead.
func invokeAction(action ActionFunc, captures map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return action(captures)
}

func compileReference[D domain.Sequence[D]](c clause.Reference) Func[D] {
	name := c.Name
	return func(of D, at int, memo *Memo, rules Rules[D]) (Match, error) {
		if memo.budget != nil && memo.budget.exceeded(memo) {
			return Match{}, cancelled(at, c)
		}
		memo.steps++

		if entry, ok := memo.get(at, name); ok {
			if entry.pending {
				return Match{}, recoverable(at, c)
			}
			return entry.match, nil
		}

		rule, ok := rules[name]
		if !ok {
			return Match{}, fmt.Errorf("match: unresolved reference %q", name)
		}

		// Seed-and-grow fixpoint: mark as pending so recursive lookups at
		// this position see "currently expanding, treat as failure", then
		// iteratively expand until an iteration fails to advance the
		// match end.
		memo.setPending(at, name)
		var best Match
		haveBest := false
		bestEnd := at - 1

		var lastErr error
		for {
			candidate, err := rule(of, at, memo, rules)
			if err != nil {
				lastErr = err
				break
			}
			if candidate.End() > bestEnd {
				best = candidate
				haveBest = true
				bestEnd = candidate.End()
				memo.setMatch(at, name, best)
				continue
			}
			break
		}

		if !haveBest {
			// memo[at, name] is left as the pending sentinel, which doubles
			// as a cached "known failure" for any later lookup at this cell.
			return Match{}, withReferenceContext(at, name, lastErr)
		}
		memo.setMatch(at, name, best)
		return best, nil
	}
}
