package match

import "time"

// Budget is an optional cooperative cancellation check, consulted once per
// Reference expansion: a step count or deadline, whichever triggers first,
// surfaces as a fatal failure with a dedicated kind. The core engine never
// imposes one by default; a caller opts in via Memo.WithBudget (or
// peg.Parser.WithBudget).
type Budget struct {
	MaxSteps int
	Deadline time.Time
}

func (b *Budget) exceeded(m *Memo) bool {
	if b.MaxSteps > 0 && m.steps >= b.MaxSteps {
		return true
	}
	if !b.Deadline.IsZero() && time.Now().After(b.Deadline) {
		return true
	}
	return false
}

// WithBudget attaches b to m, so every subsequent Reference expansion
// checks it before doing any work.
func (m *Memo) WithBudget(b *Budget) *Memo {
	m.budget = b
	return m
}
