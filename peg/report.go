package peg

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/match"
)

// report turns the error a Parser's entry matcher returned into a
// *ParseFailure. It walks the chain of *match.Failure causes -- each
// Reference expansion wraps the one below it -- collecting the rule
// names passed through on the way down to the failure that actually
// stuck.
func report[D domain.Sequence[D]](source D, err error) *ParseFailure {
	var chain []*match.Failure
	cur := err
	for {
		f, ok := cur.(*match.Failure)
		if !ok {
			break
		}
		chain = append(chain, f)
		if f.Cause == nil {
			break
		}
		cur = f.Cause
	}

	if len(chain) == 0 {
		return &ParseFailure{Message: err.Error(), Line: sourceLine(source, 0), Column: caretColumn(source, 0)}
	}

	last := chain[len(chain)-1]

	var path []string
	for _, f := range chain[:len(chain)-1] {
		if ref, ok := f.Clause.(clause.Reference); ok {
			path = append(path, ref.Name)
		}
	}

	var message string
	if last.Cause != nil {
		// last.Cause is not a *match.Failure (the loop above would have kept
		// walking otherwise) -- it's the raw error at the root of the chain:
		// most often an action's error, promoted to fatal by compileTransform,
		// but also a Capture's result-count error, match.ErrBudgetExceeded,
		// or an unresolved-reference error. The message wording is the same
		// for all of them.
		message = fmt.Sprintf("transforming %s failed: %s", last.Clause, last.Cause)
	} else {
		message = fmt.Sprintf("expected %s", last.Clause)
	}

	return &ParseFailure{
		Message: message,
		Index:   last.At,
		Path:    path,
		Line:    sourceLine(source, last.At),
		Column:  caretColumn(source, last.At),
	}
}

// sourceLine and caretColumn render the context around a failing index.
// domain.Text gets a real line/column, found by
// scanning back and forward for newlines; any other Sequence gets a short
// window of elements around the index, since "line" has no meaning for it.
func sourceLine[D domain.Sequence[D]](source D, index int) string {
	if t, ok := any(source).(domain.Text); ok {
		lo, hi := lineBoundsText(t, index)
		return string(t[lo:hi])
	}
	return windowString(source, index)
}

func caretColumn[D domain.Sequence[D]](source D, index int) int {
	if t, ok := any(source).(domain.Text); ok {
		lo, _ := lineBoundsText(t, index)
		return index - lo
	}
	lo := index - 5
	if lo < 0 {
		lo = 0
	}
	return index - lo
}

func lineBoundsText(t domain.Text, index int) (lo, hi int) {
	if index > len(t) {
		index = len(t)
	}
	lo = 0
	for i := index - 1; i >= 0; i-- {
		if t[i] == '\n' {
			lo = i + 1
			break
		}
	}
	hi = len(t)
	for i := index; i < len(t); i++ {
		if t[i] == '\n' {
			hi = i
			break
		}
	}
	return lo, hi
}

func windowString[D domain.Sequence[D]](source D, index int) string {
	lo := index - 5
	if lo < 0 {
		lo = 0
	}
	hi := index + 5
	if hi > source.Len() {
		hi = source.Len()
	}
	return fmt.Sprintf("%v", source.Slice(lo, hi))
}
