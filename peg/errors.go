package peg

import "fmt"

// ParseFailure is the user-visible failure a Parser raises, carrying enough
// to render a caret-annotated source excerpt: the message, the failing
// index, the source line around it with a caret column, and the rule path
// (the trailing Reference clauses from the cause chain).
type ParseFailure struct {
	Message string
	Index   int
	Line    string
	Column  int
	Path    []string
}

func (f *ParseFailure) Error() string {
	path := "[start]"
	if len(f.Path) > 0 {
		path = f.Path[0]
		for _, p := range f.Path[1:] {
			path += " -> " + p
		}
	}
	caret := ""
	for i := 0; i < f.Column; i++ {
		caret += " "
	}
	caret += "^"
	return fmt.Sprintf("in path %s\n%s\nat index %d:\n%s\n%s", path, f.Message, f.Index, f.Line, caret)
}

// UnpackError is the distinct failure kind raised when a top-level match
// succeeds but cannot be unpacked: extra captures, too many results, or zero
// results. It always indicates a design error in the user grammar, never a
// property of the input.
type UnpackError struct {
	Reason string
}

func (e *UnpackError) Error() string {
	return "peg: unpack failure: " + e.Reason
}

// BindingError reports a problem detected eagerly when a Parser is built:
// an unresolved reference, a mismatched Choice capture signature, or an
// action whose parameters don't match its Transform's captures.
type BindingError struct {
	Reason string
}

func (e *BindingError) Error() string {
	return "peg: binding error: " + e.Reason
}
