package store

import (
	"fmt"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/peg"
)

// RawNode is the result a RawCaptureNamespace function produces: the
// action's name and its already-evaluated arguments, nothing else. It
// never carries a Go closure or any value the namespace itself didn't
// already own, so it is always safe to marshal straight to JSON.
type RawNode struct {
	Op   string
	Args []any
}

// RawCaptureNamespace builds a namespace safe for parsing a registry
// grammar nobody but its author has reviewed, e.g. pegserver's
// /api/v1/grammars/{name}/parse endpoint: rather than
// resolving raw's action calls against real functions -- which would let
// an uploaded grammar's action text invoke arbitrary host-side behavior
// merely by naming it -- every call name the grammar's own action sources
// mention resolves to a generic node constructor that just records the
// call and its arguments. Running a stored grammar this way can never do
// anything but build this tree; it is exactly as safe as not running
// actions at all.
func RawCaptureNamespace(raw peg.RawGrammar) (action.Namespace, error) {
	names := map[string]struct{}{}
	for _, a := range raw.Actions {
		expr, err := action.Parse(a.Text)
		if err != nil {
			return nil, fmt.Errorf("store: action %q: %w", a.ID, err)
		}
		collectCallNames(expr, names)
	}

	ns := make(action.Namespace, len(names))
	for name := range names {
		name := name
		ns[name] = func(args []any) (any, error) {
			return RawNode{Op: name, Args: args}, nil
		}
	}
	return ns, nil
}

func collectCallNames(e action.Expr, into map[string]struct{}) {
	switch v := e.(type) {
	case action.Call:
		into[v.Name] = struct{}{}
		for _, arg := range v.Args {
			collectCallNames(arg, into)
		}
	case action.Tuple:
		for _, el := range v.Elements {
			collectCallNames(el, into)
		}
	}
}
