package action

import "fmt"

// Func is one namespace entry: a plain function over already-evaluated
// arguments. Namespace functions are how an action body reaches outside the
// match/capture world -- constructing a domain value, combining two parsed
// numbers, and so on.
type Func func(args []any) (any, error)

// Namespace is the table of functions an action body's Call nodes resolve
// against.
type Namespace map[string]Func

// eval evaluates e against the captures bound for one Transform invocation
// and the namespace bound to the whole grammar.
func eval(e Expr, captures map[string]any, ns Namespace) (any, error) {
	switch v := e.(type) {
	case Ident:
		val, ok := captures[v.Name]
		if !ok {
			return nil, fmt.Errorf("action: capture %q not bound", v.Name)
		}
		return val, nil
	case IntLit:
		return v.Value, nil
	case FloatLit:
		return v.Value, nil
	case StringLit:
		return v.Value, nil
	case BoolLit:
		return v.Value, nil
	case Tuple:
		vals := make([]any, len(v.Elements))
		for i, el := range v.Elements {
			val, err := eval(el, captures, ns)
			if err != nil {
				return nil, err
			}
			vals[i] = val
		}
		return vals, nil
	case Call:
		fn, ok := ns[v.Name]
		if !ok {
			return nil, fmt.Errorf("action: no namespace function named %q", v.Name)
		}
		args := make([]any, len(v.Args))
		for i, a := range v.Args {
			val, err := eval(a, captures, ns)
			if err != nil {
				return nil, err
			}
			args[i] = val
		}
		return fn(args)
	default:
		return nil, fmt.Errorf("action: unhandled expression type %T", e)
	}
}
