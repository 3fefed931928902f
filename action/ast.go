package action

import "strings"

// Expr is one node of a parsed action body: a pure expression built from
// captures, literals, tuples, and calls into a
// namespace of user-supplied functions. There are no statements, no
// assignment, and no control flow -- an action is always exactly one
// expression evaluated once.
type Expr interface {
	exprMarker()
}

// Ident references either a bound capture (when used bare) or a namespace
// function (when it is the head of a Call). Which one it is isn't decided
// until binding: a Call's Name is never resolved against captures.
type Ident struct {
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	Value int
}

// FloatLit is a floating-point literal, produced when a Number token
// contains a decimal point.
type FloatLit struct {
	Value float64
}

// StringLit is a double-quoted string literal, with backslash escapes
// already resolved by the lexer.
type StringLit struct {
	Value string
}

// BoolLit is the literal `true` or `false`.
type BoolLit struct {
	Value bool
}

// Call applies a namespace function named Name to Args.
type Call struct {
	Name string
	Args []Expr
}

// Tuple groups two or more expressions positionally. Unlike Call, it has no
// name to resolve -- a namespace is never consulted for it.
type Tuple struct {
	Elements []Expr
}

func (Ident) exprMarker()     {}
func (IntLit) exprMarker()    {}
func (FloatLit) exprMarker()  {}
func (StringLit) exprMarker() {}
func (BoolLit) exprMarker()   {}
func (Call) exprMarker()      {}
func (Tuple) exprMarker()     {}

func (e Ident) String() string { return e.Name }

func (e Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = exprString(a)
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e Tuple) String() string {
	elems := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = exprString(el)
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

func exprString(e Expr) string {
	switch v := e.(type) {
	case Ident:
		return v.Name
	case Call:
		return v.String()
	case Tuple:
		return v.String()
	case StringLit:
		return `"` + v.Value + `"`
	default:
		return ""
	}
}

// identifiers collects every bare Ident reference in e -- that is, every
// identifier used as a value, not as a Call's name. This is exactly the set
// of names a signature must supply for e to evaluate.
func identifiers(e Expr, into map[string]struct{}) {
	switch v := e.(type) {
	case Ident:
		into[v.Name] = struct{}{}
	case Call:
		for _, a := range v.Args {
			identifiers(a, into)
		}
	case Tuple:
		for _, el := range v.Elements {
			identifiers(el, into)
		}
	}
}
