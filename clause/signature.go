package clause

import (
	"fmt"
	"sort"
)

// Signature is the set of capture names a clause binds to an enclosing
// Transform. It is a set, not an ordered list: agreement
// between Choice alternatives and between a Transform's action parameters
// is a question of membership, not of order.
type Signature map[string]struct{}

// NewSignature builds a Signature from a list of names.
func NewSignature(names ...string) Signature {
	sig := make(Signature, len(names))
	for _, n := range names {
		sig[n] = struct{}{}
	}
	return sig
}

// Equal reports whether two signatures contain the same names (symmetric
// difference empty).
func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if _, ok := other[n]; !ok {
			return false
		}
	}
	return true
}

// Names returns the signature's names in sorted order, useful for
// deterministic error messages.
func (s Signature) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s Signature) union(other Signature) Signature {
	out := make(Signature, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// CaptureSignature computes the capture signature of c.
// It returns an error the first time a Choice's alternatives disagree on
// their bound capture names -- a binding error that must be detected
// eagerly, before any input is parsed.
func CaptureSignature(c Clause) (Signature, error) {
	switch v := c.(type) {
	case Sequence:
		return unionOf(v.Children)
	case Entail:
		return unionOf(v.Children)
	case Choice:
		return choiceSignature(v)
	case Repeat:
		return CaptureSignature(v.Child)
	case Capture:
		return NewSignature(v.Name), nil
	default:
		// Value[D], Range[D] (any concrete D), Empty, Any, Not, And,
		// Reference, and Transform are all leaves as far as capture
		// signatures go: a Transform hides whatever its child binds.
		return NewSignature(), nil
	}
}

func unionOf(children []Clause) (Signature, error) {
	sig := NewSignature()
	for _, child := range children {
		childSig, err := CaptureSignature(child)
		if err != nil {
			return nil, err
		}
		sig = sig.union(childSig)
	}
	return sig, nil
}

func choiceSignature(c Choice) (Signature, error) {
	if len(c.Children) == 0 {
		return NewSignature(), nil
	}
	first, err := CaptureSignature(c.Children[0])
	if err != nil {
		return nil, err
	}
	for _, alt := range c.Children[1:] {
		altSig, err := CaptureSignature(alt)
		if err != nil {
			return nil, err
		}
		if !first.Equal(altSig) {
			return nil, fmt.Errorf(
				"clause: capture signature mismatch in Choice: alternative %s binds %v, first alternative binds %v",
				alt, altSig.Names(), first.Names(),
			)
		}
	}
	return first, nil
}
