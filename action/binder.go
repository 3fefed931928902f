package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/match"
)

// Binder compiles action source text into match.ActionFunc values, against
// a fixed namespace of user-supplied functions. It caches by source text, since a dialect may record the same
// action body once per Transform occurrence even when several occurrences
// share identical text but disagree on capture signature -- those must
// bind independently, so the cache key includes the signature.
type Binder struct {
	namespace Namespace
	cache     map[bindKey]match.ActionFunc
}

type bindKey struct {
	text string
	sig  string
}

// NewBinder returns a Binder that resolves Call names against ns.
func NewBinder(ns Namespace) *Binder {
	return &Binder{namespace: ns, cache: make(map[bindKey]match.ActionFunc)}
}

// Bind parses text as one action expression and verifies that the set of
// bare identifiers it references is exactly signature's names -- not a
// subset, not a superset. A mismatch is a *peg.BindingError in spirit,
// reported here as a plain error since package action does not depend on
// package peg.
func (b *Binder) Bind(text string, signature clause.Signature) (match.ActionFunc, error) {
	key := bindKey{text: text, sig: sigKey(signature)}
	if fn, ok := b.cache[key]; ok {
		return fn, nil
	}

	expr, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}

	used := make(map[string]struct{})
	identifiers(expr, used)
	if err := checkSignatureAgreement(used, signature); err != nil {
		return nil, err
	}

	ns := b.namespace
	fn := match.ActionFunc(func(captures map[string]any) (any, error) {
		return eval(expr, captures, ns)
	})
	b.cache[key] = fn
	return fn, nil
}

func checkSignatureAgreement(used map[string]struct{}, signature clause.Signature) error {
	var extra, missing []string
	for name := range used {
		if _, ok := signature[name]; !ok {
			extra = append(extra, name)
		}
	}
	for name := range signature {
		if _, ok := used[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(extra) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(extra)
	sort.Strings(missing)
	var parts []string
	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("references unbound %v", extra))
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("never uses bound %v", missing))
	}
	return fmt.Errorf("action: signature mismatch: %s", strings.Join(parts, "; "))
}

func sigKey(s clause.Signature) string {
	return strings.Join(s.Names(), ",")
}
