package altpeg

import "github.com/dekarrin/pegboot/match"

// altActions wires every Transform in altGrammar to namespace, keyed on
// action id exactly as altGrammar spells it -- the same "id is literally
// the call text" convention dialect/surface's minimalActions uses, since
// this dialect likewise has no textual action bodies of its own to parse.
func altActions() match.Actions {
	call := func(name string, argNames ...string) match.ActionFunc {
		return func(c map[string]any) (any, error) {
			args := make([]any, len(argNames))
			for i, n := range argNames {
				args[i] = c[n]
			}
			return namespace[name](args)
		}
	}

	actions := match.Actions{
		"skip()":                    call("skip"),
		"grammarOf(items)":          call("grammarOf", "items"),
		"rule(name,body)":           call("rule", "name", "body"),
		"seqOf(terms)":              call("seqOf", "terms"),
		"choiceOrSingle(first,rest)": call("choiceOrSingle", "first", "rest"),
		"mkTerm(pfx,a,post)":        call("mkTerm", "pfx", "a", "post"),
		"notMark()":                 call("notMark"),
		"andMark()":                 call("andMark"),
		"noMark()":                  call("noMark"),
		"plusMark()":                call("plusMark"),
		"starMark()":                call("starMark"),
		"optMark()":                 call("optMark"),
		"anyC()":                    call("anyC"),
		"ref(name)":                 call("ref", "name"),
		"value(text)":               call("value", "text"),
		"classChar(ch)":             call("classChar", "ch"),
		"classRange(lo,hi)":         call("classRange", "lo", "hi"),
		"charClassOf(items)":        call("charClassOf", "items"),
	}
	// identity pass-through for captures that are already the value a
	// surrounding alternative wants, matching dialect/surface's "e" entry.
	actions["e"] = func(c map[string]any) (any, error) {
		return c["e"], nil
	}
	return actions
}
