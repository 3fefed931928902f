package surface

import (
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/match"
)

// Clause constructor shorthands, kept local so minimalGrammar reads close
// to the notation it recognizes.
type c = clause.Clause

func seq(cs ...c) c    { return clause.Sequence{Children: cs} }
func choice(cs ...c) c { return clause.Choice{Children: cs} }
func opt(x c) c        { return clause.Choice{Children: []c{x, clause.Empty{}}} }
func star(x c) c       { return clause.Choice{Children: []c{clause.Repeat{Child: x}, clause.Empty{}}} }
func lit(s string) c   { return clause.Value[domain.Text]{V: domain.NewText(s)} }
func rng(lo, hi string) c {
	return clause.Range[domain.Text]{Lo: domain.NewText(lo), Hi: domain.NewText(hi)}
}
func cap(name string, x c) c { return clause.Capture{Child: x, Name: name} }
func vcap(name string, x c) c {
	return clause.Capture{Child: x, Name: name, Variadic: true}
}
func ref(name string) c { return clause.Reference{Name: name} }
func xform(x c, id string) c {
	return clause.Transform{Child: x, ActionID: id}
}

// minimalGrammar is the hand-built recognizer for the textual surface
// syntax. Its rule and capture names exactly mirror surfaceGrammarSource
// (source.go) so that binding the latter's textual actions against
// clauseNamespace reproduces, call for call, what minimalActions below
// invokes directly.
func minimalGrammar() clause.Grammar {
	identStartBody := choice(rng("a", "z"), rng("A", "Z"), lit("_"))
	identPartBody := choice(ref("identStart"), rng("0", "9"))
	identCharsBody := seq(ref("identStart"), star(ref("identPart")))

	ws0Body := star(choice(lit(" "), lit("\t")))

	commentCharBody := seq(clause.Not{Child: lit("\n")}, clause.Any{K: 1})
	skipLineBody := seq(ref("ws0"), opt(seq(lit("#"), star(ref("commentChar")))), lit("\n"))

	// an escaped character ("\" followed by anything) is consumed whole so
	// that, e.g., \" does not end the literal early; unescaping happens
	// later in the value() namespace function.
	dqCharBody := choice(seq(lit("\\"), clause.Any{K: 1}), seq(clause.Not{Child: lit("\"")}, clause.Any{K: 1}))
	sqCharBody := choice(seq(lit("\\"), clause.Any{K: 1}), seq(clause.Not{Child: lit("'")}, clause.Any{K: 1}))
	actionCharBody := seq(clause.Not{Child: lit("}")}, clause.Any{K: 1})

	atomBody := choice(
		xform(lit("\"\""), "emptyC()"),
		xform(lit("''"), "emptyC()"),
		xform(seq(lit("'"), cap("lo", clause.Any{K: 1}), lit("'"), lit("-"), lit("'"), cap("hi", clause.Any{K: 1}), lit("'")), "rangeOf(lo, hi)"),
		xform(seq(lit("\""), cap("text", star(ref("dqChar"))), lit("\"")), "value(text)"),
		xform(seq(lit("'"), cap("text", star(ref("sqChar"))), lit("'")), "value(text)"),
		xform(lit("."), "anyC()"),
		xform(seq(lit("("), ref("ws0"), cap("e", ref("expr")), ref("ws0"), lit(")")), "e"),
		xform(seq(lit("["), ref("ws0"), cap("e", ref("expr")), ref("ws0"), lit("]")), "optOf(e)"),
		xform(cap("name", ref("identChars")), "ref(name)"),
	)

	capturePrefixBody := choice(
		xform(seq(lit("*"), cap("name", ref("identChars")), lit("=")), "variadicCap(name)"),
		xform(seq(cap("name", ref("identChars")), lit("=")), "plainCap(name)"),
		xform(clause.Empty{}, "noCap()"),
	)

	notAndPrefixBody := choice(
		xform(lit("!"), "notMark()"),
		xform(lit("&"), "andMark()"),
		xform(clause.Empty{}, "noMark()"),
	)

	postfixBody := choice(
		xform(lit("+"), "plusMark()"),
		xform(lit("*"), "starMark()"),
		xform(clause.Empty{}, "noMark()"),
	)

	termBody := choice(
		xform(seq(ref("ws0"), lit("~")), "tildeMark()"),
		xform(seq(ref("ws0"), cap("cap", ref("capturePrefix")), cap("pfx", ref("notAndPrefix")), cap("a", ref("atom")), cap("post", ref("postfix"))), "mkTerm(cap, pfx, a, post)"),
	)

	exprAltBody := xform(vcap("terms", clause.Repeat{Child: ref("term")}), "seqOf(terms)")

	exprAltTailBody := xform(seq(ref("ws0"), lit("|"), cap("e", ref("exprAlt"))), "e")

	exprBody := xform(seq(cap("first", ref("exprAlt")), vcap("rest", star(ref("exprAltTail")))), "choiceOrSingle(first, rest)")

	actionOptBody := choice(
		xform(seq(ref("ws0"), lit("{"), cap("text", star(ref("actionChar"))), lit("}")), "text"),
		xform(ref("ws0"), "noAction()"),
	)

	altLineBody := xform(seq(ref("ws0"), lit("|"), cap("e", ref("expr")), cap("action", ref("actionOpt")), lit("\n")), "withAction(e, action)")

	ruleBody := xform(seq(cap("name", ref("identChars")), lit(":"), lit("\n"), vcap("alts", clause.Repeat{Child: ref("altLine")})), "rule(name, alts)")

	itemBody := choice(ref("skipLine"), ref("rule"))

	grammarBody := xform(seq(vcap("items", star(ref("item"))), ref("eof")), "grammarOf(items)")

	return clause.Grammar{Rules: []clause.Rule{
		{Name: "grammar", Body: grammarBody},
		{Name: "item", Body: itemBody},
		{Name: "skipLine", Body: xform(skipLineBody, "skip()")},
		{Name: "rule", Body: ruleBody},
		{Name: "altLine", Body: altLineBody},
		{Name: "actionOpt", Body: actionOptBody},
		{Name: "expr", Body: exprBody},
		{Name: "exprAlt", Body: exprAltBody},
		{Name: "exprAltTail", Body: exprAltTailBody},
		{Name: "term", Body: termBody},
		{Name: "capturePrefix", Body: capturePrefixBody},
		{Name: "notAndPrefix", Body: notAndPrefixBody},
		{Name: "postfix", Body: postfixBody},
		{Name: "atom", Body: atomBody},
		{Name: "identStart", Body: identStartBody},
		{Name: "identPart", Body: identPartBody},
		{Name: "identChars", Body: identCharsBody},
		{Name: "commentChar", Body: commentCharBody},
		{Name: "dqChar", Body: dqCharBody},
		{Name: "sqChar", Body: sqCharBody},
		{Name: "actionChar", Body: actionCharBody},
		{Name: "ws0", Body: ws0Body},
		{Name: "eof", Body: clause.Not{Child: clause.Any{K: 1}}},
	}}
}

// minimalActions wires every Transform in minimalGrammar to the shared
// clauseNamespace, keyed on action id, which here is just the action text
// itself: the minimal grammar has no textual action bodies to parse, so
// its "source" and its id are the same string.
func minimalActions() match.Actions {
	actions := match.Actions{}
	for id, fn := range clauseNamespace {
		fn := fn
		actions[id+"()"] = func(captures map[string]any) (any, error) {
			return fn(nil)
		}
	}
	// The non-nullary calls used by minimalGrammar need their captures
	// translated into positional args explicitly.
	actions["rangeOf(lo, hi)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["rangeOf"]([]any{c["lo"], c["hi"]})
	}
	actions["value(text)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["value"]([]any{c["text"]})
	}
	actions["optOf(e)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["optOf"]([]any{c["e"]})
	}
	actions["ref(name)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["ref"]([]any{c["name"]})
	}
	actions["variadicCap(name)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["variadicCap"]([]any{c["name"]})
	}
	actions["plainCap(name)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["plainCap"]([]any{c["name"]})
	}
	actions["mkTerm(cap, pfx, a, post)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["mkTerm"]([]any{c["cap"], c["pfx"], c["a"], c["post"]})
	}
	actions["seqOf(terms)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["seqOf"]([]any{c["terms"]})
	}
	actions["choiceOrSingle(first, rest)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["choiceOrSingle"]([]any{c["first"], c["rest"]})
	}
	actions["withAction(e, action)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["withAction"]([]any{c["e"], c["action"]})
	}
	actions["rule(name, alts)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["rule"]([]any{c["name"], c["alts"]})
	}
	actions["grammarOf(items)"] = func(c map[string]any) (any, error) {
		return clauseNamespace["grammarOf"]([]any{c["items"]})
	}
	actions["e"] = func(c map[string]any) (any, error) {
		return c["e"], nil
	}
	actions["text"] = func(c map[string]any) (any, error) {
		return c["text"], nil
	}
	return actions
}
