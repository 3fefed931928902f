package altpeg

import (
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
)

// Clause constructor shorthands, kept local so altGrammar reads close to
// the notation it recognizes -- the same convention dialect/surface's
// minimal.go uses.
type c = clause.Clause

func seq(cs ...c) c    { return clause.Sequence{Children: cs} }
func choice(cs ...c) c { return clause.Choice{Children: cs} }
func opt(x c) c        { return clause.Choice{Children: []c{x, clause.Empty{}}} }
func star(x c) c       { return clause.Choice{Children: []c{clause.Repeat{Child: x}, clause.Empty{}}} }
func plus(x c) c       { return clause.Repeat{Child: x} }
func lit(s string) c   { return clause.Value[domain.Text]{V: domain.NewText(s)} }
func cap(name string, x c) c  { return clause.Capture{Child: x, Name: name} }
func vcap(name string, x c) c { return clause.Capture{Child: x, Name: name, Variadic: true} }
func ref(name string) c       { return clause.Reference{Name: name} }
func xform(x c, id string) c  { return clause.Transform{Child: x, ActionID: id} }
func notC(x c) c              { return clause.Not{Child: x} }
func any1() c                 { return clause.Any{K: 1} }

// altGrammar is the hand-built recognizer for classic PEG notation
// (name "<-" expr, "/" alternation, "[a-z]" character classes, postfix
// "?"/"*"/"+", prefix "!"/"&"). Like dialect/surface's minimalGrammar, it
// is data -- a clause.Grammar -- rather than a recursive-descent function,
// wired to altActions's native closures through NewParserWithActions.
//
// Each rule stays on one physical line, the same simplification
// dialect/surface's notation makes: ws0 does not match a newline, so a
// rule's terminating "\n" can never be swallowed by an interior capture
// that backtracked past it, and two adjacent rules can never merge.
func altGrammar() clause.Grammar {
	ws0Body := star(choice(lit(" "), lit("\t")))

	identStartBody := choice(rangeC("a", "z"), rangeC("A", "Z"), lit("_"))
	identPartBody := choice(ref("identStart"), rangeC("0", "9"))
	identCharsBody := seq(ref("identStart"), star(ref("identPart")))

	commentCharBody := seq(notC(lit("\n")), any1())
	skipLineBody := seq(ref("ws0"), opt(seq(lit("#"), star(ref("commentChar")))), lit("\n"))

	escOrAnyBody := func(forbidden string) c {
		return choice(seq(lit("\\"), any1()), seq(notC(lit(forbidden)), any1()))
	}
	sqCharBody := escOrAnyBody("'")
	dqCharBody := escOrAnyBody("\"")
	classCharBody := escOrAnyBody("]")

	classItemBody := choice(
		xform(seq(cap("lo", ref("classChar")), lit("-"), cap("hi", ref("classChar"))), "classRange(lo,hi)"),
		xform(cap("ch", ref("classChar")), "classChar(ch)"),
	)
	charClassBody := xform(seq(lit("["), vcap("items", plus(ref("classItem"))), lit("]")), "charClassOf(items)")

	literalSQBody := xform(seq(lit("'"), cap("text", star(ref("sqChar"))), lit("'")), "value(text)")
	literalDQBody := xform(seq(lit("\""), cap("text", star(ref("dqChar"))), lit("\"")), "value(text)")

	atomBody := choice(
		xform(seq(lit("("), ref("ws0"), cap("e", ref("expr")), ref("ws0"), lit(")")), "e"),
		ref("charClass"),
		ref("literalSQ"),
		ref("literalDQ"),
		xform(lit("."), "anyC()"),
		xform(cap("name", ref("identChars")), "ref(name)"),
	)

	prefixBody := choice(
		xform(lit("!"), "notMark()"),
		xform(lit("&"), "andMark()"),
		xform(clause.Empty{}, "noMark()"),
	)
	postfixBody := choice(
		xform(lit("+"), "plusMark()"),
		xform(lit("*"), "starMark()"),
		xform(lit("?"), "optMark()"),
		xform(clause.Empty{}, "noMark()"),
	)

	termBody := xform(seq(ref("ws0"), cap("pfx", ref("prefix")), cap("a", ref("atom")), cap("post", ref("postfix"))), "mkTerm(pfx,a,post)")

	seqExprBody := xform(vcap("terms", plus(ref("term"))), "seqOf(terms)")
	exprTailBody := xform(seq(ref("ws0"), lit("/"), ref("ws0"), cap("e", ref("seqExpr"))), "e")
	exprBody := xform(seq(cap("first", ref("seqExpr")), vcap("rest", star(ref("exprTail")))), "choiceOrSingle(first,rest)")

	ruleBody := xform(seq(cap("name", ref("identChars")), ref("ws0"), lit("<-"), ref("ws0"), cap("body", ref("expr")), ref("ws0"), lit("\n")), "rule(name,body)")
	itemBody := choice(ref("rule"), xform(ref("skipLine"), "skip()"))
	grammarBody := xform(seq(vcap("items", star(ref("item"))), ref("eof")), "grammarOf(items)")

	return clause.Grammar{Rules: []clause.Rule{
		{Name: "grammar", Body: grammarBody},
		{Name: "item", Body: itemBody},
		{Name: "skipLine", Body: skipLineBody},
		{Name: "rule", Body: ruleBody},
		{Name: "expr", Body: exprBody},
		{Name: "seqExpr", Body: seqExprBody},
		{Name: "exprTail", Body: exprTailBody},
		{Name: "term", Body: termBody},
		{Name: "prefix", Body: prefixBody},
		{Name: "postfix", Body: postfixBody},
		{Name: "atom", Body: atomBody},
		{Name: "charClass", Body: charClassBody},
		{Name: "classItem", Body: classItemBody},
		{Name: "classChar", Body: classCharBody},
		{Name: "literalSQ", Body: literalSQBody},
		{Name: "literalDQ", Body: literalDQBody},
		{Name: "sqChar", Body: sqCharBody},
		{Name: "dqChar", Body: dqCharBody},
		{Name: "identStart", Body: identStartBody},
		{Name: "identPart", Body: identPartBody},
		{Name: "identChars", Body: identCharsBody},
		{Name: "commentChar", Body: commentCharBody},
		{Name: "ws0", Body: ws0Body},
		{Name: "eof", Body: notC(any1())},
	}}
}

func rangeC(lo, hi string) c {
	return clause.Range[domain.Text]{Lo: domain.NewText(lo), Hi: domain.NewText(hi)}
}
