package surface

// surfaceGrammarSource is the surface syntax written in itself: parsing
// this text with the hand-built minimalGrammar must yield a clause.Grammar
// structurally identical to minimalGrammar, and reparsing it with the
// parser built from that result must reproduce the same grammar again.
// That two-step agreement is verified by Bootstrap.
//
// Rule order here matches minimalGrammar's rule order exactly, since
// clause.Grammar.Equal compares rules positionally and the first rule is
// the entry point.
const surfaceGrammarSource = `grammar:
| *items=item* eof { grammarOf(items) }

item:
| skipLine
| rule

skipLine:
| ws0 ["#" commentChar*] "\n" { skip() }

rule:
| name=identChars ":" "\n" *alts=altLine+ { rule(name, alts) }

altLine:
| ws0 "|" e=expr action=actionOpt "\n" { withAction(e, action) }

actionOpt:
| ws0 "{" text=actionChar* "}" { text }
| ws0 { noAction() }

expr:
| first=exprAlt *rest=exprAltTail* { choiceOrSingle(first, rest) }

exprAlt:
| *terms=term+ { seqOf(terms) }

exprAltTail:
| ws0 "|" e=exprAlt { e }

term:
| ws0 "~" { tildeMark() }
| ws0 cap=capturePrefix pfx=notAndPrefix a=atom post=postfix { mkTerm(cap, pfx, a, post) }

capturePrefix:
| "*" name=identChars "=" { variadicCap(name) }
| name=identChars "=" { plainCap(name) }
| "" { noCap() }

notAndPrefix:
| "!" { notMark() }
| "&" { andMark() }
| "" { noMark() }

postfix:
| "+" { plusMark() }
| "*" { starMark() }
| "" { noMark() }

atom:
| "\"\"" { emptyC() }
| "''" { emptyC() }
| "'" lo=. "'" "-" "'" hi=. "'" { rangeOf(lo, hi) }
| "\"" text=dqChar* "\"" { value(text) }
| "'" text=sqChar* "'" { value(text) }
| "." { anyC() }
| "(" ws0 e=expr ws0 ")" { e }
| "[" ws0 e=expr ws0 "]" { optOf(e) }
| name=identChars { ref(name) }

identStart:
| 'a'-'z'
| 'A'-'Z'
| "_"

identPart:
| identStart
| '0'-'9'

identChars:
| identStart identPart*

commentChar:
| !"\n" .

dqChar:
| "\\" .
| !"\"" .

sqChar:
| "\\" .
| !"'" .

actionChar:
| !"}" .

ws0:
| (" " | "\t")*

eof:
| !.
`
