package altpeg

// referenceGrammarSource is classic PEG notation describing classic PEG
// notation: scenario S5 parses this with a Dialect built from altGrammar
// and requires the parse to succeed and consume the whole source. It is
// a description, not the parser's own implementation -- altGrammar is
// hand-built Go, this is data fed through it -- so the two are free to
// diverge in incidental shape (this version uses "?" on prefix/postfix
// references instead of baking the empty alternative into the rule, for
// instance) as long as they agree on what they recognize.
const referenceGrammarSource = `# a PEG description of PEG notation itself
ws0 <- (' ' / '\t')*
identStart <- [a-zA-Z_]
identPart <- identStart / [0-9]
identChars <- identStart identPart*
commentChar <- !'\n' .
skipLine <- ws0 ('#' commentChar*)? '\n'
classChar <- '\\' . / !']' .
classItem <- classChar '-' classChar / classChar
charClass <- '[' classItem+ ']'
sqChar <- '\\' . / !'\'' .
dqChar <- '\\' . / !'"' .
literalSQ <- '\'' sqChar* '\''
literalDQ <- '"' dqChar* '"'
atom <- '(' ws0 expr ws0 ')' / charClass / literalSQ / literalDQ / '.' / identChars
prefix <- '!' / '&'
postfix <- '+' / '*' / '?'
term <- ws0 prefix? atom postfix?
seqExpr <- term+
exprTail <- ws0 '/' ws0 seqExpr
expr <- seqExpr exprTail*
rule <- identChars ws0 '<-' ws0 expr ws0 '\n'
item <- rule / skipLine
grammar <- item* eof
eof <- !.
`
