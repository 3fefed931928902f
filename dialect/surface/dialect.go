package surface

import (
	"fmt"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
)

// Namespace exposes the clause-constructor functions under their surface
// syntax names, for callers building their own action namespaces on top of
// (rather than instead of) the ones the grammar notation itself needs.
func Namespace() action.Namespace {
	ns := make(action.Namespace, len(clauseNamespace))
	for name, fn := range clauseNamespace {
		ns[name] = fn
	}
	return ns
}

// Dialect parses the surface grammar notation into a peg.RawGrammar
// ready for peg.NewParser.
type Dialect struct {
	parser *peg.Parser[domain.Text]
}

// Bootstrap builds the Dialect by running the hand-built minimal grammar
// over the grammar's own textual self-description, then checks that the
// result describes a stable fixpoint: reparsing the same source with the
// parser just derived from it must reproduce an identical grammar. This
// is what it means for the dialect to parse a description of itself.
func Bootstrap() (*Dialect, *peg.RawGrammar, error) {
	bootParser, err := peg.NewParserWithActions[domain.Text](minimalGrammar(), minimalActions())
	if err != nil {
		return nil, nil, fmt.Errorf("surface: building bootstrap parser: %w", err)
	}

	gen1, err := parseSelf(bootParser)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: bootstrap parser failed on its own source: %w", err)
	}

	binder := action.NewBinder(Namespace())

	parser1, err := peg.NewParser[domain.Text](*gen1, binder)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: binding generation 1 grammar: %w", err)
	}
	gen2, err := parseSelf(parser1)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: generation 1 parser failed on its own source: %w", err)
	}
	if !gen1.Grammar.Equal(gen2.Grammar) {
		return nil, nil, fmt.Errorf("surface: bootstrap did not reach a fixpoint between the hand-built grammar and generation 1")
	}

	parser2, err := peg.NewParser[domain.Text](*gen2, binder)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: binding generation 2 grammar: %w", err)
	}
	gen3, err := parseSelf(parser2)
	if err != nil {
		return nil, nil, fmt.Errorf("surface: generation 2 parser failed on its own source: %w", err)
	}
	if !gen2.Grammar.Equal(gen3.Grammar) {
		return nil, nil, fmt.Errorf("surface: bootstrap did not reach a fixpoint between generation 1 and generation 2")
	}

	return &Dialect{parser: parser2}, gen2, nil
}

func parseSelf(p *peg.Parser[domain.Text]) (*peg.RawGrammar, error) {
	result, err := p.Parse(domain.NewText(surfaceGrammarSource))
	if err != nil {
		return nil, err
	}
	raw, ok := result.(peg.RawGrammar)
	if !ok {
		return nil, fmt.Errorf("surface: grammar() action produced %T, not a peg.RawGrammar", result)
	}
	return &raw, nil
}

// Parse parses source, written in the surface syntax, into a RawGrammar.
func (d *Dialect) Parse(source string) (*peg.RawGrammar, error) {
	result, err := d.parser.Parse(domain.NewText(source))
	if err != nil {
		return nil, err
	}
	raw, ok := result.(peg.RawGrammar)
	if !ok {
		return nil, fmt.Errorf("surface: grammar() action produced %T, not a peg.RawGrammar", result)
	}
	return &raw, nil
}
