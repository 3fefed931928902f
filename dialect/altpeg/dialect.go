package altpeg

import (
	"fmt"

	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
)

// Dialect parses classic PEG notation into a peg.RawGrammar. Unlike
// dialect/surface, there is no bootstrap fixpoint to check here: the
// notation carries no action syntax, so there is no textual
// self-description that needs to reparse into itself -- New just builds
// the one hand-written recognizer once and keeps it.
type Dialect struct {
	parser *peg.Parser[domain.Text]
}

// New builds a Dialect from the hand-built altGrammar, wired to native Go
// closures through peg.NewParserWithActions the same way
// dialect/surface's bootstrap parser is, just without a second generation
// to compare against.
func New() (*Dialect, error) {
	p, err := peg.NewParserWithActions[domain.Text](altGrammar(), altActions())
	if err != nil {
		return nil, fmt.Errorf("altpeg: building parser: %w", err)
	}
	return &Dialect{parser: p}, nil
}

// Parse parses source, written in classic PEG notation, into a
// RawGrammar. It satisfies peg.Dialect[domain.Text].
func (d *Dialect) Parse(source domain.Text) (peg.RawGrammar, error) {
	result, err := d.parser.Parse(source)
	if err != nil {
		return peg.RawGrammar{}, err
	}
	raw, ok := result.(peg.RawGrammar)
	if !ok {
		return peg.RawGrammar{}, fmt.Errorf("altpeg: grammar() action produced %T, not a peg.RawGrammar", result)
	}
	return raw, nil
}

var _ peg.Dialect[domain.Text] = (*Dialect)(nil)
