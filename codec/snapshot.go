package codec

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/peg"
	"github.com/dekarrin/rezi"
)

// Snapshot is the persisted form of a peg.RawGrammar: the clause graph
// plus the raw action source text for every Transform in it, exactly
// what Bind needs to reproduce a working Parser. It does not persist a
// bound match.Actions table
// -- a Go closure cannot be serialized -- so restoring a Snapshot still
// requires the caller to supply an action.Binder over the same namespace
// the grammar was originally bound against, the same way dialect/surface
// and dialect/altpeg both require a namespace to build a Parser from a
// freshly-parsed RawGrammar in the first place.
type Snapshot struct {
	Grammar clause.Grammar
	Actions []peg.ActionSource
}

// FromRawGrammar captures raw as a Snapshot.
func FromRawGrammar(raw peg.RawGrammar) Snapshot {
	return Snapshot{Grammar: raw.Grammar, Actions: raw.Actions}
}

// RawGrammar returns s as a peg.RawGrammar, ready for peg.NewParser.
func (s Snapshot) RawGrammar() peg.RawGrammar {
	return peg.RawGrammar{Grammar: s.Grammar, Actions: s.Actions}
}

// Encode serializes s to bytes via rezi.EncBinary.
func Encode(s Snapshot) []byte {
	return rezi.EncBinary(s)
}

// Decode restores a Snapshot previously produced by Encode. It reports an
// error if any trailing bytes are left over -- a Snapshot blob is never
// one value among several in the same buffer.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	n, err := rezi.DecBinary(data, &s)
	if err != nil {
		return Snapshot{}, fmt.Errorf("codec: %w", err)
	}
	if n != len(data) {
		return Snapshot{}, fmt.Errorf("codec: decoded %d/%d bytes, trailing data left over", n, len(data))
	}
	return s, nil
}

// MarshalBinary implements encoding.BinaryMarshaler, the interface
// rezi.EncBinary requires.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	var out []byte

	out = append(out, encInt(len(s.Grammar.Rules))...)
	for _, rule := range s.Grammar.Rules {
		out = append(out, encString(rule.Name)...)
		body, err := encodeClause(rule.Body)
		if err != nil {
			return nil, fmt.Errorf("codec: rule %q: %w", rule.Name, err)
		}
		out = append(out, encInt(len(body))...)
		out = append(out, body...)
	}

	out = append(out, encInt(len(s.Actions))...)
	for _, a := range s.Actions {
		out = append(out, encString(a.ID)...)
		out = append(out, encString(a.Text)...)
	}

	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the interface
// rezi.DecBinary requires.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	ruleCount, n, err := decInt(data)
	if err != nil {
		return fmt.Errorf("codec: rule count: %w", err)
	}
	data = data[n:]
	if ruleCount < 0 {
		return fmt.Errorf("codec: negative rule count %d", ruleCount)
	}

	rules := make([]clause.Rule, ruleCount)
	for i := 0; i < ruleCount; i++ {
		name, n, err := decString(data)
		if err != nil {
			return fmt.Errorf("codec: rule %d name: %w", i, err)
		}
		data = data[n:]

		bodyLen, n, err := decInt(data)
		if err != nil {
			return fmt.Errorf("codec: rule %d body length: %w", i, err)
		}
		data = data[n:]
		if bodyLen < 0 || len(data) < bodyLen {
			return fmt.Errorf("codec: rule %d body of length %d overruns buffer of %d bytes", i, bodyLen, len(data))
		}

		body, read, err := decodeClause(data[:bodyLen])
		if err != nil {
			return fmt.Errorf("codec: rule %d body: %w", i, err)
		}
		if read != bodyLen {
			return fmt.Errorf("codec: rule %d body declared %d bytes but consumed %d", i, bodyLen, read)
		}
		data = data[bodyLen:]

		rules[i] = clause.Rule{Name: name, Body: body}
	}

	actionCount, n, err := decInt(data)
	if err != nil {
		return fmt.Errorf("codec: action count: %w", err)
	}
	data = data[n:]
	if actionCount < 0 {
		return fmt.Errorf("codec: negative action count %d", actionCount)
	}

	actions := make([]peg.ActionSource, actionCount)
	for i := 0; i < actionCount; i++ {
		id, n, err := decString(data)
		if err != nil {
			return fmt.Errorf("codec: action %d id: %w", i, err)
		}
		data = data[n:]
		text, n, err := decString(data)
		if err != nil {
			return fmt.Errorf("codec: action %d text: %w", i, err)
		}
		data = data[n:]
		actions[i] = peg.ActionSource{ID: id, Text: text}
	}

	s.Grammar = clause.Grammar{Rules: rules}
	s.Actions = actions
	return nil
}
