// Package peg implements the Grammar/Parser facade: binding rule names to
// clauses, binding raw action source into compiled callables,
// driving a top-level match, unpacking the single result, and formatting
// diagnostics. It is the outermost layer of the core engine; everything a
// caller needs to go from a textual grammar plus an action namespace to a
// running Parser lives here.
package peg

import (
	"fmt"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/match"
)

// ActionSource pairs an action identifier (as referenced by a
// clause.Transform's ActionID) with the raw source text a dialect parsed it
// from. A RawGrammar carries one of these per Transform in the grammar.
type ActionSource struct {
	ID   string
	Text string
}

// RawGrammar is what a Dialect produces from a textual grammar: a clause
// graph plus the unbound action source for every Transform in it. It is not
// yet runnable -- Bind (or NewParser, which calls it) must compile the
// action sources into callables before a Parser can match anything.
type RawGrammar struct {
	Grammar clause.Grammar
	Actions []ActionSource
}

// Dialect turns textual grammar source into a RawGrammar. The default
// surface syntax (package dialect/surface) and the alternate PEG-style
// syntax (package dialect/altpeg) both implement this.
type Dialect[D domain.Sequence[D]] interface {
	Parse(source D) (RawGrammar, error)
}

// actionSourceByID indexes a RawGrammar's action sources for lookup while
// walking its clause graph.
func (rg RawGrammar) actionSourceByID() map[string]string {
	out := make(map[string]string, len(rg.Actions))
	for _, a := range rg.Actions {
		out[a.ID] = a.Text
	}
	return out
}

// transformSite is one Transform clause found while walking a grammar, with
// the capture signature of its child already computed.
type transformSite struct {
	actionID  string
	signature clause.Signature
}

// walkTransforms visits every Transform reachable from c (through Sequence,
// Choice, Repeat, Not, And, Entail, and Capture children -- Reference does
// not recurse, since the referenced rule is visited on its own), appending
// one transformSite per Transform found.
func walkTransforms(c clause.Clause, into *[]transformSite) error {
	switch v := c.(type) {
	case clause.Transform:
		sig, err := clause.CaptureSignature(v.Child)
		if err != nil {
			return err
		}
		*into = append(*into, transformSite{actionID: v.ActionID, signature: sig})
		return walkTransforms(v.Child, into)
	case clause.Sequence:
		return walkChildren(v.Children, into)
	case clause.Entail:
		return walkChildren(v.Children, into)
	case clause.Choice:
		return walkChildren(v.Children, into)
	case clause.Repeat:
		return walkTransforms(v.Child, into)
	case clause.Not:
		return walkTransforms(v.Child, into)
	case clause.And:
		return walkTransforms(v.Child, into)
	case clause.Capture:
		return walkTransforms(v.Child, into)
	default:
		return nil
	}
}

func walkChildren(children []clause.Clause, into *[]transformSite) error {
	for _, child := range children {
		if err := walkTransforms(child, into); err != nil {
			return err
		}
	}
	return nil
}

// Bind compiles every Transform's raw action source in raw into a
// match.ActionFunc, using binder to parse and validate each one against its
// Transform's child capture signature.
func Bind(raw RawGrammar, binder *action.Binder) (match.Actions, error) {
	sources := raw.actionSourceByID()
	var sites []transformSite
	for _, rule := range raw.Grammar.Rules {
		if err := walkTransforms(rule.Body, &sites); err != nil {
			return nil, fmt.Errorf("peg: binding %s: %w", rule.Name, err)
		}
	}

	actions := make(match.Actions, len(sites))
	for _, site := range sites {
		if _, done := actions[site.actionID]; done {
			continue
		}
		text, ok := sources[site.actionID]
		if !ok {
			return nil, fmt.Errorf("peg: no action source recorded for action id %q", site.actionID)
		}
		fn, err := binder.Bind(text, site.signature)
		if err != nil {
			return nil, fmt.Errorf("peg: binding action %q: %w", site.actionID, err)
		}
		actions[site.actionID] = fn
	}
	return actions, nil
}

// checkReferences verifies that every Reference resolves to a rule bound
// in the grammar.
func checkReferences(g clause.Grammar) error {
	names := make(map[string]struct{}, len(g.Rules))
	for _, r := range g.Rules {
		names[r.Name] = struct{}{}
	}
	for _, r := range g.Rules {
		if err := checkReferencesIn(r.Body, names); err != nil {
			return fmt.Errorf("peg: rule %q: %w", r.Name, err)
		}
	}
	return nil
}

func checkReferencesIn(c clause.Clause, names map[string]struct{}) error {
	switch v := c.(type) {
	case clause.Reference:
		if _, ok := names[v.Name]; !ok {
			return fmt.Errorf("unresolved reference %q", v.Name)
		}
	case clause.Sequence:
		return checkChildren(v.Children, names)
	case clause.Entail:
		return checkChildren(v.Children, names)
	case clause.Choice:
		return checkChildren(v.Children, names)
	case clause.Repeat:
		return checkReferencesIn(v.Child, names)
	case clause.Not:
		return checkReferencesIn(v.Child, names)
	case clause.And:
		return checkReferencesIn(v.Child, names)
	case clause.Capture:
		return checkReferencesIn(v.Child, names)
	case clause.Transform:
		return checkReferencesIn(v.Child, names)
	}
	return nil
}

func checkChildren(children []clause.Clause, names map[string]struct{}) error {
	for _, c := range children {
		if err := checkReferencesIn(c, names); err != nil {
			return err
		}
	}
	return nil
}
