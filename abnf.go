// Package abnf is the public facade: it wires the meta-grammar compiler
// (langdef) to the backtracking matcher (interpreter) behind the two
// entry points described for this module, Load and Apply.
package abnf

import (
	"github.com/pkg/errors"

	"github.com/ldr/ex-abnf/action"
	"github.com/ldr/ex-abnf/grammar"
	"github.com/ldr/ex-abnf/interpreter"
	"github.com/ldr/ex-abnf/langdef"
)

// Grammar is a compiled ABNF grammar, ready to match input against any
// of its rules.
type Grammar struct {
	ruleSet *grammar.RuleSet
}

// Load compiles grammar text into a Grammar. name identifies the source
// for diagnostics (e.g. a file path); it has no effect on matching.
func Load(name string, text []byte) (*Grammar, error) {
	rs, _, err := langdef.ParseBytes(name, text)
	if err != nil {
		return nil, errors.Wrap(err, "load grammar")
	}
	return &Grammar{ruleSet: rs}, nil
}

// LoadString is a convenience wrapper around Load for grammar text
// already held as a string.
func LoadString(name, text string) (*Grammar, error) {
	return Load(name, []byte(text))
}

// RuleNames lists every rule defined in g, in grammar source order.
func (g *Grammar) RuleNames() []string {
	return g.ruleSet.Names()
}

// HasRule reports whether name (any case) is defined in g.
func (g *Grammar) HasRule(name string) bool {
	return g.ruleSet.Has(grammar.FoldName(name))
}

// Apply matches rule against a prefix of input, starting at position 0,
// threading state through any bound semantic actions. actions may be
// nil if no rule in g has a bound callback.
func (g *Grammar) Apply(rule string, input []byte, state any, actions *action.Registry) (*interpreter.CaptureResult, error) {
	m := interpreter.New(g.ruleSet, actions)
	res, err := m.Apply(rule, input, state)
	if err != nil {
		return nil, errors.Wrap(err, "apply rule")
	}
	return res, nil
}

// ApplyWithDepth is Apply with an explicit recursion-depth cap, for
// callers that need a tighter bound than interpreter.DefaultMaxDepth.
func (g *Grammar) ApplyWithDepth(rule string, input []byte, state any, actions *action.Registry, maxDepth int) (*interpreter.CaptureResult, error) {
	m := interpreter.New(g.ruleSet, actions)
	m.MaxDepth = maxDepth
	res, err := m.Apply(rule, input, state)
	if err != nil {
		return nil, errors.Wrap(err, "apply rule")
	}
	return res, nil
}
