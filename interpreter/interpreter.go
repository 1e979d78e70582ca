// Package interpreter is the backtracking matcher: it walks a
// grammar.RuleSet's Element AST directly against input bytes (no
// automaton compilation, per the finite-in-memory, non-optimizing scope
// this engine targets) and produces a Capture tree.
//
// The matcher is written in continuation-passing style: a
// backtracking, recursive-descent matcher in a language without
// first-class coroutines is naturally expressed as recursion with
// explicit continuation objects returning the next candidate match.
// Every matchX method takes a cont and calls it zero or more times with
// successive candidate (position, capture, state) triples; the first
// call whose result the continuation accepts wins. Alternation and
// Repetition are exactly the two places with more than one candidate.
package interpreter

import (
	"github.com/ldr/ex-abnf/action"
	"github.com/ldr/ex-abnf/grammar"
)

// DefaultMaxDepth bounds rule-call recursion in the absence of an
// explicit Matcher.MaxDepth, guarding against stack exhaustion from
// self-recursive grammars paired with adversarial input.
const DefaultMaxDepth = 10000

// Matcher applies a RuleSet to input. It holds no per-call state itself
// (see session below) so one Matcher can serve concurrent Apply calls,
// matching the immutable-and-shareable contract a RuleSet carries.
type Matcher struct {
	RuleSet *grammar.RuleSet
	Actions *action.Registry

	// MaxDepth caps rule-call recursion. Zero means DefaultMaxDepth.
	MaxDepth int
}

// New builds a Matcher. actions may be nil, meaning no rule has a bound
// callback regardless of whether its grammar text carried an action
// block.
func New(rs *grammar.RuleSet, actions *action.Registry) *Matcher {
	return &Matcher{RuleSet: rs, Actions: actions}
}

// cont is what a matchX call invokes for each candidate it finds. It
// returns true once a candidate has been accepted by everything
// upstream (the whole chain back to Apply's own terminal continuation).
// A false return with a nil error means "keep looking"; a non-nil error
// means "stop immediately, this is not an ordinary backtrack."
type cont func(pos int, cap Capture, state any) (bool, error)

// session carries the per-Apply-call state the matchX methods need:
// the input being matched and the recursion-depth cap (the current depth
// itself is passed along as a parameter). It is created fresh by every
// Apply call.
type session struct {
	ruleSet  *grammar.RuleSet
	actions  *action.Registry
	input    []byte
	maxDepth int
}

// Apply attempts to match ruleName against input starting at position
// 0, threading state through any semantic actions reached along the
// successful path. The returned CaptureResult.Values is ruleName's own
// capture (its bound action's return value if one ran, otherwise the
// direct capture its element kind produces) — unlike a nested RuleRef,
// the start rule is not wrapped in a singleton list, since nothing here
// is referencing it from within another rule's body.
func (m *Matcher) Apply(ruleName string, input []byte, state any) (*CaptureResult, error) {
	folded := grammar.FoldName(ruleName)
	rule, ok := m.RuleSet.Get(folded)
	if !ok {
		return nil, unknownRuleError(ruleName)
	}

	maxDepth := m.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	sess := &session{ruleSet: m.RuleSet, actions: m.Actions, input: input, maxDepth: maxDepth}

	var (
		endPos    int
		childCap  Capture
		finalCap  Capture
		finalSt   any
		committed bool
	)
	matched, err := sess.matchElement(rule.Element, 0, state, 1, func(pos int, cap Capture, st any) (bool, error) {
		outCap, outSt, accepted, _, actionErr := sess.applyRuleAction(rule, sess.input[:pos], cap, st)
		if actionErr != nil {
			return false, actionErr
		}
		if !accepted {
			return false, nil
		}
		endPos, childCap, finalCap, finalSt, committed = pos, cap, outCap, outSt, true
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !matched || !committed {
		return nil, noMatchError(ruleName)
	}

	return &CaptureResult{
		Input:        input,
		StringText:   input[:endPos],
		Rest:         input[endPos:],
		StringTokens: flattenBytes(childCap),
		Values:       finalCap,
		State:        finalSt,
	}, nil
}

// applyRuleAction runs rule's bound action, if any, against its already-
// matched body capture, producing the capture and state to hand back to
// whatever is waiting on this rule. accepted is false when a bound
// action rejected the match; that is ordinary backtracking, not an
// error. ranAction reports whether a bound Func actually ran: callers
// that apply the RuleRef capture-shape rule (wrap the child capture in a
// singleton list only when no action ran) need this to tell "no action
// bound" apart from "an action ran and returned the child capture
// unchanged". When no action is bound, outCap is childCap itself,
// unwrapped: wrapping is a RuleRef-site concern, not this function's.
//
// Dispatch is keyed purely on whether a Func is bound to rule.Name.
// rule.Action (the grammar text's own, opaque !!! block) plays no part
// in this decision: it documents that a rule is meant to carry an
// action, but the registry binding is what actually wires one up, and a
// binding for a rule with no !!! block in its grammar text is just as
// valid as one for a rule that has it.
func (s *session) applyRuleAction(rule *grammar.Rule, text []byte, childCap Capture, state any) (outCap Capture, outState any, accepted bool, ranAction bool, err error) {
	if s.actions == nil {
		return childCap, state, true, false, nil
	}
	fn, ok := s.actions.Lookup(rule.Name)
	if !ok {
		return childCap, state, true, false, nil
	}

	result, actionErr := fn(text, childCap, state)
	if actionErr != nil {
		return nil, nil, false, true, actionAbortError(rule.DisplayName, actionErr)
	}
	if result.Rejected {
		return nil, nil, false, true, nil
	}

	outState = state
	if result.HasState {
		outState = result.State
	}
	outCap = childCap
	if result.HasReplacement {
		outCap = result.Replacement
	}
	return outCap, outState, true, true, nil
}

// matchElement dispatches on element kind. depth is the current
// rule-call nesting; it is only incremented when descending through a
// RuleRef, since that is the only place a grammar can recurse.
func (s *session) matchElement(e *grammar.Element, pos int, state any, depth int, k cont) (bool, error) {
	switch e.Kind {
	case grammar.Literal:
		return s.matchLiteral(e, pos, state, k)
	case grammar.NumRange:
		return s.matchNumRange(e, pos, state, k)
	case grammar.NumConcat:
		return s.matchNumConcat(e, pos, state, k)
	case grammar.Concatenation:
		return s.matchConcatenation(e.Items, pos, state, depth, k)
	case grammar.Alternation:
		return s.matchAlternation(e.Items, pos, state, depth, k)
	case grammar.Repetition:
		return s.matchRepetition(e, pos, state, depth, k)
	case grammar.RuleRef:
		return s.matchRuleRef(e, pos, state, depth, k)
	case grammar.ProseVal:
		return false, proseValError(e.Prose)
	default:
		return false, proseValError("unknown element kind")
	}
}

func (s *session) matchLiteral(e *grammar.Element, pos int, state any, k cont) (bool, error) {
	if pos >= len(s.input) {
		return false, nil
	}
	b := s.input[pos]
	if !byteEqual(b, e.Byte, e.CaseInsensitive) {
		return false, nil
	}
	return k(pos+1, Capture([]byte{b}), state)
}

func (s *session) matchNumRange(e *grammar.Element, pos int, state any, k cont) (bool, error) {
	if pos >= len(s.input) {
		return false, nil
	}
	b := s.input[pos]
	if b < e.Lo || b > e.Hi {
		return false, nil
	}
	return k(pos+1, Capture([]byte{b}), state)
}

func (s *session) matchNumConcat(e *grammar.Element, pos int, state any, k cont) (bool, error) {
	n := len(e.Bytes)
	if pos+n > len(s.input) {
		return false, nil
	}
	for i := 0; i < n; i++ {
		if s.input[pos+i] != e.Bytes[i] {
			return false, nil
		}
	}
	captured := append([]byte(nil), e.Bytes...)
	return k(pos+n, Capture(captured), state)
}

func byteEqual(a, b byte, caseInsensitive bool) bool {
	if a == b {
		return true
	}
	if !caseInsensitive {
		return false
	}
	return foldASCII(a) == foldASCII(b)
}

func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// matchConcatenation matches items left to right, threading position
// and state, and accumulating one capture per item.
func (s *session) matchConcatenation(items []*grammar.Element, pos int, state any, depth int, k cont) (bool, error) {
	var step func(idx int, pos int, state any, acc []Capture) (bool, error)
	step = func(idx int, pos int, state any, acc []Capture) (bool, error) {
		if idx == len(items) {
			return k(pos, Capture(append([]Capture{}, acc...)), state)
		}
		return s.matchElement(items[idx], pos, state, depth, func(newPos int, cap Capture, newState any) (bool, error) {
			return step(idx+1, newPos, newState, append(acc, cap))
		})
	}
	return step(0, pos, state, nil)
}

// matchAlternation tries each alternative in source order, backtracking
// into the next one whenever an earlier choice cannot be extended into
// an overall match.
func (s *session) matchAlternation(items []*grammar.Element, pos int, state any, depth int, k cont) (bool, error) {
	for _, alt := range items {
		ok, err := s.matchElement(alt, pos, state, depth, func(newPos int, cap Capture, newState any) (bool, error) {
			return k(newPos, Capture([]Capture{cap}), newState)
		})
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// matchRepetition is greedy with backtracking: it always tries to add
// one more iteration before considering the repetition done, so that a
// failure further down the enclosing context walks the iteration count
// down one at a time rather than jumping straight to the minimum.
func (s *session) matchRepetition(e *grammar.Element, pos int, state any, depth int, k cont) (bool, error) {
	var tryCount func(count uint32, pos int, state any, acc []Capture) (bool, error)
	tryCount = func(count uint32, pos int, state any, acc []Capture) (bool, error) {
		canExtend := e.Max == grammar.Unbounded || count < e.Max
		if canExtend {
			ok, err := s.matchElement(e.Inner, pos, state, depth, func(newPos int, cap Capture, newState any) (bool, error) {
				newAcc := append(append([]Capture{}, acc...), cap)
				if newPos == pos {
					// Zero-width iteration: count it once, but don't
					// recurse again from the same position or an
					// unbounded max would loop forever.
					if count+1 < e.Min {
						return false, nil
					}
					return k(newPos, Capture(newAcc), newState)
				}
				return tryCount(count+1, newPos, newState, newAcc)
			})
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		if count >= e.Min {
			return k(pos, Capture(append([]Capture{}, acc...)), state)
		}
		return false, nil
	}
	return tryCount(0, pos, state, nil)
}

// matchRuleRef resolves the referenced rule and matches its body,
// applying the §4.2 rule-application algorithm on success: a rule with
// no bound action contributes its child capture wrapped in a singleton
// list, while a bound action's return value is used as-is.
func (s *session) matchRuleRef(e *grammar.Element, pos int, state any, depth int, k cont) (bool, error) {
	rule, ok := s.ruleSet.Get(e.Ref)
	if !ok {
		return false, unknownRuleError(e.Ref)
	}
	if depth > s.maxDepth {
		return false, depthExceededError(s.maxDepth)
	}
	return s.matchElement(rule.Element, pos, state, depth+1, func(newPos int, childCap Capture, newState any) (bool, error) {
		outCap, outState, accepted, ranAction, err := s.applyRuleAction(rule, s.input[pos:newPos], childCap, newState)
		if err != nil {
			return false, err
		}
		if !accepted {
			return false, nil
		}
		if !ranAction {
			outCap = Capture([]Capture{outCap})
		}
		return k(newPos, outCap, outState)
	})
}
