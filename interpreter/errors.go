package interpreter

import (
	"github.com/ldr/ex-abnf/errors"
)

// Error codes for the interpreter, continuing the per-package iota-block
// convention used by langdef.
const (
	UnknownRuleCode = iota + 1
	NoMatchCode
	ProseValCode
	DepthExceededCode
	ActionAbortCode
)

// Every wrapper type below names its *errors.Error field Detail rather
// than embedding it anonymously: an anonymous *errors.Error field would
// be named "Error" (its own type name), which shadows the promoted
// Error() string method of the same name and silently drops these types
// out of the error interface.

// UnknownRuleError is returned by Apply when the requested start rule is
// not present in the RuleSet.
type UnknownRuleError struct {
	Detail *errors.Error
	Rule   string
}

func (e *UnknownRuleError) Error() string { return e.Detail.Error() }
func (e *UnknownRuleError) ErrorCode() int { return e.Detail.Code }

func unknownRuleError(rule string) *UnknownRuleError {
	return &UnknownRuleError{
		errors.Format(UnknownRuleCode, "unknown rule %q", rule),
		rule,
	}
}

// NoMatchError is returned by Apply when no alternative at any depth
// could be made to match the input.
type NoMatchError struct {
	Detail *errors.Error
	Rule   string
}

func (e *NoMatchError) Error() string { return e.Detail.Error() }
func (e *NoMatchError) ErrorCode() int { return e.Detail.Code }

func noMatchError(rule string) *NoMatchError {
	return &NoMatchError{
		errors.Format(NoMatchCode, "rule %q did not match input", rule),
		rule,
	}
}

// ProseValError is raised when the matcher actually reaches a ProseVal
// element while attempting a match. Unlike an ordinary failed
// alternative, this aborts the whole match: a ProseVal is an
// unresolvable placeholder, not a candidate the matcher can reject and
// move past.
type ProseValError struct {
	Detail *errors.Error
	Text   string
}

func (e *ProseValError) Error() string { return e.Detail.Error() }
func (e *ProseValError) ErrorCode() int { return e.Detail.Code }

func proseValError(text string) *ProseValError {
	return &ProseValError{
		errors.Format(ProseValCode, "reached unresolvable prose-val <%s> during match", text),
		text,
	}
}

// DepthExceededError is raised when rule-call recursion exceeds the
// Matcher's configured MaxDepth, guarding against stack exhaustion on
// pathological grammars or inputs.
type DepthExceededError struct {
	Detail   *errors.Error
	MaxDepth int
}

func (e *DepthExceededError) Error() string { return e.Detail.Error() }
func (e *DepthExceededError) ErrorCode() int { return e.Detail.Code }

func depthExceededError(maxDepth int) *DepthExceededError {
	return &DepthExceededError{
		errors.Format(DepthExceededCode, "recursion depth exceeded %d", maxDepth),
		maxDepth,
	}
}

// ActionAbortError wraps an unexpected error returned by a semantic
// action. Per contract this aborts the entire match; it is distinct
// from a Result{Rejected: true}, which only fails the owning rule.
type ActionAbortError struct {
	Detail *errors.Error
	Rule   string
	Err    error
}

func (e *ActionAbortError) Error() string { return e.Detail.Error() }
func (e *ActionAbortError) ErrorCode() int { return e.Detail.Code }

func actionAbortError(rule string, err error) *ActionAbortError {
	return &ActionAbortError{
		errors.Format(ActionAbortCode, "action for rule %q aborted: %s", rule, err),
		rule,
		err,
	}
}

func (e *ActionAbortError) Unwrap() error { return e.Err }

var _ error = (*UnknownRuleError)(nil)
var _ error = (*NoMatchError)(nil)
var _ error = (*ProseValError)(nil)
var _ error = (*DepthExceededError)(nil)
var _ error = (*ActionAbortError)(nil)
