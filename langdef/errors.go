package langdef

import (
	"strings"

	"github.com/ldr/ex-abnf/errors"
	"github.com/ldr/ex-abnf/source"
)

// Error codes used by langdef, one contiguous iota block per package,
// matching the convention interpreter/errors.go also follows.
const (
	InvalidGrammarCode = iota + 1
	IncompleteParseCode
	DuplicateRuleCode
	UnresolvedRuleCode
	AppendUndefinedRuleCode
	InvalidNumericLiteralCode
)

// syntaxMismatch is returned internally by the recursive-descent helpers
// when they fail to recognize ABNF syntax at the current position. It
// never escapes ParseBytes/ParseString: the rulelist loop stops at the
// rule that failed, and ParseBytes then reports an IncompleteParseError
// carrying whatever text is left over (or an InvalidGrammarError when no
// rule parsed at all).
type syntaxMismatch struct{}

func (syntaxMismatch) Error() string { return "syntax mismatch" }

var errSyntax error = syntaxMismatch{}

// InvalidGrammarError is returned when no rule at all could be recognized.
//
// Detail is named (not embedded anonymously) deliberately: embedding
// *errors.Error under its own type name would declare a field literally
// named "Error", which shadows the *errors.Error.Error() method of the
// same name and would leave this type not satisfying the error interface.
type InvalidGrammarError struct {
	Detail *errors.Error
}

func (e *InvalidGrammarError) Error() string { return e.Detail.Error() }
func (e *InvalidGrammarError) ErrorCode() int { return e.Detail.Code }

func invalidGrammarError() *InvalidGrammarError {
	return &InvalidGrammarError{errors.Format(InvalidGrammarCode, "no rules found in grammar text")}
}

// IncompleteParseError is returned when one or more rules parsed but
// unrecognized text remains. Tail holds the unconsumed suffix.
type IncompleteParseError struct {
	Detail *errors.Error
	Tail   []byte
}

func (e *IncompleteParseError) Error() string { return e.Detail.Error() }
func (e *IncompleteParseError) ErrorCode() int { return e.Detail.Code }

func incompleteParseError(pos source.Pos, tail []byte) *IncompleteParseError {
	msg := "unrecognized grammar text remains"
	return &IncompleteParseError{
		errors.FormatPos(pos, IncompleteParseCode, msg),
		tail,
	}
}

// DuplicateRuleError is returned when a bare "=" redefines an already
// defined rule.
type DuplicateRuleError struct {
	Detail *errors.Error
	Name   string
}

func (e *DuplicateRuleError) Error() string { return e.Detail.Error() }
func (e *DuplicateRuleError) ErrorCode() int { return e.Detail.Code }

func duplicateRuleError(pos source.Pos, name string) *DuplicateRuleError {
	return &DuplicateRuleError{
		errors.FormatPos(pos, DuplicateRuleCode, "rule %q already defined", name),
		name,
	}
}

// UnresolvedRuleError is returned when one or more RuleRefs in the
// grammar have no matching definition.
type UnresolvedRuleError struct {
	Detail *errors.Error
	Names  []string
}

func (e *UnresolvedRuleError) Error() string { return e.Detail.Error() }
func (e *UnresolvedRuleError) ErrorCode() int { return e.Detail.Code }

func unresolvedRuleError(names []string) *UnresolvedRuleError {
	return &UnresolvedRuleError{
		errors.Format(UnresolvedRuleCode, "undefined rules referenced: %s", strings.Join(names, ", ")),
		names,
	}
}

func appendUndefinedRuleError(pos source.Pos, name string) *errors.Error {
	return errors.FormatPos(pos, AppendUndefinedRuleCode, "cannot append alternatives to undefined rule %q", name)
}

func invalidNumericLiteralError(pos source.Pos, text string) *errors.Error {
	return errors.FormatPos(pos, InvalidNumericLiteralCode, "invalid numeric literal %q", text)
}

var _ error = (*InvalidGrammarError)(nil)
var _ error = (*IncompleteParseError)(nil)
var _ error = (*DuplicateRuleError)(nil)
var _ error = (*UnresolvedRuleError)(nil)
