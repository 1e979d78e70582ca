package langdef

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldr/ex-abnf/grammar"
	itest "github.com/ldr/ex-abnf/internal/test"
)

func mustGet(t *testing.T, rs *grammar.RuleSet, name string) *grammar.Rule {
	t.Helper()
	r, ok := rs.Get(name)
	require.True(t, ok, "rule %q not found", name)
	return r
}

func TestParseSimpleRule(t *testing.T) {
	rs, tail, err := ParseString("t", "greeting = \"hi\"\r\n")
	require.NoError(t, err)
	require.Empty(t, tail)
	require.True(t, rs.Has("greeting"))

	rule := mustGet(t, rs, "greeting")
	require.Equal(t, grammar.Concatenation, rule.Element.Kind)
	require.Len(t, rule.Element.Items, 2)
	require.Equal(t, byte('h'), rule.Element.Items[0].Byte)
	require.Equal(t, byte('i'), rule.Element.Items[1].Byte)
}

func TestParseCharValDecomposesByLength(t *testing.T) {
	rs, _, err := ParseString("t", "empty = \"\"\r\nsingle = \"x\"\r\nmulti = \"abc\"\r\n")
	require.NoError(t, err)

	empty := mustGet(t, rs, "empty")
	require.Equal(t, grammar.Concatenation, empty.Element.Kind)
	require.Len(t, empty.Element.Items, 0)

	single := mustGet(t, rs, "single")
	require.Equal(t, grammar.Literal, single.Element.Kind)
	require.Equal(t, byte('x'), single.Element.Byte)

	multi := mustGet(t, rs, "multi")
	require.Equal(t, grammar.Concatenation, multi.Element.Kind)
	require.Len(t, multi.Element.Items, 3)
}

func TestParseAlternationAndRepeat(t *testing.T) {
	rs, _, err := ParseString("t", "digits = 2*4DIGIT\r\nDIGIT = %x30-39\r\n")
	require.NoError(t, err)

	digits := mustGet(t, rs, "digits")
	require.Equal(t, grammar.Repetition, digits.Element.Kind)
	require.Equal(t, uint32(2), digits.Element.Min)
	require.Equal(t, uint32(4), digits.Element.Max)
	require.Equal(t, grammar.RuleRef, digits.Element.Inner.Kind)
	require.Equal(t, "digit", digits.Element.Inner.Ref)
}

func TestParseUnboundedRepeat(t *testing.T) {
	rs, _, err := ParseString("t", "chars = *OCTET\r\nOCTET = %x00-FF\r\n")
	require.NoError(t, err)

	chars := mustGet(t, rs, "chars")
	require.Equal(t, uint32(0), chars.Element.Min)
	require.Equal(t, grammar.Unbounded, chars.Element.Max)
}

func TestParseOptionBracket(t *testing.T) {
	rs, _, err := ParseString("t", "maybe = [\"a\"]\r\n")
	require.NoError(t, err)

	maybe := mustGet(t, rs, "maybe")
	require.Equal(t, grammar.Repetition, maybe.Element.Kind)
	require.Equal(t, uint32(0), maybe.Element.Min)
	require.Equal(t, uint32(1), maybe.Element.Max)
}

func TestParseIncrementalAlternativeAppends(t *testing.T) {
	rs, _, err := ParseString("t", "letter = \"a\"\r\nletter =/ \"b\"\r\n")
	require.NoError(t, err)

	letter := mustGet(t, rs, "letter")
	require.Equal(t, grammar.Alternation, letter.Element.Kind)
	require.Len(t, letter.Element.Items, 2)
}

func TestParseIncrementalOnUndefinedRuleFails(t *testing.T) {
	_, _, err := ParseString("t", "letter =/ \"b\"\r\n")
	require.Error(t, err)
	itest.ExpectErrorCode(t, AppendUndefinedRuleCode, err)
}

func TestParseDuplicateRuleFails(t *testing.T) {
	_, _, err := ParseString("t", "letter = \"a\"\r\nletter = \"b\"\r\n")
	require.Error(t, err)
	itest.ExpectErrorCode(t, DuplicateRuleCode, err)
}

func TestParseEmptyGrammarFails(t *testing.T) {
	_, _, err := ParseString("t", "")
	require.Error(t, err)
	itest.ExpectErrorCode(t, InvalidGrammarCode, err)
}

func TestParseUnresolvedRuleRefFails(t *testing.T) {
	_, _, err := ParseString("t", "top = missing\r\n")
	require.Error(t, err)
	itest.ExpectErrorCode(t, UnresolvedRuleCode, err)
}

func TestParseIncompleteParseReportsTail(t *testing.T) {
	_, tail, err := ParseString("t", "top = \"a\"\r\n***garbage***\r\n")
	require.Error(t, err)
	itest.ExpectErrorCode(t, IncompleteParseCode, err)
	require.NotEmpty(t, tail)
}

func TestParseActionBlockAttachesToRule(t *testing.T) {
	rs, _, err := ParseString("t", "num = 1*DIGIT\r\n!!!\nconvert to int\n!!!\nDIGIT = %x30-39\r\n")
	require.NoError(t, err)

	num := mustGet(t, rs, "num")
	require.NotNil(t, num.Action)
	require.Contains(t, string(num.Action), "convert to int")
}

func TestParseNumValRangeAndConcat(t *testing.T) {
	rs, _, err := ParseString("t", "r = %x41-5A\r\nc = %x48.49\r\n")
	require.NoError(t, err)

	r := mustGet(t, rs, "r")
	require.Equal(t, grammar.NumRange, r.Element.Kind)
	require.Equal(t, byte(0x41), r.Element.Lo)
	require.Equal(t, byte(0x5A), r.Element.Hi)

	c := mustGet(t, rs, "c")
	require.Equal(t, grammar.NumConcat, c.Element.Kind)
	require.Equal(t, []byte{0x48, 0x49}, c.Element.Bytes)
}

func TestParseInvalidNumericRangeFails(t *testing.T) {
	_, _, err := ParseString("t", "bad = %x5A-41\r\n")
	require.Error(t, err)
	itest.ExpectErrorCode(t, InvalidNumericLiteralCode, err)
}

func TestParseProseVal(t *testing.T) {
	rs, _, err := ParseString("t", "p = <anything else>\r\n")
	require.NoError(t, err)

	p := mustGet(t, rs, "p")
	require.Equal(t, grammar.ProseVal, p.Element.Kind)
	require.Equal(t, "anything else", p.Element.Prose)
}

func TestParseCommentsAndBlankLinesAreIgnored(t *testing.T) {
	src := "; leading comment\r\n\r\ntop = \"a\" ; trailing comment\r\n"
	rs, tail, err := ParseString("t", src)
	require.NoError(t, err)
	require.Empty(t, tail)
	require.True(t, rs.Has("top"))
}

func TestParseFoldedLineContinuation(t *testing.T) {
	src := "top = \"a\"\r\n / \"b\"\r\n"
	rs, _, err := ParseString("t", src)
	require.NoError(t, err)

	top := mustGet(t, rs, "top")
	require.Equal(t, grammar.Alternation, top.Element.Kind)
	require.Len(t, top.Element.Items, 2)
}
